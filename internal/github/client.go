package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/devforge/devforge/internal/configs"
	derrors "github.com/devforge/devforge/internal/errors"
	logger "github.com/devforge/devforge/internal/logging"

	gh "github.com/google/go-github/v66/github"
	"github.com/hashicorp/go-retryablehttp"
)

// PublicKey is a repository's sealed-box public key. It is fetched per sync
// and never persisted.
type PublicKey struct {
	KeyID string
	Key   [32]byte
}

// SecretsAPI is the slice of the GitHub Actions secrets API that sync uses.
type SecretsAPI interface {
	PublicKey(ctx context.Context, repo Repo) (*PublicKey, error)
	PutSecret(ctx context.Context, repo Repo, key *PublicKey, name string, sealed []byte) error
}

// Client talks to the GitHub REST API through a retrying transport.
type Client struct {
	api *gh.Client
}

// NewClient builds a client authenticated with token. Connection errors,
// 429 and 5xx responses are retried with backoff; other 4xx are not.
func NewClient(cfg configs.GitHubConfig, token string, log logger.Logger) (*Client, error) {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	if cfg.RetryWaitMin > 0 {
		rc.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		rc.RetryWaitMax = cfg.RetryWaitMax
	}
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}
	rc.Logger = leveledLogger{log: log}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	api := gh.NewClient(rc.StandardClient()).WithAuthToken(token)

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = configs.DefaultGitHubAPI
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	base, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.APIURL, err)
	}
	api.BaseURL = base

	return &Client{api: api}, nil
}

func (c *Client) PublicKey(ctx context.Context, repo Repo) (*PublicKey, error) {
	key, resp, err := c.api.Actions.GetRepoPublicKey(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, classify("fetch public key for "+repo.String(), resp, err)
	}

	raw, err := base64.StdEncoding.DecodeString(key.GetKey())
	if err != nil || len(raw) != 32 {
		return nil, fmt.Errorf("repository %s returned a malformed public key", repo)
	}

	pk := &PublicKey{KeyID: key.GetKeyID()}
	copy(pk.Key[:], raw)
	return pk, nil
}

func (c *Client) PutSecret(ctx context.Context, repo Repo, key *PublicKey, name string, sealed []byte) error {
	resp, err := c.api.Actions.CreateOrUpdateRepoSecret(ctx, repo.Owner, repo.Name, &gh.EncryptedSecret{
		Name:           name,
		KeyID:          key.KeyID,
		EncryptedValue: base64.StdEncoding.EncodeToString(sealed),
	})
	if err != nil {
		return classify("upload", resp, err)
	}
	return nil
}

// classify maps a go-github error onto the sync error kinds.
func classify(op string, resp *gh.Response, err error) error {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %s: rate limited by GitHub", derrors.ErrNetwork, op)
	}

	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}

	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden, status == http.StatusNotFound:
		return fmt.Errorf("%w: %s: GitHub returned %d (check the token's scopes and the repository name)", derrors.ErrAuth, op, status)
	case status >= 500:
		return fmt.Errorf("%w: %s: GitHub returned %d", derrors.ErrNetwork, op, status)
	case status != 0:
		return fmt.Errorf("%s: GitHub returned %d: %w", op, status, err)
	default:
		return fmt.Errorf("%w: %s: %v", derrors.ErrNetwork, op, err)
	}
}

// leveledLogger routes retryablehttp's logs through the CLI logger.
type leveledLogger struct {
	log logger.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Errorf("%s", formatKV(msg, keysAndValues))
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Infof("%s", formatKV(msg, keysAndValues))
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debugf("%s", formatKV(msg, keysAndValues))
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warnf("%s", formatKV(msg, keysAndValues))
}

func formatKV(msg string, keysAndValues []interface{}) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	return b.String()
}
