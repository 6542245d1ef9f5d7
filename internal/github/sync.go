package github

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/devforge/devforge/internal/configs"
	derrors "github.com/devforge/devforge/internal/errors"
	logger "github.com/devforge/devforge/internal/logging"

	"golang.org/x/crypto/nacl/box"
)

// SealFunc encrypts plaintext so that only the holder of the private half of
// recipient can open it.
type SealFunc func(plaintext []byte, recipient *[32]byte) ([]byte, error)

// SealAnonymous is the libsodium sealed box GitHub expects. The ephemeral
// sender key is discarded after sealing.
func SealAnonymous(plaintext []byte, recipient *[32]byte) ([]byte, error) {
	return box.SealAnonymous(nil, plaintext, recipient, rand.Reader)
}

// SecretSource is the read side of the secrets store.
type SecretSource interface {
	List() ([]string, error)
	Get(name string) ([]byte, error)
}

// SyncOptions controls one sync run.
type SyncOptions struct {
	// Exclude lists names that are not uploaded. The bootstrap secret is
	// always excluded.
	Exclude []string

	// DryRun plans the upload without contacting GitHub.
	DryRun bool
}

// Outcome is the result for one secret that could not be synced.
type Outcome struct {
	Name string
	Err  error
}

// SyncReport summarizes a sync run by secret name.
type SyncReport struct {
	Repo     Repo
	DryRun   bool
	Planned  []string
	Uploaded []string
	Excluded []string
	Failed   []Outcome
}

// PartialSyncError reports the secrets that failed while others succeeded.
type PartialSyncError struct {
	Total  int
	Failed []Outcome
}

func (e *PartialSyncError) Error() string {
	names := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		names[i] = f.Name
	}
	return fmt.Sprintf("%d of %d secrets failed to sync: %s", len(e.Failed), e.Total, strings.Join(names, ", "))
}

func (e *PartialSyncError) Unwrap() error { return derrors.ErrPartialSync }

// Syncer uploads store entries as GitHub Actions repository secrets.
type Syncer struct {
	store     SecretSource
	bootstrap string
	newAPI    func(token string) (SecretsAPI, error)
	log       logger.Logger

	// Seal is replaceable for tests; SealAnonymous by default.
	Seal SealFunc
}

// NewSyncer returns a syncer that authenticates with the store's bootstrap
// secret and talks to cfg.GitHub.APIURL.
func NewSyncer(store SecretSource, cfg configs.Config, log logger.Logger) *Syncer {
	return &Syncer{
		store:     store,
		bootstrap: cfg.BootstrapSecret,
		newAPI: func(token string) (SecretsAPI, error) {
			return NewClient(cfg.GitHub, token, log)
		},
		log:  log,
		Seal: SealAnonymous,
	}
}

// Sync uploads every non-excluded secret in store order. Auth and transport
// failures while fetching the public key abort before any upload. Failures
// of individual secrets are collected and returned as *PartialSyncError
// alongside the report.
func (s *Syncer) Sync(ctx context.Context, repo Repo, opts SyncOptions) (*SyncReport, error) {
	names, err := s.store.List()
	if err != nil {
		return nil, err
	}

	excluded := map[string]bool{s.bootstrap: true}
	for _, name := range opts.Exclude {
		excluded[name] = true
	}

	report := &SyncReport{Repo: repo, DryRun: opts.DryRun}
	for _, name := range names {
		if excluded[name] {
			report.Excluded = append(report.Excluded, name)
			continue
		}
		report.Planned = append(report.Planned, name)
	}

	if opts.DryRun {
		s.log.Infof("Dry run: %d secrets would be uploaded to %s", len(report.Planned), repo)
		return report, nil
	}

	api, err := s.authenticate()
	if err != nil {
		return nil, s.bootstrapError(err)
	}

	key, err := api.PublicKey(ctx, repo)
	if err != nil {
		return nil, s.bootstrapError(err)
	}
	s.log.Debugf("Fetched public key %s for %s", key.KeyID, repo)

	for _, name := range report.Planned {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := s.syncOne(ctx, api, repo, key, name); err != nil {
			s.log.Warnf("Failed to sync %s: %v", name, err)
			report.Failed = append(report.Failed, Outcome{Name: name, Err: err})
			continue
		}
		s.log.Infof("Uploaded %s", name)
		report.Uploaded = append(report.Uploaded, name)
	}

	if len(report.Failed) > 0 {
		return report, &PartialSyncError{Total: len(report.Planned), Failed: report.Failed}
	}
	return report, nil
}

func (s *Syncer) authenticate() (SecretsAPI, error) {
	token, err := s.store.Get(s.bootstrap)
	if err != nil {
		if errors.Is(err, derrors.ErrSecretNotFound) {
			return nil, fmt.Errorf("%w: not in the store (run `devforge secrets set %s`)", derrors.ErrAuth, s.bootstrap)
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(token))) == 0 {
		return nil, fmt.Errorf("%w: the stored value is empty", derrors.ErrAuth)
	}
	return s.newAPI(strings.TrimSpace(string(token)))
}

// bootstrapError names the token secret on authentication failures so the
// caller can point at the configured entry.
func (s *Syncer) bootstrapError(err error) error {
	if errors.Is(err, derrors.ErrAuth) {
		return &derrors.SecretError{Name: s.bootstrap, Err: err}
	}
	return err
}

func (s *Syncer) syncOne(ctx context.Context, api SecretsAPI, repo Repo, key *PublicKey, name string) error {
	value, err := s.store.Get(name)
	if err != nil {
		return err
	}

	sealed, err := s.Seal(value, &key.Key)
	if err != nil {
		return fmt.Errorf("failed to seal %s: %w", name, err)
	}

	return api.PutSecret(ctx, repo, key, name, sealed)
}
