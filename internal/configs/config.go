package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// StoreFileName is the project-relative store file.
	StoreFileName = ".secrets.devforge"

	// EnvFileName is the project-relative runtime env file written by inject.
	EnvFileName = ".env.secrets"

	// ProjectConfigFileName is the optional project configuration file.
	ProjectConfigFileName = "devforge.toml"

	// DefaultBootstrapSecret is the store entry used to authenticate sync.
	DefaultBootstrapSecret = "GITHUB_TOKEN"

	// KeyringService scopes the key in the platform secure store.
	KeyringService = "devforge"

	// KeyringAccount is the fixed item identifier of the key.
	KeyringAccount = "master-key"

	// DefaultGitHubAPI is the public GitHub REST endpoint.
	DefaultGitHubAPI = "https://api.github.com/"
)

// Config is the explicit configuration handed to every component constructor.
type Config struct {
	ProjectPath     string
	StorePath       string
	EnvPath         string
	AuditPath       string
	BootstrapSecret string
	LockTimeout     time.Duration
	Key             KeyConfig
	GitHub          GitHubConfig
}

// KeyConfig locates the symmetric key.
type KeyConfig struct {
	// FilePath is the fallback key file, outside the project tree.
	FilePath string

	// UseKeyring enables the platform secure store.
	UseKeyring bool

	Service string
	Account string
}

// GitHubConfig controls the sync client.
type GitHubConfig struct {
	APIURL       string
	Repo         string
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// FileConfig is the on-disk shape of devforge.toml. Unset fields keep defaults.
type FileConfig struct {
	Store           string `toml:"store"`
	EnvFile         string `toml:"env_file"`
	BootstrapSecret string `toml:"bootstrap_secret"`
	LockTimeout     string `toml:"lock_timeout"`

	Key struct {
		File    string `toml:"file"`
		Keyring *bool  `toml:"keyring"`
	} `toml:"key"`

	GitHub struct {
		APIURL       string `toml:"api_url"`
		Repo         string `toml:"repo"`
		Timeout      string `toml:"timeout"`
		MaxRetries   *int   `toml:"max_retries"`
		RetryWaitMin string `toml:"retry_wait_min"`
		RetryWaitMax string `toml:"retry_wait_max"`
	} `toml:"github"`
}

// Default returns the built-in configuration for a project rooted at projectPath.
func Default(projectPath string) (Config, error) {
	keyFile, err := DefaultKeyFilePath()
	if err != nil {
		return Config{}, err
	}

	return Config{
		ProjectPath:     projectPath,
		StorePath:       filepath.Join(projectPath, StoreFileName),
		EnvPath:         filepath.Join(projectPath, EnvFileName),
		AuditPath:       filepath.Join(projectPath, ".devforge", "audit.jsonl"),
		BootstrapSecret: DefaultBootstrapSecret,
		LockTimeout:     5 * time.Second,
		Key: KeyConfig{
			FilePath:   keyFile,
			UseKeyring: true,
			Service:    KeyringService,
			Account:    KeyringAccount,
		},
		GitHub: GitHubConfig{
			APIURL:       DefaultGitHubAPI,
			Timeout:      15 * time.Second,
			MaxRetries:   3,
			RetryWaitMin: 500 * time.Millisecond,
			RetryWaitMax: 5 * time.Second,
		},
	}, nil
}

// Load builds the configuration: defaults, then devforge.toml, then environment.
func Load(projectPath string) (Config, error) {
	cfg, err := Default(projectPath)
	if err != nil {
		return Config{}, err
	}

	configPath := filepath.Join(projectPath, ProjectConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		var fc FileConfig
		if err := LoadTOML(configPath, &fc); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", configPath, err)
		}
		if err := cfg.apply(fc); err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to check for %s: %w", configPath, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.checkKeyOutsideProject(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) apply(fc FileConfig) error {
	if fc.Store != "" {
		c.StorePath = c.resolve(fc.Store)
	}
	if fc.EnvFile != "" {
		c.EnvPath = c.resolve(fc.EnvFile)
	}
	if fc.BootstrapSecret != "" {
		c.BootstrapSecret = fc.BootstrapSecret
	}
	if err := parseDuration(fc.LockTimeout, &c.LockTimeout); err != nil {
		return fmt.Errorf("lock_timeout: %w", err)
	}

	if fc.Key.File != "" {
		keyFile, err := resolveKeyFile(fc.Key.File)
		if err != nil {
			return fmt.Errorf("key.file: %w", err)
		}
		c.Key.FilePath = keyFile
	}
	if fc.Key.Keyring != nil {
		c.Key.UseKeyring = *fc.Key.Keyring
	}

	if fc.GitHub.APIURL != "" {
		c.GitHub.APIURL = fc.GitHub.APIURL
	}
	if fc.GitHub.Repo != "" {
		c.GitHub.Repo = fc.GitHub.Repo
	}
	if fc.GitHub.MaxRetries != nil {
		if *fc.GitHub.MaxRetries < 0 {
			return fmt.Errorf("github.max_retries must not be negative")
		}
		c.GitHub.MaxRetries = *fc.GitHub.MaxRetries
	}
	if err := parseDuration(fc.GitHub.Timeout, &c.GitHub.Timeout); err != nil {
		return fmt.Errorf("github.timeout: %w", err)
	}
	if err := parseDuration(fc.GitHub.RetryWaitMin, &c.GitHub.RetryWaitMin); err != nil {
		return fmt.Errorf("github.retry_wait_min: %w", err)
	}
	if err := parseDuration(fc.GitHub.RetryWaitMax, &c.GitHub.RetryWaitMax); err != nil {
		return fmt.Errorf("github.retry_wait_max: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DEVFORGE_KEY_FILE"); v != "" {
		keyFile, err := resolveKeyFile(v)
		if err != nil {
			return fmt.Errorf("DEVFORGE_KEY_FILE: %w", err)
		}
		c.Key.FilePath = keyFile
	}
	if v := os.Getenv("DEVFORGE_NO_KEYRING"); v != "" {
		disabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DEVFORGE_NO_KEYRING: %w", err)
		}
		if disabled {
			c.Key.UseKeyring = false
		}
	}
	if v := os.Getenv("DEVFORGE_GITHUB_API"); v != "" {
		c.GitHub.APIURL = v
	}
	return nil
}

// checkKeyOutsideProject rejects a key file inside the project tree, where
// it could be committed next to the store it protects.
func (c *Config) checkKeyOutsideProject() error {
	project, err := filepath.Abs(c.ProjectPath)
	if err != nil {
		return fmt.Errorf("failed to resolve project path: %w", err)
	}
	key, err := filepath.Abs(c.Key.FilePath)
	if err != nil {
		return fmt.Errorf("failed to resolve key file path: %w", err)
	}

	rel, err := filepath.Rel(project, key)
	if err != nil {
		return nil
	}
	if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("key file %s is inside the project %s; move it outside the repository", key, project)
	}
	return nil
}

// resolveKeyFile anchors a relative key file path at the devforge data
// directory rather than the working directory.
func resolveKeyFile(p string) (string, error) {
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, p), nil
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectPath, p)
}

func parseDuration(s string, dst *time.Duration) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	*dst = d
	return nil
}
