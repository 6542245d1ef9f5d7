// Package configs builds the explicit configuration value that devforge
// components receive at construction time.
//
// There is no package-level state. Commands call Load with the project root
// and pass the resulting Config down.
//
// # Layering
//
// Values are resolved in this order, later layers winning:
//
//   - Built-in defaults (Default)
//   - devforge.toml at the project root
//   - Environment: DEVFORGE_KEY_FILE, DEVFORGE_NO_KEYRING, DEVFORGE_GITHUB_API
//
// A minimal devforge.toml:
//
//	bootstrap_secret = "GITHUB_TOKEN"
//
//	[key]
//	keyring = false
//
//	[github]
//	repo = "acme/api"
//	timeout = "20s"
//
// # Scanner Configuration
//
// The leak scanner reads .devforge-scan.yaml from the scan root via
// LoadScanConfig. Missing files yield DefaultScanConfig.
package configs
