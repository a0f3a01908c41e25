// Package config loads the SDK configuration from a TOML file.
//
// # Overview
//
// Configuration is an explicit value passed to the HTTP client at
// construction. There is no process-wide environment selector: two clients
// pointed at different environments can live side by side.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/bearbasic/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Environment: production (https://api.beartranslate.com)
//   - API version: v1, so the base URL is <domain>/api/v1
//   - Request timeout: 300s
//   - Store: file at ~/.config/bearbasic/store.toml
//
// # TOML Format
//
//	environment = "test"          # production | test | local
//	api_version = "v1"
//	domain = "http://127.0.0.1:3000"  # optional override
//	timeout = "300s"
//	store = "file"                # file | memory | redis
//	store_path = "~/.config/bearbasic/store.toml"
//	redis_addr = "127.0.0.1:6379"
//	redis_prefix = "bearbasic"
//	app_version = "1.0.0"
//	bundle_id = "com.example.app"
//	log_level = "info"
//
// # Error Handling
//
// Load returns errors for unreadable files, TOML syntax errors and invalid
// values (unknown environment or store, malformed timeout, redis store
// without an address). A missing file is not an error.
package config
