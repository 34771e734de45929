// Package config loads the server configuration from defaults, an optional
// file, TASKHUB_* environment variables and bound command-line flags, and
// validates the result with struct tags before anything is started.
package config
