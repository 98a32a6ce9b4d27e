// Package config loads the frontend configuration from built-in defaults, an
// optional YAML file and environment variables. The defaults reproduce the
// fixed listen address and upstream URL, so the binary runs with no file at all.
package config
