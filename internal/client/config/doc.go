// Package config loads the console's settings: defaults, then an optional
// JSON or YAML file named by -c/-config, then command-line flags.
package config
