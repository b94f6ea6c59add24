// Package config handles configuration loading and management for speclab.
//
// It provides functionality for:
//   - Loading configuration from .speclab.yml, .speclab.yaml, speclab.yml
//     or speclab.config.json files
//   - Default configuration values
//   - Merging command line overrides on top of file values
//   - Applying engine settings (precision, hook mode, retries, slow) to a suite
package config
