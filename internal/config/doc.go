// Package config loads the options-flow engine configuration from YAML.
//
// Values of the form ${VAR} are expanded from the environment before
// parsing. Missing optional fields receive defaults; Validate rejects
// configurations the engine cannot run with.
package config
