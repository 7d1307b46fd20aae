// Package config loads the logging policy and behaviour flags from
// <root>/system/configs.json (or configs.yaml) exactly once per process and
// merges in the deployment profile from the environment store. The profile is
// never read from the configuration file itself.
package config
