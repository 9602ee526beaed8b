package main

import "github.com/indralab/network-search/internal/config"

// loadConfig reads configPath if one was given on the command line,
// otherwise falls back to defaults overlaid with NETSEARCH_ env vars.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadFromEnv()
}
