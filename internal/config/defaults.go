package config

import "github.com/hyperjump/resumatch/internal/matcher"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/resumatch/data/db/applicants.db"
	}
	if cfg.Search.DefaultAlgorithm == "" {
		cfg.Search.DefaultAlgorithm = string(matcher.KMP)
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 1000
	}
	if cfg.Search.FuzzyThreshold == 0 {
		cfg.Search.FuzzyThreshold = matcher.DefaultThreshold
	}
	if cfg.Search.AlphabetSize == 0 {
		cfg.Search.AlphabetSize = matcher.DefaultAlphabetSize
	}
	if cfg.Import.Extensions == nil {
		cfg.Import.Extensions = []string{".pdf"}
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = cfg.Import.Extensions
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
