package search

import "time"

// Defaults applied by Config.withDefaults.
const (
	DefaultTopK         = 100
	DefaultMaxResults   = 20
	DefaultCutoff       = 0.7
	DefaultIndexTimeout = 10 * time.Second
)

// Config holds retrieval and ranking parameters.
type Config struct {
	// StrictKeys are enforced at the index; empty means location and career_domain.
	StrictKeys []string
	// Cutoff is the minimum similarity for Tier 1 and Tier 2.
	Cutoff float64
	// TopK is the number of documents requested per Tier 1 and Tier 2 call.
	TopK int
	// Tier3Cutoff and Tier3TopK configure the last, unconstrained attempt.
	Tier3Cutoff float64
	Tier3TopK   int
	// MaxResults truncates the ranked list when a request sets no limit.
	MaxResults int
	// IndexTimeout bounds every single index call.
	IndexTimeout time.Duration
	// PopupURL is the resume viewer base URL; empty disables resume links.
	PopupURL string
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Cutoff:       DefaultCutoff,
		TopK:         DefaultTopK,
		Tier3Cutoff:  DefaultCutoff,
		Tier3TopK:    DefaultTopK,
		MaxResults:   DefaultMaxResults,
		IndexTimeout: DefaultIndexTimeout,
	}
}

func (c Config) withDefaults() Config {
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.Tier3TopK <= 0 {
		c.Tier3TopK = c.TopK
	}
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.IndexTimeout <= 0 {
		c.IndexTimeout = DefaultIndexTimeout
	}
	return c
}
