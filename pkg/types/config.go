package types

import "time"

// HTTPConfig holds HTTP settings for the search request.
type HTTPConfig struct {
	// Timeout bounds the whole request, including reading the body.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with requests (e.g. "biblioscope/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ClientConfig is the immutable configuration handed to the search client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is sent in the X-ELS-APIKey header.
	APIKey string `json:"-" yaml:"-"`

	// Endpoint is the Scopus search URL.
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// Config groups every setting resolved at startup.
type Config struct {
	Client ClientConfig `json:"client" yaml:"client"`

	// DefaultCount is the result count used when --count is not given.
	DefaultCount int `json:"default_count" yaml:"default_count"`

	// HistoryPath is the sqlite database recording past searches. Empty disables history.
	HistoryPath string `json:"history_path" yaml:"history_path"`
}
