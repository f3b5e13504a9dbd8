// Package config loads the demo daemon's ingest/publish settings via
// envconfig struct tags.
package config

import "github.com/kelseyhightower/envconfig"

// Config holds the aribcaptiond daemon's tuning knobs. The b24 decoder
// library itself takes Type/Profile/LanguageId as explicit constructor
// arguments and never reads the environment.
type Config struct {
	HTTPPort int32  `required:"true" default:"8080"`
	HTTPHost string `required:"true" default:"0.0.0.0"`

	SRTHost     string `required:"true" default:"0.0.0.0"`
	SRTPort     uint16 `required:"true" default:"9080"`
	SRTStreamID string `required:"true" default:"aribcaption"`
	// SRTConnectionLatencyMS is the SRT receiver buffering latency.
	SRTConnectionLatencyMS int32 `required:"true" default:"300"`
	// SRTReadBufferSizeBytes matches the largest multiple of the 188-byte
	// MPEG-TS packet size that still fits under a 1500-byte MTU.
	SRTReadBufferSizeBytes int `required:"true" default:"1316"`

	StunServers []string `required:"true" default:"stun:stun.l.google.com:19302"`

	// CaptionLanguageId selects which management-data language slot the
	// decoder reports (spec §6 LanguageId, 0..7, or -1 for "first seen").
	CaptionLanguageId int `required:"true" default:"0"`
}

// Load reads Config from the "ARIBCAPTIOND_"-prefixed environment.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("aribcaptiond", &c); err != nil {
		return nil, err
	}
	return &c, nil
}
