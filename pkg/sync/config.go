package sync

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DefaultMaxVersions is how many timestamped snapshots survive pruning.
const DefaultMaxVersions = 3

// Options configures the syncer. Populated from the `sync` section of the
// config file.
type Options struct {
	MaxVersions int    `mapstructure:"max_versions"`
	Description string `mapstructure:"description"`
	AutoSync    bool   `mapstructure:"auto_sync"`
}

// DecodeOptions builds Options from a raw config map, applying defaults for
// anything unset.
func DecodeOptions(raw map[string]interface{}) (Options, error) {
	opts := Options{
		MaxVersions: DefaultMaxVersions,
		Description: "cmdvault backup",
		AutoSync:    true,
	}
	if raw == nil {
		return opts, nil
	}
	if err := mapstructure.Decode(raw, &opts); err != nil {
		return opts, fmt.Errorf("decode sync options: %w", err)
	}
	if opts.MaxVersions < 1 {
		opts.MaxVersions = DefaultMaxVersions
	}
	return opts, nil
}
