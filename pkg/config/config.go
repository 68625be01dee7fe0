// Package config loads strata settings from a YAML document and the
// process environment and hands them to the parsing and fusion packages
// as their native configuration structs.
package config

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/strata/pkg/ags"
	"github.com/fyrsmithlabs/strata/pkg/batch"
	"github.com/fyrsmithlabs/strata/pkg/borelog"
	"github.com/fyrsmithlabs/strata/pkg/geotech"
)

// ErrInvalidSettings indicates settings that fail validation in this
// package. Settings validated by the target package keep that package's
// sentinel.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the complete strata configuration.
type Settings struct {
	Parser     ParserSettings
	Batch      BatchSettings
	Rockhead   RockheadSettings
	Scan       ScanSettings
	Dictionary DictionarySettings
}

// ParserSettings configures exchange-file parsing.
type ParserSettings struct {
	Encoding              string `koanf:"encoding"`
	MaxFileSize           int    `koanf:"max_file_size"`
	ContinuationSeparator string `koanf:"continuation_separator"`

	// DisableAliases turns off the built-in group and column spelling
	// aliases, leaving names exactly as produced.
	DisableAliases bool `koanf:"disable_aliases"`
}

// BatchSettings configures multi-file concatenation.
type BatchSettings struct {
	Label       string   `koanf:"label"`
	MaxParallel int      `koanf:"max_parallel"`
	HoleColumns []string `koanf:"hole_columns"`
}

// RockheadSettings configures the rockhead service.
type RockheadSettings struct {
	Threshold        float64 `koanf:"threshold"`
	MinRunLength     float64 `koanf:"min_run_length"`
	CoreRunLength    float64 `koanf:"core_run_length"`
	IncludeWeakZones bool    `koanf:"include_weak_zones"`
	MaxGrade         float64 `koanf:"max_grade"`
}

// ScanSettings configures callers driving the generic run scanner
// directly, independent of the rockhead service.
type ScanSettings struct {
	Threshold        float64 `koanf:"threshold"`
	MinRunLength     float64 `koanf:"min_run_length"`
	CoreRunLength    float64 `koanf:"core_run_length"`
	IncludeWeakZones bool    `koanf:"include_weak_zones"`
}

// DictionarySettings points at keyword dictionary overrides.
type DictionarySettings struct {
	// Path names a TOML dictionary file. Empty uses the built-in tables.
	Path string `koanf:"path"`
}

// applyDefaults fills unset fields from each package's defaults.
func applyDefaults(s *Settings) {
	pd := ags.DefaultConfig()
	if s.Parser.Encoding == "" {
		s.Parser.Encoding = pd.Encoding
	}
	if s.Parser.MaxFileSize == 0 {
		s.Parser.MaxFileSize = pd.MaxFileSize
	}
	if s.Parser.ContinuationSeparator == "" {
		s.Parser.ContinuationSeparator = pd.ContinuationSeparator
	}

	bd := batch.DefaultConfig()
	if s.Batch.Label == "" {
		s.Batch.Label = bd.Label
	}
	if s.Batch.MaxParallel == 0 {
		s.Batch.MaxParallel = bd.MaxParallel
	}
	if len(s.Batch.HoleColumns) == 0 {
		s.Batch.HoleColumns = bd.HoleColumns
	}

	rd := geotech.DefaultConfig()
	if s.Rockhead.Threshold == 0 {
		s.Rockhead.Threshold = rd.Threshold
	}
	if s.Rockhead.MinRunLength == 0 {
		s.Rockhead.MinRunLength = rd.MinRunLength
	}
	if s.Rockhead.CoreRunLength == 0 {
		s.Rockhead.CoreRunLength = rd.CoreRunLength
	}
	if s.Rockhead.MaxGrade == 0 {
		s.Rockhead.MaxGrade = rd.MaxGrade
	}

	sd := borelog.DefaultScanConfig()
	if s.Scan.Threshold == 0 {
		s.Scan.Threshold = sd.Threshold
	}
	if s.Scan.MinRunLength == 0 {
		s.Scan.MinRunLength = sd.MinRunLength
	}
	if s.Scan.CoreRunLength == 0 {
		s.Scan.CoreRunLength = sd.CoreRunLength
	}
}

// Validate checks the settings, delegating to the target packages where
// they validate their own configuration.
func (s *Settings) Validate() error {
	if err := s.ToParser().Validate(); err != nil {
		return fmt.Errorf("parser: %w", err)
	}
	if err := s.ToBatch().Validate(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := s.ToRockhead().Validate(); err != nil {
		return fmt.Errorf("rockhead: %w", err)
	}
	if s.Scan.Threshold < 0 || s.Scan.Threshold > 100 {
		return fmt.Errorf("%w: scan threshold must be within [0, 100], got %g", ErrInvalidSettings, s.Scan.Threshold)
	}
	if s.Scan.MinRunLength <= 0 {
		return fmt.Errorf("%w: scan min run length must be positive, got %g", ErrInvalidSettings, s.Scan.MinRunLength)
	}
	if s.Scan.CoreRunLength < 0 {
		return fmt.Errorf("%w: scan core run length cannot be negative, got %g", ErrInvalidSettings, s.Scan.CoreRunLength)
	}
	return nil
}

// ToParser returns the parser configuration.
func (s *Settings) ToParser() *ags.Config {
	cfg := ags.DefaultConfig()
	cfg.Encoding = s.Parser.Encoding
	cfg.MaxFileSize = s.Parser.MaxFileSize
	cfg.ContinuationSeparator = s.Parser.ContinuationSeparator
	if s.Parser.DisableAliases {
		cfg.GroupAliases = map[string]string{}
		cfg.ColumnAliases = map[string]string{}
	}
	return cfg
}

// ToBatch returns the batch processor configuration.
func (s *Settings) ToBatch() *batch.Config {
	return &batch.Config{
		Label:       s.Batch.Label,
		MaxParallel: s.Batch.MaxParallel,
		HoleColumns: append([]string(nil), s.Batch.HoleColumns...),
	}
}

// ToRockhead returns the rockhead service configuration. The dictionary
// path rides along so the service loads the same keyword tables.
func (s *Settings) ToRockhead() *geotech.Config {
	return &geotech.Config{
		Threshold:        s.Rockhead.Threshold,
		MinRunLength:     s.Rockhead.MinRunLength,
		CoreRunLength:    s.Rockhead.CoreRunLength,
		IncludeWeakZones: s.Rockhead.IncludeWeakZones,
		MaxGrade:         s.Rockhead.MaxGrade,
		DictionaryPath:   s.Dictionary.Path,
	}
}

// ToScan returns the generic scanner configuration.
func (s *Settings) ToScan() borelog.ScanConfig {
	return borelog.ScanConfig{
		Threshold:        s.Scan.Threshold,
		MinRunLength:     s.Scan.MinRunLength,
		CoreRunLength:    s.Scan.CoreRunLength,
		IncludeWeakZones: s.Scan.IncludeWeakZones,
	}
}
