package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// envPrefix selects the environment variables the loader reads.
	envPrefix = "STRATA_"

	maxSettingsFileSize = 1024 * 1024
)

// Load builds settings from an optional YAML document, then overrides
// with environment variables.
//
// Precedence, highest first:
//  1. Environment variables (STRATA_BATCH_LABEL, STRATA_ROCKHEAD_THRESHOLD, ...)
//  2. The YAML document
//  3. Package defaults
//
// Environment variables map section-first: the first underscore after the
// prefix separates the section from the field name, so
// STRATA_PARSER_MAX_FILE_SIZE becomes parser.max_file_size.
func Load(content []byte) (*Settings, error) {
	k := koanf.New(".")

	if len(content) > 0 {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing settings: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}

	applyDefaults(&s)

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validating settings: %w", err)
	}
	return &s, nil
}

// LoadFile loads settings from a YAML file. A missing file is not an
// error: the environment and defaults still apply, matching how the
// keyword dictionary treats an absent override file.
func LoadFile(path string) (*Settings, error) {
	if path == "" {
		return Load(nil)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Load(nil)
		}
		return nil, fmt.Errorf("opening settings file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat settings file: %w", err)
	}
	if info.Size() > maxSettingsFileSize {
		return nil, fmt.Errorf("%w: settings file is %d bytes (max %d)", ErrInvalidSettings, info.Size(), maxSettingsFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}
	return Load(content)
}

// envTransform maps one environment key to a settings key:
// STRATA_ROCKHEAD_INCLUDE_WEAK_ZONES -> rockhead.include_weak_zones.
func envTransform(key string) string {
	lower := strings.ToLower(strings.TrimPrefix(key, envPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}
