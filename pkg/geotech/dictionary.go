package geotech

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Keyword pairs a search string with the code it assigns. Matching is a
// case-sensitive substring test: survey descriptions are conventionally
// upper-case and partial tokens ("GRAV") are deliberate.
type Keyword struct {
	Match string `toml:"match"`
	Code  string `toml:"code"`
}

// Dictionary holds the keyword tables driving soil classification, rock
// detection, and weak-zone tagging. Order matters for SoilTypes (the last
// matching entry wins) and GrainSizes (codes are emitted in table order).
type Dictionary struct {
	SoilTypes    []Keyword `toml:"soil_types"`
	GrainSizes   []Keyword `toml:"grain_sizes"`
	RockKeywords []string  `toml:"rock_keywords"`
	NoRecovery   []string  `toml:"no_recovery"`
	WeakZones    []string  `toml:"weak_zones"`
}

// DefaultDictionary returns the built-in keyword tables.
func DefaultDictionary() *Dictionary {
	return &Dictionary{
		SoilTypes: []Keyword{
			{Match: "TOPSOIL", Code: "TS"},
			{Match: "TOP SOIL", Code: "TS"},
			{Match: "MARINE DEPOSIT", Code: "MD"},
			{Match: "MARINE", Code: "MD"},
			{Match: "ALLUVIUM", Code: "ALL"},
			{Match: "ALL", Code: "ALL"},
			{Match: "COLLUVIUM", Code: "COLL"},
			{Match: "COLL", Code: "COLL"},
			{Match: "ESTUARINE DEPOSIT", Code: "ED"},
			{Match: "EST", Code: "ED"},
			{Match: "FILL", Code: "FILL"},
		},
		GrainSizes: []Keyword{
			{Match: "CLAY", Code: "c"},
			{Match: "FINE", Code: "c/z"},
			{Match: "SILT/CLAY", Code: "c/z"},
			{Match: "SILT", Code: "z"},
			{Match: "SAND", Code: "s"},
			{Match: "GRAV", Code: "g"},
			{Match: "COBBLE", Code: "cb"},
			{Match: "CBBL", Code: "cb"},
			{Match: "BOULDER", Code: "bd"},
			{Match: "BLDR", Code: "bd"},
		},
		RockKeywords: []string{
			"GRANITE",
			"GRANODIORITE",
			"TUFF",
			"VOLCANIC",
			"DOLERITE",
			"BASALT",
			"RHYOLITE",
			"MARBLE",
			"SILTSTONE",
			"SANDSTONE",
		},
		NoRecovery: []string{"NR", "N.R."},
		WeakZones:  []string{"MODERATELY WEAK", "WEAK"},
	}
}

// LoadDictionary reads keyword tables from a TOML file. An empty path or a
// missing file yields the defaults. A table present in the file replaces
// the corresponding default table wholesale; absent tables keep their
// defaults.
func LoadDictionary(path string) (*Dictionary, error) {
	dict := DefaultDictionary()
	if path == "" {
		return dict, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dict, nil
		}
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	var file Dictionary
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing dictionary %s: %w", path, err)
	}
	if len(file.SoilTypes) > 0 {
		dict.SoilTypes = file.SoilTypes
	}
	if len(file.GrainSizes) > 0 {
		dict.GrainSizes = file.GrainSizes
	}
	if len(file.RockKeywords) > 0 {
		dict.RockKeywords = file.RockKeywords
	}
	if len(file.NoRecovery) > 0 {
		dict.NoRecovery = file.NoRecovery
	}
	if len(file.WeakZones) > 0 {
		dict.WeakZones = file.WeakZones
	}
	return dict, nil
}

// RockMatch reports whether a description names a rock type.
func (d *Dictionary) RockMatch(cell string) bool {
	return containsAny(cell, d.RockKeywords)
}

// NoRecoveryMatch reports whether a fracture-index cell carries a
// no-recovery flag.
func (d *Dictionary) NoRecoveryMatch(cell string) bool {
	return containsAny(cell, d.NoRecovery)
}

// WeakZoneMatch reports whether a description carries a weak-zone tag.
func (d *Dictionary) WeakZoneMatch(cell string) bool {
	return containsAny(cell, d.WeakZones)
}

func containsAny(cell string, keys []string) bool {
	for _, k := range keys {
		if k != "" && strings.Contains(cell, k) {
			return true
		}
	}
	return false
}
