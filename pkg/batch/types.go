package batch

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/strata/pkg/ags"
)

var (
	// ErrInvalidConfig indicates an unusable processor configuration.
	ErrInvalidConfig = errors.New("invalid batch configuration")

	// ErrNilParser indicates a processor built without a parser.
	ErrNilParser = errors.New("nil parser")

	// ErrNoSources indicates a batch with nothing to process.
	ErrNoSources = errors.New("no sources to process")
)

// Provenance columns synthesized onto every merged table.
const (
	ColSourceFile  = "SOURCE_FILE"
	ColSourceNo    = "SOURCE_NO"
	ColCompositeID = "COMPOSITE_ID"
)

// Source is one input file: a name carried into provenance columns and
// logs, and the raw bytes.
type Source struct {
	Name string
	Data []byte
}

// Config controls batch processing.
type Config struct {
	// Label prefixes the per-file discriminator; file i gets
	// "<Label>_<i+1>".
	Label string

	// MaxParallel bounds concurrent file parses.
	MaxParallel int

	// HoleColumns are tried in order when synthesizing COMPOSITE_ID.
	// Tables declaring none of them get no composite column.
	HoleColumns []string
}

// DefaultConfig returns the batch defaults.
func DefaultConfig() *Config {
	return &Config{
		Label:       "BATCH",
		MaxParallel: 4,
		HoleColumns: []string{"HOLE_ID", "LOCA_ID"},
	}
}

// Validate checks config invariants.
func (c *Config) Validate() error {
	if c.Label == "" {
		return fmt.Errorf("%w: empty label", ErrInvalidConfig)
	}
	if c.MaxParallel < 1 {
		return fmt.Errorf("%w: max parallel must be at least 1, got %d", ErrInvalidConfig, c.MaxParallel)
	}
	return nil
}

// FileStatus reports the outcome of one input file.
type FileStatus struct {
	// Name is the source name.
	Name string

	// SourceNo is the discriminator assigned to the file's rows. It is
	// positional, so it is assigned even when the file failed.
	SourceNo string

	// Groups and Rows count the file's parsed tables and data rows.
	Groups int
	Rows   int

	// Diagnostics are the record-level defects tolerated while parsing.
	Diagnostics []ags.Diagnostic

	// Err is the structural error that failed the file, nil on success.
	Err error
}

// Result is one batch run.
type Result struct {
	// BatchID identifies the run in logs and traces.
	BatchID uuid.UUID

	// Merged maps group name to the concatenated table across all
	// successfully parsed files.
	Merged map[string]*ags.Table

	// Files reports per-file outcomes in input order.
	Files []FileStatus
}

// Failed counts the files rejected by a structural error.
func (r *Result) Failed() int {
	n := 0
	for _, st := range r.Files {
		if st.Err != nil {
			n++
		}
	}
	return n
}
