package geotech

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/strata/pkg/ags"
	"github.com/fyrsmithlabs/strata/pkg/borelog"
)

const instrumentationName = "github.com/fyrsmithlabs/strata/pkg/geotech"

// Config holds rockhead scan settings.
type Config struct {
	// Threshold is the minimum total core recovery percentage for an
	// interval to count towards a rock run.
	Threshold float64

	// MinRunLength is the continuous qualifying thickness, in metres,
	// required to call rockhead.
	MinRunLength float64

	// CoreRunLength extends open-ended final intervals, in metres.
	CoreRunLength float64

	// IncludeWeakZones counts weak-zone intervals towards runs.
	IncludeWeakZones bool

	// MaxGrade is the largest weathering grade number treated as rock.
	MaxGrade float64

	// DictionaryPath points at a TOML keyword dictionary. Empty, or a
	// path that does not exist, uses the built-in tables.
	DictionaryPath string
}

// DefaultConfig returns the conventional scan settings: 85 percent
// recovery sustained over 5 metres, grade III or better.
func DefaultConfig() *Config {
	return &Config{
		Threshold:     85,
		MinRunLength:  5,
		CoreRunLength: 1,
		MaxGrade:      3,
	}
}

// Validate checks config invariants.
func (c *Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 100 {
		return fmt.Errorf("%w: threshold %v outside [0, 100]", ErrInvalidConfig, c.Threshold)
	}
	if c.MinRunLength <= 0 {
		return fmt.Errorf("%w: min run length must be positive, got %v", ErrInvalidConfig, c.MinRunLength)
	}
	if c.CoreRunLength < 0 {
		return fmt.Errorf("%w: core run length must not be negative, got %v", ErrInvalidConfig, c.CoreRunLength)
	}
	if c.MaxGrade < 1 || c.MaxGrade > 6 {
		return fmt.Errorf("%w: max grade %v outside [1, 6]", ErrInvalidConfig, c.MaxGrade)
	}
	return nil
}

// Service runs rockhead scans over fused strata profiles.
type Service struct {
	cfg    *Config
	dict   *Dictionary
	crit   Criteria
	logger *zap.Logger
	tracer trace.Tracer
	meter  metric.Meter

	scansRun     metric.Int64Counter
	holesScanned metric.Int64Counter
}

// NewService creates a rockhead service. A nil cfg uses DefaultConfig and
// a nil logger discards log output.
func NewService(cfg *Config, logger *zap.Logger) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dict, err := LoadDictionary(cfg.DictionaryPath)
	if err != nil {
		return nil, err
	}
	s := &Service{
		cfg:    cfg,
		dict:   dict,
		crit:   Criteria{MaxGrade: cfg.MaxGrade, IncludeWeakZones: cfg.IncludeWeakZones, Dict: dict},
		logger: logger,
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}
	s.initMetrics()
	return s, nil
}

func (s *Service) initMetrics() {
	var err error
	s.scansRun, err = s.meter.Int64Counter(
		"geotech.rockhead.scans",
		metric.WithDescription("Rockhead scans run"),
		metric.WithUnit("{scan}"),
	)
	if err != nil {
		s.logger.Warn("failed to create scans counter", zap.Error(err))
	}
	s.holesScanned, err = s.meter.Int64Counter(
		"geotech.rockhead.holes",
		metric.WithDescription("Holes examined by rockhead scans"),
		metric.WithUnit("{hole}"),
	)
	if err != nil {
		s.logger.Warn("failed to create holes counter", zap.Error(err))
	}
}

// Dictionary exposes the keyword tables the service loaded.
func (s *Service) Dictionary() *Dictionary { return s.dict }

// RockheadOptions name the profile columns a scan reads. Zero values pick
// the columns BuildProfile emits.
type RockheadOptions struct {
	// HoleColumn names the hole identifier column. Empty tries HOLE_ID,
	// COMPOSITE_ID, and LOCA_ID in that order.
	HoleColumn string

	FromColumn  string // top depth, default DEPTH_FROM
	ToColumn    string // base depth, default DEPTH_TO
	GradeColumn string // weathering grade, default WETH_GRAD
	TCRColumn   string // total core recovery, default TCR
	FIColumn    string // fracture index, default FI
	DescColumn  string // material description, default GEOL_DESC
}

func (o RockheadOptions) withDefaults() RockheadOptions {
	if o.FromColumn == "" {
		o.FromColumn = borelog.ColDepthFrom
	}
	if o.ToColumn == "" {
		o.ToColumn = borelog.ColDepthTo
	}
	if o.GradeColumn == "" {
		o.GradeColumn = "WETH_GRAD"
	}
	if o.TCRColumn == "" {
		o.TCRColumn = "TCR"
	}
	if o.FIColumn == "" {
		o.FIColumn = "FI"
	}
	if o.DescColumn == "" {
		o.DescColumn = "GEOL_DESC"
	}
	return o
}

// RockheadResult reports a scan outcome per hole.
type RockheadResult struct {
	// Holes maps every scanned hole to its boundary. Holes where no
	// qualifying run reached the configured length carry Found false.
	Holes map[string]borelog.Boundary

	Found    int
	NotFound int

	// Diagnostics describe rows that could not be projected.
	Diagnostics []borelog.Diagnostic
}

// Rockhead scans a profile for the shallowest depth where rock material
// sustains the configured continuous run length. Rock material means a
// weathering grade of MaxGrade or better whose fracture index carries no
// no-recovery flag. Weak zones qualify only when IncludeWeakZones is set;
// otherwise recovery at or above Threshold decides. When the table has no
// recovery column every rock interval passes the recovery test. A blank
// base depth leaves the interval open ended and Scan extends it by
// CoreRunLength. Cells that fail to parse as recovery values silently
// disqualify their interval.
func (s *Service) Rockhead(ctx context.Context, profile *ags.Table, opts RockheadOptions) (*RockheadResult, error) {
	ctx, span := s.tracer.Start(ctx, "geotech.rockhead")
	defer span.End()

	if profile == nil {
		span.RecordError(borelog.ErrNilTable)
		return nil, borelog.ErrNilTable
	}
	opts = opts.withDefaults()
	holeCol, err := detectHoleColumn(profile, opts.HoleColumn)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for _, col := range []string{opts.FromColumn, opts.ToColumn, opts.GradeColumn} {
		if !profile.HasColumn(col) {
			err := fmt.Errorf("%w: %s in %s", ErrMissingColumn, col, profile.Name)
			span.RecordError(err)
			return nil, err
		}
	}
	hasTCR := profile.HasColumn(opts.TCRColumn)
	hasFI := profile.HasColumn(opts.FIColumn)
	hasDesc := profile.HasColumn(opts.DescColumn)

	runs := make([]borelog.RunInterval, 0, profile.NumRows())
	var diags []borelog.Diagnostic
	for i, row := range profile.Rows {
		hole := strings.TrimSpace(row[holeCol])
		if hole == "" {
			diags = append(diags, borelog.Diagnostic{
				Group:  profile.Name,
				Row:    i,
				Kind:   borelog.DiagMissingHole,
				Detail: holeCol + " is empty",
			})
			continue
		}
		from, err := strconv.ParseFloat(strings.TrimSpace(row[opts.FromColumn]), 64)
		if err != nil {
			diags = append(diags, borelog.Diagnostic{
				Group:  profile.Name,
				Row:    i,
				Hole:   hole,
				Kind:   borelog.DiagBadDepth,
				Detail: fmt.Sprintf("%s %q does not parse", opts.FromColumn, row[opts.FromColumn]),
			})
			continue
		}
		to := math.NaN()
		if cell := strings.TrimSpace(row[opts.ToColumn]); cell != "" {
			to, err = strconv.ParseFloat(cell, 64)
			if err != nil {
				diags = append(diags, borelog.Diagnostic{
					Group:  profile.Name,
					Row:    i,
					Hole:   hole,
					Kind:   borelog.DiagBadDepth,
					Detail: fmt.Sprintf("%s %q does not parse", opts.ToColumn, row[opts.ToColumn]),
				})
				continue
			}
			if to < from {
				diags = append(diags, borelog.Diagnostic{
					Group:  profile.Name,
					Row:    i,
					Hole:   hole,
					Kind:   borelog.DiagBadOrder,
					Detail: fmt.Sprintf("interval [%g, %g) ends above its top", from, to),
				})
				continue
			}
		}
		iv := borelog.RunInterval{
			Interval: borelog.Interval{Hole: hole, From: from, To: to, Row: row, Index: i},
		}
		var fi, desc string
		if hasFI {
			fi = row[opts.FIColumn]
		}
		if hasDesc {
			desc = row[opts.DescColumn]
		}
		switch s.crit.Classify(row[opts.GradeColumn], fi, desc) {
		case NotRock:
			// HasValue stays false so the interval breaks any run it
			// touches.
			runs = append(runs, iv)
			continue
		case WeakRock:
			iv.Weak = true
			runs = append(runs, iv)
			continue
		}
		if hasTCR {
			if v, perr := strconv.ParseFloat(strings.TrimSpace(row[opts.TCRColumn]), 64); perr == nil {
				iv.Value = v
				iv.HasValue = true
			}
		} else {
			iv.Value = s.cfg.Threshold
			iv.HasValue = true
		}
		runs = append(runs, iv)
	}

	scan := borelog.Scan(ctx, runs, borelog.ScanConfig{
		Threshold:        s.cfg.Threshold,
		MinRunLength:     s.cfg.MinRunLength,
		CoreRunLength:    s.cfg.CoreRunLength,
		IncludeWeakZones: s.cfg.IncludeWeakZones,
	})

	if s.scansRun != nil {
		s.scansRun.Add(ctx, 1)
	}
	if s.holesScanned != nil {
		s.holesScanned.Add(ctx, int64(len(scan.Holes)))
	}
	span.SetAttributes(
		attribute.Int("rockhead.holes", len(scan.Holes)),
		attribute.Int("rockhead.found", scan.Found),
		attribute.Int("rockhead.diagnostics", len(diags)),
	)
	s.logger.Debug("rockhead scan complete",
		zap.String("table", profile.Name),
		zap.Int("holes", len(scan.Holes)),
		zap.Int("found", scan.Found),
		zap.Int("not_found", scan.NotFound),
		zap.Int("diagnostics", len(diags)),
	)
	return &RockheadResult{
		Holes:       scan.Holes,
		Found:       scan.Found,
		NotFound:    scan.NotFound,
		Diagnostics: diags,
	}, nil
}

func detectHoleColumn(t *ags.Table, explicit string) (string, error) {
	if explicit != "" {
		if !t.HasColumn(explicit) {
			return "", fmt.Errorf("%w: %s in %s", ErrMissingColumn, explicit, t.Name)
		}
		return explicit, nil
	}
	for _, c := range []string{"HOLE_ID", "COMPOSITE_ID", "LOCA_ID"} {
		if t.HasColumn(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s declares none of HOLE_ID, COMPOSITE_ID, LOCA_ID", ErrNoHoleColumn, t.Name)
}
