package ags

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/strata/internal/textenc"
)

const instrumentationName = "github.com/fyrsmithlabs/strata/pkg/ags"

// Parser turns raw exchange-file bytes into group tables. It is safe for
// concurrent use: parsing writes no shared state, so independent files can
// be parsed in parallel with one Parser.
type Parser struct {
	cfg    *Config
	logger *zap.Logger
	tracer trace.Tracer
	meter  metric.Meter

	filesParsed    metric.Int64Counter
	recordsDropped metric.Int64Counter
}

// NewParser creates a parser. A nil cfg uses DefaultConfig; a nil logger
// uses a no-op logger.
func NewParser(cfg *Config, logger *zap.Logger) (*Parser, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("parser config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Parser{
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}
	p.initMetrics()
	return p, nil
}

// initMetrics creates parse counters. Metric failures degrade to logging,
// never to parse failures.
func (p *Parser) initMetrics() {
	var err error
	p.filesParsed, err = p.meter.Int64Counter("ags.files.parsed",
		metric.WithDescription("Number of exchange files parsed"),
		metric.WithUnit("{file}"))
	if err != nil {
		p.logger.Warn("Failed to create files parsed counter", zap.Error(err))
	}

	p.recordsDropped, err = p.meter.Int64Counter("ags.records.dropped",
		metric.WithDescription("Number of malformed records dropped during parsing"),
		metric.WithUnit("{record}"))
	if err != nil {
		p.logger.Warn("Failed to create records dropped counter", zap.Error(err))
	}
}

// Parse parses one file's bytes into group tables.
//
// The dialect is self-describing; no caller hint is needed. A structural
// defect (mixed dialects, duplicate heading, orphan continuation) aborts
// this file and is returned as a *StructuralError. Malformed individual
// records are dropped and reported on File.Diagnostics while parsing
// continues; one bad record never costs the whole file.
func (p *Parser) Parse(ctx context.Context, data []byte) (*File, error) {
	ctx, span := p.tracer.Start(ctx, "ags.parse")
	defer span.End()

	if len(data) > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, len(data), p.cfg.MaxFileSize)
	}

	text, err := textenc.Decode(data, p.cfg.Encoding)
	if err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}

	file, err := parseText(p.cfg, text)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("ags.dialect", file.Dialect.String()),
		attribute.Int("ags.groups", len(file.Tables)),
		attribute.Int("ags.dropped_records", len(file.Diagnostics)),
	)
	if p.filesParsed != nil {
		p.filesParsed.Add(ctx, 1)
	}
	if p.recordsDropped != nil && len(file.Diagnostics) > 0 {
		p.recordsDropped.Add(ctx, int64(len(file.Diagnostics)))
	}
	p.logger.Debug("Parsed exchange file",
		zap.String("dialect", file.Dialect.String()),
		zap.Int("groups", len(file.Tables)),
		zap.Int("dropped_records", len(file.Diagnostics)))

	return file, nil
}

// ParseReader reads r fully and parses the content.
func (p *Parser) ParseReader(ctx context.Context, r io.Reader) (*File, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(p.cfg.MaxFileSize)+1))
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return p.Parse(ctx, data)
}

// parseText runs the classify, tokenize, merge, build pipeline over the
// decoded text. Blank lines and content before the first group marker are
// ignored; the first group marker resolves the dialect for the whole file.
func parseText(cfg *Config, text string) (*File, error) {
	var diags []Diagnostic
	b := newBuilder(cfg, &diags)
	dialect := DialectUnknown

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSuffix(raw, "\r")
		lineno := i + 1
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields, firstQuoted, err := splitFields(line)
		if err != nil {
			if dialect == DialectUnknown {
				continue
			}
			diags = append(diags, Diagnostic{
				Line:   lineno,
				Group:  b.curName(),
				Kind:   DiagBadQuoting,
				Detail: err.Error(),
			})
			continue
		}

		if dialect == DialectUnknown {
			dialect = resolveDialect(fields)
			if dialect == DialectUnknown {
				continue
			}
		}

		kind, err := classify(fields, firstQuoted, dialect)
		if err != nil {
			return nil, structural(err, b.curName(), lineno)
		}

		switch kind {
		case kindGroup:
			rawName, ok := groupName(fields, dialect)
			if !ok {
				return nil, structural(ErrBadGroupMarker, b.curName(), lineno)
			}
			if err := b.openGroup(rawName, lineno); err != nil {
				return nil, err
			}
		case kindHeading:
			if err := b.addHeading(headingCols(fields, dialect), lineno); err != nil {
				return nil, err
			}
		case kindUnit, kindType:
			if err := b.applyMeta(kind, metaValues(fields, dialect), lineno); err != nil {
				return nil, err
			}
		case kindData:
			if err := b.appendData(dataValues(fields, dialect), lineno); err != nil {
				return nil, err
			}
		case kindContinuation:
			if err := b.foldContinuation(fields, lineno); err != nil {
				return nil, err
			}
		case kindIgnore:
			diags = append(diags, Diagnostic{
				Line:   lineno,
				Group:  b.curName(),
				Kind:   DiagUnknownMarker,
				Detail: fields[0],
			})
		}
	}

	if dialect == DialectUnknown {
		return nil, structural(ErrNoGroups, "", 0)
	}
	tables, err := b.finish()
	if err != nil {
		return nil, err
	}
	return &File{Dialect: dialect, Tables: tables, Diagnostics: diags}, nil
}

// groupName extracts the raw group name from a group marker record.
func groupName(fields []string, d Dialect) (string, bool) {
	if d == DialectLegacy {
		name := strings.TrimPrefix(fields[0], "**")
		return name, strings.TrimSpace(name) != ""
	}
	if len(fields) < 2 || strings.TrimSpace(fields[1]) == "" {
		return "", false
	}
	return fields[1], true
}

// headingCols extracts raw column names from a heading record. Legacy
// heading rows prefix every cell with an asterisk.
func headingCols(fields []string, d Dialect) []string {
	if d == DialectLegacy {
		cols := make([]string, 0, len(fields))
		for _, f := range fields {
			cols = append(cols, strings.TrimPrefix(f, "*"))
		}
		return cols
	}
	return fields[1:]
}

// metaValues aligns a unit/type record's cells with column positions. The
// legacy units row occupies column 0 with its own marker, so that position
// carries no unit.
func metaValues(fields []string, d Dialect) []string {
	if d == DialectLegacy {
		vals := make([]string, len(fields))
		copy(vals, fields)
		vals[0] = ""
		return vals
	}
	return fields[1:]
}

// dataValues aligns a data record's cells with column positions.
func dataValues(fields []string, d Dialect) []string {
	if d == DialectLegacy {
		return fields
	}
	return fields[1:]
}
