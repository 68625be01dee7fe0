package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/strata/pkg/ags"
)

const instrumentationName = "github.com/fyrsmithlabs/strata/pkg/batch"

// Processor parses and concatenates batches of exchange files.
type Processor struct {
	parser  *ags.Parser
	cfg     *Config
	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *Metrics
}

// NewProcessor creates a batch processor around an existing parser. A nil
// cfg uses DefaultConfig and a nil logger discards log output.
func NewProcessor(parser *ags.Parser, cfg *Config, logger *zap.Logger) (*Processor, error) {
	if parser == nil {
		return nil, ErrNilParser
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Processor{
		parser:  parser,
		cfg:     cfg,
		logger:  logger,
		tracer:  otel.Tracer(instrumentationName),
		metrics: NewMetrics(),
	}, nil
}

// Process parses every source in parallel and concatenates the surviving
// tables group by group. A structural error fails only its own file; the
// merge proceeds over the rest. Merging iterates sources in caller order,
// so provenance discriminators depend only on input position.
func (p *Processor) Process(ctx context.Context, sources []Source) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "batch.process")
	defer span.End()

	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	batchID := uuid.New()
	files := make([]*ags.File, len(sources))
	statuses := make([]FileStatus, len(sources))

	sem := make(chan struct{}, p.cfg.MaxParallel)
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				statuses[i] = FileStatus{Name: src.Name, Err: ctx.Err()}
				return
			}

			start := time.Now()
			file, err := p.parser.Parse(ctx, src.Data)
			p.metrics.ObserveParse(time.Since(start).Seconds())
			if err != nil {
				p.metrics.RecordFileFailed()
				p.logger.Warn("file failed to parse",
					zap.String("batch_id", batchID.String()),
					zap.String("file", src.Name),
					zap.Error(err))
				statuses[i] = FileStatus{Name: src.Name, Err: err}
				return
			}
			p.metrics.RecordFileParsed()
			p.metrics.RecordRecordErrors(len(file.Diagnostics))

			rows := 0
			for _, t := range file.Tables {
				rows += t.NumRows()
			}
			files[i] = file
			statuses[i] = FileStatus{
				Name:        src.Name,
				Groups:      len(file.Tables),
				Rows:        rows,
				Diagnostics: file.Diagnostics,
			}
		}(i, src)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	merged, rows := p.merge(sources, files, statuses)
	p.metrics.RecordRowsMerged(rows)

	parsed := 0
	for _, st := range statuses {
		if st.Err == nil {
			parsed++
		}
	}
	span.SetAttributes(
		attribute.String("batch.id", batchID.String()),
		attribute.Int("batch.files", len(sources)),
		attribute.Int("batch.failed", len(sources)-parsed),
		attribute.Int("batch.groups", len(merged)),
		attribute.Int("batch.rows", rows),
	)
	p.logger.Info("batch processed",
		zap.String("batch_id", batchID.String()),
		zap.Int("files", len(sources)),
		zap.Int("parsed", parsed),
		zap.Int("failed", len(sources)-parsed),
		zap.Int("groups", len(merged)),
		zap.Int("rows", rows),
	)
	return &Result{BatchID: batchID, Merged: merged, Files: statuses}, nil
}

// merge stamps provenance onto every parsed table and concatenates them
// group by group in caller order.
func (p *Processor) merge(sources []Source, files []*ags.File, statuses []FileStatus) (map[string]*ags.Table, int) {
	groups := make(map[string][]*ags.Table)
	for i, file := range files {
		sourceNo := fmt.Sprintf("%s_%d", p.cfg.Label, i+1)
		statuses[i].SourceNo = sourceNo
		if file == nil {
			continue
		}
		for _, name := range file.GroupNames() {
			groups[name] = append(groups[name], p.stamp(file.Tables[name], sources[i].Name, sourceNo))
		}
	}
	merged := make(map[string]*ags.Table, len(groups))
	rows := 0
	for name, tables := range groups {
		m := ags.CombineTables(name, tables...)
		merged[name] = m
		rows += m.NumRows()
	}
	return merged, rows
}

// stamp copies a table with the provenance columns filled in. Tables
// without a recognized hole column get no COMPOSITE_ID.
func (p *Processor) stamp(t *ags.Table, fileName, sourceNo string) *ags.Table {
	holeCol := ""
	for _, c := range p.cfg.HoleColumns {
		if t.HasColumn(c) {
			holeCol = c
			break
		}
	}
	columns := appendMissing(append([]string(nil), t.Columns...), ColSourceFile, ColSourceNo)
	if holeCol != "" {
		columns = appendMissing(columns, ColCompositeID)
	}
	out := &ags.Table{
		Name:    t.Name,
		Columns: columns,
		Units:   t.Units,
		Types:   t.Types,
		Rows:    make([]ags.Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		r := make(ags.Row, len(columns))
		for _, c := range t.Columns {
			r[c] = row[c]
		}
		r[ColSourceFile] = fileName
		r[ColSourceNo] = sourceNo
		if holeCol != "" {
			r[ColCompositeID] = sourceNo + "_" + strings.TrimSpace(row[holeCol])
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

func appendMissing(cols []string, extra ...string) []string {
	for _, c := range extra {
		present := false
		for _, have := range cols {
			if have == c {
				present = true
				break
			}
		}
		if !present {
			cols = append(cols, c)
		}
	}
	return cols
}
