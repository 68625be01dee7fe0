package ags

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestParser(t *testing.T, cfg *Config) *Parser {
	t.Helper()
	p, err := NewParser(cfg, zap.NewNop())
	require.NoError(t, err)
	return p
}

func mustParse(t *testing.T, cfg *Config, text string) *File {
	t.Helper()
	f, err := newTestParser(t, cfg).Parse(context.Background(), []byte(text))
	require.NoError(t, err)
	return f
}

func TestParseLegacyFile(t *testing.T) {
	lines := []string{
		`exported by DrillSoft 2.1`,
		`"**PROJ"`,
		`"*PROJ_ID","*PROJ_NAME"`,
		`"P123","Harbour Redevelopment"`,
		`"**HOLE"`,
		`"*HOLE_ID","*HOLE_GL","*HOLE_FDEP"`,
		`"<UNITS>","m","m"`,
		`"HOLE1","3.20","45.00"`,
		`"HOLE2","2.95","38.50"`,
		`"**GEOL"`,
		`"*HOLE_ID","*GEOL_TOP","*GEOL_BASE"`,
		`"*GEOL_DESC"`,
		`"HOLE1","0.00","1.20","Firm brown silty CLAY"`,
		`"<CONT>","","","with occasional gravel"`,
		`"HOLE1","1.20","4.60","Dense yellowish SAND"`,
	}
	// carriage returns exercise the CRLF path
	f := mustParse(t, nil, strings.Join(lines, "\r\n"))

	assert.Equal(t, DialectLegacy, f.Dialect)
	assert.Equal(t, []string{"GEOL", "HOLE", "PROJ"}, f.GroupNames())
	assert.Empty(t, f.Diagnostics)

	hole, ok := f.Table("HOLE")
	require.True(t, ok)
	assert.Equal(t, []string{"HOLE_ID", "HOLE_GL", "HOLE_FDEP"}, hole.Columns)
	assert.Equal(t, 2, hole.NumRows())
	assert.Equal(t, "m", hole.Units["HOLE_GL"])
	assert.Equal(t, "m", hole.Units["HOLE_FDEP"])
	_, hasUnit := hole.Units["HOLE_ID"]
	assert.False(t, hasUnit, "marker position carries no unit")
	assert.Equal(t, Row{"HOLE_ID": "HOLE2", "HOLE_GL": "2.95", "HOLE_FDEP": "38.50"}, hole.Rows[1])

	geol, ok := f.Table("GEOL")
	require.True(t, ok)
	assert.Equal(t, []string{"HOLE_ID", "GEOL_TOP", "GEOL_BASE", "GEOL_DESC"}, geol.Columns,
		"heading extends across consecutive rows")
	require.Equal(t, 2, geol.NumRows())
	assert.Equal(t, "Firm brown silty CLAY|with occasional gravel", geol.Rows[0]["GEOL_DESC"])
	assert.Equal(t, "Dense yellowish SAND", geol.Rows[1]["GEOL_DESC"])
}

func TestParseLegacyDraftAliases(t *testing.T) {
	text := strings.Join([]string{
		`"**?ETH"`,
		`"*HOLE_ID","*?ETH_TOP","*?ETH_BASE","*?ETH_GRAD"`,
		`"HOLE1","0.00","5.00","IV"`,
		`"**?SAMP"`,
		`"*HOLE_ID","*SAMP_REF"`,
		`"HOLE1","S1"`,
	}, "\n")
	f := mustParse(t, nil, text)

	weth, ok := f.Table("WETH")
	require.True(t, ok, "draft spelling folds into canonical group name")
	assert.Equal(t, []string{"HOLE_ID", "WETH_TOP", "WETH_BASE", "WETH_GRAD"}, weth.Columns)
	assert.Equal(t, "IV", weth.Rows[0]["WETH_GRAD"])

	samp, ok := f.Table("SAMP")
	require.True(t, ok, "unaliased draft groups strip the prefix")
	assert.Equal(t, "S1", samp.Rows[0]["SAMP_REF"])
}

func TestParseLegacyReopenedGroup(t *testing.T) {
	text := strings.Join([]string{
		`"**HOLE"`,
		`"*HOLE_ID","*HOLE_GL"`,
		`"HOLE1","3.20"`,
		`"**GEOL"`,
		`"*HOLE_ID","*GEOL_DESC"`,
		`"HOLE1","made ground"`,
		`"**HOLE"`,
		`"*HOLE_ID","*HOLE_GL"`,
		`"HOLE2","2.95"`,
	}, "\n")
	f := mustParse(t, nil, text)

	hole, ok := f.Table("HOLE")
	require.True(t, ok)
	assert.Equal(t, 2, hole.NumRows(), "reopened group appends to the same table")
	assert.Equal(t, "HOLE2", hole.Rows[1]["HOLE_ID"])
}

func TestParseLegacyBareKeywordIsData(t *testing.T) {
	text := strings.Join([]string{
		`"**HOLE"`,
		`"*HOLE_ID","*HOLE_REM"`,
		`DATA,"not a marker"`,
	}, "\n")
	f := mustParse(t, nil, text)

	hole, ok := f.Table("HOLE")
	require.True(t, ok)
	require.Equal(t, 1, hole.NumRows())
	assert.Equal(t, "DATA", hole.Rows[0]["HOLE_ID"])
}

func TestParseCurrentFile(t *testing.T) {
	text := strings.Join([]string{
		`"GROUP","PROJ"`,
		`"HEADING","PROJ_ID","PROJ_NAME"`,
		`"UNIT","",""`,
		`"TYPE","ID","X"`,
		`"DATA","P123","Harbour Redevelopment"`,
		``,
		`"GROUP","LOCA"`,
		`"HEADING","LOCA_ID","LOCA_TYPE","LOCA_GL"`,
		`"UNIT","","","m"`,
		`"TYPE","ID","PA","2DP"`,
		`"DATA","BH01","CP","3.20"`,
		`"DATA","BH02","CP","2.95"`,
	}, "\n")
	f := mustParse(t, nil, text)

	assert.Equal(t, DialectCurrent, f.Dialect)
	assert.Empty(t, f.Diagnostics)

	loca, ok := f.Table("LOCA")
	require.True(t, ok)
	assert.Equal(t, []string{"LOCA_ID", "LOCA_TYPE", "LOCA_GL"}, loca.Columns)
	assert.Equal(t, 2, loca.NumRows())
	assert.Equal(t, map[string]string{"LOCA_GL": "m"}, loca.Units, "empty unit cells are not stored")
	assert.Equal(t, map[string]string{"LOCA_ID": "ID", "LOCA_TYPE": "PA", "LOCA_GL": "2DP"}, loca.Types)
	assert.Equal(t, Row{"LOCA_ID": "BH01", "LOCA_TYPE": "CP", "LOCA_GL": "3.20"}, loca.Rows[0])
}

func TestParseCurrentUnknownMarker(t *testing.T) {
	text := strings.Join([]string{
		`"GROUP","LOCA"`,
		`"HEADING","LOCA_ID"`,
		`"NOTES","free text the producer stuffed in"`,
		`"DATA","BH01"`,
	}, "\n")
	f := mustParse(t, nil, text)

	loca, ok := f.Table("LOCA")
	require.True(t, ok)
	assert.Equal(t, 1, loca.NumRows())
	require.Len(t, f.Diagnostics, 1)
	assert.Equal(t, DiagUnknownMarker, f.Diagnostics[0].Kind)
	assert.Equal(t, 3, f.Diagnostics[0].Line)
	assert.Equal(t, "NOTES", f.Diagnostics[0].Detail)
}

func TestParseMixedDialect(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		wantLine  int
		wantGroup string
	}{
		{
			name: "quoted current marker in legacy file",
			lines: []string{
				`"**HOLE"`,
				`"*HOLE_ID"`,
				`"DATA","HOLE1"`,
			},
			wantLine:  3,
			wantGroup: "HOLE",
		},
		{
			name: "legacy continuation in current file",
			lines: []string{
				`"GROUP","GEOL"`,
				`"HEADING","LOCA_ID","GEOL_DESC"`,
				`"DATA","BH01","Stiff CLAY"`,
				`"<CONT>","","more"`,
			},
			wantLine:  4,
			wantGroup: "GEOL",
		},
		{
			name: "legacy heading in current file",
			lines: []string{
				`"GROUP","GEOL"`,
				`"*GEOL_DESC"`,
			},
			wantLine:  2,
			wantGroup: "GEOL",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestParser(t, nil).Parse(context.Background(), []byte(strings.Join(tt.lines, "\n")))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMixedDialect)

			var serr *StructuralError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.wantLine, serr.Line)
			assert.Equal(t, tt.wantGroup, serr.Group)
		})
	}
}

func TestParseStructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		wantErr error
	}{
		{
			name:    "no groups at all",
			lines:   []string{`just,some,noise`, `more,noise`},
			wantErr: ErrNoGroups,
		},
		{
			name:    "empty input",
			lines:   nil,
			wantErr: ErrNoGroups,
		},
		{
			name: "group marker without a name",
			lines: []string{
				`"**"`,
			},
			wantErr: ErrBadGroupMarker,
		},
		{
			name: "current group marker without a name",
			lines: []string{
				`"GROUP",""`,
			},
			wantErr: ErrBadGroupMarker,
		},
		{
			name: "duplicate column in heading",
			lines: []string{
				`"**HOLE"`,
				`"*HOLE_ID","*HOLE_ID"`,
			},
			wantErr: ErrDuplicateColumn,
		},
		{
			name: "duplicate column across heading extension",
			lines: []string{
				`"**HOLE"`,
				`"*HOLE_ID","*HOLE_GL"`,
				`"*HOLE_ID"`,
			},
			wantErr: ErrDuplicateColumn,
		},
		{
			name: "data row before heading",
			lines: []string{
				`"**HOLE"`,
				`"HOLE1","3.20"`,
			},
			wantErr: ErrMissingHeading,
		},
		{
			name: "heading after data",
			lines: []string{
				`"**HOLE"`,
				`"*HOLE_ID"`,
				`"HOLE1"`,
				`"*HOLE_GL"`,
			},
			wantErr: ErrHeadingAfterData,
		},
		{
			name: "orphan continuation",
			lines: []string{
				`"**GEOL"`,
				`"*HOLE_ID","*GEOL_DESC"`,
				`"<CONT>","","stranded"`,
			},
			wantErr: ErrOrphanContinuation,
		},
		{
			name: "reopened group with different heading",
			lines: []string{
				`"**HOLE"`,
				`"*HOLE_ID"`,
				`"HOLE1"`,
				`"**GEOL"`,
				`"*HOLE_ID","*GEOL_DESC"`,
				`"HOLE1","clay"`,
				`"**HOLE"`,
				`"*HOLE_GL"`,
				`"3.20"`,
			},
			wantErr: ErrHeadingConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestParser(t, nil).Parse(context.Background(), []byte(strings.Join(tt.lines, "\n")))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseRecordDiagnostics(t *testing.T) {
	text := strings.Join([]string{
		`"**HOLE"`,
		`"<UNITS>","m"`,
		`"*HOLE_ID","*HOLE_GL"`,
		`"HOLE1","3.20","surplus"`,
		`"HOLE2`,
		`"HOLE3"`,
	}, "\n")
	f := mustParse(t, nil, text)

	hole, ok := f.Table("HOLE")
	require.True(t, ok)
	require.Equal(t, 1, hole.NumRows(), "bad records are dropped, good ones kept")
	assert.Equal(t, Row{"HOLE_ID": "HOLE3", "HOLE_GL": ""}, hole.Rows[0], "short rows are padded")

	require.Len(t, f.Diagnostics, 3)
	assert.Equal(t, DiagMetadataOutsideHeading, f.Diagnostics[0].Kind)
	assert.Equal(t, 2, f.Diagnostics[0].Line)
	assert.Equal(t, DiagRowTooLong, f.Diagnostics[1].Kind)
	assert.Equal(t, 4, f.Diagnostics[1].Line)
	assert.Equal(t, DiagBadQuoting, f.Diagnostics[2].Kind)
	assert.Equal(t, 5, f.Diagnostics[2].Line)
	for _, d := range f.Diagnostics {
		assert.Equal(t, "HOLE", d.Group)
	}
}

func TestParseContinuationFolding(t *testing.T) {
	t.Run("fragments join with separator in order", func(t *testing.T) {
		text := strings.Join([]string{
			`"**GEOL"`,
			`"*HOLE_ID","*GEOL_DESC"`,
			`"H1","part one"`,
			`"<CONT>","part two"`,
			`"<CONT>","part three"`,
		}, "\n")
		f := mustParse(t, nil, text)
		geol, _ := f.Table("GEOL")
		require.Equal(t, 1, geol.NumRows())
		assert.Equal(t, "part one|part two|part three", geol.Rows[0]["GEOL_DESC"])
	})

	t.Run("empty cell takes fragment without separator", func(t *testing.T) {
		text := strings.Join([]string{
			`"**GEOL"`,
			`"*HOLE_ID","*GEOL_TOP","*GEOL_DESC"`,
			`"H1","0.00",""`,
			`"<CONT>","","filled later"`,
		}, "\n")
		f := mustParse(t, nil, text)
		geol, _ := f.Table("GEOL")
		assert.Equal(t, "filled later", geol.Rows[0]["GEOL_DESC"])
		assert.Equal(t, "0.00", geol.Rows[0]["GEOL_TOP"], "empty fragments leave cells alone")
	})

	t.Run("overflow is reported and skipped", func(t *testing.T) {
		text := strings.Join([]string{
			`"**GEOL"`,
			`"*HOLE_ID","*GEOL_DESC"`,
			`"H1","clay"`,
			`"<CONT>","extra","overflow cell"`,
		}, "\n")
		f := mustParse(t, nil, text)
		geol, _ := f.Table("GEOL")
		assert.Equal(t, "clay", geol.Rows[0]["GEOL_DESC"], "overflowing continuation leaves the row alone")
		require.Len(t, f.Diagnostics, 1)
		assert.Equal(t, DiagContinuationOverflow, f.Diagnostics[0].Kind)
	})

	t.Run("custom separator", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ContinuationSeparator = " "
		text := strings.Join([]string{
			`"**GEOL"`,
			`"*HOLE_ID","*GEOL_DESC"`,
			`"H1","part one"`,
			`"<CONT>","part two"`,
		}, "\n")
		f := mustParse(t, cfg, text)
		geol, _ := f.Table("GEOL")
		assert.Equal(t, "part one part two", geol.Rows[0]["GEOL_DESC"])
	})
}

func TestParseEncodings(t *testing.T) {
	t.Run("declared latin-1", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Encoding = "latin-1"
		data := []byte("\"**GEOL\"\n\"*HOLE_ID\",\"*GEOL_DESC\"\n\"H1\",\"Caf\xe9 deposit\"\n")
		f, err := newTestParser(t, cfg).Parse(context.Background(), data)
		require.NoError(t, err)
		geol, _ := f.Table("GEOL")
		assert.Equal(t, "Café deposit", geol.Rows[0]["GEOL_DESC"])
	})

	t.Run("auto detects byte order mark", func(t *testing.T) {
		data := []byte("\xef\xbb\xbf\"**HOLE\"\n\"*HOLE_ID\"\n\"H1\"\n")
		f, err := newTestParser(t, nil).Parse(context.Background(), data)
		require.NoError(t, err)
		hole, ok := f.Table("HOLE")
		require.True(t, ok)
		assert.Equal(t, 1, hole.NumRows())
	})
}

func TestParseSizeLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxFileSize = 16

	p := newTestParser(t, cfg)
	_, err := p.Parse(context.Background(), []byte(`"**HOLE"`+"\n"+`"*HOLE_ID"`))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = p.ParseReader(context.Background(), strings.NewReader(strings.Repeat("x", 64)))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestParseReader(t *testing.T) {
	text := strings.Join([]string{
		`"GROUP","HOLE"`,
		`"HEADING","HOLE_ID"`,
		`"DATA","BH01"`,
	}, "\n")
	f, err := newTestParser(t, nil).ParseReader(context.Background(), strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, DialectCurrent, f.Dialect)
	hole, ok := f.Table("HOLE")
	require.True(t, ok)
	assert.Equal(t, 1, hole.NumRows())
}

func TestNewParserRejectsBadConfig(t *testing.T) {
	_, err := NewParser(&Config{MaxFileSize: 0, ContinuationSeparator: "|"}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewParser(&Config{MaxFileSize: 1024, ContinuationSeparator: ""}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
