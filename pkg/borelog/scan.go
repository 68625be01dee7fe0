package borelog

import (
	"context"
	"math"
	"sort"

	"go.opentelemetry.io/otel/attribute"
)

// contigEps bounds float slack when comparing depth boundaries: two depths
// closer than this are the same boundary.
const contigEps = 1e-9

// RunInterval is one scanner input: an interval plus the numeric metric
// tested against the threshold. HasValue false means the metric cell was
// absent or unparsable; such intervals never qualify on value. Weak tags a
// weak-zone classification, governed by ScanConfig.IncludeWeakZones. A NaN
// To marks a core run logged without a base; its thickness is taken as
// ScanConfig.CoreRunLength.
type RunInterval struct {
	Interval
	Value    float64
	HasValue bool
	Weak     bool
}

// ScanConfig parameterizes a continuous-run scan.
type ScanConfig struct {
	// Threshold is the minimum qualifying metric value.
	Threshold float64

	// MinRunLength is the combined thickness a contiguous qualifying run
	// must reach.
	MinRunLength float64

	// CoreRunLength is the implied thickness of an interval logged without
	// a base depth.
	CoreRunLength float64

	// IncludeWeakZones treats weak-zone intervals as qualifying, so they
	// do not break an otherwise-qualifying run. With the flag off a
	// weak-zone interval fails regardless of its metric value.
	IncludeWeakZones bool
}

// DefaultScanConfig returns the conventional rockhead parameters: 85%
// recovery over at least 5 m of contiguous core, logged in 1 m runs.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Threshold:     85,
		MinRunLength:  5,
		CoreRunLength: 1,
	}
}

// Boundary is one hole's scan outcome. Found false is an ordinary result:
// holes that never reach rock within the logged depth are routine.
type Boundary struct {
	Found bool
	Depth float64
}

// ScanResult summarizes one scan across all holes.
type ScanResult struct {
	Holes    map[string]Boundary
	Found    int
	NotFound int
}

// Scan finds, per hole, the shallowest depth at which a contiguous run of
// qualifying intervals accumulates at least MinRunLength of thickness.
// Contiguity requires each interval's from to equal the previous interval's
// to; a gap breaks the run and accumulation restarts at the interval after
// the gap. Intervals are sorted by depth per hole before walking. Holes are
// independent of each other.
func Scan(ctx context.Context, intervals []RunInterval, cfg ScanConfig) *ScanResult {
	_, span := tracer.Start(ctx, "borelog.scan")
	defer span.End()

	byHole := make(map[string][]RunInterval)
	for _, iv := range intervals {
		byHole[iv.Hole] = append(byHole[iv.Hole], iv)
	}
	holes := make([]string, 0, len(byHole))
	for hole := range byHole {
		holes = append(holes, hole)
	}
	sort.Strings(holes)

	res := &ScanResult{Holes: make(map[string]Boundary, len(holes))}
	for _, hole := range holes {
		ivs := byHole[hole]
		sort.SliceStable(ivs, func(a, b int) bool { return ivs[a].From < ivs[b].From })
		b := scanHole(ivs, cfg)
		res.Holes[hole] = b
		if b.Found {
			res.Found++
		} else {
			res.NotFound++
		}
	}

	span.SetAttributes(
		attribute.Int("borelog.scan.holes", len(holes)),
		attribute.Int("borelog.scan.found", res.Found),
	)
	return res
}

// scanHole walks one hole's depth-ordered intervals.
func scanHole(ivs []RunInterval, cfg ScanConfig) Boundary {
	var (
		inRun    bool
		runStart float64
		acc      float64
		prevEnd  float64
	)
	for _, iv := range ivs {
		if !qualifies(iv, cfg) {
			inRun = false
			acc = 0
			continue
		}
		end := iv.To
		if math.IsNaN(end) {
			end = iv.From + cfg.CoreRunLength
		}
		if !inRun || math.Abs(iv.From-prevEnd) > contigEps {
			inRun = true
			runStart = iv.From
			acc = 0
		}
		acc += end - iv.From
		prevEnd = end
		if acc+contigEps >= cfg.MinRunLength {
			return Boundary{Found: true, Depth: runStart}
		}
	}
	return Boundary{}
}

// qualifies applies the threshold and weak-zone rules to one interval.
func qualifies(iv RunInterval, cfg ScanConfig) bool {
	if iv.Weak {
		return cfg.IncludeWeakZones
	}
	return iv.HasValue && iv.Value >= cfg.Threshold
}
