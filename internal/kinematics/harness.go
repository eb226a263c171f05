package kinematics

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/corotation/internal/monitoring"
	"github.com/banshee-data/corotation/internal/rotation"
	"github.com/banshee-data/corotation/internal/timeutil"
)

// Harness writes an analytical deformation onto a model part and maps it.
type Harness struct {
	Extractor rotation.Extractor
	// Workers bounds the number of nodes evaluated concurrently.
	// Zero or negative means GOMAXPROCS.
	Workers int
	// Mapper is invoked after the nodal fields are written. Nil skips mapping.
	Mapper Mapper
	// Clock stamps the run summary. Nil uses the wall clock.
	Clock timeutil.Clock
}

// RunSummary describes one harness run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	ModelPart  string    `json:"model_part"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs float64   `json:"duration_ms"`
	Nodes      int       `json:"nodes"`
	Regular    int       `json:"regular"`
	Identity   int       `json:"identity"`
	Antipodal  int       `json:"antipodal"`
	Clamped    int       `json:"clamped"`
	MaxAngle   float64   `json:"max_angle"`
	Mapped     bool      `json:"mapped"`
}

type nodalResult struct {
	state      NodalState
	extraction rotation.Extraction
}

func (h *Harness) workers() int {
	if h.Workers > 0 {
		return h.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (h *Harness) clock() timeutil.Clock {
	if h.Clock != nil {
		return h.Clock
	}
	return timeutil.RealClock{}
}

// Run evaluates d at every node of part, stores DISPLACEMENT and the ROTATION
// vector on each node and then calls Map(DISPLACEMENT, ROTATION, DISPLACEMENT)
// on the mapper. Nodes are evaluated in parallel; the first failing node
// cancels the rest and nothing is written.
func (h *Harness) Run(ctx context.Context, part *ModelPart, d Deformation) (*RunSummary, error) {
	if err := h.Extractor.Tolerances.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extractor tolerances: %w", err)
	}
	for _, v := range []Variable{Displacement, Rotation} {
		if !part.HasVariable(v) {
			return nil, fmt.Errorf("model part %q: %s: %w", part.Name, v, ErrUnknownVariable)
		}
	}

	clock := h.clock()
	summary := &RunSummary{
		RunID:     uuid.New().String(),
		ModelPart: part.Name,
		StartedAt: clock.Now(),
	}
	nodes := part.Nodes()
	monitoring.Logf("[kinematics] run %s: %d nodes on %q, %d workers", summary.RunID, len(nodes), part.Name, h.workers())

	results := make([]nodalResult, len(nodes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.workers())
	for i, n := range nodes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			st, err := d.At(n)
			if err != nil {
				return fmt.Errorf("node %d: deformation: %w", n.ID, err)
			}
			ex, err := h.Extractor.Decompose(st.Rotation)
			if err != nil {
				return fmt.Errorf("node %d: %w", n.ID, err)
			}
			results[i] = nodalResult{state: st, extraction: ex}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	angles := make([]float64, len(nodes))
	for i, n := range nodes {
		res := results[i]
		if err := n.SetValue(Displacement, res.state.Displacement); err != nil {
			return nil, err
		}
		if err := n.SetValue(Rotation, res.extraction.Vector); err != nil {
			return nil, err
		}
		angles[i] = res.extraction.Angle

		switch res.extraction.Branch {
		case rotation.BranchIdentity:
			summary.Identity++
		case rotation.BranchAntipodal:
			summary.Antipodal++
			monitoring.Logf("[kinematics] node %d: half-turn rotation, axis sign chosen as %v", n.ID, res.extraction.Signs)
		default:
			summary.Regular++
		}
		if res.extraction.Clamped {
			summary.Clamped++
			monitoring.Verbosef("[kinematics] node %d: rotation cosine clamped to [-1, 1]", n.ID)
		}
		monitoring.Verbosef("[kinematics] node %d: u=%v rot=%v (%s)", n.ID, res.state.Displacement, res.extraction.Vector, res.extraction.Branch)
	}
	summary.Nodes = len(nodes)
	if summary.Clamped > 0 {
		monitoring.Logf("[kinematics] run %s: rotation cosine clamped to [-1, 1] on %d nodes", summary.RunID, summary.Clamped)
	}
	if len(angles) > 0 {
		summary.MaxAngle = floats.Max(angles)
	}

	if h.Mapper != nil {
		if err := h.Mapper.Map(ctx, Displacement, Rotation, Displacement); err != nil {
			summary.DurationMs = float64(clock.Since(summary.StartedAt).Microseconds()) / 1000
			return summary, fmt.Errorf("map %s with %s: %w", Displacement, Rotation, err)
		}
		summary.Mapped = true
	}
	summary.DurationMs = float64(clock.Since(summary.StartedAt).Microseconds()) / 1000

	monitoring.Logf("[kinematics] run %s done: regular=%d identity=%d antipodal=%d clamped=%d max angle %.6f rad in %.3fms",
		summary.RunID, summary.Regular, summary.Identity, summary.Antipodal, summary.Clamped, summary.MaxAngle, summary.DurationMs)
	return summary, nil
}
