// Package analysis is a demo stub standing in for fracture and tumor
// segmentation models.
//
// Nothing is computed. Simulate walks a fixed number of timed steps over a
// bundled sample and reports a random confidence between 85 and 100.
package analysis

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Kind selects which demo model is simulated.
type Kind string

const (
	Fracture Kind = "fracture"
	Tumor    Kind = "tumor"
)

// ModelName is reported with every demo result.
const ModelName = "DANet v2.1 (demo)"

// Sample is a bundled scan the demo can "analyze".
type Sample struct {
	ID          string
	DisplayName string
}

// Progress is reported after each simulated step.
type Progress struct {
	Percent float64
	Stage   string
}

// Result is the outcome of a simulated run.
type Result struct {
	Kind       Kind
	Sample     Sample
	Confidence float64
	Elapsed    time.Duration
	Model      string
}

type profile struct {
	steps    int
	duration func(r *rand.Rand) time.Duration
	stages   [4]string
	prefix   string
	label    string
}

var profiles = map[Kind]profile{
	Fracture: {
		steps:    35,
		duration: func(*rand.Rand) time.Duration { return 3500 * time.Millisecond },
		stages: [4]string{
			"Preprocessing X-ray...",
			"Detecting bone structures...",
			"Analyzing fracture patterns...",
			"Generating fracture segmentation...",
		},
		prefix: "xray",
		label:  "X-ray",
	},
	Tumor: {
		steps: 20,
		duration: func(r *rand.Rand) time.Duration {
			return 3*time.Second + time.Duration(r.Int64N(int64(time.Second)))
		},
		stages: [4]string{
			"Preprocessing image...",
			"Detecting brain regions...",
			"Identifying tumor areas...",
			"Finalizing segmentation...",
		},
		prefix: "scan",
		label:  "Scan",
	},
}

const sampleCount = 20

// Samples lists the bundled scans for kind.
func Samples(kind Kind) []Sample {
	p, ok := profiles[kind]
	if !ok {
		return nil
	}
	out := make([]Sample, sampleCount)
	for i := range out {
		out[i] = Sample{
			ID:          fmt.Sprintf("%s_%03d", p.prefix, i+1),
			DisplayName: fmt.Sprintf("%s %03d", p.label, i+1),
		}
	}
	return out
}

// FindSample looks a bundled sample up by id.
func FindSample(kind Kind, id string) (Sample, bool) {
	for _, s := range Samples(kind) {
		if s.ID == id {
			return s, true
		}
	}
	return Sample{}, false
}

// Stage returns the label shown at percent for kind.
func Stage(kind Kind, percent float64) string {
	p := profiles[kind]
	switch {
	case percent < 25:
		return p.stages[0]
	case percent < 50:
		return p.stages[1]
	case percent < 75:
		return p.stages[2]
	default:
		return p.stages[3]
	}
}

// Simulator runs demo analyses. The zero value is not usable; see New.
type Simulator struct {
	rng *rand.Rand
	// Scale multiplies every step delay; tests set it to zero.
	Scale float64
}

// New returns a Simulator seeded from the runtime.
func New() *Simulator {
	return &Simulator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), Scale: 1}
}

// NewSeeded returns a deterministic Simulator.
func NewSeeded(seed uint64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewPCG(seed, seed)), Scale: 1}
}

// Simulate walks the demo steps for sample, calling onProgress after each.
// It stops early with ctx.Err() when ctx is done.
func (s *Simulator) Simulate(
	ctx context.Context,
	kind Kind,
	sample Sample,
	onProgress func(Progress),
) (Result, error) {
	p, ok := profiles[kind]
	if !ok {
		return Result{}, fmt.Errorf("unknown analysis kind %q", kind)
	}
	if sample.ID == "" {
		return Result{}, fmt.Errorf("no %s sample selected", kind)
	}

	total := p.duration(s.rng)
	step := time.Duration(float64(total/time.Duration(p.steps)) * s.Scale)

	t := time.NewTimer(step)
	defer t.Stop()
	for i := 0; i <= p.steps; i++ {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-t.C:
		}
		t.Reset(step)

		pct := float64(i) / float64(p.steps) * 100
		if onProgress != nil {
			onProgress(Progress{Percent: pct, Stage: Stage(kind, pct)})
		}
	}

	return Result{
		Kind:       kind,
		Sample:     sample,
		Confidence: math.Round((s.rng.Float64()*15+85)*100) / 100,
		Elapsed:    total.Round(time.Millisecond),
		Model:      ModelName,
	}, nil
}
