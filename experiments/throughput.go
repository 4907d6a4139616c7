package experiments

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"ismcts/game"
	"ismcts/game/durak"
	"ismcts/game/tictactoe"
	"ismcts/searcher"
)

// Throughput is the search speed measured for one iteration budget.
type Throughput struct {
	Iterations int
	Samples    int
	Mean       float64 // Iterations per second
	StdDev     float64
	TreeSize   float64 // Mean tree size after the search
}

// MeasureThroughput searches fresh opening positions of the named game with
// each budget and reports iterations per second.
func MeasureThroughput(name string, budgets []int, samples int, seed uint64) ([]Throughput, error) {
	if samples <= 0 {
		return nil, errors.New("need at least one sample")
	}
	r := rand.New(rand.NewSource(seed))
	var out []Throughput
	for _, budget := range budgets {
		speeds := make([]float64, 0, samples)
		sizes := make([]float64, 0, samples)
		for i := 0; i < samples; i++ {
			var m searcher.SearchMetric
			switch name {
			case "tictactoe":
				m = measure[*tictactoe.State, tictactoe.Move](tictactoe.NewState(), budget, r.Uint64())
			case "durak":
				m = measure[*durak.State, durak.Move](durak.NewState(r), budget, r.Uint64())
			default:
				return nil, errors.Errorf("unknown game %q", name)
			}
			speeds = append(speeds, float64(m.Iterations)/max(m.Duration.Seconds(), time.Nanosecond.Seconds()))
			sizes = append(sizes, float64(m.TreeSize))
		}

		t := Throughput{Iterations: budget, Samples: samples, TreeSize: stat.Mean(sizes, nil)}
		t.Mean, t.StdDev = stat.MeanStdDev(speeds, nil)
		if samples < 2 {
			t.StdDev = 0
		}
		log.Info().Msgf("%s with %d iterations: %.0f ± %.0f iterations/s", name, budget, t.Mean, t.StdDev)
		out = append(out, t)
	}
	return out, nil
}

func measure[S game.State[S, M], M game.Move](state S, budget int, seed uint64) searcher.SearchMetric {
	m := searcher.New[S, M](state, searcher.WithSeed(seed), searcher.WithMetrics())
	m.FindMove(budget)
	return m.Metrics()
}
