package experiments

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"lukechampine.com/frand"

	"ismcts/engine"
	"ismcts/experiments/metrics"
	"ismcts/game"
	"ismcts/game/durak"
	"ismcts/game/tictactoe"
	"ismcts/searcher"
)

const NumGames = 30 // Per match up

// Games lists the games an experiment can be played on.
var Games = []string{"tictactoe", "durak"}

// Experiment pits agents against each other. Each match up plays Games games
// and swaps seats after every game.
type Experiment struct {
	Name     string                `yaml:"name"`
	Game     string                `yaml:"game"`
	Games    int                   `yaml:"games"`
	Workers  int                   `yaml:"workers"`
	Seed     uint64                `yaml:"seed"` // 0 draws a random seed
	OutDir   string                `yaml:"out_dir"`
	Agents   []metrics.AgentConfig `yaml:"agents"`
	MatchUps [][2]int              `yaml:"match_ups"` // Pairs of AgentConfig.ID
}

// Summary scores one match up from the first agent's point of view.
type Summary struct {
	Agent1   int
	Agent2   int
	Games    int
	Wins     int
	Draws    int
	Losses   int
	Score    float64 // Mean result of Agent1
	StdErr   float64
	Unplayed int // Games cut short by the move limit
}

type job struct {
	matchUp int
	seats   [2]metrics.AgentConfig
	swapped bool
	seed    uint64
}

type result struct {
	record metrics.GameRecord
	moves  []metrics.MoveRecord
	metric metrics.GameMetric
}

// Run plays every game of e, writes the records when OutDir is set and
// returns one Summary per match up.
func Run(ctx context.Context, e Experiment) ([]Summary, error) {
	agents := make(map[int]metrics.AgentConfig, len(e.Agents))
	for _, a := range e.Agents {
		agents[a.ID] = a
	}
	games := e.Games
	if games <= 0 {
		games = NumGames
	}
	seed := e.Seed
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64)
	}

	var jobs []job
	for mi, pair := range e.MatchUps {
		a, ok := agents[pair[0]]
		if !ok {
			return nil, errors.Errorf("match up %d: unknown agent %d", mi+1, pair[0])
		}
		b, ok := agents[pair[1]]
		if !ok {
			return nil, errors.Errorf("match up %d: unknown agent %d", mi+1, pair[1])
		}
		for i := 0; i < games; i++ {
			j := job{matchUp: mi, seats: [2]metrics.AgentConfig{a, b}, seed: seed + uint64(len(jobs))}
			if i%2 == 1 {
				j.seats, j.swapped = [2]metrics.AgentConfig{b, a}, true
			}
			jobs = append(jobs, j)
		}
	}

	log.Info().Msgf("starting %s experiment with %d games on %s...", e.Name, len(jobs), e.Game)

	results := make([]result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if e.Workers > 0 {
		g.SetLimit(e.Workers)
	}
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := runGame(e.Game, j)
			if err != nil {
				return errors.Wrapf(err, "game %d of match up %d", i+1, j.matchUp+1)
			}
			results[i] = r
			log.Debug().Msgf("completed game %s with winner: %s", r.record.ID, r.metric.Winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info().Msgf("completed %s experiment", e.Name)

	summaries := summarize(e.MatchUps, jobs, results)
	for _, s := range summaries {
		log.Info().Msgf("agent %d vs agent %d: score %.3f ± %.3f (%d/%d/%d)",
			s.Agent1, s.Agent2, s.Score, s.StdErr, s.Wins, s.Draws, s.Losses)
	}

	if e.OutDir != "" {
		if err := store(e, results); err != nil {
			return summaries, err
		}
	}
	return summaries, nil
}

func runGame(name string, j job) (result, error) {
	r := rand.New(rand.NewSource(j.seed))
	switch name {
	case "tictactoe":
		return playGame(tictactoe.NewState(), name, j, r)
	case "durak":
		return playGame(durak.NewState(r), name, j, r)
	}
	return result{}, errors.Errorf("unknown game %q", name)
}

func playGame[S game.State[S, M], M game.Move](state S, name string, j job, r *rand.Rand) (result, error) {
	agents := make([]engine.Agent[M], len(j.seats))
	for i, cfg := range j.seats {
		a, err := NewAgent[S, M](cfg, state, game.Player(i+1), r.Uint64())
		if err != nil {
			return result{}, err
		}
		agents[i] = a
	}

	gm, mm, err := engine.NewLocal[S, M](state, agents...).Run()
	if err != nil {
		return result{}, err
	}
	id := uuid.New().String()
	return result{
		record: metrics.NewGameRecord(id, name, j.seats[0].ID, j.seats[1].ID, gm),
		moves:  metrics.NewMoveRecords(id, mm),
		metric: gm,
	}, nil
}

// NewAgent builds the agent cfg describes, seated as seat.
func NewAgent[S game.State[S, M], M game.Move](cfg metrics.AgentConfig, state S, seat game.Player, seed uint64) (engine.Agent[M], error) {
	switch cfg.Kind {
	case "mcts":
		return engine.NewSearcher[S, M](state, seat, cfg.Iterations,
			searcher.WithSeed(seed),
			searcher.WithExploration(cfg.Exploration),
		), nil
	case "random":
		return engine.NewRandom[S, M](state, rand.New(rand.NewSource(seed))), nil
	}
	return nil, errors.Errorf("unknown agent kind %q", cfg.Kind)
}

func summarize(matchUps [][2]int, jobs []job, results []result) []Summary {
	scores := make([][]float64, len(matchUps))
	summaries := make([]Summary, len(matchUps))
	for i, pair := range matchUps {
		summaries[i].Agent1, summaries[i].Agent2 = pair[0], pair[1]
	}

	for i, j := range jobs {
		s := &summaries[j.matchUp]
		s.Games++
		gm := results[i].metric
		if !gm.Finished {
			s.Unplayed++
			continue
		}
		seat := game.Player(1)
		if j.swapped {
			seat = 2
		}
		score := gm.Score(seat)
		scores[j.matchUp] = append(scores[j.matchUp], score)
		switch {
		case score > 0.5:
			s.Wins++
		case score < 0.5:
			s.Losses++
		default:
			s.Draws++
		}
	}

	for i := range summaries {
		if n := len(scores[i]); n > 0 {
			mean, std := stat.MeanStdDev(scores[i], nil)
			summaries[i].Score = mean
			if n > 1 {
				summaries[i].StdErr = std / math.Sqrt(float64(n))
			}
		}
	}
	return summaries
}

func store(e Experiment, results []result) error {
	writer, err := metrics.NewWriter(e.OutDir, e.Name)
	if err != nil {
		return errors.Wrap(err, "failed to create experiment writer")
	}
	if err := writer.WriteAgentConfigs(e.Agents); err != nil {
		return err
	}
	log.Info().Msg("stored agent configs")

	gameRecords := make([]metrics.GameRecord, len(results))
	var moveRecords []metrics.MoveRecord
	for i, r := range results {
		gameRecords[i] = r.record
		moveRecords = append(moveRecords, r.moves...)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return err
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return nil
}

func (s Summary) String() string {
	return fmt.Sprintf("%d vs %d: %.3f±%.3f over %d games", s.Agent1, s.Agent2, s.Score, s.StdErr, s.Games)
}
