package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"

	"ismcts/game"
	"ismcts/searcher"
)

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, "arena")
	require.NoError(t, err)
	require.DirExists(t, w.Dir())
	require.Equal(t, filepath.Join(root, "arena"), filepath.Dir(w.Dir()))

	t.Run("agent configs", func(t *testing.T) {
		configs := []AgentConfig{
			{ID: 1, Kind: "mcts", Iterations: 100, Exploration: 0.7},
			{ID: 2, Kind: "random"},
		}
		require.NoError(t, w.WriteAgentConfigs(configs))

		got, err := parquet.ReadFile[AgentConfig](w.path("agent_configs"))
		require.NoError(t, err)
		require.Equal(t, configs, got)
	})

	t.Run("game and move records", func(t *testing.T) {
		start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		gm := GameMetric{
			StartingPlayer: 1,
			Winner:         2,
			Scores:         []float64{0, 1},
			StartTime:      start,
			EndTime:        start.Add(1500 * time.Millisecond),
			Duration:       1500 * time.Millisecond,
			TotalMoves:     2,
			Finished:       true,
		}
		games := []GameRecord{NewGameRecord("g1", "durak", 3, 4, gm)}
		require.NoError(t, w.WriteGameRecords(games))

		got, err := parquet.ReadFile[GameRecord](w.path("game_records"))
		require.NoError(t, err)
		require.Equal(t, games, got)
		require.Equal(t, int64(1500), got[0].DurationMs)
		require.Equal(t, 1.0, got[0].Score2)

		moves := NewMoveRecords("g1", []MoveMetric{
			{Step: 1, Player: 1, Move: "A 6S", SearchMetric: searcher.SearchMetric{Iterations: 10, Duration: time.Millisecond}},
			{Step: 2, Player: 2, Move: "D GIVEUP", SearchMetric: searcher.SearchMetric{TreeReused: true}},
		})
		require.NoError(t, w.WriteMoveRecords(moves))

		gotMoves, err := parquet.ReadFile[MoveRecord](w.path("move_records"))
		require.NoError(t, err)
		require.Equal(t, moves, gotMoves)
		require.Equal(t, int64(1000), gotMoves[0].DurationUs)
	})

	t.Run("leaves no temporary files", func(t *testing.T) {
		entries, err := os.ReadDir(w.Dir())
		require.NoError(t, err)
		for _, e := range entries {
			require.Equal(t, ".parquet", filepath.Ext(e.Name()))
		}
	})
}

func TestGameMetricScore(t *testing.T) {
	gm := GameMetric{Scores: []float64{0.5, 0.5}}
	require.Equal(t, 0.5, gm.Score(2))
	require.Equal(t, 0.0, gm.Score(game.NoPlayer), "Should not score a missing player")
	require.Equal(t, 0.0, GameMetric{}.Score(1), "Should not score an unfinished game")
}
