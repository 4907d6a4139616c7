package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ismcts/experiments/metrics"
	"ismcts/game"
	"ismcts/searcher"
)

func writeFile(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("overrides defaults", func(t *testing.T) {
		cfg, err := Load(writeFile(t, `
log_level: debug
play:
  game: tictactoe
  human: 2
arena:
  name: speed
  workers: 8
  agents:
    - {id: 3, kind: mcts, iterations: 50}
    - {id: 4, kind: mcts, iterations: 500, exploration: 1.4}
  match_ups:
    - [3, 4]
server:
  addr: 127.0.0.1:9000
`))
		require.NoError(t, err)
		require.Equal(t, "debug", cfg.LogLevel)
		require.Equal(t, "tictactoe", cfg.Play.Game)
		require.Equal(t, game.Player(2), cfg.Play.Human)
		require.Equal(t, Default().Play.Iterations, cfg.Play.Iterations, "Should keep unset defaults")
		require.Equal(t, "speed", cfg.Arena.Name)
		require.Equal(t, "durak", cfg.Arena.Game)
		require.Equal(t, 8, cfg.Arena.Workers)
		require.Equal(t, []metrics.AgentConfig{
			{ID: 3, Kind: "mcts", Iterations: 50, Exploration: searcher.DefaultExploration},
			{ID: 4, Kind: "mcts", Iterations: 500, Exploration: 1.4},
		}, cfg.Arena.Agents)
		require.Equal(t, [][2]int{{3, 4}}, cfg.Arena.MatchUps)
		require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	})

	t.Run("explicit zero exploration", func(t *testing.T) {
		cfg, err := Load(writeFile(t, `
play:
  exploration: 0
arena:
  agents:
    - {id: 1, kind: mcts, iterations: 50, exploration: 0}
  match_ups:
    - [1, 1]
`))
		require.NoError(t, err)
		require.Zero(t, cfg.Play.Exploration, "Should keep an explicit 0")
		require.Zero(t, cfg.Arena.Agents[0].Exploration, "Should keep an explicit 0")
	})

	t.Run("non finite exploration", func(t *testing.T) {
		_, err := Load(writeFile(t, "play:\n  exploration: .nan\n"))
		require.ErrorContains(t, err, "exploration must be finite")
		_, err = Load(writeFile(t, "play:\n  exploration: .inf\n"))
		require.ErrorContains(t, err, "exploration must be finite")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorContains(t, err, "cannot read config")
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := Load(writeFile(t, "play: [1, 2"))
		require.ErrorContains(t, err, "cannot parse config")
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeFile(t, "play:\n  human: 3\n"))
		require.ErrorContains(t, err, "human must sit as player 1 or 2")
	})
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"play game", func(c *Config) { c.Play.Game = "chess" }, `unknown game "chess"`},
		{"play iterations", func(c *Config) { c.Play.Iterations = 0 }, "iterations must be positive"},
		{"play exploration", func(c *Config) { c.Play.Exploration = -1 }, "exploration must be finite and not negative"},
		{"play exploration nan", func(c *Config) { c.Play.Exploration = math.NaN() }, "exploration must be finite"},
		{"play exploration inf", func(c *Config) { c.Play.Exploration = math.Inf(1) }, "exploration must be finite"},
		{"agent exploration", func(c *Config) { c.Arena.Agents[0].Exploration = math.Inf(-1) }, "agent 1: exploration"},
		{"arena game", func(c *Config) { c.Arena.Game = "go" }, `arena: unknown game "go"`},
		{"duplicate agent", func(c *Config) {
			c.Arena.Agents = append(c.Arena.Agents, metrics.AgentConfig{ID: 1, Kind: "random"})
		}, "duplicate agent id 1"},
		{"agent kind", func(c *Config) { c.Arena.Agents[1].Kind = "human" }, `unknown kind "human"`},
		{"agent iterations", func(c *Config) { c.Arena.Agents[0].Iterations = 0 }, "agent 1: iterations"},
		{"no match ups", func(c *Config) { c.Arena.MatchUps = nil }, "at least one match up"},
		{"unknown match up agent", func(c *Config) { c.Arena.MatchUps = [][2]int{{1, 7}} }, "unknown agent"},
		{"server addr", func(c *Config) { c.Server.Addr = "" }, "addr is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			require.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
}
