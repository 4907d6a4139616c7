package config

import (
	"math"
	"os"
	"slices"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"ismcts/experiments"
	"ismcts/experiments/metrics"
	"ismcts/game"
	"ismcts/searcher"
)

type Config struct {
	LogLevel string                 `yaml:"log_level"`
	Play     Play                   `yaml:"play"`
	Arena    experiments.Experiment `yaml:"arena"`
	Server   Server                 `yaml:"server"`
}

// Play configures a game between a human and the engine.
type Play struct {
	Game        string      `yaml:"game"`
	Human       game.Player `yaml:"human"` // Seat of the human, 1 or 2
	Iterations  int         `yaml:"iterations"`
	Exploration float64     `yaml:"exploration"`
	Seed        uint64      `yaml:"seed"` // 0 draws a random seed
}

type Server struct {
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Play: Play{
			Game:        "durak",
			Human:       1,
			Iterations:  searcher.DefaultIterations,
			Exploration: searcher.DefaultExploration,
		},
		Arena: experiments.Experiment{
			Name:    "arena",
			Game:    "durak",
			Games:   experiments.NumGames,
			Workers: 4,
			OutDir:  "experiments",
			Agents: []metrics.AgentConfig{
				{ID: 1, Kind: "mcts", Iterations: 1000, Exploration: searcher.DefaultExploration},
				{ID: 2, Kind: "random"},
			},
			MatchUps: [][2]int{{1, 2}},
		},
		Server: Server{Addr: ":8080"},
	}
}

// Load reads a YAML file over the defaults. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "cannot read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "cannot parse config %s", path)
	}
	return cfg, errors.Wrapf(cfg.Validate(), "invalid config %s", path)
}

func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	if err := c.Play.Validate(); err != nil {
		return errors.Wrap(err, "play")
	}
	if err := validateArena(c.Arena); err != nil {
		return errors.Wrap(err, "arena")
	}
	if c.Server.Addr == "" {
		return errors.New("server: addr is required")
	}
	return nil
}

func (p Play) Validate() error {
	if !slices.Contains(experiments.Games, p.Game) {
		return errors.Errorf("unknown game %q", p.Game)
	}
	if p.Human != 1 && p.Human != 2 {
		return errors.Errorf("human must sit as player 1 or 2, got %d", p.Human)
	}
	if p.Iterations <= 0 {
		return errors.New("iterations must be positive")
	}
	return validateExploration(p.Exploration)
}

func validateExploration(c float64) error {
	if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return errors.Errorf("exploration must be finite and not negative, got %v", c)
	}
	return nil
}

func validateArena(e experiments.Experiment) error {
	if !slices.Contains(experiments.Games, e.Game) {
		return errors.Errorf("unknown game %q", e.Game)
	}
	if e.Games < 0 || e.Workers < 0 {
		return errors.New("games and workers must not be negative")
	}
	ids := map[int]bool{}
	for _, a := range e.Agents {
		if ids[a.ID] {
			return errors.Errorf("duplicate agent id %d", a.ID)
		}
		ids[a.ID] = true
		switch a.Kind {
		case "mcts":
			if a.Iterations <= 0 {
				return errors.Errorf("agent %d: iterations must be positive", a.ID)
			}
			if err := validateExploration(a.Exploration); err != nil {
				return errors.Wrapf(err, "agent %d", a.ID)
			}
		case "random":
		default:
			return errors.Errorf("agent %d: unknown kind %q", a.ID, a.Kind)
		}
	}
	if len(e.MatchUps) == 0 {
		return errors.New("at least one match up is required")
	}
	for _, m := range e.MatchUps {
		if !ids[m[0]] || !ids[m[1]] {
			return errors.Errorf("match up %v names an unknown agent", m)
		}
	}
	return nil
}
