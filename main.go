package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ismcts/config"
	"ismcts/console"
	"ismcts/experiments"
	"ismcts/play"
	"ismcts/server"
)

const usage = `usage: ismcts <command> [flags]

commands:
  play        play against the engine in the terminal
  arena       run the configured tournament between agents
  serve       serve games over websocket on /ws
  throughput  measure search speed for iteration budgets
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file, defaults apply when empty")
	dotPath := fs.String("dot", "", "play: write the engine's final search tree in DOT to this file")
	dotDepth := fs.Int("dot-depth", 2, "play: levels of the tree to export")
	budgets := fs.String("budgets", "100,1000,10000", "throughput: comma separated iteration budgets")
	samples := fs.Int("samples", 5, "throughput: searches per budget")
	_ = fs.Parse(os.Args[2:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel, command == "play")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch command {
	case "play":
		err = runPlay(cfg.Play, *dotPath, *dotDepth)
	case "arena":
		_, err = experiments.Run(ctx, cfg.Arena)
	case "serve":
		err = server.New(cfg.Play).ListenAndServe(ctx, cfg.Server.Addr)
	case "throughput":
		err = runThroughput(cfg.Arena.Game, *budgets, *samples, cfg.Play.Seed)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", command)
	}
}

// setupLogging writes human readable logs to stderr. The terminal UI owns the
// screen while playing, so only warnings get through then.
func setupLogging(level string, interactive bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if interactive && lvl < zerolog.WarnLevel {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func runPlay(cfg config.Play, dotPath string, dotDepth int) error {
	session, err := play.New(cfg)
	if err != nil {
		return err
	}
	if err := console.Run(session); err != nil {
		return err
	}
	if dotPath == "" {
		return nil
	}
	return os.WriteFile(dotPath, []byte(session.Dot(dotDepth)), 0o644)
}

func runThroughput(game, budgets string, samples int, seed uint64) error {
	var parsed []int
	for _, field := range strings.Split(budgets, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n <= 0 {
			return errors.Errorf("invalid budget %q", field)
		}
		parsed = append(parsed, n)
	}
	_, err := experiments.MeasureThroughput(game, parsed, samples, seed)
	return err
}
