package metrics

import (
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"ismcts/searcher"
)

// AgentConfig describes one contestant of an experiment.
type AgentConfig struct {
	ID          int     `parquet:"id" yaml:"id"`
	Kind        string  `parquet:"kind,dict" yaml:"kind"` // "mcts" or "random"
	Iterations  int     `parquet:"iterations" yaml:"iterations"`
	Exploration float64 `parquet:"exploration" yaml:"exploration"`
}

// UnmarshalYAML fills in the default exploration constant when the document
// leaves it out. An explicit 0 is kept.
func (a *AgentConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain AgentConfig
	p := plain{Exploration: searcher.DefaultExploration}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*a = AgentConfig(p)
	return nil
}

type GameRecord struct {
	ID             string  `parquet:"id"`
	Game           string  `parquet:"game,dict"`
	Agent1         int     `parquet:"agent1"` // AgentConfig.ID seated as player 1
	Agent2         int     `parquet:"agent2"`
	StartingPlayer int     `parquet:"starting_player"`
	Winner         int     `parquet:"winner"`
	Score1         float64 `parquet:"score1"`
	Score2         float64 `parquet:"score2"`
	StartTime      int64   `parquet:"start_time_ms"`
	DurationMs     int64   `parquet:"duration_ms"`
	TotalMoves     int     `parquet:"total_moves"`
	Finished       bool    `parquet:"finished"`
}

func NewGameRecord(id, gameName string, agent1, agent2 int, m GameMetric) GameRecord {
	return GameRecord{
		ID:             id,
		Game:           gameName,
		Agent1:         agent1,
		Agent2:         agent2,
		StartingPlayer: int(m.StartingPlayer),
		Winner:         int(m.Winner),
		Score1:         m.Score(1),
		Score2:         m.Score(2),
		StartTime:      m.StartTime.UnixMilli(),
		DurationMs:     m.Duration.Milliseconds(),
		TotalMoves:     m.TotalMoves,
		Finished:       m.Finished,
	}
}

type MoveRecord struct {
	Game       string `parquet:"game,dict"` // GameRecord.ID
	Step       int    `parquet:"step"`
	Player     int    `parquet:"player"`
	Move       string `parquet:"move"`
	DurationUs int64  `parquet:"duration_us"`
	Iterations int    `parquet:"iterations"`
	Rollouts   int    `parquet:"rollouts"`
	MaxDepth   int    `parquet:"max_depth"`
	TreeSize   int    `parquet:"tree_size"`
	TreeReused bool   `parquet:"tree_reused"`
}

func NewMoveRecords(gameID string, moves []MoveMetric) []MoveRecord {
	records := make([]MoveRecord, len(moves))
	for i, m := range moves {
		records[i] = MoveRecord{
			Game:       gameID,
			Step:       m.Step,
			Player:     int(m.Player),
			Move:       m.Move,
			DurationUs: m.Duration.Microseconds(),
			Iterations: m.Iterations,
			Rollouts:   m.Rollouts,
			MaxDepth:   m.MaxDepth,
			TreeSize:   m.TreeSize,
			TreeReused: m.TreeReused,
		}
	}
	return records
}

// Writer stores the tables of one experiment run under its own directory.
type Writer struct {
	baseDir string
}

// NewWriter creates root/name/<UTC timestamp>.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create directory")
	}
	return &Writer{baseDir: baseDir}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	return errors.Wrap(writeTable(w.path("agent_configs"), configs, "agent_config_v1"),
		"failed to write agent configs")
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	return errors.Wrap(writeTable(w.path("game_records"), records, "game_record_v1"),
		"failed to write game records")
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	return errors.Wrap(writeTable(w.path("move_records"), records, "move_record_v1"),
		"failed to write move records")
}

func (w *Writer) path(table string) string {
	return filepath.Join(w.baseDir, table+".parquet")
}

// writeTable writes rows to a temporary file and renames it into place.
func writeTable[T any](path string, rows []T, schema string) error {
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schema),
	); err != nil {
		return errors.Wrap(err, "write parquet")
	}
	return errors.Wrap(os.Rename(tmpPath, path), "rename parquet")
}
