package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/CodeStranger-Fred/gridworld-pi/policyiter"
)

// EpisodeRow is one scored episode of a solve run.
type EpisodeRow struct {
	RunID     string  `parquet:"run_id,dict"`
	Episode   int32   `parquet:"episode"`
	Return    float64 `parquet:"return"`
	Steps     int32   `parquet:"steps"`
	Truncated bool    `parquet:"truncated"`
}

func EpisodeRows(runID uuid.UUID, results []policyiter.EpisodeResult) []EpisodeRow {
	rows := make([]EpisodeRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, EpisodeRow{
			RunID:     runID.String(),
			Episode:   int32(r.Episode),
			Return:    r.Return,
			Steps:     int32(r.Steps),
			Truncated: r.Truncated,
		})
	}
	return rows
}

// WriteEpisodeScores writes the episode results to outPath. The file is
// written next to its destination and renamed into place.
func WriteEpisodeScores(outPath string, runID uuid.UUID, results []policyiter.EpisodeResult) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, EpisodeRows(runID, results),
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "episode_score_v1"),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadEpisodeScores loads a file written by WriteEpisodeScores.
func ReadEpisodeScores(path string) ([]EpisodeRow, error) {
	rows, err := parquet.ReadFile[EpisodeRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows, nil
}
