package reporting

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/derpetermann/contact-zones/internal/logging"
)

// Stream writes the emitted sample stream for one run: one newline-delimited
// JSON file per chain, under outputDir/<runID>/chain-<n>.jsonl. It keeps only
// the last keepLastN run directories, oldest first deleted.
type Stream struct {
	outputDir string
	runID     string
	keepLastN int
	logger    *logging.Logger

	writers map[int]*bufio.Writer
	files   map[int]*os.File
}

// NewStream creates the run directory and prepares per-chain writers lazily.
func NewStream(outputDir, runID string, keepLastN int, logger *logging.Logger) (*Stream, error) {
	runDir := filepath.Join(outputDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	return &Stream{
		outputDir: outputDir,
		runID:     runID,
		keepLastN: keepLastN,
		logger:    logger,
		writers:   make(map[int]*bufio.Writer),
		files:     make(map[int]*os.File),
	}, nil
}

// Append writes one StepRecord to its chain's file, opening the file on
// first use.
func (s *Stream) Append(rec StepRecord) error {
	w, err := s.writerFor(rec.Chain)
	if err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal step record: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write step record: %w", err)
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}

func (s *Stream) writerFor(chain int) (*bufio.Writer, error) {
	if w, ok := s.writers[chain]; ok {
		return w, nil
	}

	path := filepath.Join(s.outputDir, s.runID, fmt.Sprintf("chain-%d.jsonl", chain))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open chain stream: %w", err)
	}

	w := bufio.NewWriter(f)
	s.files[chain] = f
	s.writers[chain] = w
	return w, nil
}

// Close flushes and closes every open chain file, then applies retention.
func (s *Stream) Close() error {
	for chain, w := range s.writers {
		if err := w.Flush(); err != nil {
			s.logger.Warn("failed to flush chain stream", "chain", chain, "error", err)
		}
	}
	for chain, f := range s.files {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close chain stream", "chain", chain, "error", err)
		}
	}

	if s.keepLastN > 0 {
		if err := s.cleanupOldRuns(); err != nil {
			s.logger.Warn("failed to cleanup old runs", "error", err)
		}
	}
	return nil
}

// ListRuns returns every run directory under outputDir, newest first.
func (s *Stream) ListRuns() ([]RunSummary, error) {
	return listRuns(s.outputDir)
}

func listRuns(outputDir string) ([]RunSummary, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	summaries := make([]RunSummary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		summaries = append(summaries, RunSummary{
			RunID:     entry.Name(),
			StartTime: info.ModTime(),
			Path:      filepath.Join(outputDir, entry.Name()),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartTime.After(summaries[j].StartTime)
	})
	return summaries, nil
}

func (s *Stream) cleanupOldRuns() error {
	summaries, err := s.ListRuns()
	if err != nil {
		return err
	}
	if len(summaries) <= s.keepLastN {
		return nil
	}

	for _, summary := range summaries[s.keepLastN:] {
		if err := os.RemoveAll(summary.Path); err != nil {
			s.logger.Warn("failed to delete old run", "path", summary.Path, "error", err)
		} else {
			s.logger.Debug("deleted old run", "path", summary.Path)
		}
	}
	return nil
}

// RunTimestamp formats a time.Time the way a new run ID is minted, exposed
// so the CLI can mint one without duplicating the layout string.
func RunTimestamp(t time.Time) string {
	return t.Format("20060102-150405")
}
