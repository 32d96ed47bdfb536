// Package telemetry records per-turn solver statistics to a CSV trace and
// emits structured diagnostic events via log/slog. This is entirely
// optional ambient instrumentation: a match runs identically with
// telemetry disabled.
package telemetry

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gocarina/gocsv"
)

// TurnTrace is one row of the solver trace: what the search did and found
// on a single real turn.
type TurnTrace struct {
	Turn          int     `csv:"turn"`
	BudgetMs      float64 `csv:"budget_ms"`
	ElapsedMs     float64 `csv:"elapsed_ms"`
	Iterations    int     `csv:"iterations"`
	BestScore     int     `csv:"best_score"`
	WorstScore    int     `csv:"worst_score"`
	ChosenBoost0  bool    `csv:"chosen_boost_0"`
	ChosenShield0 bool    `csv:"chosen_shield_0"`
	ChosenBoost1  bool    `csv:"chosen_boost_1"`
	ChosenShield1 bool    `csv:"chosen_shield_1"`
}

// Collector accumulates TurnTrace rows in memory for the duration of a
// match and flushes them to a CSV file on demand; a turn budget of 75ms
// leaves no room for per-turn file writes.
type Collector struct {
	rows []TurnTrace
}

// NewCollector returns an empty trace collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record appends one turn's trace row.
func (c *Collector) Record(row TurnTrace) {
	c.rows = append(c.rows, row)
}

// WriteCSV writes every recorded row to path, creating or truncating it.
// Returns nil without touching the filesystem if nothing was recorded.
func (c *Collector) WriteCSV(path string) error {
	if len(c.rows) == 0 {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating solver trace file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&c.rows, f); err != nil {
		return fmt.Errorf("writing solver trace: %w", err)
	}
	return nil
}

// Logger is the structured diagnostic sink, separate from the plain
// console text the driver package writes: free text for a human watching
// a match, slog JSON for anything that parses the stream afterwards.
type Logger struct {
	log *slog.Logger
}

// NewLogger builds a Logger writing structured JSON lines to w.
func NewLogger(w *os.File) *Logger {
	return &Logger{log: slog.New(slog.NewJSONHandler(w, nil))}
}

// TurnCompleted logs one turn's search outcome at info level.
func (l *Logger) TurnCompleted(t TurnTrace) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Info("turn completed",
		slog.Int("turn", t.Turn),
		slog.Float64("budget_ms", t.BudgetMs),
		slog.Float64("elapsed_ms", t.ElapsedMs),
		slog.Int("iterations", t.Iterations),
		slog.Int("best_score", t.BestScore),
	)
}

// BudgetExceededBeforeFirstIteration logs the graceful-degradation path:
// the turn-start deadline was already gone before any mutate-and-score
// round completed, so the shifted incumbent is emitted unchanged.
func (l *Logger) BudgetExceededBeforeFirstIteration(turn int) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Warn("budget exceeded before first improvement round", slog.Int("turn", turn))
}
