package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVSkipsFileCreationWhenNothingRecorded(t *testing.T) {
	c := NewCollector()
	path := filepath.Join(t.TempDir(), "trace.csv")
	require.NoError(t, c.WriteCSV(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteCSVEmitsOneRowPerRecordedTurn(t *testing.T) {
	c := NewCollector()
	c.Record(TurnTrace{Turn: 0, BestScore: 100})
	c.Record(TurnTrace{Turn: 1, BestScore: 150})

	path := filepath.Join(t.TempDir(), "trace.csv")
	require.NoError(t, c.WriteCSV(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "turn")
	assert.Contains(t, string(data), "150")
}

func TestLoggerTurnCompletedEmitsStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{log: slog.New(slog.NewJSONHandler(&buf, nil))}
	l.TurnCompleted(TurnTrace{Turn: 3, BestScore: 42})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "turn completed", decoded["msg"])
	assert.Equal(t, float64(3), decoded["turn"])
}

func TestLoggerMethodsAreNilSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.TurnCompleted(TurnTrace{})
		l.BudgetExceededBeforeFirstIteration(0)
	})
}
