package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"DEBUG", zapcore.DebugLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{" error ", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		l, err := NewLogger(Config{})
		require.NoError(t, err)
		assert.NotNil(t, l)
	})
	t.Run("console", func(t *testing.T) {
		l, err := NewLogger(Config{Level: LevelDebug, Format: FormatConsole, OutputPaths: []string{"stdout"}})
		require.NoError(t, err)
		assert.NotNil(t, l)
	})
	t.Run("bad format", func(t *testing.T) {
		_, err := NewLogger(Config{Format: "xml"})
		assert.Error(t, err)
	})
	t.Run("bad level", func(t *testing.T) {
		_, err := NewLogger(Config{Level: "loud"})
		assert.Error(t, err)
	})
}

func TestWriterLogger_EncodesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, zapcore.InfoLevel).Named("service").With(String("component", "diagram"))

	l.Debug("hidden")
	l.Info("diagram built",
		Int("entries", 4),
		Float64("ph_min", -2),
		Bool("multi_element", false),
		Strings("stable", []string{"Fe(s)", "Fe[2+]"}),
		Duration("took", 1500*time.Millisecond),
		Err(errors.New("boom")),
	)
	require.NoError(t, l.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "diagram built", entry["msg"])
	assert.Equal(t, "service", entry["logger"])
	assert.Equal(t, "diagram", entry["component"])
	assert.Equal(t, float64(4), entry["entries"])
	assert.Equal(t, []interface{}{"Fe(s)", "Fe[2+]"}, entry["stable"])
	assert.Equal(t, "boom", entry["error"])
	assert.Contains(t, entry, "ts")
}

func TestObservedLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core)

	l.Debug("d")
	l.Info("i")
	l.Warn("w", Any("window", map[string]float64{"ph_min": -2}))
	l.Error("e", Err(nil))

	require.Equal(t, 4, logs.Len())
	all := logs.All()
	assert.Equal(t, zapcore.WarnLevel, all[2].Level)
	assert.Equal(t, "<nil>", all[3].ContextMap()["error"])
}

func TestNopLoggerAndDefault(t *testing.T) {
	nop := NewNopLogger()
	nop.Info("ignored")
	assert.Equal(t, nop, nop.With(String("k", "v")).Named("x"))
	assert.NoError(t, nop.Sync())

	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	core, logs := observer.New(zapcore.InfoLevel)
	SetDefault(NewLoggerFromCore(core))
	SetDefault(nil)
	Default().Info("via default")
	assert.Equal(t, 1, logs.Len())
}

//Personal.AI order the ending
