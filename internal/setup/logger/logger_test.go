package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter_Level(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{level: "debug", expected: zerolog.DebugLevel},
		{level: "warn", expected: zerolog.WarnLevel},
		{level: "", expected: zerolog.InfoLevel},
		{level: "loud", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := newWithWriter(&bytes.Buffer{}, tt.level)
			if logger.GetLevel() != tt.expected {
				t.Errorf("Expected level %s, got %s", tt.expected, logger.GetLevel())
			}
		})
	}
}

func TestNewWithWriter_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, "info")

	logger.Debug().Msg("hidden")
	logger.Info().Str("mode", "fallback").Msg("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Expected debug line to be filtered")
	}
	if !strings.Contains(out, `"mode":"fallback"`) || !strings.Contains(out, `"message":"visible"`) {
		t.Errorf("Unexpected log output: %s", out)
	}
}
