package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		log         func(*zap.Logger)
		expected    []string
		notExpected []string
	}{
		{
			name:  "debug level shows all messages",
			level: "debug",
			log: func(l *zap.Logger) {
				l.Debug("debug message")
				l.Info("info message")
				l.Error("error message")
			},
			expected: []string{"DEBUG", "debug message", "INFO", "info message", "ERROR", "error message"},
		},
		{
			name:  "info level hides debug messages",
			level: "info",
			log: func(l *zap.Logger) {
				l.Debug("debug message")
				l.Info("info message")
			},
			expected:    []string{"INFO", "info message"},
			notExpected: []string{"debug message"},
		},
		{
			name:  "warn level shows warnings and errors",
			level: "WARN",
			log: func(l *zap.Logger) {
				l.Info("info message")
				l.Warn("warn message", zap.String("part", "word/styles.xml"))
			},
			expected:    []string{"WARN", "warn message", "word/styles.xml"},
			notExpected: []string{"info message"},
		},
		{
			name:  "off silences everything",
			level: "off",
			log: func(l *zap.Logger) {
				l.Error("error message")
			},
			notExpected: []string{"error message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.level, &buf)
			tt.log(logger)
			_ = logger.Sync()

			output := buf.String()
			for _, want := range tt.expected {
				if !strings.Contains(output, want) {
					t.Errorf("expected output to contain %q, got: %s", want, output)
				}
			}
			for _, unwanted := range tt.notExpected {
				if strings.Contains(output, unwanted) {
					t.Errorf("expected output not to contain %q, got: %s", unwanted, output)
				}
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		enabled bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"info", zapcore.InfoLevel, true},
		{" Warning ", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"off", zapcore.InfoLevel, false},
		{"verbose", zapcore.InfoLevel, true},
		{"", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, enabled := ParseLevel(tt.input)
			if got != tt.want || enabled != tt.enabled {
				t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.input, got, enabled, tt.want, tt.enabled)
			}
		})
	}
}
