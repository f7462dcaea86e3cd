package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		in   LogLevel
		want zapcore.Level
	}{
		{DebugLevel, zapcore.DebugLevel},
		{WarnLevel, zapcore.WarnLevel},
		{ErrorLevel, zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := tt.in.zapLevel(); got != tt.want {
			t.Errorf("%q.zapLevel() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cms.log")
	InitLogger(Config{Level: InfoLevel, OutputPath: path, MaxSize: 1})

	Debug("hidden")
	Warn("Database unavailable", String("op", "releases.listAll"), ErrorField(errors.New("refused")))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"op":"releases.listAll"`) || !strings.Contains(out, `"error":"refused"`) {
		t.Errorf("log = %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry written at info level: %s", out)
	}
}
