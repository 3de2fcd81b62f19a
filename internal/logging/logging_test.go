package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "apexreport.log")

	if err := Init(logPath, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogDiagnostic(KindDerivationGap, "missing BV", zap.String("model", "mace"))
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "missing BV") || !strings.Contains(content, "derivation_gap") {
		t.Fatalf("expected diagnostic content, got: %s", content)
	}
	if !strings.Contains(content, "mace") {
		t.Fatalf("expected diagnostic field, got: %s", content)
	}
}

func TestGradingAmbiguityOnlyAtDebug(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, false)
	t.Cleanup(func() { _ = Close() })

	LogDiagnostic(KindGradingAmbiguity, "quiet")
	LogDebug("also quiet")
	if buf.Len() != 0 {
		t.Fatalf("expected no output at info level, got: %s", buf.String())
	}

	InitWriter(&buf, true)
	LogDiagnostic(KindGradingAmbiguity, "loud")
	if !strings.Contains(buf.String(), "loud") {
		t.Fatalf("expected debug output, got: %s", buf.String())
	}
}

func TestLoggingBeforeInitIsNoop(t *testing.T) {
	_ = Close()
	LogEvent("nobody hears this")
	LogDiagnostic(KindMissingInput, "nor this")
}
