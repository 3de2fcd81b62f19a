// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func readConfig(t *testing.T, name, content string) (*viper.Viper, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	v := viper.New()
	SetDefaults(v)
	Locate(v, path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	return v, path
}

// TestDefaults verifies that an empty configuration resolves to the built-in
// defaults, including the accessor fallbacks.
func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.LogFilePath() != "apexreport.log" {
		t.Fatalf("expected default log file, got %q", cfg.LogFilePath())
	}
	if cfg.OutputPath() != "results.html" {
		t.Fatalf("expected default output, got %q", cfg.OutputPath())
	}
	if cfg.VersionFile != "version.dat" {
		t.Fatalf("expected default version file, got %q", cfg.VersionFile)
	}
	if cfg.CV() != 0.2 || cfg.MAE() != 0.1 {
		t.Fatalf("unexpected default thresholds: cv=%g mae=%g", cfg.CV(), cfg.MAE())
	}
	if (Config{}).LogFilePath() != "apexreport.log" || (Config{Output: "  "}).OutputPath() != "results.html" {
		t.Fatal("expected accessors to fall back on blank values")
	}
}

// TestDecodeYAML checks that values from a YAML file override the defaults
// while unset keys keep them.
func TestDecodeYAML(t *testing.T) {
	v, path := readConfig(t, "config.yaml", "debug: true\ncvThreshold: 0.15\njobAddress: https://jobs.example/42\n")

	cfg, err := Decode(v)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !cfg.Debug || cfg.CV() != 0.15 || cfg.JobAddress != "https://jobs.example/42" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.MAE() != 0.1 || cfg.OutputPath() != "results.html" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.ConfigPath != path {
		t.Fatalf("expected config path %s, got %s", path, cfg.ConfigPath)
	}
}

// TestDecodeJSON checks the JSON form of the same settings.
func TestDecodeJSON(t *testing.T) {
	v, _ := readConfig(t, "config.json", `{"output": "out/report.html", "maeThreshold": 0.05, "summary": true}`)

	cfg, err := Decode(v)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.OutputPath() != "out/report.html" || cfg.MAE() != 0.05 || !cfg.Summary {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

// TestDecodeRejectsNegativeThreshold ensures invalid thresholds are reported.
func TestDecodeRejectsNegativeThreshold(t *testing.T) {
	v, _ := readConfig(t, "config.yaml", "cvThreshold: -1\n")
	if _, err := Decode(v); err == nil {
		t.Fatal("expected an error for a negative threshold")
	}
}

// TestLocateSearchesConfigDirs verifies the search path used without an
// explicit config file.
func TestLocateSearchesConfigDirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte("summary: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	v := viper.New()
	SetDefaults(v)
	Locate(v, "")
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	if !v.GetBool("summary") {
		t.Fatal("expected summary from config/config.yaml")
	}
}

// TestShowConfig checks the printed summary for both the default and the
// file-backed case.
func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, "", Defaults())
	out := buf.String()
	for _, want := range []string{"No config file loaded", "Output:          results.html", "CV Threshold:    0.2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	ShowConfig(&buf, "config/config.yaml", Config{Debug: true, MAEThreshold: 0.3})
	out = buf.String()
	if !strings.Contains(out, "Config file: config/config.yaml") || !strings.Contains(out, "MAE Threshold:   0.3") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
