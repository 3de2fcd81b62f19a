package apexreport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	dftArchive = `{
  "work_path": "/runs/abacus",
  "archive_key": "k-dft",
  "tag": "DFT(abacus)",
  "Al": {
    "relaxation": {"structure_info": {"point_group_symbol": "m-3m"}},
    "elastic_00": {"result": {"BV": 66, "GV": 33}}
  }
}`
	maceArchive = `{
  "work_path": "/runs/mace",
  "archive_key": "k-mace",
  "tag": "mace",
  "Al": {"elastic_00": {"result": {"BV": 70, "GV": 30}}}
}`
)

func TestApexWritesReport(t *testing.T) {
	configPath := useConfig(t, "{}\n")
	dir := t.TempDir()
	writeTempFile(t, dir, "dft.json", dftArchive)
	writeTempFile(t, dir, "mace.json", maceArchive)
	output := filepath.Join(dir, "out", "results.html")
	markdown := filepath.Join(dir, "out", "results.md")

	out, err := execute(t, "apex", filepath.Join(dir, "*.json"),
		"--config", configPath,
		"--logFile", filepath.Join(dir, "apexreport.log"),
		"--markdownOutput", markdown,
		"--jobAddress", "https://jobs.example/7",
		"-o", output)
	if err != nil {
		t.Fatalf("apex: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Report written to "+output) {
		t.Fatalf("unexpected output:\n%s", out)
	}

	body, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	html := string(body)
	for _, want := range []string{"1. Introduction", "2. Summary", "3. Elastic results", "4. Eos results", "<th>RE_BV_DFT</th>", "mace", `href="https://jobs.example/7"`} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in report", want)
		}
	}
	if _, err := os.Stat(markdown); err != nil {
		t.Fatalf("expected markdown companion: %v", err)
	}
}

// TestApexSkipsArchivesWithoutKey checks that archives missing archive_key are
// skipped and the run still produces the report shell.
func TestApexSkipsArchivesWithoutKey(t *testing.T) {
	configPath := useConfig(t, "{}\n")
	dir := t.TempDir()
	writeTempFile(t, dir, "a.json", `{"work_path": "run/A", "Al": {"elastic_00": {"result": {"BV": 1}}}}`)
	writeTempFile(t, dir, "b.json", `{"work_path": "run/B", "Al": {"elastic_00": {"result": {"BV": 2}}}}`)
	output := filepath.Join(dir, "results.html")

	if out, err := execute(t, "apex", filepath.Join(dir, "*.json"), "--config", configPath,
		"--logFile", filepath.Join(dir, "apexreport.log"), "-o", output); err != nil {
		t.Fatalf("apex: %v\n%s", err, out)
	}

	body, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	html := string(body)
	if !strings.Contains(html, "1. Introduction") || !strings.Contains(html, "4. Eos results") {
		t.Fatal("expected the document shell")
	}
	if strings.Contains(html, `<table border="2px">`) {
		t.Fatal("expected no metrics tables for skipped archives")
	}
}

func TestApexNoMatches(t *testing.T) {
	configPath := useConfig(t, "{}\n")
	dir := t.TempDir()

	_, err := execute(t, "apex", filepath.Join(dir, "*.json"), "--config", configPath,
		"--logFile", filepath.Join(dir, "apexreport.log"), "-o", filepath.Join(dir, "r.html"))
	if err == nil {
		t.Fatal("expected an error when no archive matches")
	}
}
