package director

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGenerateScenarioPath(t *testing.T) {
	path := GenerateScenarioPath(DefaultScenarioDir)

	if !strings.HasPrefix(filepath.Base(path), "scenario_") {
		t.Errorf("Path should contain 'scenario_': %s", path)
	}
	if filepath.Dir(path) != DefaultScenarioDir {
		t.Errorf("Path should be in %s: %s", DefaultScenarioDir, path)
	}

	t.Logf("Generated path: %s", path)
}

func TestFindLatestScenario(t *testing.T) {
	testDir := t.TempDir()

	files := []string{
		filepath.Join(testDir, "scenario_2026-02-12_10-00-00.yaml"),
		filepath.Join(testDir, "scenario_2026-02-13_01-00-00.yaml"),
		filepath.Join(testDir, "scenario_2026-02-11_15-30-00.yaml"),
	}
	for i, f := range files {
		if err := os.WriteFile(f, []byte("version: \"1\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		if err := os.Chtimes(f, modTime, modTime); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(testDir, "notes.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	latest, err := FindLatestScenario(testDir)
	if err != nil {
		t.Fatalf("FindLatestScenario failed: %v", err)
	}

	t.Logf("Latest scenario: %s", latest)

	// Most recent mod time wins, not the newest-looking name
	if latest != files[len(files)-1] {
		t.Errorf("Expected latest to be %s, got %s", files[len(files)-1], latest)
	}
}

func TestFindLatestScenario_Empty(t *testing.T) {
	if _, err := FindLatestScenario(t.TempDir()); err == nil {
		t.Fatal("expected an error for a directory without scenarios")
	}
}
