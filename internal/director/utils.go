package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultScenarioDir is where dumped scenarios are written and "latest" looks.
const DefaultScenarioDir = "scenarios"

// GenerateScenarioPath creates a timestamped scenario filename in dir
func GenerateScenarioPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("scenario_%s.yaml", timestamp))
}

// FindLatestScenario finds the most recent scenario file in dir
func FindLatestScenario(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var scenarios []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return "", err
		}
		scenarios = append(scenarios, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	if len(scenarios) == 0 {
		return "", fmt.Errorf("no scenario files found in %s", dir)
	}

	// Newest first; names break ties so equal mtimes stay deterministic
	sort.Slice(scenarios, func(i, j int) bool {
		if !scenarios[i].mod.Equal(scenarios[j].mod) {
			return scenarios[i].mod.After(scenarios[j].mod)
		}
		return scenarios[i].path > scenarios[j].path
	})

	return scenarios[0].path, nil
}
