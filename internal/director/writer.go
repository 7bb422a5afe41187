package director

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteScenario writes a scenario to a YAML file, creating parent directories.
func WriteScenario(scenario *Scenario, path string) error {
	data, err := yaml.Marshal(scenario)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadScenario reads a scenario from a YAML file
func ReadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if scenario.Version == "" {
		scenario.Version = ScenarioVersion
	}

	return &scenario, nil
}

// LoadScenario resolves the scenario input setting: empty means the built-in
// script, "latest" the newest file in dir, anything else a YAML path.
func LoadScenario(input, dir string) (*Scenario, string, error) {
	switch input {
	case "":
		return Builtin(), "builtin", nil
	case "latest":
		path, err := FindLatestScenario(dir)
		if err != nil {
			return nil, "", err
		}
		input = path
	}
	s, err := ReadScenario(input)
	if err != nil {
		return nil, "", err
	}
	return s, input, nil
}
