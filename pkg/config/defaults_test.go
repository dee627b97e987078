package config

import (
	"testing"
)

func TestDefaultBuildConfig(t *testing.T) {
	config := DefaultBuildConfig()

	if config.MinScore != 0.75 {
		t.Errorf("Expected MinScore 0.75, got %f", config.MinScore)
	}

	if config.MaxEdges != 0 {
		t.Errorf("Expected MaxEdges 0 (unlimited), got %d", config.MaxEdges)
	}

	if config.Sort {
		t.Error("Expected Sort to default off; ranked input is the contract")
	}
}

func TestDefaultEngineConfig(t *testing.T) {
	config := DefaultEngineConfig()

	if config.Workers < 1 {
		t.Errorf("Workers must be at least 1, got %d", config.Workers)
	}

	if config.Strict {
		t.Error("Strict must default off so one bad dataset does not kill a course run")
	}
}
