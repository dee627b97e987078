// Package config defines default build parameters and their viper bindings.
package config

// BuildConfig defines the thresholds applied before greedy insertion.
type BuildConfig struct {
	// MinScore drops edges below this posterior probability.
	MinScore float64 `mapstructure:"min_score"`
	// MaxEdges caps how many ranked rows are considered; 0 means all.
	MaxEdges int `mapstructure:"max_edges"`
	// Sort re-sorts the table instead of rejecting unsorted input.
	Sort bool `mapstructure:"sort"`
}

// AnalysisConfig defines the post-build reporting parameters.
type AnalysisConfig struct {
	// TopHubs is how many regulators the summary ranks.
	TopHubs int `mapstructure:"top_hubs"`
	// MinComponent hides weakly connected components smaller than this.
	MinComponent int `mapstructure:"min_component"`
}

// EngineConfig defines pipeline-level execution parameters.
type EngineConfig struct {
	// Workers is the number of datasets processed concurrently.
	Workers int `mapstructure:"workers"`
	// Strict makes any dataset failure abort the whole run.
	Strict bool `mapstructure:"strict"`
}

// DefaultBuildConfig returns default build thresholds.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		MinScore: 0.75,
		MaxEdges: 0,
		Sort:     false,
	}
}

// DefaultAnalysisConfig returns default reporting parameters.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		TopHubs:      10,
		MinComponent: 2,
	}
}

// DefaultEngineConfig returns default execution parameters.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Workers: 4,
		Strict:  false,
	}
}
