// Package config provides configuration management for the partitioner.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"

	apperrors "github.com/kit-parco/geographer-go/pkg/errors"
)

// Config holds all configuration for a partitioning run.
type Config struct {
	Geometry  GeometryConfig  `mapstructure:"geometry"`
	Sampling  SamplingConfig  `mapstructure:"sampling"`
	Influence InfluenceConfig `mapstructure:"influence"`
	Rebalance RebalanceConfig `mapstructure:"rebalance"`
	Log       LogConfig       `mapstructure:"log"`
}

// GeometryConfig describes the shape of the partitioning problem: the
// number of spatial dimensions, the target block count, the balance
// tolerance, and the optional processor-tree hierarchy.
type GeometryConfig struct {
	Dimensions      int     `mapstructure:"dimensions"`
	NumBlocks       int     `mapstructure:"num_blocks"`
	NumNodeWeights  int     `mapstructure:"num_node_weights"`
	Epsilon         float64 `mapstructure:"epsilon"`
	HierLevels      []int   `mapstructure:"hier_levels"`
	SFCResolution   int     `mapstructure:"sfc_resolution"`
	FocusOnBalance  bool    `mapstructure:"focus_on_balance"`
}

// SamplingConfig controls the Cantor-interleaved sampling schedule used
// during the early k-means iterations.
type SamplingConfig struct {
	MinSamplingNodes    int `mapstructure:"min_sampling_nodes"`
	MaxKMeansIterations int `mapstructure:"max_kmeans_iterations"`
	BalanceIterations   int `mapstructure:"balance_iterations"`
}

// InfluenceConfig controls the adaptive per-block influence feedback loop.
type InfluenceConfig struct {
	Exponent            float64 `mapstructure:"exponent"`
	ChangeCap           float64 `mapstructure:"change_cap"`
	TightenBounds       bool    `mapstructure:"tighten_bounds"`
	FreezeBalanced      bool    `mapstructure:"freeze_balanced"`
	Erode               bool    `mapstructure:"erode"`
}

// RebalanceConfig controls the post-assignment rebalance pass.
type RebalanceConfig struct {
	Method           string `mapstructure:"method"` // repart, reb_lex, reb_sq
	KeepMostBalanced bool   `mapstructure:"keep_most_balanced"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json or text
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("geographer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/geographer")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to read config file", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw bytes (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to read config", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to unmarshal config", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("geometry.dimensions", 2)
	v.SetDefault("geometry.num_blocks", 1)
	v.SetDefault("geometry.num_node_weights", 1)
	v.SetDefault("geometry.epsilon", 0.03)
	v.SetDefault("geometry.sfc_resolution", 19)
	v.SetDefault("geometry.focus_on_balance", false)

	v.SetDefault("sampling.min_sampling_nodes", 1000)
	v.SetDefault("sampling.max_kmeans_iterations", 20)
	v.SetDefault("sampling.balance_iterations", 20)

	v.SetDefault("influence.exponent", 1.0)
	v.SetDefault("influence.change_cap", 0.1)
	v.SetDefault("influence.tighten_bounds", true)
	v.SetDefault("influence.freeze_balanced", false)
	v.SetDefault("influence.erode", false)

	v.SetDefault("rebalance.method", "repart")
	v.SetDefault("rebalance.keep_most_balanced", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "./logs")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration against the partitioner's
// input-shape requirements.
func (c *Config) Validate() error {
	if c.Geometry.Dimensions != 2 && c.Geometry.Dimensions != 3 {
		return apperrors.Newf(apperrors.CodeInvalidArgument,
			"dimensions must be 2 or 3, got %d", c.Geometry.Dimensions)
	}
	if c.Geometry.NumBlocks < 1 {
		return apperrors.Newf(apperrors.CodeInvalidArgument,
			"num_blocks must be at least 1, got %d", c.Geometry.NumBlocks)
	}
	if c.Geometry.Epsilon < 0 {
		return apperrors.Newf(apperrors.CodeInvalidArgument,
			"epsilon must be non-negative, got %f", c.Geometry.Epsilon)
	}
	if c.Geometry.NumNodeWeights < 1 {
		return apperrors.Newf(apperrors.CodeInvalidArgument,
			"num_node_weights must be at least 1, got %d", c.Geometry.NumNodeWeights)
	}
	if len(c.Geometry.HierLevels) > 0 {
		product := 1
		for _, level := range c.Geometry.HierLevels {
			if level < 1 {
				return apperrors.Newf(apperrors.CodeInvalidArgument,
					"hier_levels entries must be at least 1, got %d", level)
			}
			product *= level
		}
		if product != c.Geometry.NumBlocks {
			return apperrors.Newf(apperrors.CodeInvalidArgument,
				"hier_levels product %d does not equal num_blocks %d", product, c.Geometry.NumBlocks)
		}
	}

	switch c.Rebalance.Method {
	case "repart", "reb_lex", "reb_sq":
	default:
		return apperrors.Newf(apperrors.CodeInvalidArgument,
			"unsupported rebalance method: %s", c.Rebalance.Method)
	}

	if c.Sampling.MaxKMeansIterations < 1 {
		return apperrors.Newf(apperrors.CodeInvalidArgument,
			"max_kmeans_iterations must be at least 1, got %d", c.Sampling.MaxKMeansIterations)
	}

	return nil
}
