// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package utils

import (
	"fmt"
	"os"

	"github.com/braydonk/yaml"

	"github.com/tunestudio/tune/internal/tuning"
)

// JobConfig is a parsed job configuration file.
type JobConfig struct {
	BaseModel string
	Params    tuning.Params
	Advanced  tuning.AdvancedConfig
}

// jobFile is the on-disk shape of a job configuration file: the base model
// and basic parameters at the top level with the advanced knobs nested
// under "advanced".
type jobFile struct {
	BaseModel     string `yaml:"base_model"`
	tuning.Params `yaml:",inline"`
	Advanced      tuning.AdvancedConfig `yaml:"advanced"`
}

// ParseJobConfig reads a YAML job configuration file and returns the base
// model, parameters and advanced settings, with defaults filled in for
// anything the file omits and out-of-range values clamped.
func ParseJobConfig(filePath string) (*JobConfig, error) {
	yamlFile, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	config := jobFile{
		Params:   tuning.DefaultParams(),
		Advanced: tuning.DefaultAdvancedConfig(),
	}
	if err := yaml.Unmarshal(yamlFile, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return &JobConfig{
		BaseModel: config.BaseModel,
		Params:    config.Params.Normalized(),
		Advanced:  config.Advanced,
	}, nil
}
