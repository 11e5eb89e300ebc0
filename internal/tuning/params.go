// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package tuning

import "math"

// Domains for the basic parameters. Values outside a domain are clamped to
// its nearest bound; NaN and unset values fall back to the default.
const (
	MinEpochs     = 1
	MaxEpochs     = 100
	DefaultEpochs = 3

	MinLearningRate     = 1e-6
	MaxLearningRate     = 1e-1
	DefaultLearningRate = 2e-4

	MinBatchSize     = 1
	MaxBatchSize     = 128
	DefaultBatchSize = 8

	MinSeqLength     = 128
	MaxSeqLength     = 32768
	DefaultSeqLength = 2048

	MinCutoffFraction     = 0.1
	MaxCutoffFraction     = 1.0
	DefaultCutoffFraction = 1.0

	MinLoggingSteps     = 1
	MaxLoggingSteps     = 1000
	DefaultLoggingSteps = 10
)

// Params holds the basic training parameters a user edits in the wizard's
// parameters step. Numeric fields are kept within their declared domains by
// Normalized; a Params at rest is never out of range.
type Params struct {
	ModelName      string  `yaml:"model_name"`
	Epochs         int     `yaml:"epochs"`
	LearningRate   float64 `yaml:"learning_rate"`
	BatchSize      int     `yaml:"batch_size"`
	MaxSeqLength   int     `yaml:"max_seq_length"`
	CutoffFraction float64 `yaml:"cutoff_fraction"`
	LoggingSteps   int     `yaml:"logging_steps"`
}

// DefaultParams returns a Params with every field at its default.
func DefaultParams() Params {
	return Params{
		Epochs:         DefaultEpochs,
		LearningRate:   DefaultLearningRate,
		BatchSize:      DefaultBatchSize,
		MaxSeqLength:   DefaultSeqLength,
		CutoffFraction: DefaultCutoffFraction,
		LoggingSteps:   DefaultLoggingSteps,
	}
}

// Normalized returns a copy with every numeric field clamped into its
// domain. Zero and NaN values are replaced with defaults rather than
// clamped, matching the blur-time behavior of the configuration form.
func (p Params) Normalized() Params {
	p.Epochs = clampInt(p.Epochs, MinEpochs, MaxEpochs, DefaultEpochs)
	p.LearningRate = clampFloat(p.LearningRate, MinLearningRate, MaxLearningRate, DefaultLearningRate)
	p.BatchSize = clampInt(p.BatchSize, MinBatchSize, MaxBatchSize, DefaultBatchSize)
	p.MaxSeqLength = clampInt(p.MaxSeqLength, MinSeqLength, MaxSeqLength, DefaultSeqLength)
	p.CutoffFraction = clampFloat(p.CutoffFraction, MinCutoffFraction, MaxCutoffFraction, DefaultCutoffFraction)
	p.LoggingSteps = clampInt(p.LoggingSteps, MinLoggingSteps, MaxLoggingSteps, DefaultLoggingSteps)

	return p
}

// AdvancedConfig holds the optimizer, regularization, memory, quantization
// and LoRA knobs. Fields are independently defaulted; no cross-field
// invariants are enforced (LoRA alpha is not forced to 2x rank even though
// that is the conventional choice).
type AdvancedConfig struct {
	GradientAccumulationSteps int     `yaml:"gradient_accumulation_steps"`
	WarmupSteps               int     `yaml:"warmup_steps"`
	SaveSteps                 int     `yaml:"save_steps"`
	OutputDir                 string  `yaml:"output_dir"`
	LoraRank                  int     `yaml:"lora_rank"`
	LoraAlpha                 int     `yaml:"lora_alpha"`
	LoraDropout               float64 `yaml:"lora_dropout"`
	LrSchedulerType           string  `yaml:"lr_scheduler_type"`
	AdamBeta1                 float64 `yaml:"adam_beta1"`
	AdamBeta2                 float64 `yaml:"adam_beta2"`
	AdamEpsilon               float64 `yaml:"adam_epsilon"`
	MaxGradNorm               float64 `yaml:"max_grad_norm"`
	WeightDecay               float64 `yaml:"weight_decay"`
	DropoutRate               float64 `yaml:"dropout_rate"`
	AttentionDropout          float64 `yaml:"attention_dropout"`
	LabelSmoothingFactor      float64 `yaml:"label_smoothing_factor"`
	DataloaderNumWorkers      int     `yaml:"dataloader_num_workers"`
	DataloaderPinMemory       bool    `yaml:"dataloader_pin_memory"`
	GradientCheckpointing     bool    `yaml:"gradient_checkpointing"`
	FP16                      bool    `yaml:"fp16"`
	BF16                      bool    `yaml:"bf16"`
	Quantization              string  `yaml:"quantization"`
	Seed                      int     `yaml:"seed"`
	RemoveUnusedColumns       bool    `yaml:"remove_unused_columns"`
	PushToHub                 bool    `yaml:"push_to_hub"`
	HubModelID                string  `yaml:"hub_model_id"`
	ReportTo                  string  `yaml:"report_to"`
}

// DefaultAdvancedConfig returns the advanced training configuration with
// every field at its default.
func DefaultAdvancedConfig() AdvancedConfig {
	return AdvancedConfig{
		GradientAccumulationSteps: 1,
		WarmupSteps:               100,
		SaveSteps:                 500,
		OutputDir:                 "./results",
		LoraRank:                  8,
		LoraAlpha:                 16,
		LoraDropout:               0.05,
		LrSchedulerType:           "cosine",
		AdamBeta1:                 0.9,
		AdamBeta2:                 0.999,
		AdamEpsilon:               1e-8,
		MaxGradNorm:               1.0,
		WeightDecay:               0.01,
		DropoutRate:               0.1,
		AttentionDropout:          0.1,
		LabelSmoothingFactor:      0.0,
		DataloaderNumWorkers:      2,
		DataloaderPinMemory:       true,
		GradientCheckpointing:     false,
		FP16:                      true,
		BF16:                      false,
		Quantization:              "4bit",
		Seed:                      42,
		RemoveUnusedColumns:       true,
		PushToHub:                 false,
		ReportTo:                  "none",
	}
}

func clampInt(v, min, max, def int) int {
	if v == 0 {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampFloat(v, min, max, def float64) float64 {
	if v == 0 || math.IsNaN(v) {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
