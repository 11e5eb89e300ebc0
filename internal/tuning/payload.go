// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package tuning

import (
	"github.com/tunestudio/tune/pkg/studio"
)

// BuildSubmission flattens the basic parameters and advanced configuration
// into the backend's submission payload. The internal-to-external field
// renaming (epochs -> num_train_epochs, lora_rank -> lora_r, ...) is the
// backend's wire contract and must stay total: every internal field maps to
// exactly one external key.
//
// totalRows is the training file row count when known (0 otherwise); it is
// combined with the cutoff fraction to emit the optional max_sample_size.
func BuildSubmission(params Params, cfg AdvancedConfig, totalRows int) *studio.SubmitRequest {
	req := &studio.SubmitRequest{
		ModelName:                 params.ModelName,
		MaxSeqLength:              params.MaxSeqLength,
		NumTrainEpochs:            params.Epochs,
		PerDeviceTrainBatchSize:   params.BatchSize,
		GradientAccumulationSteps: cfg.GradientAccumulationSteps,
		LearningRate:              params.LearningRate,
		WarmupSteps:               cfg.WarmupSteps,
		SaveSteps:                 cfg.SaveSteps,
		LoggingSteps:              params.LoggingSteps,
		OutputDir:                 cfg.OutputDir,
		LoraR:                     cfg.LoraRank,
		LoraAlpha:                 cfg.LoraAlpha,
		LoraDropout:               cfg.LoraDropout,
		LrSchedulerType:           cfg.LrSchedulerType,
		AdamBeta1:                 cfg.AdamBeta1,
		AdamBeta2:                 cfg.AdamBeta2,
		AdamEpsilon:               cfg.AdamEpsilon,
		MaxGradNorm:               cfg.MaxGradNorm,
		WeightDecay:               cfg.WeightDecay,
		DropoutRate:               cfg.DropoutRate,
		AttentionDropout:          cfg.AttentionDropout,
		LabelSmoothingFactor:      cfg.LabelSmoothingFactor,
		DataloaderNumWorkers:      cfg.DataloaderNumWorkers,
		DataloaderPinMemory:       cfg.DataloaderPinMemory,
		GradientCheckpointing:     cfg.GradientCheckpointing,
		FP16:                      cfg.FP16,
		BF16:                      cfg.BF16,
		Quantization:              cfg.Quantization,
		Seed:                      cfg.Seed,
		RemoveUnusedColumns:       cfg.RemoveUnusedColumns,
		PushToHub:                 cfg.PushToHub,
		HubModelID:                cfg.HubModelID,
		ReportTo:                  cfg.ReportTo,
	}

	if totalRows > 0 && params.CutoffFraction < 1.0 {
		size := int(float64(totalRows) * params.CutoffFraction)
		req.MaxSampleSize = &size
	}

	return req
}
