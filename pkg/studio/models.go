// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package studio

// JobStatus is the lifecycle status reported by the training backend.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// IsTerminal returns true when no further status changes can occur.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// SubmitRequest is the flat fine-tuning job payload for POST /finetune.
// Field names are the backend's wire contract and must not change.
type SubmitRequest struct {
	ModelName                 string  `json:"model_name"`
	MaxSeqLength              int     `json:"max_seq_length"`
	NumTrainEpochs            int     `json:"num_train_epochs"`
	PerDeviceTrainBatchSize   int     `json:"per_device_train_batch_size"`
	GradientAccumulationSteps int     `json:"gradient_accumulation_steps"`
	LearningRate              float64 `json:"learning_rate"`
	WarmupSteps               int     `json:"warmup_steps"`
	SaveSteps                 int     `json:"save_steps"`
	LoggingSteps              int     `json:"logging_steps"`
	OutputDir                 string  `json:"output_dir"`
	LoraR                     int     `json:"lora_r"`
	LoraAlpha                 int     `json:"lora_alpha"`
	LoraDropout               float64 `json:"lora_dropout"`
	LrSchedulerType           string  `json:"lr_scheduler_type"`
	AdamBeta1                 float64 `json:"adam_beta1"`
	AdamBeta2                 float64 `json:"adam_beta2"`
	AdamEpsilon               float64 `json:"adam_epsilon"`
	MaxGradNorm               float64 `json:"max_grad_norm"`
	WeightDecay               float64 `json:"weight_decay"`
	DropoutRate               float64 `json:"dropout_rate"`
	AttentionDropout          float64 `json:"attention_dropout"`
	LabelSmoothingFactor      float64 `json:"label_smoothing_factor"`
	DataloaderNumWorkers      int     `json:"dataloader_num_workers"`
	DataloaderPinMemory       bool    `json:"dataloader_pin_memory"`
	GradientCheckpointing     bool    `json:"gradient_checkpointing"`
	FP16                      bool    `json:"fp16"`
	BF16                      bool    `json:"bf16"`
	Quantization              string  `json:"quantization"`
	Seed                      int     `json:"seed"`
	RemoveUnusedColumns       bool    `json:"remove_unused_columns"`
	PushToHub                 bool    `json:"push_to_hub"`
	HubModelID                string  `json:"hub_model_id"`
	ReportTo                  string  `json:"report_to"`
	MaxSampleSize             *int    `json:"max_sample_size,omitempty"`
}

// SubmitResponse is the success body of a job submission.
type SubmitResponse struct {
	JobID string `json:"job_id"`
}

// TrainingStatus is a point-in-time snapshot of a running job.
type TrainingStatus struct {
	JobID              string    `json:"job_id"`
	Status             JobStatus `json:"status"`
	ProgressPercentage float64   `json:"progress_percentage"`
	CompletedRows      int       `json:"completed_rows"`
	TotalRows          int       `json:"total_rows"`
	CurrentEpoch       int       `json:"current_epoch"`
	TotalEpochs        int       `json:"total_epochs"`
	Error              string    `json:"error,omitempty"`
}

// LogEntry is one record from GET /api/logs. Entries are discriminated by
// Type (training_step, epoch_begin, epoch_end, ...) and carry heterogeneous
// metrics; absent metrics stay nil.
type LogEntry struct {
	Type           string   `json:"type"`
	Timestamp      string   `json:"timestamp,omitempty"`
	Epoch          int      `json:"epoch,omitempty"`
	Step           int      `json:"step,omitempty"`
	TotalSteps     int      `json:"total_steps,omitempty"`
	Loss           *float64 `json:"loss,omitempty"`
	LearningRate   *float64 `json:"learning_rate,omitempty"`
	GradNorm       *float64 `json:"grad_norm,omitempty"`
	EtaMinutes     *float64 `json:"eta_minutes,omitempty"`
	RemainingSteps *int     `json:"remaining_steps,omitempty"`
	AvgStepTime    *float64 `json:"avg_step_time,omitempty"`
	Message        string   `json:"message,omitempty"`
}

// LogsResponse wraps the training log stream.
type LogsResponse struct {
	Logs []LogEntry `json:"logs"`
}

// LatestByType returns the most recent entry of the given type, or nil.
// Logs are append-only, so the last match wins.
func (r *LogsResponse) LatestByType(entryType string) *LogEntry {
	for i := len(r.Logs) - 1; i >= 0; i-- {
		if r.Logs[i].Type == entryType {
			return &r.Logs[i]
		}
	}
	return nil
}

// ModelInfo describes a base model available for fine-tuning.
type ModelInfo struct {
	Name          string `json:"name"`
	DisplayName   string `json:"display_name,omitempty"`
	ContextLength int    `json:"context_length,omitempty"`
	Quantizable   bool   `json:"quantizable,omitempty"`
}

// FileMetadata describes an uploaded training file.
type FileMetadata struct {
	ID         string   `json:"id"`
	Filename   string   `json:"filename"`
	SizeBytes  int64    `json:"size_bytes"`
	TotalRows  int      `json:"total_rows"`
	Columns    []string `json:"columns"`
	UploadedAt string   `json:"uploaded_at,omitempty"`
}

// ColumnMapping assigns uploaded file columns to training roles.
type ColumnMapping struct {
	InstructionColumns []string `json:"instruction_columns"`
	InputColumns       []string `json:"input_columns,omitempty"`
	OutputColumn       string   `json:"output_column"`
}

// ProcessedDataset is the result of applying a column mapping to a file.
type ProcessedDataset struct {
	FileID      string         `json:"file_id"`
	DatasetID   string         `json:"dataset_id"`
	Rows        int            `json:"rows"`
	Mapping     *ColumnMapping `json:"mapping,omitempty"`
	SampleRows  []any          `json:"sample_rows,omitempty"`
	ProcessedAt string         `json:"processed_at,omitempty"`
}

// Dataset is a prepared dataset registered with the backend.
type Dataset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Rows        int    `json:"rows"`
	SourceFile  string `json:"source_file,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// EvaluationRequest starts an evaluation run of a model against a dataset.
type EvaluationRequest struct {
	ModelName string `json:"model_name"`
	DatasetID string `json:"dataset_id"`
	MaxSample int    `json:"max_sample,omitempty"`
}

// EvaluationStatus mirrors TrainingStatus for evaluation jobs.
type EvaluationStatus struct {
	JobID              string    `json:"job_id"`
	Status             JobStatus `json:"status"`
	ProgressPercentage float64   `json:"progress_percentage"`
	CompletedRows      int       `json:"completed_rows"`
	TotalRows          int       `json:"total_rows"`
	Error              string    `json:"error,omitempty"`
}

// EvaluationResults carries the final evaluation metrics as reported by the
// backend. Metric names are backend-defined and passed through untouched.
type EvaluationResults struct {
	JobID     string             `json:"job_id"`
	ModelName string             `json:"model_name"`
	DatasetID string             `json:"dataset_id"`
	Metrics   map[string]float64 `json:"metrics"`
	Samples   []EvaluationSample `json:"samples,omitempty"`
}

// EvaluationSample is one scored prediction from an evaluation run.
type EvaluationSample struct {
	Input     string  `json:"input"`
	Expected  string  `json:"expected"`
	Predicted string  `json:"predicted"`
	Score     float64 `json:"score"`
}

// ChatMessage is one turn in a chat exchange.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest asks the inference backend for a (streaming) completion.
type ChatRequest struct {
	ModelName   string        `json:"model_name"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

// ChatChunk is one newline-delimited streaming fragment of a chat response.
type ChatChunk struct {
	Delta string `json:"delta"`
	Done  bool   `json:"done,omitempty"`
	Error string `json:"error,omitempty"`
}
