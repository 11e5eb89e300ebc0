// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_SetGetNestedPaths(t *testing.T) {
	cfg := NewEmptyConfig()
	require.True(t, cfg.IsEmpty())

	require.NoError(t, cfg.Set("defaults.trainingFile", "file-1"))
	require.NoError(t, cfg.Set("defaults.evaluationModel", "llama-ft"))
	require.NoError(t, cfg.Set(KeyEvaluationJobID, "job-9"))

	value, ok := cfg.GetString("defaults.trainingFile")
	require.True(t, ok)
	require.Equal(t, "file-1", value)

	value, ok = cfg.GetString(KeyEvaluationJobID)
	require.True(t, ok)
	require.Equal(t, "job-9", value)

	require.False(t, cfg.IsEmpty())
}

func TestConfig_GetMissingPath(t *testing.T) {
	cfg := NewEmptyConfig()

	_, ok := cfg.Get("nope")
	require.False(t, ok)

	_, ok = cfg.Get("nested.nope")
	require.False(t, ok)
}

func TestConfig_SetRejectsScalarInPath(t *testing.T) {
	cfg := NewEmptyConfig()
	require.NoError(t, cfg.Set("key", "scalar"))

	err := cfg.Set("key.child", "value")
	require.Error(t, err, "a scalar cannot become an object implicitly")
}

func TestConfig_Unset(t *testing.T) {
	cfg := NewEmptyConfig()
	require.NoError(t, cfg.Set("a.b", "value"))

	require.NoError(t, cfg.Unset("a.b"))
	_, ok := cfg.Get("a.b")
	require.False(t, ok)

	// Unsetting a missing path is a no-op.
	require.NoError(t, cfg.Unset("a.missing"))
	require.NoError(t, cfg.Unset("totally.absent.path"))
}

func TestConfig_GetSection(t *testing.T) {
	cfg := NewEmptyConfig()
	require.NoError(t, cfg.Set("run.model", "llama-ft"))
	require.NoError(t, cfg.Set("run.epochs", 3))

	var section struct {
		Model  string `json:"model"`
		Epochs int    `json:"epochs"`
	}

	ok, err := cfg.GetSection("run", &section)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "llama-ft", section.Model)
	require.Equal(t, 3, section.Epochs)

	ok, err = cfg.GetSection("absent", &section)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFileConfigManager_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	manager := NewFileConfigManager(NewManager())

	cfg := NewEmptyConfig()
	require.NoError(t, cfg.Set("trainingFile", "file-1"))
	require.NoError(t, manager.Save(cfg, path))

	loaded, err := manager.Load(path)
	require.NoError(t, err)

	value, ok := loaded.GetString("trainingFile")
	require.True(t, ok)
	require.Equal(t, "file-1", value)
}

func TestLoadUserConfig_MissingFileYieldsEmptyConfig(t *testing.T) {
	t.Setenv("TUNE_CONFIG_DIR", t.TempDir())

	manager := NewFileConfigManager(NewManager())
	cfg, err := manager.LoadUserConfig()
	require.NoError(t, err)
	require.True(t, cfg.IsEmpty())
}

func TestSaveUserConfig_HonorsConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TUNE_CONFIG_DIR", dir)

	manager := NewFileConfigManager(NewManager())

	cfg := NewEmptyConfig()
	require.NoError(t, cfg.Set(KeyEvaluationModel, "llama-ft"))
	require.NoError(t, manager.SaveUserConfig(cfg))

	loaded, err := manager.LoadUserConfig()
	require.NoError(t, err)

	value, ok := loaded.GetString(KeyEvaluationModel)
	require.True(t, ok)
	require.Equal(t, "llama-ft", value)
}

func TestParse_RejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	require.Error(t, err)
}
