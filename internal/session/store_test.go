// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStore_CreateAndGet(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	record, err := store.Create("llama-3", "file-1")
	require.NoError(t, err)
	require.NotEmpty(t, record.ID)
	require.Equal(t, "llama-3", record.BaseModel)
	require.Equal(t, "file-1", record.TrainingFileID)
	require.Equal(t, "created", record.Status)

	loaded, err := store.Get(record.ID)
	require.NoError(t, err)
	require.Equal(t, record.ID, loaded.ID)
	require.Equal(t, "llama-3", loaded.BaseModel)
}

func TestStore_Update(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	record, err := store.Create("llama-3", "file-1")
	require.NoError(t, err)

	updated, err := store.Update(record.ID, func(r *Record) {
		r.JobID = "job-42"
		r.Status = "queued"
	})
	require.NoError(t, err)
	require.Equal(t, "job-42", updated.JobID)
	require.False(t, updated.UpdatedAt.Before(record.UpdatedAt))

	loaded, err := store.Get(record.ID)
	require.NoError(t, err)
	require.Equal(t, "job-42", loaded.JobID)
	require.Equal(t, "queued", loaded.Status)
}

func TestStore_GetMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get("does-not-exist")
	require.Error(t, err)
}

func TestStore_ListNewestFirst(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Create("model-a", "file-1")
	require.NoError(t, err)

	// Ensure distinct creation timestamps.
	time.Sleep(5 * time.Millisecond)

	second, err := store.Create("model-b", "file-2")
	require.NoError(t, err)

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, second.ID, records[0].ID)
	require.Equal(t, first.ID, records[1].ID)
}

func TestStore_ListEmpty(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	records, err := store.List()
	require.NoError(t, err)
	require.Empty(t, records)
}
