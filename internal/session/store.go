// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package session persists lightweight records of submitted fine-tuning
// runs so later commands can relate a job ID back to the configuration
// that produced it.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Record is one persisted fine-tuning session.
type Record struct {
	ID             string    `json:"id"`
	JobID          string    `json:"job_id,omitempty"`
	BaseModel      string    `json:"base_model"`
	TrainingFileID string    `json:"training_file_id"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Store reads and writes session records as individual JSON files under a
// root directory.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	return &Store{root: dir}, nil
}

// Create persists a new record with a fresh ID and returns it.
func (s *Store) Create(baseModel string, trainingFileID string) (*Record, error) {
	now := time.Now().UTC()
	record := &Record{
		ID:             uuid.NewString(),
		BaseModel:      baseModel,
		TrainingFileID: trainingFileID,
		Status:         "created",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.write(record); err != nil {
		return nil, err
	}

	return record, nil
}

// Update rewrites an existing record after applying apply to it.
func (s *Store) Update(id string, apply func(*Record)) (*Record, error) {
	record, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	apply(record)
	record.UpdatedAt = time.Now().UTC()

	if err := s.write(record); err != nil {
		return nil, err
	}

	return record, nil
}

// Get loads a record by ID.
func (s *Store) Get(id string) (*Record, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("reading session %s: %w", id, err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", id, err)
	}

	return &record, nil
}

// List returns all records, newest first.
func (s *Store) List() ([]*Record, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session directory: %w", err)
	}

	var records []*Record
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		record, err := s.Get(entry.Name()[:len(entry.Name())-len(".json")])
		if err != nil {
			// Skip unreadable records rather than failing the listing.
			continue
		}

		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	return records, nil
}

func (s *Store) write(record *Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", record.ID, err)
	}

	if err := os.WriteFile(s.path(record.ID), data, 0644); err != nil {
		return fmt.Errorf("writing session %s: %w", record.ID, err)
	}

	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.root, id+".json")
}
