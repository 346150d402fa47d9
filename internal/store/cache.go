package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deckhand/deckhand/internal/trackerapi"
)

// RecordType identifies the kind of cached record.
type RecordType string

const (
	RecordTypeTask    RecordType = "task"
	RecordTypeProject RecordType = "project"
)

// GetCachedTask returns a cached task if it has not expired.
func (s *Store) GetCachedTask(ctx context.Context, id string) (*trackerapi.Task, error) {
	var task trackerapi.Task
	found, err := s.getCachedRecord(ctx, RecordTypeTask, id, &task)
	if err != nil || !found {
		return nil, err
	}
	return &task, nil
}

// SetCachedTask stores a fetched task with a TTL.
func (s *Store) SetCachedTask(ctx context.Context, task *trackerapi.Task, ttl time.Duration) error {
	if task == nil {
		return nil
	}
	return s.setCachedRecord(ctx, RecordTypeTask, task.ID, task, ttl)
}

// GetCachedProject returns a cached project if it has not expired.
func (s *Store) GetCachedProject(ctx context.Context, id string) (*trackerapi.Project, error) {
	var project trackerapi.Project
	found, err := s.getCachedRecord(ctx, RecordTypeProject, id, &project)
	if err != nil || !found {
		return nil, err
	}
	return &project, nil
}

// SetCachedProject stores a fetched project with a TTL.
func (s *Store) SetCachedProject(ctx context.Context, project *trackerapi.Project, ttl time.Duration) error {
	if project == nil {
		return nil
	}
	return s.setCachedRecord(ctx, RecordTypeProject, project.ID, project, ttl)
}

// PruneExpired removes cache rows whose TTL has elapsed.
func (s *Store) PruneExpired(ctx context.Context) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM record_cache WHERE expires_at <= ?`, time.Now().UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("prune record cache: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return removed, nil
}

func (s *Store) getCachedRecord(ctx context.Context, recordType RecordType, id string, out any) (bool, error) {
	if s == nil || s.DB == nil {
		return false, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	key := strings.TrimSpace(id)
	if key == "" {
		return false, errors.New("record id is required")
	}

	var payload string
	row := s.DB.QueryRowContext(ctx, `
		SELECT payload
		FROM record_cache
		WHERE record_type = ? AND record_id = ? AND expires_at > ?
	`, string(recordType), key, time.Now().UTC().Unix())

	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("fetch cached record: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, fmt.Errorf("decode cached record: %w", err)
	}
	return true, nil
}

func (s *Store) setCachedRecord(ctx context.Context, recordType RecordType, id string, record any, ttl time.Duration) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if ttl <= 0 {
		return nil
	}

	key := strings.TrimSpace(id)
	if key == "" {
		return errors.New("record id is required")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode cached record: %w", err)
	}

	now := time.Now().UTC()
	expires := now.Add(ttl)

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO record_cache (record_type, record_id, payload, fetched_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(record_type, record_id) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at
	`, string(recordType), key, string(payload), now.Unix(), expires.Unix())
	if err != nil {
		return fmt.Errorf("store cached record: %w", err)
	}

	return nil
}
