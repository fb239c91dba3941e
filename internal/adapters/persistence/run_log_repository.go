package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/processor-go/internal/domain/shared"
)

// RunLogRepository manages run log persistence
type RunLogRepository interface {
	// Log writes a log entry to the database with deduplication
	Log(ctx context.Context, runID string, message, level string, metadata map[string]interface{}) error

	// GetLogs retrieves logs for a run with optional filtering
	GetLogs(ctx context.Context, runID string, limit int, level *string, since *time.Time) ([]RunLogEntry, error)
}

// RunLogEntry represents a log entry
type RunLogEntry struct {
	ID        int
	RunID     string
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// GormRunLogRepository is a GORM-based implementation
type GormRunLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	// Identical messages of one run within dedupWindow are stored once
	dedupCache   map[string]time.Time // key: runID+message, value: last logged time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormRunLogRepository creates a new run log repository.
// If clock is nil, uses RealClock.
func NewGormRunLogRepository(db *gorm.DB, clock shared.Clock) *GormRunLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormRunLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  60 * time.Second,
		dedupMaxSize: 10000,
	}
}

// Log writes a log entry with time-windowed deduplication
func (r *GormRunLogRepository) Log(ctx context.Context, runID string, message, level string, metadata map[string]interface{}) error {
	now := r.clock.Now()
	cacheKey := runID + "|" + message

	r.dedupMu.Lock()
	if lastLogged, exists := r.dedupCache[cacheKey]; exists {
		if now.Sub(lastLogged) < r.dedupWindow {
			r.dedupMu.Unlock()
			return nil
		}
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache()
	}
	r.dedupCache[cacheKey] = now
	r.dedupMu.Unlock()

	// Metadata is optional; an unmarshalable map is dropped
	var metadataJSON string
	if len(metadata) > 0 {
		if jsonBytes, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	entry := &RunLogModel{
		RunID:     runID,
		Timestamp: now,
		Level:     level,
		Message:   message,
		Metadata:  metadataJSON,
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// cleanupDedupCache removes entries older than the window.
// Must be called while holding dedupMu.
func (r *GormRunLogRepository) cleanupDedupCache() {
	cutoff := r.clock.Now().Add(-r.dedupWindow)
	for key, timestamp := range r.dedupCache {
		if timestamp.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

// GetLogs retrieves the newest logs of a run first
func (r *GormRunLogRepository) GetLogs(ctx context.Context, runID string, limit int, level *string, since *time.Time) ([]RunLogEntry, error) {
	var models []RunLogModel

	query := r.db.WithContext(ctx).Where("run_id = ?", runID)
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	if since != nil {
		query = query.Where("timestamp > ?", *since)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Order("timestamp DESC").Order("id DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]RunLogEntry, len(models))
	for i, model := range models {
		var metadata map[string]interface{}
		if model.Metadata != "" {
			if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}
		entries[i] = RunLogEntry{
			ID:        model.ID,
			RunID:     model.RunID,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
			Metadata:  metadata,
		}
	}
	return entries, nil
}

// RunLogger adapts the repository to the application RunLogger for one run.
// Write failures are dropped since logging must not fail the simulation.
type RunLogger struct {
	repo  RunLogRepository
	runID string
}

// NewRunLogger binds a repository to a run ID
func NewRunLogger(repo RunLogRepository, runID string) *RunLogger {
	return &RunLogger{repo: repo, runID: runID}
}

func (l *RunLogger) Log(level, message string, metadata map[string]interface{}) {
	_ = l.repo.Log(context.Background(), l.runID, message, level, metadata)
}
