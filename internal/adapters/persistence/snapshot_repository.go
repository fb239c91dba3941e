package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/internal/domain/shared"
)

// GormSnapshotRepository implements processing.SnapshotRepository using GORM
type GormSnapshotRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormSnapshotRepository creates a new snapshot repository.
// If clock is nil, uses RealClock.
func NewGormSnapshotRepository(db *gorm.DB, clock shared.Clock) *GormSnapshotRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormSnapshotRepository{db: db, clock: clock}
}

// Save upserts the snapshot of a unit
func (r *GormSnapshotRepository) Save(ctx context.Context, snapshot *processing.Snapshot) error {
	model, err := r.snapshotToModel(snapshot)
	if err != nil {
		return fmt.Errorf("failed to convert snapshot to model: %w", err)
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "unit_id"}},
		UpdateAll: true,
	}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save snapshot: %w", result.Error)
	}
	return nil
}

// FindByUnitID loads the snapshot of a unit
func (r *GormSnapshotRepository) FindByUnitID(ctx context.Context, unitID string) (*processing.Snapshot, error) {
	var model ProcessorSnapshotModel
	result := r.db.WithContext(ctx).Where("unit_id = ?", unitID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("snapshot", unitID)
		}
		return nil, fmt.Errorf("failed to find snapshot: %w", result.Error)
	}
	return r.modelToSnapshot(&model)
}

// ListUnitIDs returns the IDs of every unit with a saved snapshot
func (r *GormSnapshotRepository) ListUnitIDs(ctx context.Context) ([]string, error) {
	var ids []string
	result := r.db.WithContext(ctx).Model(&ProcessorSnapshotModel{}).Order("unit_id").Pluck("unit_id", &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", result.Error)
	}
	return ids, nil
}

// Delete removes the snapshot of a unit; deleting a missing snapshot is not an error
func (r *GormSnapshotRepository) Delete(ctx context.Context, unitID string) error {
	result := r.db.WithContext(ctx).Where("unit_id = ?", unitID).Delete(&ProcessorSnapshotModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete snapshot: %w", result.Error)
	}
	return nil
}

func (r *GormSnapshotRepository) snapshotToModel(snapshot *processing.Snapshot) (*ProcessorSnapshotModel, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot cannot be nil")
	}
	if snapshot.UnitID == "" {
		return nil, shared.NewValidationError("unit_id", "is required")
	}

	processes := snapshot.Processes
	if processes == nil {
		processes = []processing.ProcessRecord{}
	}
	processesJSON, err := json.Marshal(processes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal processes: %w", err)
	}

	return &ProcessorSnapshotModel{
		UnitID:         snapshot.UnitID,
		OutputOnGround: snapshot.OutputOnGround,
		WasteProduced:  snapshot.WasteProduced,
		Processes:      string(processesJSON),
		ProcessCount:   len(processes),
		UpdatedAt:      r.clock.Now(),
	}, nil
}

func (r *GormSnapshotRepository) modelToSnapshot(model *ProcessorSnapshotModel) (*processing.Snapshot, error) {
	processes := make([]processing.ProcessRecord, 0, model.ProcessCount)
	if model.Processes != "" {
		if err := json.Unmarshal([]byte(model.Processes), &processes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal processes of unit %s: %w", model.UnitID, err)
		}
	}

	return &processing.Snapshot{
		UnitID:         model.UnitID,
		OutputOnGround: model.OutputOnGround,
		WasteProduced:  model.WasteProduced,
		Processes:      processes,
	}, nil
}
