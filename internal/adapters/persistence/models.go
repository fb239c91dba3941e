package persistence

import "time"

// ProcessorSnapshotModel represents the processor_snapshots table
type ProcessorSnapshotModel struct {
	UnitID         string    `gorm:"column:unit_id;primaryKey;not null"`
	OutputOnGround bool      `gorm:"column:output_on_ground;not null;default:false"`
	WasteProduced  float64   `gorm:"column:waste_produced;not null;default:0"`
	Processes      string    `gorm:"column:processes;type:text;not null"` // JSON array of process records
	ProcessCount   int       `gorm:"column:process_count;not null;default:0"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null"`
}

func (ProcessorSnapshotModel) TableName() string {
	return "processor_snapshots"
}

// RunLogModel represents the run_logs table
type RunLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID     string    `gorm:"column:run_id;not null;index"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Level     string    `gorm:"column:level;not null;default:'INFO'"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"`
}

func (RunLogModel) TableName() string {
	return "run_logs"
}
