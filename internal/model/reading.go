package model

import "time"

// Reading is one recorded sensor observation for a waste bin. Readings are
// append-only; Seq preserves insertion order.
type Reading struct {
	Seq         int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	ID          string    `gorm:"uniqueIndex;size:36;not null" json:"id"`
	BinID       string    `gorm:"index;size:128;not null" json:"binId"`
	WeightKg    float64   `gorm:"not null" json:"weightKg"`
	MoistureRaw float64   `gorm:"not null" json:"moistureRaw"`
	WasteTag    string    `gorm:"size:128;not null" json:"wasteTag"`
	Timestamp   time.Time `gorm:"index;not null" json:"timestamp"`
}
