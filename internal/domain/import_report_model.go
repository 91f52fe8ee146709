package domain

import "time"

// ImportReport records one bulk import of range candidates, whether it came
// from the API, a source refresh, or startup hydration.
type ImportReport struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	// Trigger is one of "api", "refresh", "startup".
	Trigger string     `gorm:"size:32;not null"`
	Sources StringList `gorm:"type:jsonb"`

	Candidates int `gorm:"not null;default:0"`
	Accepted   int `gorm:"not null;default:0"`
	SetSize    int `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
