package domain

import "time"

// BlockedRange mirrors one entry of the in-memory range set into Postgres.
type BlockedRange struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	// CIDR holds the canonical text form, e.g. 192.0.2.0/24. Host bits are
	// kept exactly as written, so the column is plain text rather than the
	// postgres cidr type, which would normalize them away.
	CIDR   string `gorm:"size:43;uniqueIndex;not null"`
	Source string `gorm:"size:512;not null;default:''"`

	// Position preserves set order across a reload.
	Position int `gorm:"not null;default:0"`

	FirstSeenAt time.Time `gorm:"autoCreateTime"`
	LastSeenAt  time.Time `gorm:"autoUpdateTime"`
}
