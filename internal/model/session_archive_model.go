package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SessionArchive is the durable record written when a deployment opts to
// back closed sessions with the relational store. The in-memory engine
// never reads these rows back.
type SessionArchive struct {
	Id           uuid.UUID         `gorm:"type:uuid;primaryKey"`
	SessionId    uuid.UUID         `gorm:"type:uuid;not null;index"`
	UserId       uuid.UUID         `gorm:"type:uuid;not null;index"`
	MessageCount int               `gorm:"not null"`
	ClosedAt     time.Time         `gorm:"not null"`
	History      datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt    time.Time         `gorm:"autoCreateTime"`
}

func (SessionArchive) TableName() string {
	return "session_archives"
}
