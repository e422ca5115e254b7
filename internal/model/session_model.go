package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionRecord struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OwnerId   *uuid.UUID     `gorm:"type:uuid;index"`
	Label     string         `gorm:"type:varchar(255)"`
	Library   string         `gorm:"type:varchar(50);index"`
	State     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (SessionRecord) TableName() string {
	return "session_records"
}
