package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByOwner filters session records by owning user
type ByOwner struct {
	OwnerId uuid.UUID
}

func (s ByOwner) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_id = ?", s.OwnerId)
}

// ByLibrary filters session records by record corpus
type ByLibrary struct {
	Library string
}

func (s ByLibrary) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("library = ?", s.Library)
}
