package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SessionRecord is a persisted snapshot of a search session's state tree.
// State is the opaque JSON document produced by state.Session.Snapshot;
// OwnerId is nil for free-tier sessions created before sign-in.
type SessionRecord struct {
	Id        uuid.UUID
	OwnerId   *uuid.UUID
	Label     string
	Library   string
	State     json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
