package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Label   string `json:"label"`
	Library string `json:"library"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

// SessionStateResponse carries the whole state tree; clients replace their
// local copy wholesale (last write wins).
type SessionStateResponse struct {
	Id        uuid.UUID       `json:"id"`
	State     json.RawMessage `json:"state"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type SessionSummary struct {
	Id        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Library   string    `json:"library"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmitEventRequest is the generic event ingress: the client-side action
// vocabulary mapped 1:1 onto bus emissions.
type EmitEventRequest struct {
	Type    string                 `json:"type" validate:"required"`
	Payload map[string]interface{} `json:"payload"`
}

// SessionDirtyMessage marks a session as needing an autosave. Published on
// the in-process pub/sub; the autosave consumer debounces per session id.
type SessionDirtyMessage struct {
	SessionId string `json:"session_id"`
}
