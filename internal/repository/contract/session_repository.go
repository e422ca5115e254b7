package contract

import (
	"context"

	"patent-scout-be/internal/entity"
	"patent-scout-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, record *entity.SessionRecord) error
	// Save updates the state blob and metadata of an existing record.
	Save(ctx context.Context, record *entity.SessionRecord) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
