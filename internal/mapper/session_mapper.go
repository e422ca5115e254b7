package mapper

import (
	"encoding/json"

	"patent-scout-be/internal/entity"
	"patent-scout-be/internal/model"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.SessionRecord) *entity.SessionRecord {
	if s == nil {
		return nil
	}
	return &entity.SessionRecord{
		Id:        s.Id,
		OwnerId:   s.OwnerId,
		Label:     s.Label,
		Library:   s.Library,
		State:     json.RawMessage(s.State),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.SessionRecord) *model.SessionRecord {
	if s == nil {
		return nil
	}
	return &model.SessionRecord{
		Id:        s.Id,
		OwnerId:   s.OwnerId,
		Label:     s.Label,
		Library:   s.Library,
		State:     datatypes.JSON(s.State),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
