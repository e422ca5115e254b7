package implementation

import (
	"context"
	"errors"
	"time"

	"patent-scout-be/internal/entity"
	"patent-scout-be/internal/mapper"
	"patent-scout-be/internal/model"
	"patent-scout-be/internal/repository/contract"
	"patent-scout-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, record *entity.SessionRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) Save(ctx context.Context, record *entity.SessionRecord) error {
	m := r.mapper.ToModel(record)
	updates := map[string]interface{}{
		"state":      m.State,
		"library":    m.Library,
		"updated_at": time.Now(),
	}
	// Autosave does not carry the label; only overwrite it when set.
	if m.Label != "" {
		updates["label"] = m.Label
	}
	return r.db.WithContext(ctx).Model(&model.SessionRecord{}).
		Where("id = ?", m.Id).
		Updates(updates).Error
}

func (r *SessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionRecord, error) {
	var m model.SessionRecord
	db := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := db.First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionRecord, error) {
	var models []model.SessionRecord
	db := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := db.Find(&models).Error; err != nil {
		return nil, err
	}
	records := make([]*entity.SessionRecord, 0, len(models))
	for i := range models {
		records = append(records, r.mapper.ToEntity(&models[i]))
	}
	return records, nil
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SessionRecord{}).Error
}

func (r *SessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	db := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SessionRecord{}), specs...)
	err := db.Count(&count).Error
	return count, err
}
