package repository

import (
	"context"
	"errors"

	domain "lecture-manager/internal/domain/registration"
	"lecture-manager/internal/infrastructure/database"
	interfaces "lecture-manager/internal/interfaces/infrastructure"

	"gorm.io/gorm"
)

type LectureRepository struct {
	db *gorm.DB
}

func NewLectureRepository(db *gorm.DB) interfaces.LectureRepository {
	return &LectureRepository{
		db: db,
	}
}

func (r *LectureRepository) Create(ctx context.Context, lecture *domain.Lecture) error {
	return database.TranslateError(r.db.WithContext(ctx).Create(lecture).Error)
}

func (r *LectureRepository) GetByID(ctx context.Context, id int64) (*domain.Lecture, error) {
	var lecture domain.Lecture
	err := r.db.WithContext(ctx).Take(&lecture, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, database.TranslateError(err)
	}
	return &lecture, nil
}

func (r *LectureRepository) List(ctx context.Context) ([]*domain.Lecture, error) {
	var lectures []*domain.Lecture
	if err := r.db.WithContext(ctx).Order("id").Find(&lectures).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return lectures, nil
}

func (r *LectureRepository) Update(ctx context.Context, lecture *domain.Lecture) error {
	return database.TranslateError(r.db.WithContext(ctx).Save(lecture).Error)
}

// Delete fails with a validation error while the lecture still owns sessions
func (r *LectureRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Lecture{}, id)
	if result.Error != nil {
		if database.IsForeignKeyViolation(result.Error) {
			return false, domain.NewValidationError("lecture %d still has sessions", id)
		}
		return false, database.TranslateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}
