package repository

import (
	"context"
	"errors"

	domain "lecture-manager/internal/domain/registration"
	"lecture-manager/internal/infrastructure/database"
	interfaces "lecture-manager/internal/interfaces/infrastructure"

	"gorm.io/gorm"
)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) interfaces.StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	err := r.db.WithContext(ctx).Create(student).Error
	if database.IsUniqueViolation(err) {
		return domain.NewValidationError("email already exists")
	}
	return database.TranslateError(err)
}

func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*domain.Student, error) {
	var student domain.Student
	err := r.db.WithContext(ctx).Take(&student, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, database.TranslateError(err)
	}
	return &student, nil
}

func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	var student domain.Student
	err := r.db.WithContext(ctx).Take(&student, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, database.TranslateError(err)
	}
	return &student, nil
}

func (r *StudentRepository) List(ctx context.Context, limit, offset int) ([]*domain.Student, error) {
	var students []*domain.Student
	q := r.db.WithContext(ctx).Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&students).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return students, nil
}

func (r *StudentRepository) Update(ctx context.Context, student *domain.Student) error {
	err := r.db.WithContext(ctx).Save(student).Error
	if database.IsUniqueViolation(err) {
		return domain.NewValidationError("email already exists")
	}
	return database.TranslateError(err)
}

// Delete removes the student; registrations go with it through the cascading FK
func (r *StudentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Student{}, id)
	if result.Error != nil {
		return false, database.TranslateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}
