package domain

import (
	"time"
)

// Student represents a student who can register for lecture sessions
type Student struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Email     string    `json:"email" gorm:"unique;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Student) TableName() string {
	return SchemaName + ".students"
}

// Lecture is a course. It owns zero or more sessions.
type Lecture struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	LectureName string    `json:"lecture_name" gorm:"not null"`
	Description *string   `json:"description"`
	Category    *string   `json:"category" gorm:"size:100"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Lecture) TableName() string {
	return SchemaName + ".lectures"
}

// LectureSession is a scheduled occurrence of a lecture with a fixed seat capacity
type LectureSession struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	LectureID   int64     `json:"lecture_id" gorm:"not null"`
	SessionTime time.Time `json:"session_time" gorm:"not null"`
	Capacity    int       `json:"capacity" gorm:"not null;check:capacity > 0"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	Lecture     *Lecture  `json:"lecture,omitempty" gorm:"foreignKey:LectureID"`
}

func (LectureSession) TableName() string {
	return SchemaName + ".lecture_sessions"
}

// Registration links a student to one seat in one session.
// The composite primary key allows at most one row per pair.
type Registration struct {
	StudentID int64 `json:"student_id" gorm:"primaryKey;autoIncrement:false"`
	SessionID int64 `json:"session_id" gorm:"primaryKey;autoIncrement:false"`
}

func (Registration) TableName() string {
	return SchemaName + ".student_lecture_sessions"
}

// SchemaName is the dedicated namespace holding the relational tables
const SchemaName = "coursesManager"

// Request DTOs

// RegisterRequest is used for both register and unregister
type RegisterRequest struct {
	StudentID int64 `json:"student_id" validate:"required,gt=0"`
	SessionID int64 `json:"session_id" validate:"required,gt=0"`
}

type CreateStudentRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=255"`
	LastName  string `json:"last_name" validate:"required,min=1,max=255"`
	Email     string `json:"email" validate:"required,email"`
}

type UpdateStudentRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=255"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=255"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
}

type CreateLectureRequest struct {
	LectureName string  `json:"lecture_name" validate:"required,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
}

type UpdateLectureRequest struct {
	LectureName *string `json:"lecture_name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
}

type CreateSessionRequest struct {
	LectureID   int64     `json:"lecture_id" validate:"required,gt=0"`
	SessionTime time.Time `json:"session_time" validate:"required"`
	Capacity    int       `json:"capacity" validate:"required,gt=0"`
}

type UpdateSessionRequest struct {
	LectureID   *int64     `json:"lecture_id,omitempty" validate:"omitempty,gt=0"`
	SessionTime *time.Time `json:"session_time,omitempty"`
	Capacity    *int       `json:"capacity,omitempty" validate:"omitempty,gt=0"`
}
