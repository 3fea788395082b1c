package domain

import "time"

// SessionStat is one row of the per-session headcount report
type SessionStat struct {
	ID             int64     `json:"id" db:"id"`
	SessionTime    time.Time `json:"session_time" db:"session_time"`
	Capacity       int       `json:"capacity" db:"capacity"`
	LectureName    string    `json:"lecture_name" db:"lecture_name"`
	StudentCount   int       `json:"student_count" db:"student_count"`
	AvailableSpots int       `json:"available_spots" db:"available_spots"`
}

// FullSession is a session whose registration count equals its capacity
type FullSession struct {
	SessionID    int64     `json:"session_id" db:"session_id"`
	LectureName  string    `json:"lecture_name" db:"lecture_name"`
	SessionTime  time.Time `json:"session_time" db:"session_time"`
	Capacity     int       `json:"capacity" db:"capacity"`
	StudentCount int       `json:"student_count" db:"student_count"`
}

// StudentStat summarises a student's enrollments
type StudentStat struct {
	StudentID     int64                `json:"student_id"`
	FirstName     string               `json:"first_name"`
	LastName      string               `json:"last_name"`
	Email         string               `json:"email"`
	TotalSessions int                  `json:"total_sessions"`
	Sessions      []StudentStatSession `json:"sessions"`
}

type StudentStatSession struct {
	SessionID   int64     `json:"session_id"`
	LectureName string    `json:"lecture_name"`
	SessionTime time.Time `json:"session_time"`
	Category    *string   `json:"category"`
}

// StudentSessionView is a session a student is registered for
type StudentSessionView struct {
	SessionID   int64     `json:"session_id" db:"session_id"`
	SessionTime time.Time `json:"session_time" db:"session_time"`
	Capacity    int       `json:"capacity" db:"capacity"`
	LectureName string    `json:"lecture_name" db:"lecture_name"`
}

// SessionStudentView is a student registered for a session
type SessionStudentView struct {
	StudentID int64  `json:"student_id" db:"student_id"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
}
