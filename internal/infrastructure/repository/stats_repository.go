package repository

import (
	"context"
	"database/sql"
	"fmt"

	domain "lecture-manager/internal/domain/registration"
	"lecture-manager/internal/infrastructure/database"
	interfaces "lecture-manager/internal/interfaces/infrastructure"

	"github.com/jmoiron/sqlx"
)

// StatsRepository runs the aggregate reports as plain SQL through sqlx.
// It never locks and reads whatever is committed when each query starts.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) interfaces.StatsRepository {
	return &StatsRepository{db: db}
}

const sessionStatsQuery = `
SELECT ls.id,
       ls.session_time,
       ls.capacity,
       l.lecture_name,
       COUNT(sls.student_id)::int AS student_count,
       (ls.capacity - COUNT(sls.student_id))::int AS available_spots
FROM "coursesManager".lecture_sessions ls
JOIN "coursesManager".lectures l ON l.id = ls.lecture_id
LEFT JOIN "coursesManager".student_lecture_sessions sls ON sls.session_id = ls.id
GROUP BY ls.id, ls.session_time, ls.capacity, l.lecture_name
ORDER BY ls.id`

func (r *StatsRepository) SessionStats(ctx context.Context) ([]domain.SessionStat, error) {
	stats := []domain.SessionStat{}
	if err := r.db.SelectContext(ctx, &stats, sessionStatsQuery); err != nil {
		return nil, fmt.Errorf("failed to query session stats: %w", database.TranslateError(err))
	}
	return stats, nil
}

// Sessions with more registrations than seats (possible after capacity is
// lowered) are not reported as full.
const fullSessionsQuery = `
SELECT ls.id AS session_id,
       l.lecture_name,
       ls.session_time,
       ls.capacity,
       COUNT(sls.student_id)::int AS student_count
FROM "coursesManager".lecture_sessions ls
JOIN "coursesManager".lectures l ON l.id = ls.lecture_id
LEFT JOIN "coursesManager".student_lecture_sessions sls ON sls.session_id = ls.id
GROUP BY ls.id, l.lecture_name, ls.session_time, ls.capacity
HAVING COUNT(sls.student_id) = ls.capacity
ORDER BY ls.id`

func (r *StatsRepository) FullSessions(ctx context.Context) ([]domain.FullSession, error) {
	sessions := []domain.FullSession{}
	if err := r.db.SelectContext(ctx, &sessions, fullSessionsQuery); err != nil {
		return nil, fmt.Errorf("failed to query full sessions: %w", database.TranslateError(err))
	}
	return sessions, nil
}

const studentStatsQuery = `
SELECT s.id AS student_id,
       s.first_name,
       s.last_name,
       s.email,
       ls.id AS session_id,
       ls.session_time,
       l.lecture_name,
       l.category
FROM "coursesManager".students s
LEFT JOIN "coursesManager".student_lecture_sessions sls ON sls.student_id = s.id
LEFT JOIN "coursesManager".lecture_sessions ls ON ls.id = sls.session_id
LEFT JOIN "coursesManager".lectures l ON l.id = ls.lecture_id
ORDER BY s.id, ls.id`

type studentSessionRow struct {
	StudentID   int64          `db:"student_id"`
	FirstName   string         `db:"first_name"`
	LastName    string         `db:"last_name"`
	Email       string         `db:"email"`
	SessionID   sql.NullInt64  `db:"session_id"`
	SessionTime sql.NullTime   `db:"session_time"`
	LectureName sql.NullString `db:"lecture_name"`
	Category    sql.NullString `db:"category"`
}

func (r *StatsRepository) StudentStats(ctx context.Context) ([]domain.StudentStat, error) {
	var rows []studentSessionRow
	if err := r.db.SelectContext(ctx, &rows, studentStatsQuery); err != nil {
		return nil, fmt.Errorf("failed to query student stats: %w", database.TranslateError(err))
	}
	return groupStudentRows(rows), nil
}

// groupStudentRows folds the one-row-per-(student, session) result into one
// entry per student. Rows must be ordered by student id.
func groupStudentRows(rows []studentSessionRow) []domain.StudentStat {
	stats := []domain.StudentStat{}
	for _, row := range rows {
		if len(stats) == 0 || stats[len(stats)-1].StudentID != row.StudentID {
			stats = append(stats, domain.StudentStat{
				StudentID: row.StudentID,
				FirstName: row.FirstName,
				LastName:  row.LastName,
				Email:     row.Email,
				Sessions:  []domain.StudentStatSession{},
			})
		}
		if !row.SessionID.Valid {
			continue
		}
		current := &stats[len(stats)-1]
		session := domain.StudentStatSession{
			SessionID:   row.SessionID.Int64,
			LectureName: row.LectureName.String,
			SessionTime: row.SessionTime.Time,
		}
		if row.Category.Valid {
			category := row.Category.String
			session.Category = &category
		}
		current.Sessions = append(current.Sessions, session)
		current.TotalSessions++
	}
	return stats
}
