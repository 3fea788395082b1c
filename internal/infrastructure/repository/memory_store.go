package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	domain "lecture-manager/internal/domain/registration"
	"lecture-manager/internal/infrastructure/database"
	interfaces "lecture-manager/internal/interfaces/infrastructure"
)

// memoryState is an in-memory relational store with the same observable
// behaviour as the Postgres schema: unique emails, cascading registration
// deletes, and an exclusive per-session lock held for a whole transaction.
type memoryState struct {
	mu            sync.RWMutex
	students      map[int64]domain.Student
	lectures      map[int64]domain.Lecture
	sessions      map[int64]domain.LectureSession
	registrations map[int64]map[int64]struct{} // session id -> student ids

	nextStudentID int64
	nextLectureID int64
	nextSessionID int64

	locksMu     sync.Mutex
	locks       map[int64]chan struct{}
	lockTimeout time.Duration
}

// NewMemoryStore returns a Store whose repositories share one in-memory state.
// lockTimeout bounds the wait for a session lock; zero waits until ctx is done.
func NewMemoryStore(lockTimeout time.Duration) *interfaces.Store {
	state := &memoryState{
		students:      make(map[int64]domain.Student),
		lectures:      make(map[int64]domain.Lecture),
		sessions:      make(map[int64]domain.LectureSession),
		registrations: make(map[int64]map[int64]struct{}),
		locks:         make(map[int64]chan struct{}),
		lockTimeout:   lockTimeout,
	}

	return &interfaces.Store{
		Students:      &memoryStudents{state},
		Lectures:      &memoryLectures{state},
		Sessions:      &memorySessions{state},
		Registrations: &memoryRegistrations{state},
		Stats:         &memoryStats{state},
		Ping:          func(ctx context.Context) error { return nil },
		Close:         func() error { return nil },
	}
}

func (s *memoryState) sessionLock(id int64) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	return ch
}

func (s *memoryState) acquire(ctx context.Context, id int64) error {
	ch := s.sessionLock(id)

	var timeout <-chan time.Time
	if s.lockTimeout > 0 {
		timer := time.NewTimer(s.lockTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for lock on session %d: %w", id, ctx.Err())
	case <-timeout:
		return fmt.Errorf("%w: lock on session %d not available", domain.ErrBusy, id)
	}
}

func (s *memoryState) release(id int64) {
	<-s.sessionLock(id)
}

func (s *memoryState) countLocked(sessionID int64) int {
	return len(s.registrations[sessionID])
}

func (s *memoryState) registeredLocked(studentID, sessionID int64) bool {
	_, ok := s.registrations[sessionID][studentID]
	return ok
}

func (s *memoryState) emailTakenLocked(email string, exceptID int64) bool {
	for id, st := range s.students {
		if id != exceptID && strings.EqualFold(st.Email, email) {
			return true
		}
	}
	return false
}

func now() time.Time {
	return time.Now().UTC()
}

// Students

type memoryStudents struct{ s *memoryState }

func (r *memoryStudents) Create(ctx context.Context, student *domain.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.emailTakenLocked(student.Email, 0) {
		return domain.NewValidationError("email already exists")
	}
	r.s.nextStudentID++
	student.ID = r.s.nextStudentID
	student.CreatedAt = now()
	student.UpdatedAt = student.CreatedAt
	r.s.students[student.ID] = *student
	return nil
}

func (r *memoryStudents) GetByID(ctx context.Context, id int64) (*domain.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.students[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *memoryStudents) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, st := range r.s.students {
		if strings.EqualFold(st.Email, email) {
			found := st
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memoryStudents) List(ctx context.Context, limit, offset int) ([]*domain.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	students := make([]*domain.Student, 0, len(r.s.students))
	for _, st := range r.s.students {
		st := st
		students = append(students, &st)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })

	if offset > 0 {
		if offset >= len(students) {
			return []*domain.Student{}, nil
		}
		students = students[offset:]
	}
	if limit > 0 && limit < len(students) {
		students = students[:limit]
	}
	return students, nil
}

func (r *memoryStudents) Update(ctx context.Context, student *domain.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.students[student.ID]
	if !ok {
		return domain.NewNotFound("student", student.ID)
	}
	if r.s.emailTakenLocked(student.Email, student.ID) {
		return domain.NewValidationError("email already exists")
	}
	student.CreatedAt = existing.CreatedAt
	student.UpdatedAt = now()
	r.s.students[student.ID] = *student
	return nil
}

func (r *memoryStudents) Delete(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.students[id]; !ok {
		return false, nil
	}
	delete(r.s.students, id)
	for _, students := range r.s.registrations {
		delete(students, id)
	}
	return true, nil
}

// Lectures

type memoryLectures struct{ s *memoryState }

func (r *memoryLectures) Create(ctx context.Context, lecture *domain.Lecture) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextLectureID++
	lecture.ID = r.s.nextLectureID
	lecture.CreatedAt = now()
	lecture.UpdatedAt = lecture.CreatedAt
	r.s.lectures[lecture.ID] = *lecture
	return nil
}

func (r *memoryLectures) GetByID(ctx context.Context, id int64) (*domain.Lecture, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.lectures[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *memoryLectures) List(ctx context.Context) ([]*domain.Lecture, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	lectures := make([]*domain.Lecture, 0, len(r.s.lectures))
	for _, l := range r.s.lectures {
		l := l
		lectures = append(lectures, &l)
	}
	sort.Slice(lectures, func(i, j int) bool { return lectures[i].ID < lectures[j].ID })
	return lectures, nil
}

func (r *memoryLectures) Update(ctx context.Context, lecture *domain.Lecture) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.lectures[lecture.ID]
	if !ok {
		return domain.NewNotFound("lecture", lecture.ID)
	}
	lecture.CreatedAt = existing.CreatedAt
	lecture.UpdatedAt = now()
	r.s.lectures[lecture.ID] = *lecture
	return nil
}

func (r *memoryLectures) Delete(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.lectures[id]; !ok {
		return false, nil
	}
	for _, session := range r.s.sessions {
		if session.LectureID == id {
			return false, domain.NewValidationError("lecture %d still has sessions", id)
		}
	}
	delete(r.s.lectures, id)
	return true, nil
}

// Sessions

type memorySessions struct{ s *memoryState }

func (r *memorySessions) withLectureLocked(session domain.LectureSession) *domain.LectureSession {
	if l, ok := r.s.lectures[session.LectureID]; ok {
		session.Lecture = &l
	}
	return &session
}

func (r *memorySessions) Create(ctx context.Context, session *domain.LectureSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.lectures[session.LectureID]; !ok {
		return domain.NewNotFound("lecture", session.LectureID)
	}
	if session.Capacity <= 0 {
		return domain.NewValidationError("capacity must be greater than 0")
	}
	r.s.nextSessionID++
	session.ID = r.s.nextSessionID
	session.CreatedAt = now()
	session.UpdatedAt = session.CreatedAt

	stored := *session
	stored.Lecture = nil
	r.s.sessions[session.ID] = stored
	return nil
}

func (r *memorySessions) GetByID(ctx context.Context, id int64) (*domain.LectureSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	session, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	return r.withLectureLocked(session), nil
}

func (r *memorySessions) List(ctx context.Context) ([]*domain.LectureSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sessions := make([]*domain.LectureSession, 0, len(r.s.sessions))
	for _, session := range r.s.sessions {
		sessions = append(sessions, r.withLectureLocked(session))
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions, nil
}

func (r *memorySessions) Update(ctx context.Context, session *domain.LectureSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.sessions[session.ID]
	if !ok {
		return domain.NewNotFound("session", session.ID)
	}
	if _, ok := r.s.lectures[session.LectureID]; !ok {
		return domain.NewNotFound("lecture", session.LectureID)
	}
	if session.Capacity <= 0 {
		return domain.NewValidationError("capacity must be greater than 0")
	}
	session.CreatedAt = existing.CreatedAt
	session.UpdatedAt = now()

	stored := *session
	stored.Lecture = nil
	r.s.sessions[session.ID] = stored
	return nil
}

func (r *memorySessions) Delete(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sessions[id]; !ok {
		return false, nil
	}
	delete(r.s.sessions, id)
	delete(r.s.registrations, id)
	return true, nil
}

func (r *memorySessions) CountRegistrations(ctx context.Context, sessionID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.countLocked(sessionID), nil
}

// Registrations

type memoryRegistrations struct{ s *memoryState }

// WithinTransaction buffers inserts and applies them only when fn succeeds.
// Session locks taken by fn are released after the commit or rollback.
func (r *memoryRegistrations) WithinTransaction(ctx context.Context, fn func(tx interfaces.RegistrationTx) error) error {
	tx := &memoryTx{s: r.s}
	defer tx.releaseAll()

	if err := fn(tx); err != nil {
		return database.TranslateError(err)
	}
	return tx.commit()
}

func (r *memoryRegistrations) Delete(ctx context.Context, studentID, sessionID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.registeredLocked(studentID, sessionID) {
		return false, nil
	}
	delete(r.s.registrations[sessionID], studentID)
	return true, nil
}

func (r *memoryRegistrations) SessionsForStudent(ctx context.Context, studentID int64) ([]domain.StudentSessionView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	views := []domain.StudentSessionView{}
	for sessionID, students := range r.s.registrations {
		if _, ok := students[studentID]; !ok {
			continue
		}
		session := r.s.sessions[sessionID]
		views = append(views, domain.StudentSessionView{
			SessionID:   session.ID,
			SessionTime: session.SessionTime,
			Capacity:    session.Capacity,
			LectureName: r.s.lectures[session.LectureID].LectureName,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		if !views[i].SessionTime.Equal(views[j].SessionTime) {
			return views[i].SessionTime.Before(views[j].SessionTime)
		}
		return views[i].SessionID < views[j].SessionID
	})
	return views, nil
}

func (r *memoryRegistrations) StudentsForSession(ctx context.Context, sessionID int64) ([]domain.SessionStudentView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	views := []domain.SessionStudentView{}
	for studentID := range r.s.registrations[sessionID] {
		st := r.s.students[studentID]
		views = append(views, domain.SessionStudentView{
			StudentID: st.ID,
			FirstName: st.FirstName,
			LastName:  st.LastName,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.StudentID < b.StudentID
	})
	return views, nil
}

type memoryTx struct {
	s       *memoryState
	held    []int64
	pending []domain.Registration
}

func (t *memoryTx) holds(sessionID int64) bool {
	for _, id := range t.held {
		if id == sessionID {
			return true
		}
	}
	return false
}

func (t *memoryTx) releaseAll() {
	for _, id := range t.held {
		t.s.release(id)
	}
	t.held = nil
}

func (t *memoryTx) LockSession(ctx context.Context, sessionID int64) (*domain.LectureSession, error) {
	t.s.mu.RLock()
	_, exists := t.s.sessions[sessionID]
	t.s.mu.RUnlock()
	if !exists {
		return nil, nil
	}

	if !t.holds(sessionID) {
		if err := t.s.acquire(ctx, sessionID); err != nil {
			return nil, err
		}
		t.held = append(t.held, sessionID)
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	session, ok := t.s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (t *memoryTx) StudentExists(ctx context.Context, studentID int64) (bool, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	_, ok := t.s.students[studentID]
	return ok, nil
}

func (t *memoryTx) pendingCount(sessionID int64) int {
	n := 0
	for _, p := range t.pending {
		if p.SessionID == sessionID {
			n++
		}
	}
	return n
}

func (t *memoryTx) pendingHas(studentID, sessionID int64) bool {
	for _, p := range t.pending {
		if p.StudentID == studentID && p.SessionID == sessionID {
			return true
		}
	}
	return false
}

func (t *memoryTx) CountRegistrations(ctx context.Context, sessionID int64) (int, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.s.countLocked(sessionID) + t.pendingCount(sessionID), nil
}

func (t *memoryTx) RegistrationExists(ctx context.Context, studentID, sessionID int64) (bool, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.s.registeredLocked(studentID, sessionID) || t.pendingHas(studentID, sessionID), nil
}

func (t *memoryTx) Create(ctx context.Context, registration *domain.Registration) error {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	if err := t.s.checkRegistrationLocked(*registration); err != nil {
		return err
	}
	if t.pendingHas(registration.StudentID, registration.SessionID) {
		return domain.ErrDuplicateRegistration
	}
	t.pending = append(t.pending, *registration)
	return nil
}

func (s *memoryState) checkRegistrationLocked(reg domain.Registration) error {
	if _, ok := s.students[reg.StudentID]; !ok {
		return domain.NewNotFound("student", reg.StudentID)
	}
	if _, ok := s.sessions[reg.SessionID]; !ok {
		return domain.NewNotFound("session", reg.SessionID)
	}
	if s.registeredLocked(reg.StudentID, reg.SessionID) {
		return domain.ErrDuplicateRegistration
	}
	return nil
}

// commit re-checks constraints against the current state before applying
// anything, so either every pending row lands or none does.
func (t *memoryTx) commit() error {
	if len(t.pending) == 0 {
		return nil
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	for _, reg := range t.pending {
		if err := t.s.checkRegistrationLocked(reg); err != nil {
			return err
		}
	}
	for _, reg := range t.pending {
		students, ok := t.s.registrations[reg.SessionID]
		if !ok {
			students = make(map[int64]struct{})
			t.s.registrations[reg.SessionID] = students
		}
		students[reg.StudentID] = struct{}{}
	}
	t.pending = nil
	return nil
}

// Stats

type memoryStats struct{ s *memoryState }

func (r *memoryStats) sortedSessionIDsLocked() []int64 {
	ids := make([]int64, 0, len(r.s.sessions))
	for id := range r.s.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *memoryStats) SessionStats(ctx context.Context) ([]domain.SessionStat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := []domain.SessionStat{}
	for _, id := range r.sortedSessionIDsLocked() {
		session := r.s.sessions[id]
		count := r.s.countLocked(id)
		stats = append(stats, domain.SessionStat{
			ID:             session.ID,
			SessionTime:    session.SessionTime,
			Capacity:       session.Capacity,
			LectureName:    r.s.lectures[session.LectureID].LectureName,
			StudentCount:   count,
			AvailableSpots: session.Capacity - count,
		})
	}
	return stats, nil
}

func (r *memoryStats) FullSessions(ctx context.Context) ([]domain.FullSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	full := []domain.FullSession{}
	for _, id := range r.sortedSessionIDsLocked() {
		session := r.s.sessions[id]
		count := r.s.countLocked(id)
		if count != session.Capacity {
			continue
		}
		full = append(full, domain.FullSession{
			SessionID:    session.ID,
			LectureName:  r.s.lectures[session.LectureID].LectureName,
			SessionTime:  session.SessionTime,
			Capacity:     session.Capacity,
			StudentCount: count,
		})
	}
	return full, nil
}

func (r *memoryStats) StudentStats(ctx context.Context) ([]domain.StudentStat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	studentIDs := make([]int64, 0, len(r.s.students))
	for id := range r.s.students {
		studentIDs = append(studentIDs, id)
	}
	sort.Slice(studentIDs, func(i, j int) bool { return studentIDs[i] < studentIDs[j] })

	var rows []studentSessionRow
	sessionIDs := r.sortedSessionIDsLocked()
	for _, studentID := range studentIDs {
		st := r.s.students[studentID]
		row := studentSessionRow{
			StudentID: st.ID,
			FirstName: st.FirstName,
			LastName:  st.LastName,
			Email:     st.Email,
		}
		matched := false
		for _, sessionID := range sessionIDs {
			if !r.s.registeredLocked(studentID, sessionID) {
				continue
			}
			matched = true
			session := r.s.sessions[sessionID]
			lecture := r.s.lectures[session.LectureID]
			withSession := row
			withSession.SessionID.Int64, withSession.SessionID.Valid = session.ID, true
			withSession.SessionTime.Time, withSession.SessionTime.Valid = session.SessionTime, true
			withSession.LectureName.String, withSession.LectureName.Valid = lecture.LectureName, true
			if lecture.Category != nil {
				withSession.Category.String, withSession.Category.Valid = *lecture.Category, true
			}
			rows = append(rows, withSession)
		}
		if !matched {
			rows = append(rows, row)
		}
	}
	return groupStudentRows(rows), nil
}
