package kvstore

import (
	"context"

	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/attendance"
	"github.com/schoolhub/school-admin/internal/domain/auth"
	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/internal/domain/student"
	"github.com/schoolhub/school-admin/internal/domain/timetable"
)

// Repositories bundles every repository of one backend.
type Repositories struct {
	Students   *StudentRepository
	Results    *ResultRepository
	Attendance *AttendanceRepository
	Timetable  *TimetableRepository
	Users      *UserRepository
}

// NewRepositories creates all repositories on top of backend.
func NewRepositories(backend Backend) *Repositories {
	return &Repositories{
		Students:   NewStudentRepository(backend),
		Results:    NewResultRepository(backend),
		Attendance: NewAttendanceRepository(backend),
		Timetable:  NewTimetableRepository(backend),
		Users:      NewUserRepository(backend),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository.
type StudentRepository struct {
	c *Collection[student.Student]
}

var _ student.Repository = (*StudentRepository)(nil)

// NewStudentRepository creates a repository stored under KeyStudents.
func NewStudentRepository(backend Backend) *StudentRepository {
	return &StudentRepository{c: NewCollection[student.Student](backend, KeyStudents)}
}

func (r *StudentRepository) List(ctx context.Context) ([]student.Student, error) {
	return r.c.List(ctx)
}

func (r *StudentRepository) ListByClass(ctx context.Context, class student.Class) ([]student.Student, error) {
	return r.c.Filter(ctx, func(s student.Student) bool { return s.Class == class })
}

func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	s, ok, err := r.c.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return &s, nil
}

func (r *StudentRepository) Save(ctx context.Context, s *student.Student) error {
	return r.c.UpsertByID(ctx, *s)
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	found, err := r.c.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return shared.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	return r.c.Count(ctx)
}

// ══════════════════════════════════════════════════════════════════════════════
// RESULTS
// ══════════════════════════════════════════════════════════════════════════════

// ResultRepository implements academic.ResultRepository.
type ResultRepository struct {
	c *Collection[academic.Result]
}

var _ academic.ResultRepository = (*ResultRepository)(nil)

// NewResultRepository creates a repository stored under KeyResults.
func NewResultRepository(backend Backend) *ResultRepository {
	return &ResultRepository{c: NewCollection[academic.Result](backend, KeyResults)}
}

func (r *ResultRepository) List(ctx context.Context, filter academic.ResultFilter) ([]academic.Result, error) {
	return r.c.Filter(ctx, filter.Matches)
}

func (r *ResultRepository) GetByID(ctx context.Context, id string) (*academic.Result, error) {
	res, ok, err := r.c.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.ErrResultNotFound
	}
	return &res, nil
}

func (r *ResultRepository) Save(ctx context.Context, res *academic.Result) error {
	return r.c.UpsertByID(ctx, *res)
}

func (r *ResultRepository) SaveBatch(ctx context.Context, results []academic.Result) error {
	return r.c.UpsertByID(ctx, results...)
}

func (r *ResultRepository) Count(ctx context.Context) (int, error) {
	return r.c.Count(ctx)
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

// AttendanceRepository implements attendance.Repository.
type AttendanceRepository struct {
	c *Collection[attendance.Record]
}

var _ attendance.Repository = (*AttendanceRepository)(nil)

// NewAttendanceRepository creates a repository stored under KeyAttendance.
func NewAttendanceRepository(backend Backend) *AttendanceRepository {
	return &AttendanceRepository{c: NewCollection[attendance.Record](backend, KeyAttendance)}
}

func (r *AttendanceRepository) List(ctx context.Context) ([]attendance.Record, error) {
	return r.c.List(ctx)
}

func (r *AttendanceRepository) ListByDate(ctx context.Context, date string, class student.Class) ([]attendance.Record, error) {
	return r.c.Filter(ctx, func(rec attendance.Record) bool {
		return rec.Date == date && rec.Class == class
	})
}

func (r *AttendanceRepository) ReplaceForDay(ctx context.Context, date string, class student.Class, records []attendance.Record) error {
	return r.c.ReplaceWhere(ctx, func(rec attendance.Record) bool {
		return rec.Date == date && rec.Class == class
	}, records)
}

// ══════════════════════════════════════════════════════════════════════════════
// TIMETABLE
// ══════════════════════════════════════════════════════════════════════════════

// TimetableRepository implements timetable.Repository.
type TimetableRepository struct {
	c *Collection[timetable.Entry]
}

var _ timetable.Repository = (*TimetableRepository)(nil)

// NewTimetableRepository creates a repository stored under KeyTimetable.
func NewTimetableRepository(backend Backend) *TimetableRepository {
	return &TimetableRepository{c: NewCollection[timetable.Entry](backend, KeyTimetable)}
}

func (r *TimetableRepository) List(ctx context.Context) ([]timetable.Entry, error) {
	return r.c.List(ctx)
}

func (r *TimetableRepository) ListByClass(ctx context.Context, class student.Class) ([]timetable.Entry, error) {
	return r.c.Filter(ctx, func(e timetable.Entry) bool { return e.Class == class })
}

func (r *TimetableRepository) Save(ctx context.Context, e *timetable.Entry) error {
	return r.c.UpsertByID(ctx, *e)
}

func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	found, err := r.c.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return shared.ErrTimetableEntryNotFound
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// USERS
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements auth.UserRepository.
type UserRepository struct {
	c *Collection[auth.User]
}

var _ auth.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a repository stored under KeyUsers.
func NewUserRepository(backend Backend) *UserRepository {
	return &UserRepository{c: NewCollection[auth.User](backend, KeyUsers)}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	u, ok, err := r.c.Find(ctx, func(u auth.User) bool { return u.Username == username })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) Save(ctx context.Context, u *auth.User) error {
	return r.c.UpsertByID(ctx, *u)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	return r.c.Count(ctx)
}
