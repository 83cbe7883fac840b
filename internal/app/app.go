// Package app is the boundary the presentation layer calls. It validates
// inputs, enforces the soft policies the store deliberately does not
// (homeroom-only notes, confirmed destructive imports) and reports
// operational failures.
package app

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studenton/studenton/internal/config"
	"github.com/studenton/studenton/internal/export"
	"github.com/studenton/studenton/internal/images"
	"github.com/studenton/studenton/internal/lifecycle"
	"github.com/studenton/studenton/internal/metrics"
	"github.com/studenton/studenton/internal/models"
	"github.com/studenton/studenton/internal/observability"
	"github.com/studenton/studenton/internal/store"
)

var (
	ErrNotHomeroom          = errors.New("app: only the current homeroom teacher may add a note")
	ErrConfirmationRequired = errors.New("app: import replaces all data and must be confirmed")
	ErrImportInProgress     = errors.New("app: an import is already running")
	ErrUnknownGrade         = errors.New("app: unknown grade")
	ErrUnknownTeacher       = errors.New("app: unknown teacher")
	ErrStudentNotFound      = errors.New("app: student not found")
)

type App struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *store.Store
	engine   *lifecycle.Engine
	validate *validator.Validate

	importing atomic.Bool
}

func New(cfg *config.Config, log *zap.Logger, st *store.Store) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		store:    st,
		engine:   lifecycle.New(st, cfg.Location),
		validate: validator.New(),
	}
}

type StudentInput struct {
	Name          string `validate:"required"`
	Grade         string `validate:"required"`
	TeacherID     string
	ParentPhone   string
	ParentName    string
	BirthDate     string
	Gender        models.Gender `validate:"omitempty,oneof=남 여"`
	SalvationDate string
	Address       string
}

// AddStudent validates and registers a new student. The referenced teacher
// must exist at creation time; afterwards the reference is on its own.
func (a *App) AddStudent(in StudentInput) (models.Student, error) {
	if err := a.validate.Struct(in); err != nil {
		return models.Student{}, fmt.Errorf("invalid student: %w", err)
	}
	if !models.ValidGrade(in.Grade) {
		return models.Student{}, ErrUnknownGrade
	}
	if in.TeacherID != "" {
		if _, ok := a.store.TeacherByID(in.TeacherID); !ok {
			return models.Student{}, ErrUnknownTeacher
		}
	}
	s := a.store.AddStudent(models.Student{
		Name:             in.Name,
		Grade:            in.Grade,
		CurrentTeacherID: in.TeacherID,
		ParentPhone:      in.ParentPhone,
		ParentName:       in.ParentName,
		BirthDate:        in.BirthDate,
		Gender:           in.Gender,
		SalvationDate:    in.SalvationDate,
		Address:          in.Address,
	})
	a.log.Info("student added", zap.String("id", s.ID), zap.String("grade", s.Grade))
	return s, nil
}

type TeacherInput struct {
	Name          string `validate:"required"`
	PhoneNumber   string
	AssignedGrade string
	AssignedClass string
}

func (a *App) AddTeacher(in TeacherInput) (models.Teacher, error) {
	if err := a.validate.Struct(in); err != nil {
		return models.Teacher{}, fmt.Errorf("invalid teacher: %w", err)
	}
	t := a.store.AddTeacher(models.Teacher{
		Name:          in.Name,
		PhoneNumber:   in.PhoneNumber,
		AssignedGrade: in.AssignedGrade,
		AssignedClass: in.AssignedClass,
	})
	a.log.Info("teacher added", zap.String("id", t.ID))
	return t, nil
}

func (a *App) UpdateStudent(id string, patch store.StudentPatch) { a.store.UpdateStudent(id, patch) }
func (a *App) UpdateTeacher(id string, patch store.TeacherPatch) { a.store.UpdateTeacher(id, patch) }
func (a *App) DeleteStudent(id string)                           { a.store.DeleteStudent(id) }
func (a *App) DeleteTeacher(id string)                           { a.store.DeleteTeacher(id) }
func (a *App) Students() []models.Student                        { return a.store.Students() }
func (a *App) Teachers() []models.Teacher                        { return a.store.Teachers() }

// ChangeStatus runs a grade/teacher transition through the engine.
func (a *App) ChangeStatus(studentID, newGrade, newTeacherID, comment string) error {
	if !models.ValidGrade(newGrade) {
		return ErrUnknownGrade
	}
	return a.engine.Apply(studentID, newGrade, newTeacherID, comment)
}

// AddNote accepts a note only from the student's current homeroom teacher.
// This is a soft policy of the boundary, not a data invariant: callers
// reaching the engine or store directly are not stopped.
func (a *App) AddNote(studentID, authorTeacherID, comment string) error {
	st, ok := a.store.StudentByID(studentID)
	if !ok {
		return ErrStudentNotFound
	}
	if st.CurrentTeacherID == "" || st.CurrentTeacherID != authorTeacherID {
		return ErrNotHomeroom
	}
	return a.engine.AddNote(studentID, authorTeacherID, comment)
}

// SetProfileImage compresses and stores the photo inline. On failure the
// student keeps the previous image.
func (a *App) SetProfileImage(studentID string, raw []byte) error {
	if _, ok := a.store.StudentByID(studentID); !ok {
		return ErrStudentNotFound
	}
	thumb, err := images.Compress(raw)
	if err != nil {
		return err
	}
	a.store.UpdateStudent(studentID, store.StudentPatch{ProfileImage: store.Ptr(thumb)})
	return nil
}

// TeacherDisplayName resolves a reference defensively: empty or dangling
// ids render as unassigned rather than failing.
func (a *App) TeacherDisplayName(teacherID string) string {
	if teacherID == "" {
		return "미배정"
	}
	t, ok := a.store.TeacherByID(teacherID)
	if !ok {
		return "미배정"
	}
	return t.Name
}

// ExportWorkbook writes the interchange document into dir (the configured
// export dir when empty) and returns its path.
func (a *App) ExportWorkbook(dir string) (string, error) {
	if dir == "" {
		dir = a.cfg.ExportDir
	}
	path, err := export.WriteFile(dir, a.store.Students(), a.store.Teachers())
	if err != nil {
		observability.CaptureErr(err)
		return "", err
	}
	metrics.Exports.Inc()
	a.log.Info("exported", zap.String("path", path))
	return path, nil
}

type ImportRequest struct {
	Path string
	// Confirm acknowledges that the import wholesale-replaces both
	// collections and wipes all history and profile images.
	Confirm bool
}

type ImportSummary struct {
	Students int
	Teachers int
}

// ImportWorkbook replaces the entire store contents from a workbook. The
// call is destructive and irreversible, so it refuses to run unconfirmed,
// and a loading flag blocks overlapping invocations. A parse failure
// leaves the store untouched.
func (a *App) ImportWorkbook(req ImportRequest) (ImportSummary, error) {
	if !req.Confirm {
		return ImportSummary{}, ErrConfirmationRequired
	}
	if !a.importing.CompareAndSwap(false, true) {
		return ImportSummary{}, ErrImportInProgress
	}
	defer a.importing.Store(false)

	res, err := export.Read(req.Path)
	if err != nil {
		metrics.Imports.WithLabelValues("error").Inc()
		observability.CaptureErr(err)
		return ImportSummary{}, err
	}
	a.store.SetAllData(res.Students, res.Teachers)
	metrics.Imports.WithLabelValues("ok").Inc()
	a.log.Info("imported",
		zap.Int("students", len(res.Students)),
		zap.Int("teachers", len(res.Teachers)))
	return ImportSummary{Students: len(res.Students), Teachers: len(res.Teachers)}, nil
}
