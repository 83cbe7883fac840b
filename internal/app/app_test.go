package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studenton/studenton/internal/config"
	"github.com/studenton/studenton/internal/models"
	"github.com/studenton/studenton/internal/store"
)

func newApp(t *testing.T) (*App, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := &config.Config{ExportDir: dir}
	return New(cfg, zap.NewNop(), st), st
}

func TestAddStudent_Validation(t *testing.T) {
	a, _ := newApp(t)

	_, err := a.AddStudent(StudentInput{Grade: "초등 1학년"})
	assert.Error(t, err, "name is required")

	_, err = a.AddStudent(StudentInput{Name: "이하늘", Grade: "1st grade"})
	assert.ErrorIs(t, err, ErrUnknownGrade)

	_, err = a.AddStudent(StudentInput{Name: "이하늘", Grade: "초등 1학년", TeacherID: "ghost"})
	assert.ErrorIs(t, err, ErrUnknownTeacher)

	s, err := a.AddStudent(StudentInput{Name: "이하늘", Grade: "초등 1학년", Gender: models.GenderFemale})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
}

func TestAddNote_HomeroomGateOnly(t *testing.T) {
	a, st := newApp(t)
	homeroom := st.AddTeacher(models.Teacher{Name: "김선생"})
	other := st.AddTeacher(models.Teacher{Name: "박선생"})
	s := st.AddStudent(models.Student{Name: "정하윤", Grade: "초등 5학년", CurrentTeacherID: homeroom.ID})

	assert.ErrorIs(t, a.AddNote(s.ID, other.ID, "남의 반 학생"), ErrNotHomeroom)
	require.NoError(t, a.AddNote(s.ID, homeroom.ID, "상담 기록"))

	// The gate lives in the boundary only: the store keeps accepting
	// entries from anyone when called directly.
	st.AddHistoryLog(s.ID, models.HistoryLog{Type: models.HistoryNote, FromTeacherID: other.ID, Comment: "직접 호출"})
	got, _ := st.StudentByID(s.ID)
	assert.Len(t, got.History, 2)
}

func TestAddNote_UnassignedStudentRejectsAll(t *testing.T) {
	a, st := newApp(t)
	tc := st.AddTeacher(models.Teacher{Name: "김선생"})
	s := st.AddStudent(models.Student{Name: "한지민", Grade: "초등 5학년"})

	assert.ErrorIs(t, a.AddNote(s.ID, tc.ID, "담임 없음"), ErrNotHomeroom)
}

func TestImport_RequiresConfirmation(t *testing.T) {
	a, st := newApp(t)
	st.AddStudent(models.Student{Name: "기존", Grade: "초등 1학년"})

	_, err := a.ImportWorkbook(ImportRequest{Path: "whatever.xlsx"})
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Len(t, st.Students(), 1)
}

func TestImport_BlocksOverlappingRuns(t *testing.T) {
	a, st := newApp(t)
	st.AddTeacher(models.Teacher{Name: "김선생"})
	st.AddStudent(models.Student{Name: "기존", Grade: "초등 1학년"})

	path, err := a.ExportWorkbook("")
	require.NoError(t, err)

	// While an import is running, a second invocation is refused and the
	// store stays as it was.
	a.importing.Store(true)
	_, err = a.ImportWorkbook(ImportRequest{Path: path, Confirm: true})
	assert.ErrorIs(t, err, ErrImportInProgress)
	assert.Len(t, st.Students(), 1)
	assert.Equal(t, "기존", st.Students()[0].Name)

	// Once the running import finishes the next one proceeds normally.
	a.importing.Store(false)
	sum, err := a.ImportWorkbook(ImportRequest{Path: path, Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Students)
	assert.Equal(t, 1, sum.Teachers)
}

func TestImport_ParseFailureLeavesStoreUntouched(t *testing.T) {
	a, st := newApp(t)
	st.AddStudent(models.Student{Name: "기존", Grade: "초등 1학년"})

	path := filepath.Join(t.TempDir(), "garbage.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	_, err := a.ImportWorkbook(ImportRequest{Path: path, Confirm: true})
	assert.Error(t, err)
	assert.Len(t, st.Students(), 1, "failed import must not mutate state")
}

func TestExportThenImport_ReplacesStore(t *testing.T) {
	a, st := newApp(t)
	tc := st.AddTeacher(models.Teacher{Name: "김선생", AssignedGrade: "초등 1학년", AssignedClass: "1반"})
	s := st.AddStudent(models.Student{Name: "이하늘", Grade: "초등 1학년", CurrentTeacherID: tc.ID})
	st.AddHistoryLog(s.ID, models.HistoryLog{Type: models.HistoryNote, FromTeacherID: tc.ID, Comment: "기록"})

	path, err := a.ExportWorkbook("")
	require.NoError(t, err)

	sum, err := a.ImportWorkbook(ImportRequest{Path: path, Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Students)
	assert.Equal(t, 1, sum.Teachers)

	got := st.Students()[0]
	assert.NotEqual(t, s.ID, got.ID)
	assert.Empty(t, got.History)
	assert.Empty(t, got.ProfileImage)
}

func TestTeacherDisplayName_DanglingResolvesUnassigned(t *testing.T) {
	a, st := newApp(t)
	tc := st.AddTeacher(models.Teacher{Name: "김선생"})
	st.AddStudent(models.Student{Name: "이하늘", Grade: "초등 1학년", CurrentTeacherID: tc.ID})

	assert.Equal(t, "김선생", a.TeacherDisplayName(tc.ID))
	st.DeleteTeacher(tc.ID)
	assert.Equal(t, "미배정", a.TeacherDisplayName(tc.ID))
	assert.Equal(t, "미배정", a.TeacherDisplayName(""))
}

func TestChangeStatus_RunsTransition(t *testing.T) {
	a, st := newApp(t)
	s := st.AddStudent(models.Student{Name: "이하늘", Grade: "고등 3학년"})

	require.NoError(t, a.ChangeStatus(s.ID, models.GradeGraduated, "", "졸업 처리"))
	got, _ := st.StudentByID(s.ID)
	assert.Equal(t, models.GradeGraduated, got.Grade)
	require.Len(t, got.History, 1)
	assert.Equal(t, models.HistoryPromotion, got.History[0].Type)
}
