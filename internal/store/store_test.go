package store_test

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/studenton/studenton/internal/models"
	"github.com/studenton/studenton/internal/store"
)

func openTemp(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "studenton.db")
	st, err := store.Open(path, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestAddStudent_MintsIDAndEmptyHistory(t *testing.T) {
	st := openTemp(t)

	s := st.AddStudent(models.Student{Name: "이서준", Grade: "초등 1학년", ID: "ignored"})
	if s.ID == "" || s.ID == "ignored" {
		t.Fatalf("expected a fresh id, got %q", s.ID)
	}
	if s.History == nil || len(s.History) != 0 {
		t.Fatalf("expected empty history, got %#v", s.History)
	}

	// Duplicate names are allowed.
	dup := st.AddStudent(models.Student{Name: "이서준", Grade: "초등 1학년"})
	if dup.ID == s.ID {
		t.Fatal("duplicate name must still get its own id")
	}
	if len(st.Students()) != 2 {
		t.Fatalf("expected 2 students, got %d", len(st.Students()))
	}
}

func TestUpdateStudent_MergesFields_UnknownIDNoop(t *testing.T) {
	st := openTemp(t)
	s := st.AddStudent(models.Student{Name: "김하은", Grade: "초등 2학년", ParentPhone: "010-1111-2222"})

	st.UpdateStudent(s.ID, store.StudentPatch{Address: store.Ptr("서울시")})
	got, ok := st.StudentByID(s.ID)
	if !ok {
		t.Fatal("student vanished")
	}
	if got.Address != "서울시" || got.ParentPhone != "010-1111-2222" {
		t.Fatalf("partial update wrong: %#v", got)
	}

	st.UpdateStudent("no-such-id", store.StudentPatch{Name: store.Ptr("x")})
	if len(st.Students()) != 1 {
		t.Fatal("unknown id must be a no-op")
	}
}

func TestDeleteTeacher_LeavesDanglingReference(t *testing.T) {
	st := openTemp(t)
	tc := st.AddTeacher(models.Teacher{Name: "김선생"})
	s := st.AddStudent(models.Student{Name: "박지호", Grade: "초등 3학년", CurrentTeacherID: tc.ID})

	st.DeleteTeacher(tc.ID)

	got, _ := st.StudentByID(s.ID)
	if got.CurrentTeacherID != tc.ID {
		t.Fatalf("delete must not cascade, got teacher id %q", got.CurrentTeacherID)
	}
	if _, ok := st.TeacherByID(got.CurrentTeacherID); ok {
		t.Fatal("teacher should be gone")
	}
}

func TestAddHistoryLog_NewestFirst(t *testing.T) {
	st := openTemp(t)
	s := st.AddStudent(models.Student{Name: "최유진", Grade: "중등 1학년"})

	st.AddHistoryLog(s.ID, models.HistoryLog{Type: models.HistoryNote, Comment: "first"})
	st.AddHistoryLog(s.ID, models.HistoryLog{Type: models.HistoryNote, Comment: "second"})

	got, _ := st.StudentByID(s.ID)
	if len(got.History) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got.History))
	}
	if got.History[0].Comment != "second" || got.History[1].Comment != "first" {
		t.Fatalf("history not newest-first: %#v", got.History)
	}
}

func TestPersistence_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studenton.db")
	st, err := store.Open(path, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	tc := st.AddTeacher(models.Teacher{Name: "이선생", AssignedGrade: "초등 1학년", AssignedClass: "1반"})
	s := st.AddStudent(models.Student{Name: "정민준", Grade: "초등 1학년", CurrentTeacherID: tc.ID})
	st.AddHistoryLog(s.ID, models.HistoryLog{Type: models.HistoryNote, FromTeacherID: tc.ID, Comment: "적응 잘 함"})
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	st2, err := store.Open(path, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = st2.Close() }()

	got, ok := st2.StudentByID(s.ID)
	if !ok {
		t.Fatal("student not hydrated")
	}
	if got.CurrentTeacherID != tc.ID || len(got.History) != 1 {
		t.Fatalf("hydrated state wrong: %#v", got)
	}
	if _, ok := st2.TeacherByID(tc.ID); !ok {
		t.Fatal("teacher not hydrated")
	}
}

func TestSetAllData_ReplacesEverything(t *testing.T) {
	st := openTemp(t)
	st.AddStudent(models.Student{Name: "old", Grade: "초등 1학년"})
	st.AddTeacher(models.Teacher{Name: "old"})

	st.SetAllData(
		[]models.Student{{ID: "s1", Name: "new", Grade: "초등 2학년", History: []models.HistoryLog{}}},
		[]models.Teacher{{ID: "t1", Name: "new"}},
	)

	if len(st.Students()) != 1 || st.Students()[0].ID != "s1" {
		t.Fatalf("students not replaced: %#v", st.Students())
	}
	if len(st.Teachers()) != 1 || st.Teachers()[0].ID != "t1" {
		t.Fatalf("teachers not replaced: %#v", st.Teachers())
	}
}

func TestOpen_EmptyWhenNoBlob(t *testing.T) {
	st := openTemp(t)
	if len(st.Students()) != 0 || len(st.Teachers()) != 0 {
		t.Fatal("fresh store must be empty")
	}
}
