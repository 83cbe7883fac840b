// Package export reads and writes the two-sheet interchange workbook, the
// system's only backup/restore mechanism. Teacher references travel as
// display names, never as ids; history and profile images do not travel at
// all.
package export

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/studenton/studenton/internal/models"
)

// FileName is the fixed export artifact name.
const FileName = "StudentOn_Data.xlsx"

const (
	studentSheet      = "학생"
	studentSheetAlias = "Students"
	teacherSheet      = "교사"
	teacherSheetAlias = "Teachers"
)

var (
	studentHeader = []string{"이름", "학년", "반", "학부모 연락처", "부모님 성함", "담임선생님", "생년월일", "성별", "주소", "구원일"}
	teacherHeader = []string{"이름", "담당 학년", "담당 반", "연락처"}
)

// Workbook projects both collections into the interchange document,
// order-preserving, with student teacher references resolved to the
// teacher's name and assigned class. Dangling references resolve to blank.
func Workbook(students []models.Student, teachers []models.Teacher) (*excelize.File, error) {
	byID := make(map[string]models.Teacher, len(teachers))
	for _, t := range teachers {
		byID[t.ID] = t
	}

	studentRows := make([][]string, 0, len(students))
	for _, s := range students {
		t := byID[s.CurrentTeacherID]
		studentRows = append(studentRows, []string{
			s.Name,
			s.Grade,
			t.AssignedClass,
			s.ParentPhone,
			s.ParentName,
			t.Name,
			s.BirthDate,
			string(s.Gender),
			s.Address,
			s.SalvationDate,
		})
	}

	teacherRows := make([][]string, 0, len(teachers))
	for _, t := range teachers {
		teacherRows = append(teacherRows, []string{
			t.Name,
			t.AssignedGrade,
			t.AssignedClass,
			t.PhoneNumber,
		})
	}

	return newWorkbook([]sheetSpec{
		{Title: studentSheet, Header: studentHeader, Rows: studentRows},
		{Title: teacherSheet, Header: teacherHeader, Rows: teacherRows},
	})
}

// WriteFile saves the workbook as FileName inside dir and returns the full
// path.
func WriteFile(dir string, students []models.Student, teachers []models.Teacher) (string, error) {
	f, err := Workbook(students, teachers)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}
