package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/studenton/studenton/internal/models"
)

// Result is a freshly parsed pair of collections. Every record carries a
// newly minted id and every student an empty history: identifiers and
// history do not survive the interchange format.
type Result struct {
	Students []models.Student
	Teachers []models.Teacher
}

// Read parses an interchange workbook from disk. Any parse failure aborts
// the whole import; the caller's state is never touched here.
func Read(path string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return parse(f)
}

// ReadFrom parses a workbook from a stream, for callers holding an upload
// rather than a file.
func ReadFrom(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return parse(f)
}

func parse(f *excelize.File) (*Result, error) {
	// Teachers first: students link to them by name.
	teacherRows, err := sheetRows(f, teacherSheet, teacherSheetAlias)
	if err != nil {
		return nil, err
	}
	teacherIDs := make(map[string]string) // name -> id
	teachers := make([]models.Teacher, 0, len(teacherRows))
	for _, row := range teacherRows {
		name := strings.TrimSpace(row.get("이름", "name"))
		if name == "" {
			continue
		}
		id := uuid.New().String()
		teacherIDs[name] = id
		teachers = append(teachers, models.Teacher{
			ID:            id,
			Name:          name,
			AssignedGrade: row.get("담당 학년", "assignedGrade"),
			AssignedClass: row.get("담당 반", "assignedClass"),
			PhoneNumber:   row.get("연락처", "phoneNumber"),
		})
	}

	studentRows, err := sheetRows(f, studentSheet, studentSheetAlias)
	if err != nil {
		return nil, err
	}
	students := make([]models.Student, 0, len(studentRows))
	for _, row := range studentRows {
		name := strings.TrimSpace(row.get("이름", "name"))
		if name == "" {
			continue
		}

		teacherID := ""
		if teacherName := strings.TrimSpace(row.get("담임선생님")); teacherName != "" {
			id, ok := teacherIDs[teacherName]
			if !ok {
				// Homeroom named on the student row but absent from the
				// teacher sheet: create it once, inferring grade and class
				// from this row, so later rows naming the same teacher
				// link to the same record.
				id = uuid.New().String()
				teacherIDs[teacherName] = id
				teachers = append(teachers, models.Teacher{
					ID:            id,
					Name:          teacherName,
					AssignedGrade: row.get("학년", "grade"),
					AssignedClass: row.get("반", "class"),
				})
			}
			teacherID = id
		}

		students = append(students, models.Student{
			ID:               uuid.New().String(),
			Name:             name,
			Grade:            row.get("학년", "grade"),
			ParentPhone:      row.get("학부모 연락처", "parentPhone"),
			ParentName:       row.get("부모님 성함", "parentName"),
			CurrentTeacherID: teacherID,
			BirthDate:        row.get("생년월일", "birthDate"),
			Gender:           models.Gender(row.get("성별", "gender")),
			Address:          row.get("주소", "address"),
			SalvationDate:    row.get("구원일", "salvationDate"),
			History:          []models.HistoryLog{},
		})
	}

	return &Result{Students: students, Teachers: teachers}, nil
}

// record gives header-keyed access to one data row.
type record struct {
	cols map[string]int
	row  []string
}

// get tries each candidate header in order and returns the first present,
// non-empty cell. Localized headers come first, alternate keys after.
func (r record) get(candidates ...string) string {
	for _, c := range candidates {
		idx, ok := r.cols[c]
		if !ok || idx >= len(r.row) {
			continue
		}
		if v := r.row[idx]; v != "" {
			return v
		}
	}
	return ""
}

// sheetRows locates a sheet by its localized name or alias and returns its
// data rows keyed by the header row. A missing sheet yields no rows rather
// than an error.
func sheetRows(f *excelize.File, names ...string) ([]record, error) {
	sheet := ""
	existing := f.GetSheetList()
	for _, n := range names {
		for _, have := range existing {
			if have == n {
				sheet = n
				break
			}
		}
		if sheet != "" {
			break
		}
	}
	if sheet == "" {
		return nil, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[strings.TrimSpace(h)] = i
	}
	out := make([]record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, record{cols: cols, row: row})
	}
	return out, nil
}
