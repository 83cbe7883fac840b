package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type sheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

// newWorkbook lays the sheets out in order, with a bold header row, an
// autofilter and heuristic column widths on each.
func newWorkbook(sheets []sheetSpec) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, s := range sheets {
		name := s.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("new sheet: %w", err)
			}
		}
		for col, h := range s.Header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		end := colName(len(s.Header)) + "1"
		_ = f.SetCellStyle(name, "A1", end, bold)
		_ = f.AutoFilter(name, "A1:"+end, nil)

		for r, row := range s.Rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellStr(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}
		// Width by header and first rows. Hangul glyphs run wide, hence
		// the generous multiplier.
		for c := 1; c <= len(s.Header); c++ {
			maxim := visualLen(s.Header[c-1])
			for r := 0; r < minim(50, len(s.Rows)); r++ {
				if l := visualLen(s.Rows[r][c-1]); l > maxim {
					maxim = l
				}
			}
			w := float64(maxim) * 1.3
			if w < 12 {
				w = 12
			}
			if w > 40 {
				w = 40
			}
			_ = f.SetColWidth(name, colName(c), colName(c), w)
		}
	}
	return f, nil
}

func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

// visualLen approximates rendered width by counting runes.
func visualLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func minim(a, b int) int {
	if a < b {
		return a
	}
	return b
}
