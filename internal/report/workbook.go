package report

import (
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"foodorder/internal/domain"
	"foodorder/internal/shared"
	"foodorder/internal/store"
)

const maxSheetName = 31

// Workbook collects report sections as worksheets: a header row with column
// names followed by the data rows.
type Workbook struct {
	f      *excelize.File
	sheets []string
}

func NewWorkbook() *Workbook {
	return &Workbook{f: excelize.NewFile()}
}

// AddSection writes rs to a new sheet named after title.
func (wb *Workbook) AddSection(title string, rs store.ResultSet) error {
	name := SheetName(title)

	if len(wb.sheets) == 0 {
		// A new file already has one empty sheet; reuse it.
		first := wb.f.GetSheetName(0)
		if err := wb.f.SetSheetName(first, name); err != nil {
			return shared.Wrapf(err, "xlsx sheet %s", name)
		}
	} else if _, err := wb.f.NewSheet(name); err != nil {
		return shared.Wrapf(err, "xlsx sheet %s", name)
	}
	wb.sheets = append(wb.sheets, name)

	header := make([]any, len(rs.Columns))
	for i, c := range rs.Columns {
		header[i] = c
	}
	if err := wb.f.SetSheetRow(name, "A1", &header); err != nil {
		return shared.Wrapf(err, "xlsx sheet %s header", name)
	}

	for i, row := range rs.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return shared.Wrapf(err, "xlsx sheet %s row %d", name, i)
		}
		values := cellValues(row)
		if err := wb.f.SetSheetRow(name, cell, &values); err != nil {
			return shared.Wrapf(err, "xlsx sheet %s row %d", name, i)
		}
	}
	return nil
}

// Sheets lists the sheet names in insertion order.
func (wb *Workbook) Sheets() []string {
	out := make([]string, len(wb.sheets))
	copy(out, wb.sheets)
	return out
}

// SaveAs writes the workbook to path.
func (wb *Workbook) SaveAs(path string) error {
	if err := wb.f.SaveAs(path); err != nil {
		return shared.Wrapf(err, "save xlsx %s", path)
	}
	return nil
}

func (wb *Workbook) Close() error {
	return wb.f.Close()
}

// SheetName derives a worksheet name from a section title: the trailing colon
// is dropped and characters Excel rejects are replaced.
func SheetName(title string) string {
	name := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(title), ":"))
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "Sheet"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = strings.TrimSpace(string(r[:maxSheetName]))
	}
	return name
}

// cellValues keeps timestamps and blobs in the same text form as the printed
// report.
func cellValues(row store.Row) []any {
	out := make([]any, len(row))
	for i, v := range row {
		switch x := v.(type) {
		case time.Time:
			out[i] = x.Format(domain.TimeLayout)
		case []byte:
			out[i] = string(x)
		default:
			out[i] = v
		}
	}
	return out
}
