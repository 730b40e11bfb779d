// Package export renders menus as an XLSX workbook.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/menu"
)

// SheetName is the worksheet holding the menus.
const SheetName = "Menus"

var headers = []string{"Date", "Weekday", "Restaurant", "Meal", "Items"}

var weekdays = [...]string{"일", "월", "화", "수", "목", "금", "토"}

// XLSX returns a workbook with one row per menu. Items are joined with
// newlines inside a wrapped cell; notices are left out.
func XLSX(menus []menu.Menu) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	for i, m := range menus {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		write(1, m.Date.Format(menu.DateLayout))
		write(2, weekdays[m.Date.Weekday()])
		write(3, string(m.Restaurant))
		write(4, string(m.MealType))
		write(5, strings.Join(Dishes(m), "\n"))

		cell, _ := excelize.CoordinatesToCellName(5, row)
		_ = f.SetCellStyle(SheetName, cell, cell, wrap)
	}

	_ = f.SetColWidth(SheetName, "A", "A", 12)
	_ = f.SetColWidth(SheetName, "B", "B", 8)
	_ = f.SetColWidth(SheetName, "C", "C", 18)
	_ = f.SetColWidth(SheetName, "D", "D", 10)
	_ = f.SetColWidth(SheetName, "E", "E", 40)
	_ = f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// Dishes returns m's item names without the trailing notices.
func Dishes(m menu.Menu) []string {
	notice := make(map[string]bool, len(menu.Notices))
	for _, n := range menu.Notices {
		notice[n] = true
	}
	var out []string
	for _, name := range m.ItemNames() {
		if !notice[name] {
			out = append(out, name)
		}
	}
	return out
}
