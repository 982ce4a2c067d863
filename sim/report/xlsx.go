package report

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/rentsim/rentsim/sim"
	"github.com/rentsim/rentsim/sim/survey"
)

// ExportXLSX writes the averaged summaries to one workbook, one sheet per
// geography level.
func ExportXLSX(path string, res *sim.Result, hideMOE bool) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Warnf("closing workbook %s: %v", path, err)
		}
	}()

	for i, level := range survey.Levels() {
		sheet := sheetName(level)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("renaming sheet %s: %w", sheet, err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("creating sheet %s: %w", sheet, err)
			}
		}
		sum, ok := res.Levels[level]
		if !ok {
			continue
		}
		if err := writeSheet(f, sheet, sum, hideMOE); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, sum survey.Summary, hideMOE bool) error {
	cols := metrics()

	header := make([]interface{}, 0, 1+2*len(cols))
	header = append(header, "Geography")
	for _, c := range cols {
		header = append(header, c.label)
		if !hideMOE {
			header = append(header, c.label+" (MOE)")
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("sheet %s header: %w", sheet, err)
	}

	for i := range sum.Rows {
		r := &sum.Rows[i]
		vals := make([]interface{}, 0, len(header))
		vals = append(vals, r.Geography)
		for _, c := range cols {
			e := c.get(r)
			vals = append(vals, e.Value)
			if !hideMOE {
				vals = append(vals, e.MOE)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
		}
	}

	// Widen the geography column so county names stay readable.
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return fmt.Errorf("sheet %s column width: %w", sheet, err)
	}
	return nil
}

func sheetName(level survey.Level) string {
	switch level {
	case survey.LevelState:
		return "State"
	case survey.LevelCity:
		return "Cities"
	case survey.LevelCounty:
		return "Counties"
	}
	return string(level)
}
