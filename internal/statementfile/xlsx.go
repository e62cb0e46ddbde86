package statementfile

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Excel date serials for 1954-10-03 through 2119-01-09. Numeric label cells
// in this range are dates stored without text formatting.
const (
	minDateSerial = 20000
	maxDateSerial = 80000
)

// readXLSX returns the first sheet as raw cell text
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	normalizeDateLabels(rows)
	return rows, nil
}

// normalizeDateLabels rewrites date serials in the label row and label column
// as ISO dates. Amounts never sit in either, so nothing else is touched.
func normalizeDateLabels(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	for j := range rows[0] {
		rows[0][j] = serialToDate(rows[0][j])
	}
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) > 0 {
			rows[i][0] = serialToDate(rows[i][0])
		}
	}
}

func serialToDate(v string) string {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil || serial < minDateSerial || serial > maxDateSerial {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format("2006-01-02")
}
