// Package spreadsheet reads the workforce sources and the report
// configuration from .xlsx, .xlsm, .xls and .csv files.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/xuri/excelize/v2"
)

// maxXLSRows bounds legacy workbook reads.
const maxXLSRows = 1_000_000

// Sheet is one worksheet as raw cell text.
type Sheet struct {
	Name string
	Rows [][]string
}

// ReadWorkbook reads every sheet of a workbook. The format is chosen by the
// file extension. A .csv file yields a single sheet named after the file.
func ReadWorkbook(r io.Reader, filename string) ([]Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		return readXLSX(data)
	case ".xls":
		return readXLS(data)
	case ".csv":
		rows, err := readCSV(data)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		return []Sheet{{Name: name, Rows: rows}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", workforce.ErrUnsupportedFormat, ext)
	}
}

// ReadFirstSheet returns the first sheet that has any non-blank cell.
func ReadFirstSheet(r io.Reader, filename string) (Sheet, error) {
	sheets, err := ReadWorkbook(r, filename)
	if err != nil {
		return Sheet{}, err
	}
	for _, s := range sheets {
		if !blankRows(s.Rows) {
			return s, nil
		}
	}
	return Sheet{}, workforce.ErrEmptySheet
}

func readXLSX(data []byte) ([]Sheet, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	names := file.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("no worksheet found: %w", workforce.ErrEmptySheet)
	}
	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		// Raw values keep dates as serial numbers and amounts without
		// display formatting.
		rows, err := file.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

func readXLS(data []byte) ([]Sheet, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found: %w", workforce.ErrEmptySheet)
	}

	sheets := make([]Sheet, 0, workbook.NumSheets())
	for i := 0; i < workbook.NumSheets(); i++ {
		ws := workbook.GetSheet(i)
		if ws == nil {
			continue
		}
		var rows [][]string
		for r := 0; r <= int(ws.MaxRow) && r < maxXLSRows; r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol()+1)
			for c := 0; c <= row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, Sheet{Name: ws.Name, Rows: rows})
	}
	return sheets, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func blankRows(rows [][]string) bool {
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return false
			}
		}
	}
	return true
}
