package parser

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelParser reads the first worksheet's first two columns.
type ExcelParser struct{}

func NewExcelParser() *ExcelParser {
	return &ExcelParser{}
}

func (p *ExcelParser) SupportedExtensions() []string {
	return []string{".xlsx", ".xls"}
}

func (p *ExcelParser) Parse(ctx context.Context, r io.Reader, res *Result) []Record {
	records := make([]Record, 0)

	f, err := excelize.OpenReader(r)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("Error reading Excel file: %s", err))
		return records
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		res.Errors = append(res.Errors, "Excel file contains no worksheets")
		return records
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("Error reading Excel file: %s", err))
		return records
	}
	if len(rows) == 0 {
		res.Errors = append(res.Errors, "Excel worksheet is empty")
		return records
	}

	startRow := 1
	if isHeaderRow(rows[0]) {
		startRow = 2
	}

	for rowNum := startRow; rowNum <= len(rows); rowNum++ {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Error reading Excel file: %s", err))
			return records
		}

		row := rows[rowNum-1]
		accountName := strings.TrimSpace(cell(row, 0))
		amountText := strings.TrimSpace(cell(row, 1))

		if accountName == "" && amountText == "" {
			continue
		}

		record, err := parseRecord(accountName, amountText)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Error parsing row %d: %s", rowNum, err))
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		res.Errors = append(res.Errors, "No valid records found in the Excel file")
		return records
	}

	res.Success = true
	return records
}

// Column A looking like a label and column B not being numeric marks a
// header row. Same ambiguity caveat as the delimited variant.
func isHeaderRow(row []string) bool {
	first := strings.ToLower(strings.TrimSpace(cell(row, 0)))
	second := strings.TrimSpace(cell(row, 1))
	return (strings.Contains(first, "account") || strings.Contains(first, "name")) && !isDecimal(second)
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
