package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// DelimitedParser reads delimiter-separated text (CSV, TSV) line by line.
// It splits naively on the delimiter rather than using a quote-aware CSV
// reader, so a quoted field containing the delimiter splits apart; that is
// the established behavior for these files and is pinned by tests.
type DelimitedParser struct {
	delimiter  string
	extensions []string
}

func NewDelimitedParser(delimiter rune, extensions ...string) *DelimitedParser {
	return &DelimitedParser{
		delimiter:  string(delimiter),
		extensions: extensions,
	}
}

func (p *DelimitedParser) SupportedExtensions() []string {
	return p.extensions
}

func (p *DelimitedParser) Parse(ctx context.Context, r io.Reader, res *Result) []Record {
	records := make([]Record, 0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Error reading file: %s", err))
			return records
		}

		line := scanner.Text()
		lineNumber++

		if strings.TrimSpace(line) == "" {
			continue
		}

		// Skip a header on the first line, detected by the second field not
		// parsing as a number. A first data row with text in column two is
		// swallowed by this heuristic; kept for compatibility.
		if lineNumber == 1 && !p.isNumericLine(line) {
			continue
		}

		record, err := p.parseLine(line)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Error parsing line %d: %s", lineNumber, err))
			continue
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("Error reading file: %s", err))
		return records
	}

	if len(records) == 0 {
		res.Errors = append(res.Errors, "No valid records found in the file")
		return records
	}

	// Parsing succeeded; the upload service may still skip records whose
	// account does not exist.
	res.Success = true
	return records
}

func (p *DelimitedParser) isNumericLine(line string) bool {
	parts := strings.Split(line, p.delimiter)
	if len(parts) < 2 {
		return false
	}
	return isDecimal(cleanField(parts[1]))
}

func (p *DelimitedParser) parseLine(line string) (Record, error) {
	parts := strings.Split(line, p.delimiter)
	if len(parts) < 2 {
		return Record{}, fmt.Errorf("Expected at least 2 columns: Account Name, Amount")
	}
	return parseRecord(cleanField(parts[0]), cleanField(parts[1]))
}
