package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// UnsupportedTypeError distinguishes "we don't handle this extension" from
// internal faults; the upload service turns it into a user-facing outcome
// error instead of a 500.
type UnsupportedTypeError struct {
	Extension string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("File type '%s' is not supported", e.Extension)
}

// Factory maps file extensions to parser constructors. The table is built
// once and never mutated afterwards.
type Factory struct {
	constructors map[string]func() Parser
}

func NewFactory() *Factory {
	return &Factory{
		constructors: map[string]func() Parser{
			".xlsx": func() Parser { return NewExcelParser() },
			".xls":  func() Parser { return NewExcelParser() },
			".csv":  func() Parser { return NewDelimitedParser(',', ".csv", ".txt") },
			".txt":  func() Parser { return NewDelimitedParser(',', ".csv", ".txt") },
			".tsv":  func() Parser { return NewDelimitedParser('\t', ".tsv") },
		},
	}
}

// CreateParser resolves an extension (leading dot included, any case) to a
// fresh parser instance.
func (f *Factory) CreateParser(extension string) (Parser, error) {
	normalized := strings.ToLower(strings.TrimSpace(extension))
	if normalized == "" {
		return nil, errors.New("file extension cannot be empty")
	}

	constructor, ok := f.constructors[normalized]
	if !ok {
		return nil, &UnsupportedTypeError{Extension: extension}
	}
	return constructor(), nil
}

// SupportedExtensions returns the recognized extensions, sorted.
func (f *Factory) SupportedExtensions() []string {
	exts := make([]string, 0, len(f.constructors))
	for ext := range f.constructors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
