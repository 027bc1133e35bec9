// Package importer reads flashcard decks from spreadsheets.
//
// Each data row holds question, answer and optionally category and
// difficulty, in that column order. Rows that cannot become a card are
// reported with their 1-based row number and do not stop the import.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Supported file formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ErrUnsupportedFormat is returned for files that are neither .csv nor .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported import format")

// Options configures an import.
type Options struct {
	// SheetName selects the sheet of an .xlsx file. Empty means the first sheet.
	SheetName string
	// StartRow is the first row to import, 1-based. Zero means 2, skipping a header.
	StartRow int
}

// DefaultOptions returns options that skip a single header row.
func DefaultOptions() Options {
	return Options{StartRow: 2}
}

// RowError describes a row that could not be imported.
type RowError struct {
	Row int
	Err error
}

// Error implements the error interface.
func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e RowError) Unwrap() error {
	return e.Err
}

// Result holds the outcome of an import.
type Result struct {
	Cards     []domain.CardContent
	Processed int // data rows looked at, blank rows excluded
	Errors    []RowError
}

// Import reads the deck at path. The format follows the file extension.
func Import(path string, opts Options) (*Result, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case FormatCSV:
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer func() { _ = file.Close() }()
		return ImportReader(file, FormatCSV, opts)
	case FormatXLSX:
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open Excel file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return importWorkbook(f, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ImportReader reads a deck in the given format from r.
func ImportReader(r io.Reader, format string, opts Options) (*Result, error) {
	switch format {
	case FormatCSV:
		rows, err := readCSV(r)
		if err != nil {
			return nil, err
		}
		return parseRows(rows, opts), nil
	case FormatXLSX:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open Excel data: %w", err)
		}
		defer func() { _ = f.Close() }()
		return importWorkbook(f, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// readCSV returns the records of r indexed by their starting line in the
// file. Lines the reader skips (blank lines, continuation lines of quoted
// fields) come back as empty rows, so row numbers match the source file.
func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		line, _ := reader.FieldPos(0)
		for len(rows) < line-1 {
			rows = append(rows, nil)
		}
		rows = append(rows, record)
	}
}

func importWorkbook(f *excelize.File, opts Options) (*Result, error) {
	sheet := opts.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows of sheet %q: %w", sheet, err)
	}
	return parseRows(rows, opts), nil
}

func parseRows(rows [][]string, opts Options) *Result {
	start := opts.StartRow
	if start <= 0 {
		start = DefaultOptions().StartRow
	}

	result := &Result{Cards: make([]domain.CardContent, 0, len(rows))}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < start || blank(row) {
			continue
		}
		result.Processed++

		content, err := parseRow(row)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Err: err})
			continue
		}
		result.Cards = append(result.Cards, content)
	}
	return result
}

func parseRow(row []string) (domain.CardContent, error) {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	content := domain.CardContent{
		Question: col(0),
		Answer:   col(1),
		Category: col(2),
	}
	if content.Question == "" {
		return content, domain.ErrCardQuestionEmpty
	}
	if content.Answer == "" {
		return content, domain.ErrCardAnswerEmpty
	}

	difficulty, err := domain.ParseDifficulty(col(3))
	if err != nil {
		return content, fmt.Errorf("%w: %q", err, col(3))
	}
	content.Difficulty = difficulty
	return content, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
