package importer_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `question,answer,category,difficulty
What is 2+2?,4,math,easy
Capital of France?,Paris,,
,missing question,,
Orphan question,,,
Speed of light?,299792458 m/s,physics,brutal

Boiling point of water?,100 C,physics,HARD
`

func TestImportReader_CSV(t *testing.T) {
	t.Parallel()

	result, err := importer.ImportReader(strings.NewReader(sampleCSV), importer.FormatCSV, importer.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 6, result.Processed)
	require.Len(t, result.Cards, 3)
	assert.Equal(t, domain.CardContent{
		Question: "What is 2+2?", Answer: "4", Category: "math", Difficulty: domain.DifficultyEasy,
	}, result.Cards[0])
	assert.Equal(t, domain.DifficultyMedium, result.Cards[1].Difficulty)
	assert.Equal(t, domain.DifficultyHard, result.Cards[2].Difficulty)

	require.Len(t, result.Errors, 3)
	assert.Equal(t, 4, result.Errors[0].Row)
	assert.ErrorIs(t, result.Errors[0], domain.ErrCardQuestionEmpty)
	assert.Equal(t, 5, result.Errors[1].Row)
	assert.ErrorIs(t, result.Errors[1], domain.ErrCardAnswerEmpty)
	assert.Equal(t, 6, result.Errors[2].Row)
	assert.ErrorIs(t, result.Errors[2], domain.ErrInvalidDifficulty)
	assert.Contains(t, result.Errors[2].Error(), "row 6")
}

func TestImportReader_CSVRowNumbersSurviveBlankLines(t *testing.T) {
	t.Parallel()

	data := "question,answer\n" +
		"\n" +
		"first,one\n" +
		"\n" +
		"\n" +
		"no answer,\n" +
		"\"multi\nline\",two\n" +
		",no question\n"

	result, err := importer.ImportReader(strings.NewReader(data), importer.FormatCSV, importer.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Processed)
	require.Len(t, result.Cards, 2)
	assert.Equal(t, "multi\nline", result.Cards[1].Question)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, 6, result.Errors[0].Row)
	assert.ErrorIs(t, result.Errors[0], domain.ErrCardAnswerEmpty)
	assert.Equal(t, 9, result.Errors[1].Row)
	assert.ErrorIs(t, result.Errors[1], domain.ErrCardQuestionEmpty)
}

func TestImportReader_StartRow(t *testing.T) {
	t.Parallel()

	data := "a,b\nc,d\n"
	result, err := importer.ImportReader(strings.NewReader(data), importer.FormatCSV, importer.Options{StartRow: 1})
	require.NoError(t, err)
	assert.Len(t, result.Cards, 2)

	result, err = importer.ImportReader(strings.NewReader(data), importer.FormatCSV, importer.Options{})
	require.NoError(t, err)
	require.Len(t, result.Cards, 1)
	assert.Equal(t, "c", result.Cards[0].Question)
}

func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "deck.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImport_XLSX(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, "Sheet1", [][]any{
		{"question", "answer", "category", "difficulty"},
		{"Largest planet?", "Jupiter", "astronomy", "medium"},
		{"Chemical symbol for gold?", "Au"},
		{"No answer here"},
	})

	result, err := importer.Import(path, importer.DefaultOptions())
	require.NoError(t, err)

	require.Len(t, result.Cards, 2)
	assert.Equal(t, "Jupiter", result.Cards[0].Answer)
	assert.Equal(t, "astronomy", result.Cards[0].Category)
	assert.Equal(t, "Au", result.Cards[1].Answer)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 4, result.Errors[0].Row)
}

func TestImport_XLSXNamedSheet(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, "Vocab", [][]any{
		{"perro", "dog"},
	})

	result, err := importer.Import(path, importer.Options{SheetName: "Vocab", StartRow: 1})
	require.NoError(t, err)
	require.Len(t, result.Cards, 1)
	assert.Equal(t, "dog", result.Cards[0].Answer)

	_, err = importer.Import(path, importer.Options{SheetName: "Missing"})
	assert.Error(t, err)
}

func TestImport_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	txt := filepath.Join(dir, "deck.txt")
	require.NoError(t, os.WriteFile(txt, []byte("a,b"), 0o600))
	_, err := importer.Import(txt, importer.DefaultOptions())
	assert.ErrorIs(t, err, importer.ErrUnsupportedFormat)

	_, err = importer.Import(filepath.Join(dir, "missing.csv"), importer.DefaultOptions())
	assert.Error(t, err)

	_, err = importer.ImportReader(strings.NewReader("x"), "json", importer.DefaultOptions())
	assert.ErrorIs(t, err, importer.ErrUnsupportedFormat)
}
