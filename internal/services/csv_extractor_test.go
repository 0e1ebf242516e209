package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"itinera/pkg/utils"
)

func TestCsvExtractorCapsAtSevenRows(t *testing.T) {
	extractor := NewCsvExtractor(zap.NewNop())

	for _, rows := range []int{0, 1, 7, 10} {
		t.Run(fmt.Sprintf("%d rows", rows), func(t *testing.T) {
			var b strings.Builder
			b.WriteString("activity,time,location\n")
			for i := 1; i <= rows; i++ {
				fmt.Fprintf(&b, "Stop %d,10:00 AM,Place %d\n", i, i)
			}

			days, err := extractor.Extract(strings.NewReader(b.String()))
			require.NoError(t, err)
			assert.Len(t, days, min(rows, 7))
			for i, d := range days {
				assert.Equal(t, i+1, d.Day)
				assert.Equal(t, fmt.Sprintf("Stop %d", i+1), d.Title)
			}
		})
	}
}

func TestCsvExtractorFallbacks(t *testing.T) {
	extractor := NewCsvExtractor(zap.NewNop())
	input := "\xEF\xBB\xBF Title , DESTINATION,Date,description\n" +
		"Beach day,Goa,2025-03-01,Sun and sand\n" +
		"  ,   ,,\n" +
		"Museum\n"

	days, err := extractor.Extract(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, "Beach day", days[0].Title)
	assert.Equal(t, "Goa", days[0].Location)
	assert.Equal(t, "2025-03-01", days[0].Date)
	assert.Equal(t, "09:00 AM", days[0].Time)
	assert.Equal(t, "Sun and sand", days[0].Description)

	assert.Equal(t, "Day 2", days[1].Title)
	assert.Equal(t, "TBD", days[1].Location)
	assert.Equal(t, "Activity details", days[1].Description)
	assert.Equal(t, "", days[1].Date)

	assert.Equal(t, "Museum", days[2].Title)
	assert.Equal(t, "TBD", days[2].Location)
}

func TestCsvExtractorActivityWinsOverTitle(t *testing.T) {
	extractor := NewCsvExtractor(zap.NewNop())
	days, err := extractor.Extract(strings.NewReader("title,activity\nFallback,Primary\nOnly title,\n"))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "Primary", days[0].Title)
	assert.Equal(t, "Only title", days[1].Title)
}

func TestCsvExtractorMalformed(t *testing.T) {
	extractor := NewCsvExtractor(zap.NewNop())
	_, err := extractor.Extract(strings.NewReader("activity,location\nSwim,Bea\"ch\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrCsvParse)
}

func TestCsvExtractorEmptyInput(t *testing.T) {
	extractor := NewCsvExtractor(zap.NewNop())
	days, err := extractor.Extract(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, days)
	assert.NotNil(t, days)
}

func TestCsvExtractFileRemovesTempFile(t *testing.T) {
	extractor := NewCsvExtractor(zap.NewNop())
	dir := t.TempDir()

	ok := filepath.Join(dir, "ok.csv")
	require.NoError(t, os.WriteFile(ok, []byte("activity\nHike\n"), 0o600))
	days, err := extractor.ExtractFile(ok)
	require.NoError(t, err)
	assert.Len(t, days, 1)
	assert.NoFileExists(t, ok)

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("a,b\nx,y\"z\n"), 0o600))
	_, err = extractor.ExtractFile(bad)
	assert.ErrorIs(t, err, utils.ErrCsvParse)
	assert.NoFileExists(t, bad)
}
