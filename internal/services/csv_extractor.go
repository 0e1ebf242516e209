package services

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	dbm "itinera/internal/models/db_models"
	"itinera/pkg/utils"
)

const (
	defaultCsvTime        = "09:00 AM"
	defaultCsvLocation    = "TBD"
	defaultCsvDescription = "Activity details"
)

type DayScheduleExtractorInterface interface {
	// Extract reads at most MaxScheduleDays data rows from r.
	Extract(r io.Reader) ([]dbm.DayEntry, error)
	// ExtractFile runs Extract on path and removes the file afterwards,
	// whatever the outcome.
	ExtractFile(path string) ([]dbm.DayEntry, error)
}

type CsvExtractor struct {
	logger *zap.Logger
}

func NewCsvExtractor(logger *zap.Logger) DayScheduleExtractorInterface {
	return &CsvExtractor{logger: logger}
}

func (e *CsvExtractor) ExtractFile(path string) ([]dbm.DayEntry, error) {
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			e.logger.Warn("remove csv temp file", zap.String("path", path), zap.Error(err))
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return e.Extract(f)
}

func (e *CsvExtractor) Extract(r io.Reader) ([]dbm.DayEntry, error) {
	reader := csv.NewReader(skipBOM(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []dbm.DayEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrCsvParse, err)
	}
	columns := normalizeHeader(header)

	days := make([]dbm.DayEntry, 0, dbm.MaxScheduleDays)
	for len(days) < dbm.MaxScheduleDays {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrCsvParse, err)
		}

		row := csvRow{columns: columns, record: record}
		n := len(days) + 1
		days = append(days, dbm.DayEntry{
			Day:         n,
			Date:        row.first("date"),
			Title:       firstNonEmpty(row.first("activity", "title"), fmt.Sprintf("Day %d", n)),
			Time:        firstNonEmpty(row.first("time"), defaultCsvTime),
			Location:    firstNonEmpty(row.first("location", "destination"), defaultCsvLocation),
			Description: firstNonEmpty(row.first("description"), defaultCsvDescription),
		})
	}

	return days, nil
}

func normalizeHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := columns[key]; key == "" || dup {
			continue
		}
		columns[key] = i
	}
	return columns
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

type csvRow struct {
	columns map[string]int
	record  []string
}

// first returns the first non-blank cell among keys. Short rows just miss the trailing columns.
func (r csvRow) first(keys ...string) string {
	for _, key := range keys {
		i, ok := r.columns[key]
		if !ok || i >= len(r.record) {
			continue
		}
		if v := strings.TrimSpace(r.record[i]); v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
