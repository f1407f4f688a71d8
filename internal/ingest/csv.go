// Package ingest reads bank-exported CSV files into transactions. Exports
// vary by bank: separators differ, headers come in Portuguese or English,
// and amounts use Brazilian currency formatting, so the reader sniffs the
// shape instead of demanding one.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Guilherme-Lopesz/spendsense/internal/model"
)

// separators tried in order when sniffing the file shape.
var separators = []rune{',', ';', '\t'}

// headerAliases maps normalized header names to canonical column names.
var headerAliases = map[string]string{
	"date":        "date",
	"data":        "date",
	"description": "description",
	"descrição":   "description",
	"descricao":   "description",
	"amount":      "amount",
	"valor":       "amount",
}

// dateLayouts tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
}

// ReadFile parses a CSV export into pending transactions for the given
// user. Descriptions are sanitized before they leave this package.
func ReadFile(path string, userID int64) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	return Read(f, userID)
}

// Read parses CSV data from r. It tries each candidate separator until the
// header row yields the required date, description and amount columns.
func Read(r io.Reader, userID int64) ([]model.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var firstErr error
	for _, sep := range separators {
		txns, err := parseWith(data, sep, userID)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return txns, nil
	}
	return nil, fmt.Errorf("could not read CSV with any known separator: %w", firstErr)
}

func parseWith(data []byte, sep rune, userID int64) ([]model.Transaction, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	columns, err := mapHeader(records[0])
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	for _, record := range records[1:] {
		txn, err := parseRecord(record, columns, userID)
		if err != nil {
			// Banks pad exports with summary and blank rows; skip
			// anything that does not parse as a transaction.
			continue
		}
		txns = append(txns, txn)
	}

	if len(txns) == 0 {
		return nil, fmt.Errorf("no valid transactions found")
	}
	return txns, nil
}

// mapHeader resolves column positions from the header row, accepting the
// Portuguese and English names banks use.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := headerAliases[normalized]; ok {
			columns[canonical] = i
		}
	}
	for _, required := range []string{"date", "description", "amount"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("required columns date, description, amount; missing %q", required)
		}
	}
	return columns, nil
}

func parseRecord(record []string, columns map[string]int, userID int64) (model.Transaction, error) {
	for _, idx := range columns {
		if idx >= len(record) {
			return model.Transaction{}, fmt.Errorf("row has too few fields")
		}
	}

	date, err := parseDate(record[columns["date"]])
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := ParseAmount(record[columns["amount"]])
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		UserID:      userID,
		Date:        date,
		Description: SanitizeDescription(record[columns["description"]]),
		Amount:      amount,
		Status:      model.StatusPending,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", value)
}
