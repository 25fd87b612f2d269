// Package tabular reads the attraction catalog and reads/writes the user
// rating table in their CSV layouts.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"roamify/internal/models"
	"roamify/internal/ratings"
)

// Catalog column names.
const (
	ColName         = "Name"
	ColState        = "State"
	ColCity         = "City"
	ColCountry      = "Country"
	ColOpeningHours = "Opening Hours"
	ColDescription  = "Description"
	ColRating       = "Rating"
)

// AttractionColumn is the key column of the rating file.
const AttractionColumn = "Attraction"

var requiredCatalogColumns = []string{ColName, ColState, ColRating}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // Allow short rows, missing cells read as empty.
	return reader
}

// readHeader returns the header row with surrounding spaces and a UTF-8 BOM
// removed. io.EOF is returned for an empty input.
func readHeader(reader *csv.Reader) ([]string, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = h
	}
	return header, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseRating reads a cell in [0, MaxRating]. Empty and NaN cells are unrated.
func parseRating(s string) (float64, error) {
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || v < 0 || v > ratings.MaxRating {
		return 0, fmt.Errorf("rating %s is outside 0..%g", s, ratings.MaxRating)
	}
	return v, nil
}

// FormatRating renders a rating the way the rating file stores it.
func FormatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadCatalog decodes the attraction catalog. Name, State and Rating columns
// are required; the others are optional and may appear in any order.
func ReadCatalog(r io.Reader) ([]models.Attraction, error) {
	reader := newReader(r)
	header, err := readHeader(reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catalog is empty")
		}
		return nil, fmt.Errorf("error reading catalog header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	for _, c := range requiredCatalogColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("catalog is missing column %q", c)
		}
	}
	col := func(name string) int {
		if i, ok := cols[name]; ok {
			return i
		}
		return -1
	}

	var out []models.Attraction
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading catalog line %d: %w", line, err)
		}
		name := field(record, col(ColName))
		if name == "" {
			continue
		}
		rating, err := parseRating(field(record, col(ColRating)))
		if err != nil {
			return nil, fmt.Errorf("catalog line %d: invalid rating for %q: %w", line, name, err)
		}
		out = append(out, models.Attraction{
			Name:         name,
			State:        field(record, col(ColState)),
			City:         field(record, col(ColCity)),
			Country:      field(record, col(ColCountry)),
			OpeningHours: field(record, col(ColOpeningHours)),
			Description:  field(record, col(ColDescription)),
			Rating:       rating,
		})
	}
	return out, nil
}

// ReadRatings decodes the rating file: an Attraction column followed by one
// column per user. An empty input yields an empty table.
func ReadRatings(r io.Reader) (*ratings.Table, error) {
	reader := newReader(r)
	header, err := readHeader(reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ratings.NewTable(), nil
		}
		return nil, fmt.Errorf("error reading ratings header: %w", err)
	}

	keyIdx := -1
	for i, h := range header {
		if h == AttractionColumn {
			keyIdx = i
			break
		}
	}
	if keyIdx < 0 {
		return nil, fmt.Errorf("ratings file is missing column %q", AttractionColumn)
	}

	table := ratings.NewTable()
	userIdx := make(map[int]string)
	for i, h := range header {
		if i == keyIdx {
			continue
		}
		if table.HasUser(h) {
			return nil, fmt.Errorf("ratings file has duplicate user column %q", h)
		}
		table.AddUser(h)
		userIdx[i] = h
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading ratings line %d: %w", line, err)
		}
		name := field(record, keyIdx)
		if name == "" {
			continue
		}
		row := table.AppendRow(name)
		for i, user := range userIdx {
			v, err := parseRating(field(record, i))
			if err != nil {
				return nil, fmt.Errorf("ratings line %d: invalid rating of %q for %q: %w", line, user, name, err)
			}
			table.SetCell(user, row, v)
		}
	}
	return table, nil
}

// WriteRatings encodes the whole table, replacing whatever w held before.
func WriteRatings(w io.Writer, table *ratings.Table) error {
	writer := csv.NewWriter(w)
	users := table.Users()

	if err := writer.Write(append([]string{AttractionColumn}, users...)); err != nil {
		return fmt.Errorf("error writing ratings header: %w", err)
	}
	record := make([]string, len(users)+1)
	for row, name := range table.Attractions() {
		record[0] = name
		for i, user := range users {
			record[i+1] = FormatRating(table.Cell(user, row))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing ratings row %q: %w", name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
