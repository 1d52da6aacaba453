package solar

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Catalog holds the sorted distinct options offered for each field.
type Catalog struct {
	options map[Field][]string
}

// NewCatalog builds a catalog from raw column values, dropping missing
// values and deduplicating with an ascending sort.
func NewCatalog(values map[Field][]string) Catalog {
	c := Catalog{options: make(map[Field][]string, len(Fields))}
	for _, spec := range Fields {
		c.options[spec.Field] = distinctSorted(values[spec.Field])
	}
	return c
}

// Options returns a copy of the options for f.
func (c Catalog) Options(f Field) []string {
	return append([]string(nil), c.options[f]...)
}

// Contains reports whether v is an option for f.
func (c Catalog) Contains(f Field, v string) bool {
	opts := c.options[f]
	i := sort.SearchStrings(opts, v)
	return i < len(opts) && opts[i] == v
}

// Default returns the first option for each field.
func (c Catalog) Default() Record {
	var r Record
	for _, spec := range Fields {
		if opts := c.options[spec.Field]; len(opts) > 0 {
			r.set(spec.Field, opts[0])
		}
	}
	return r
}

// Len returns the number of options for f.
func (c Catalog) Len(f Field) int {
	return len(c.options[f])
}

func distinctSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if isMissing(v) {
			continue
		}
		v = cleanCell(v)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// LoadCatalog reads the dataset at path and derives the option catalog from
// the configured columns. Workbooks are read with excelize; .csv and .tsv
// files are read as delimited text.
//
// Cells are trimmed before deduplication, so " SnO2 " and "SnO2" are one
// option, and cells that are blank after trimming count as missing, as do the
// usual NA tokens ("NaN", "N/A", "null", ...).
func LoadCatalog(path string, columns ColumnConfig, logger *log.Logger) (Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Catalog{}, &LoadError{Kind: DatasetNotFound, Path: path, Err: err}
		}
		return Catalog{}, datasetErr(path, err)
	}
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readDelimited(path, ',')
	case ".tsv":
		rows, err = readDelimited(path, '\t')
	default:
		rows, err = readWorkbook(path)
	}
	if err != nil {
		return Catalog{}, datasetErr(path, err)
	}
	if len(rows) == 0 {
		return Catalog{}, datasetErr(path, errors.New("dataset has no header row"))
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	values := make(map[Field][]string, len(Fields))
	for _, spec := range Fields {
		name := columnName(columns, spec)
		idx := findColumn(header, name)
		if idx < 0 {
			return Catalog{}, &LoadError{Kind: ColumnMissing, Path: path, Column: name}
		}
		col := make([]string, 0, len(rows)-1)
		for _, row := range rows[1:] {
			if idx < len(row) {
				col = append(col, row[idx])
			}
		}
		values[spec.Field] = col
	}
	cat := NewCatalog(values)
	for _, spec := range Fields {
		if cat.Len(spec.Field) == 0 {
			return Catalog{}, datasetErr(path, fmt.Errorf("column %q has no values", columnName(columns, spec)))
		}
	}
	if logger != nil {
		logger.Printf("dataset %s: %d rows, options etl=%d htl=%d perovskite=%d",
			filepath.Base(path), len(rows)-1, cat.Len(FieldETL), cat.Len(FieldHTL), cat.Len(FieldPerovskite))
	}
	return cat, nil
}

func columnName(columns ColumnConfig, spec FieldSpec) string {
	if name := strings.TrimSpace(columns.Column(spec.Field)); name != "" {
		return name
	}
	return spec.Column
}

func findColumn(header []string, name string) int {
	name = strings.TrimSpace(name)
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}

func readWorkbook(path string) ([][]string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", filepath.Base(path), err)
	}
	defer wb.Close()
	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readDelimited(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}
