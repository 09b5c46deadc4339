// Package csvrows reads delimited files with a header line into one map per row.
package csvrows

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/Laisky/errors/v2"
)

// Row maps header name to cell value.
type Row map[string]string

// Get returns the trimmed cell for key, "" when the column is absent.
func (r Row) Get(key string) string {
	return strings.TrimSpace(r[key])
}

// Reader yields rows from a csv stream.
type Reader struct {
	r      *csv.Reader
	header []string
	line   int
}

// NewReader reads the header line from r.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv, missing header")
		}
		return nil, errors.Wrap(err, "read header")
	}

	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	return &Reader{r: cr, header: header}, nil
}

// Header returns the column names.
func (rd *Reader) Header() []string {
	return rd.header
}

// Next returns the next row and its 1-based position among data rows.
// Missing trailing cells are treated as empty, extra cells are dropped.
// It returns io.EOF after the last row.
func (rd *Reader) Next() (Row, int, error) {
	record, err := rd.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, io.EOF
		}
		rd.line++
		return nil, rd.line, errors.Wrapf(err, "read row %d", rd.line)
	}

	rd.line++
	row := make(Row, len(rd.header))
	for i, key := range rd.header {
		if i < len(record) {
			row[key] = record[i]
		} else {
			row[key] = ""
		}
	}

	return row, rd.line, nil
}

// ReadAll reads every row. A malformed row aborts the read since the
// csv reader cannot resynchronise reliably inside quoted multi-line cells.
func ReadAll(r io.Reader) ([]Row, error) {
	rd, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		row, _, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}

		rows = append(rows, row)
	}
}

// ReadFile opens path and reads every row.
func ReadFile(path string) ([]Row, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer fp.Close() // nolint: errcheck

	rows, err := ReadAll(fp)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	return rows, nil
}
