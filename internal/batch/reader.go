package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/spacesedan/sentilytics/internal/models"
)

const TEXT_COLUMN = "text"

// RowReader streams the text column of a CSV document one row at a time.
// Input must be UTF-8; a leading byte order mark is dropped. Quotes inside an
// unquoted field are kept as literal characters.
type RowReader struct {
	csv     *csv.Reader
	header  []string
	textIdx int
	row     int
}

// NewRowReader reads the header row and locates the text column. It fails
// with ErrMalformedInput when no header can be read and with ErrMissingColumn
// when the header has no column named "text".
func NewRowReader(r io.Reader) (*RowReader, error) {
	decoded := transform.NewReader(r, transform.Chain(
		encoding.UTF8Validator,
		unicode.BOMOverride(transform.Nop),
		&quoteGuard{},
	))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no columns to parse from file", ErrMalformedInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	header = append([]string(nil), header...)

	textIdx := -1
	for i, name := range header {
		if name == TEXT_COLUMN {
			textIdx = i
			break
		}
	}
	if textIdx < 0 {
		return nil, ErrMissingColumn
	}

	return &RowReader{
		csv:     cr,
		header:  header,
		textIdx: textIdx,
	}, nil
}

func (r *RowReader) Header() []string {
	return r.header
}

// Records yields rows in file order. Cells missing from short rows read as
// the empty string; a row wider than the header, or any read failure, ends
// the sequence with an ErrMalformedInput error.
func (r *RowReader) Records() iter.Seq2[models.TextRecord, error] {
	return func(yield func(models.TextRecord, error) bool) {
		for {
			fields, err := r.csv.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(models.TextRecord{}, fmt.Errorf("%w: %w", ErrMalformedInput, err))
				return
			}
			r.row++

			if len(fields) > len(r.header) {
				yield(models.TextRecord{}, fmt.Errorf("%w: row %d: expected %d fields, saw %d",
					ErrMalformedInput, r.row, len(r.header), len(fields)))
				return
			}

			var text string
			if r.textIdx < len(fields) {
				text = fields[r.textIdx]
			}

			if !yield(models.TextRecord{Row: r.row, Text: text}, nil) {
				return
			}
		}
	}
}
