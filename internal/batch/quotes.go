package batch

import (
	"errors"

	"golang.org/x/text/transform"
)

var errUnterminatedQuote = errors.New("extraneous or missing \" in quoted-field")

type quoteState uint8

const (
	fieldStart quoteState = iota
	inUnquoted
	inQuoted
	afterQuote
)

// quoteGuard passes CSV bytes through unchanged while tracking quoting the way
// a lazy-quotes csv.Reader does. A quote inside an unquoted field is literal;
// a field that opens with a quote must close before EOF.
type quoteGuard struct {
	state quoteState
}

func (q *quoteGuard) Reset() {
	q.state = fieldStart
}

func (q *quoteGuard) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	n := copy(dst, src)
	for _, b := range src[:n] {
		q.state = q.state.next(b)
	}
	if n < len(src) {
		return n, n, transform.ErrShortDst
	}
	if atEOF && q.state == inQuoted {
		return n, n, errUnterminatedQuote
	}
	return n, n, nil
}

func (s quoteState) next(b byte) quoteState {
	switch s {
	case fieldStart:
		switch b {
		case '"':
			return inQuoted
		case ',', '\n':
			return fieldStart
		}
		return inUnquoted
	case inUnquoted:
		if b == ',' || b == '\n' {
			return fieldStart
		}
		return inUnquoted
	case inQuoted:
		if b == '"' {
			return afterQuote
		}
		return inQuoted
	default:
		switch b {
		case ',', '\n':
			return fieldStart
		case '\r':
			return afterQuote
		}
		// "" is an escaped quote, anything else a bare one; both stay quoted
		return inQuoted
	}
}
