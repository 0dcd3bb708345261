package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	recordSep    = ","
	recordFields = 4
)

// ParseError describes a backing-file line that does not decode to a
// Product: either the wrong field count or a numeric field that is not a
// decimal literal.
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bad %s %q", e.Field, e.Value)
}

// EncodeRecord renders p as one line of the backing file:
//
//	name,category,price,rating
//
// The format has no escaping: a name or category containing the separator
// or a newline will not survive the trip back. Stores reject such products
// at the write path; see Encodable.
func EncodeRecord(p Product) string {
	return strings.Join([]string{
		p.Name,
		p.Category,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		strconv.FormatFloat(p.Rating, 'f', -1, 64),
	}, recordSep)
}

// DecodeRecord parses one backing-file line. For any product accepted by a
// store, DecodeRecord(EncodeRecord(p)) reproduces p exactly.
func DecodeRecord(line string) (Product, error) {
	parts := strings.Split(line, recordSep)
	if len(parts) != recordFields {
		return Product{}, &ParseError{Field: "record", Value: line}
	}

	price, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return Product{}, &ParseError{Field: "price", Value: parts[2]}
	}
	rating, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return Product{}, &ParseError{Field: "rating", Value: parts[3]}
	}

	return Product{
		Name:     parts[0],
		Category: parts[1],
		Price:    price,
		Rating:   rating,
	}, nil
}

// Encodable reports whether p round-trips through the record format.
func Encodable(p Product) bool {
	for _, s := range []string{p.Name, p.Category} {
		if strings.ContainsAny(s, recordSep+"\n\r") {
			return false
		}
	}
	return true
}
