// Package profile infers the shape of a CSV file: row count and, for each
// column, its type and the number of missing values.
package profile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Type is the inferred type of a column.
type Type int

// Column types, from the most to the least specific. Integer widens to Float;
// any other mix is String.
const (
	Empty Type = iota // only missing values
	Boolean
	Integer
	Float
	String
)

func (t Type) String() string {
	switch t {
	case Empty:
		return "empty"
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Float:
		return "float"
	}
	return "string"
}

// Column is the profile of one column.
type Column struct {
	Name  string
	Type  Type
	Nulls int // missing values: empty cell, NA, null or NULL
}

// Profile is the profile of a CSV file.
type Profile struct {
	Rows    int // data rows, the header excluded
	Columns []Column
}

// File profiles the CSV file at path.
func File(path string, delimiter rune) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return Profile{}, err
	}
	defer f.Close()
	return Read(f, delimiter)
}

// Read profiles CSV data from r. The first record is the header.
func Read(r io.Reader, delimiter rune) (Profile, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Profile{}, errors.New("profile: no header")
	}
	if err != nil {
		return Profile{}, fmt.Errorf("profile: %w", err)
	}

	var p Profile
	p.Columns = make([]Column, len(header))
	for i, name := range header {
		p.Columns[i] = Column{Name: strings.TrimSpace(name)}
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Profile{}, fmt.Errorf("profile: %w", err)
		}
		p.Rows++
		for i, cell := range record {
			col := &p.Columns[i]
			if isNull(cell) {
				col.Nulls++
				continue
			}
			col.Type = widen(col.Type, infer(cell))
		}
	}
	return p, nil
}

func isNull(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "", "NA", "null", "NULL":
		return true
	}
	return false
}

// infer returns the most specific type of a non-null cell.
func infer(cell string) Type {
	cell = strings.TrimSpace(cell)
	if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return Integer
	}
	if _, err := decimal.NewFromString(cell); err == nil {
		return Float
	}
	switch strings.ToLower(cell) {
	case "true", "false":
		return Boolean
	}
	return String
}

// widen returns the type able to hold both a and b.
func widen(a, b Type) Type {
	switch {
	case a == b:
		return a
	case a == Empty:
		return b
	case b == Empty:
		return a
	case (a == Integer && b == Float) || (a == Float && b == Integer):
		return Float
	}
	return String
}
