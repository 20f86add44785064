package table

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
)

type Column string

const (
	ColumnID            Column = "id"
	ColumnName          Column = "name"
	ColumnAge           Column = "age"
	ColumnCity          Column = "city"
	ColumnMaritalStatus Column = "maritalStatus"
	ColumnStatusTag     Column = "statusTag"
	ColumnEmail         Column = "email"
)

var columns = []Column{
	ColumnID, ColumnName, ColumnAge, ColumnCity, ColumnMaritalStatus, ColumnStatusTag, ColumnEmail,
}

// ParseColumn accepts a column name case-insensitively, plus a few short
// aliases used by the console.
func ParseColumn(s string) (Column, error) {
	switch s {
	case "marital", "marital_status":
		return ColumnMaritalStatus, nil
	case "status", "status_tag":
		return ColumnStatusTag, nil
	}
	for _, c := range columns {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, s)
}

type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "none"
	}
}

type SortSpec struct {
	Column    Column
	Direction Direction
}

func (s SortSpec) Active() bool {
	return s.Column != "" && s.Direction != Unsorted
}

// next is the sort that results from activating column c once more.
func (s SortSpec) next(c Column) SortSpec {
	if s.Column != c || s.Direction == Unsorted {
		return SortSpec{Column: c, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return SortSpec{Column: c, Direction: Descending}
	}
	return SortSpec{}
}

func compareRows(col *collate.Collator, c Column, a, b DisplayRow) int {
	switch c {
	case ColumnAge:
		return compareInt(a.Age, b.Age)
	case ColumnID:
		ai, aerr := strconv.ParseInt(a.ID, 10, 64)
		bi, berr := strconv.ParseInt(b.ID, 10, 64)
		if aerr == nil && berr == nil {
			return compareInt(ai, bi)
		}
		return col.CompareString(a.ID, b.ID)
	default:
		return col.CompareString(a.text(c), b.text(c))
	}
}

func compareInt[T int | int64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (r DisplayRow) text(c Column) string {
	switch c {
	case ColumnID:
		return r.ID
	case ColumnName:
		return r.Name
	case ColumnAge:
		return strconv.Itoa(r.Age)
	case ColumnCity:
		return r.City
	case ColumnMaritalStatus:
		return r.MaritalStatus
	case ColumnStatusTag:
		return r.StatusTag
	case ColumnEmail:
		return r.Email
	default:
		return ""
	}
}
