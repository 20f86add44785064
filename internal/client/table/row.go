package table

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/matchdesk/internal/client/models"
)

// Status tags shown in the status column.
const (
	StatusActive   = "Active"
	StatusMatched  = "Matched"
	StatusPending  = "Pending"
	StatusInactive = "Inactive"

	// StatusAll disables the status filter.
	StatusAll = "all"
)

// DisplayRow is the uniform row every listing renders.
type DisplayRow struct {
	ID            string
	Name          string
	Age           int
	City          string
	MaritalStatus string
	StatusTag     string
	Email         string
}

// Projector maps a source entity to its row. It must be deterministic.
type Projector[E any] func(E) DisplayRow

// UserStatusTag derives a profile's tag from its income tier.
func UserStatusTag(income string) string {
	switch income {
	case "high":
		return StatusActive
	case "medium":
		return StatusMatched
	case "low":
		return StatusPending
	default:
		return StatusInactive
	}
}

// MatchStatusTag derives a match's tag from its score (0..10).
func MatchStatusTag(score float64) string {
	switch {
	case score >= 8:
		return StatusActive
	case score >= 6:
		return StatusMatched
	case score >= 4:
		return StatusPending
	default:
		return StatusInactive
	}
}

func maritalLabel(code, fallback string) string {
	switch code {
	case "single":
		return "Single"
	case "divorced":
		return "Divorced"
	case "widowed":
		return "Widowed"
	default:
		return fallback
	}
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func ProjectUser(u models.User) DisplayRow {
	return DisplayRow{
		ID:            strconv.FormatInt(u.ID, 10),
		Name:          fullName(u.FirstName, u.LastName),
		Age:           u.Age,
		City:          u.City,
		MaritalStatus: maritalLabel(u.MaritalStatus, "Other"),
		StatusTag:     UserStatusTag(string(u.Income)),
		Email:         u.Email,
	}
}

func ProjectMatch(m models.Match) DisplayRow {
	name := fullName(m.FirstName, m.LastName)
	if name == "" {
		name = m.Name
	}
	return DisplayRow{
		ID:            strconv.FormatInt(m.ID, 10),
		Name:          name,
		Age:           m.Age,
		City:          m.City,
		MaritalStatus: maritalLabel(m.MaritalStatus, "Single"),
		StatusTag:     MatchStatusTag(m.MatchScore),
		Email:         m.Email,
	}
}
