package mockapi

import (
	"cmp"
	"math"
	"slices"

	"github.com/dmitrijs2005/matchdesk/internal/client/models"
)

const maxScore = 10

// interestedIn is the gender a profile is matched against; nil means any.
func interestedIn(u models.User) *string {
	var g string
	switch u.Gender {
	case "male":
		g = "female"
	case "female":
		g = "male"
	default:
		return nil
	}
	return &g
}

func eligible(target, cand models.User) bool {
	if cand.ID == target.ID {
		return false
	}
	want := interestedIn(target)
	return want == nil || cand.Gender == *want
}

// score rates cand for target on a 0..10 scale.
func score(target, cand models.User) (float64, []string, *float64) {
	s := 3.0
	var reasons []string
	var distance *float64

	switch {
	case target.City != "" && target.City == cand.City:
		s += 2
		reasons = append(reasons, "Lives in the same city")
		d := 0.0
		distance = &d
	case target.Country != "" && target.Country == cand.Country:
		s += 1
		reasons = append(reasons, "Lives in the same country")
		d := float64(50 + (target.ID*31+cand.ID*17)%900)
		distance = &d
	}

	switch diff := abs(target.Age - cand.Age); {
	case diff <= 5:
		s += 2
		reasons = append(reasons, "Similar age")
	case diff <= 10:
		s += 1
		reasons = append(reasons, "Compatible age")
	}

	if target.Religion != "" && target.Religion == cand.Religion {
		s += 1
		reasons = append(reasons, "Same religion")
	}
	if target.WantKids != "" && target.WantKids == cand.WantKids {
		s += 1
		reasons = append(reasons, "Aligned on wanting kids")
	}
	if sharesLanguage(target.LanguagesKnown, cand.LanguagesKnown) {
		s += 1
		reasons = append(reasons, "Speaks a common language")
	}
	if target.City != cand.City && cand.OpenToRelocate == "yes" {
		s += 0.5
		reasons = append(reasons, "Open to relocating")
	}

	return math.Min(maxScore, round(s, 1)), reasons, distance
}

// completeness is the share of optional profile fields that are filled.
func completeness(u models.User) float64 {
	fields := []string{
		u.City, u.Country, string(u.Height), u.Email, u.PhoneNumber, u.UndergraduateCollege,
		u.Degree, string(u.Income), u.CurrentCompany, u.Designation, u.MaritalStatus,
		u.Caste, u.Religion, u.WantKids, u.OpenToRelocate, u.OpenToPets,
	}
	filled := 0
	for _, f := range fields {
		if f != "" {
			filled++
		}
	}
	return round(float64(filled)/float64(len(fields)), 2)
}

func findMatches(target models.User, pool []models.User, limit int) models.MatchesResponse {
	matches := make([]models.Match, 0, len(pool))
	for _, c := range pool {
		if !eligible(target, c) {
			continue
		}
		sc, reasons, dist := score(target, c)
		matches = append(matches, models.Match{
			ID:                   c.ID,
			Name:                 c.FirstName + " " + c.LastName,
			FirstName:            c.FirstName,
			LastName:             c.LastName,
			Age:                  c.Age,
			Gender:               c.Gender,
			City:                 c.City,
			Country:              c.Country,
			Height:               c.Height,
			Email:                c.Email,
			PhoneNumber:          c.PhoneNumber,
			UndergraduateCollege: c.UndergraduateCollege,
			Degree:               c.Degree,
			CurrentCompany:       c.CurrentCompany,
			Designation:          c.Designation,
			MaritalStatus:        c.MaritalStatus,
			MatchScore:           sc,
			CompatibilityReasons: reasons,
			DistanceKM:           dist,
			ProfileCompleteness:  completeness(c),
		})
	}

	slices.SortStableFunc(matches, func(a, b models.Match) int {
		if c := cmp.Compare(b.MatchScore, a.MatchScore); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	total := len(matches)
	if limit > 0 && limit < total {
		matches = matches[:limit]
	}

	return models.MatchesResponse{
		Status: models.StatusSuccess,
		TargetUser: &models.TargetUser{
			ID:           target.ID,
			Name:         target.FirstName + " " + target.LastName,
			Age:          target.Age,
			Gender:       target.Gender,
			InterestedIn: interestedIn(target),
		},
		TotalPotentialMatches: total,
		ReturnedMatches:       len(matches),
		Matches:               matches,
	}
}

// dashboardStats is the wire shape of GET /dashboard/stats/.
type dashboardStats struct {
	Status string `json:"status"`
	Stats  struct {
		TotalUsers        int     `json:"totalUsers"`
		TotalMatches      int     `json:"totalMatches"`
		ActiveUsers       int     `json:"activeUsers"`
		SuccessfulMatches int     `json:"successfulMatches"`
		AverageMatchScore float64 `json:"averageMatchScore"`
	} `json:"stats"`
}

// computeStats counts every eligible pair once per direction. A match
// scores at least 6; a successful one at least 8. Active users have at
// least one match.
func computeStats(pool []models.User) dashboardStats {
	var st dashboardStats
	st.Status = models.StatusSuccess
	st.Stats.TotalUsers = len(pool)

	var sum float64
	var pairs int
	for _, t := range pool {
		active := false
		for _, c := range pool {
			if !eligible(t, c) {
				continue
			}
			sc, _, _ := score(t, c)
			sum += sc
			pairs++
			if sc >= 6 {
				st.Stats.TotalMatches++
				active = true
			}
			if sc >= 8 {
				st.Stats.SuccessfulMatches++
			}
		}
		if active {
			st.Stats.ActiveUsers++
		}
	}
	if pairs > 0 {
		st.Stats.AverageMatchScore = round(sum/float64(pairs), 2)
	}
	return st
}

func sharesLanguage(a, b []int64) bool {
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
