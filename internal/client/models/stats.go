package models

import "encoding/json"

// DashboardStats are the headline numbers of GET /dashboard/stats/.
//
// The server has shipped two shapes: a nested camelCase "stats" object and
// flat snake_case fields. Decoding accepts both; nested values win when set.
type DashboardStats struct {
	TotalUsers        int     `json:"total_users"`
	TotalMatches      int     `json:"total_matches"`
	ActiveUsers       int     `json:"active_users"`
	SuccessfulMatches int     `json:"successful_matches"`
	AverageMatchScore float64 `json:"average_match_score"`
}

type nestedStats struct {
	TotalUsers        int     `json:"totalUsers"`
	TotalMatches      int     `json:"totalMatches"`
	ActiveUsers       int     `json:"activeUsers"`
	SuccessfulMatches int     `json:"successfulMatches"`
	AverageMatchScore float64 `json:"averageMatchScore"`
}

func (s *DashboardStats) UnmarshalJSON(b []byte) error {
	type flat DashboardStats
	var raw struct {
		flat
		Stats *nestedStats `json:"stats"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*s = DashboardStats(raw.flat)
	if n := raw.Stats; n != nil {
		s.TotalUsers = pick(n.TotalUsers, s.TotalUsers)
		s.TotalMatches = pick(n.TotalMatches, s.TotalMatches)
		s.ActiveUsers = pick(n.ActiveUsers, s.ActiveUsers)
		s.SuccessfulMatches = pick(n.SuccessfulMatches, s.SuccessfulMatches)
		s.AverageMatchScore = pick(n.AverageMatchScore, s.AverageMatchScore)
	}
	return nil
}

func pick[T int | float64](primary, fallback T) T {
	if primary != 0 {
		return primary
	}
	return fallback
}
