package models

// Match is one candidate returned by GET /matches/. MatchScore is computed
// by the matching service and only ever read here.
type Match struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	City      string `json:"city"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Country   string `json:"country"`

	Height               FlexString `json:"height"`
	Email                string     `json:"email"`
	PhoneNumber          string     `json:"phone_number"`
	UndergraduateCollege string     `json:"undergraduate_college"`
	Degree               string     `json:"degree"`
	CurrentCompany       string     `json:"current_company"`
	Designation          string     `json:"designation"`
	MaritalStatus        string     `json:"marital_status"`

	MatchScore           float64  `json:"match_score"`
	CompatibilityReasons []string `json:"compatibility_reasons"`
	// DistanceKM is nil when either side has no location.
	DistanceKM          *float64 `json:"distance_km"`
	ProfileCompleteness float64  `json:"profile_completeness"`
}

// TargetUser is the profile the matches were computed for.
type TargetUser struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Age          int     `json:"age"`
	Gender       string  `json:"gender"`
	InterestedIn *string `json:"interested_in"`
}

// MatchesResponse is the success body of GET /matches/.
type MatchesResponse struct {
	Status                string      `json:"status"`
	TargetUser            *TargetUser `json:"target_user"`
	TotalPotentialMatches int         `json:"total_potential_matches"`
	ReturnedMatches       int         `json:"returned_matches"`
	Matches               []Match     `json:"matches"`
}
