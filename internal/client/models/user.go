package models

// User is a customer profile as returned by GET /users/.
type User struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Gender         string    `json:"gender"`
	DateOfBirth    string    `json:"date_of_birth"`
	Matchmaker     int64     `json:"matchmaker"`
	MatchmakerInfo *Identity `json:"matchmaker_info,omitempty"`

	Country string     `json:"country"`
	City    string     `json:"city"`
	Height  FlexString `json:"height"`

	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`

	UndergraduateCollege string     `json:"undergraduate_college"`
	Degree               string     `json:"degree"`
	Income               FlexString `json:"income"`
	CurrentCompany       string     `json:"current_company"`
	Designation          string     `json:"designation"`

	MaritalStatus  string  `json:"marital_status"`
	LanguagesKnown []int64 `json:"languages_known"`
	Siblings       int     `json:"siblings"`
	Caste          string  `json:"caste"`
	Religion       string  `json:"religion"`
	WantKids       string  `json:"want_kids"`
	OpenToRelocate string  `json:"open_to_relocate"`
	OpenToPets     string  `json:"open_to_pets"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Age       int    `json:"age"`
}

// UsersResponse is the success body of GET /users/.
type UsersResponse struct {
	Status     string    `json:"status"`
	Matchmaker *Identity `json:"matchmaker"`
	TotalUsers int       `json:"total_users"`
	Data       []User    `json:"data"`
}
