package mockapi

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dmitrijs2005/matchdesk/internal/client/models"
)

var (
	firstNames = []string{
		"Aarav", "Aditi", "Arjun", "Diya", "Ishaan", "Kavya", "Rohan", "Saanvi",
		"Vikram", "Ananya", "Nikhil", "Priya", "Rahul", "Meera", "Karan", "Sneha",
		"James", "Olivia", "Liam", "Emma", "Noah", "Ava", "Ethan", "Mia",
	}
	lastNames = []string{
		"Sharma", "Patel", "Iyer", "Reddy", "Nair", "Gupta", "Mehta", "Khan",
		"Singh", "Das", "Smith", "Johnson", "Brown", "Garcia", "Miller", "Wilson",
	}
	places = []struct{ city, country string }{
		{"Mumbai", "India"}, {"Delhi", "India"}, {"Bengaluru", "India"}, {"Chennai", "India"},
		{"Pune", "India"}, {"London", "United Kingdom"}, {"Manchester", "United Kingdom"},
		{"New York", "United States"}, {"Austin", "United States"}, {"Toronto", "Canada"},
	}
	genders    = []string{"male", "female", "male", "female", "other"}
	marital    = []string{"single", "single", "single", "divorced", "widowed", "separated"}
	religions  = []string{"hinduism", "islam", "christianity", "sikhism", "buddhism", "jainism", "atheist", "spiritual"}
	castes     = []string{"general", "brahmin", "obc", "sc", "st", "no_preference", "other"}
	degrees    = []string{"btech", "bsc", "bcom", "ba", "mba", "mtech", "msc", "mbbs", "phd"}
	yesNoMaybe = []string{"yes", "no", "maybe"}
	companies  = []string{"Infosys", "Tata Consultancy", "Wipro", "Acme Corp", "Globex", "Initech", "Umbrella", "Hooli"}
	titles     = []string{"Engineer", "Analyst", "Designer", "Manager", "Consultant", "Doctor", "Teacher", "Architect"}
	incomes    = []string{"high", "medium", "low"}
)

// generateProfiles returns n customer profiles derived only from seed and
// ref, ids starting at 1.
func generateProfiles(n int, seed uint64, ref time.Time) []models.User {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	stamp := ref.UTC().Format(time.RFC3339)

	out := make([]models.User, 0, n)
	for i := 1; i <= n; i++ {
		first := pick(r, firstNames)
		last := pick(r, lastNames)
		place := places[r.IntN(len(places))]
		age := 20 + r.IntN(31)
		dob := ref.AddDate(-age, 0, -r.IntN(365))

		income := pick(r, incomes)
		if r.IntN(5) == 0 {
			// Some records carry the raw yearly amount instead of a tier.
			income = fmt.Sprintf("%.2f", 300000+r.Float64()*2700000)
		}

		langs := make([]int64, 0, 4)
		for _, l := range r.Perm(10)[:1+r.IntN(4)] {
			langs = append(langs, int64(l+1))
		}

		out = append(out, models.User{
			ID:                   int64(i),
			FirstName:            first,
			LastName:             last,
			Gender:               pick(r, genders),
			DateOfBirth:          dob.Format(time.DateOnly),
			Country:              place.country,
			City:                 place.city,
			Height:               models.FlexString(fmt.Sprintf("%.2f", 1.5+r.Float64()*0.5)),
			Email:                fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			PhoneNumber:          fmt.Sprintf("+91-%05d-%05d", r.IntN(100000), r.IntN(100000)),
			UndergraduateCollege: pick(r, companies) + " University",
			Degree:               pick(r, degrees),
			Income:               models.FlexString(income),
			CurrentCompany:       pick(r, companies),
			Designation:          pick(r, titles),
			MaritalStatus:        pick(r, marital),
			LanguagesKnown:       langs,
			Siblings:             r.IntN(5),
			Caste:                pick(r, castes),
			Religion:             pick(r, religions),
			WantKids:             pick(r, yesNoMaybe),
			OpenToRelocate:       pick(r, yesNoMaybe),
			OpenToPets:           pick(r, yesNoMaybe),
			CreatedAt:            stamp,
			UpdatedAt:            stamp,
			Age:                  age,
		})
	}
	return out
}

func pick(r *rand.Rand, from []string) string {
	return from[r.IntN(len(from))]
}
