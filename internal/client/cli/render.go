package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/matchdesk/internal/client/diag"
	"github.com/dmitrijs2005/matchdesk/internal/client/models"
	"github.com/dmitrijs2005/matchdesk/internal/client/table"
)

func renderTable(w io.Writer, title string, v table.View) {
	fmt.Fprintf(w, "%s\n", title)
	if v.Total == 0 {
		fmt.Fprintln(w, "  (no rows)")
		return
	}

	if v.Filtered == 0 {
		fmt.Fprintln(w, "  (no matching rows)")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tAGE\tCITY\tMARITAL\tSTATUS\tEMAIL")
		for _, r := range v.Rows {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
				r.ID, r.Name, r.Age, r.City, r.MaritalStatus, r.StatusTag, r.Email)
		}
		_ = tw.Flush()
	}

	page := 0
	if v.PageCount > 0 {
		page = v.PageIndex + 1
	}
	fmt.Fprintf(w, "Showing %d-%d of %d", v.From, v.To, v.Filtered)
	if v.Filtered != v.Total {
		fmt.Fprintf(w, " (filtered from %d)", v.Total)
	}
	fmt.Fprintf(w, ", page %d/%d", page, v.PageCount)

	var state []string
	if v.GlobalFilter != "" {
		state = append(state, fmt.Sprintf("search=%q", v.GlobalFilter))
	}
	if v.StatusFilter != "" && v.StatusFilter != table.StatusAll {
		state = append(state, "status="+v.StatusFilter)
	}
	if v.Sort.Active() {
		state = append(state, fmt.Sprintf("sort=%s %s", v.Sort.Column, v.Sort.Direction))
	}
	if len(state) > 0 {
		fmt.Fprintf(w, " [%s]", strings.Join(state, ", "))
	}
	fmt.Fprintln(w)
}

func renderUser(w io.Writer, u models.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	field := func(k string, v any) { fmt.Fprintf(tw, "  %s\t%v\n", k, v) }
	fmt.Fprintf(tw, "Profile #%d\n", u.ID)
	field("Name", u.FirstName+" "+u.LastName)
	field("Gender", u.Gender)
	field("Born", u.DateOfBirth)
	field("Age", u.Age)
	field("Location", strings.Trim(u.City+", "+u.Country, ", "))
	field("Height", u.Height)
	field("Email", u.Email)
	field("Phone", u.PhoneNumber)
	field("Education", strings.Trim(u.Degree+", "+u.UndergraduateCollege, ", "))
	field("Work", strings.Trim(u.Designation+", "+u.CurrentCompany, ", "))
	field("Income", u.Income)
	field("Marital status", u.MaritalStatus)
	field("Religion", u.Religion)
	field("Wants kids", u.WantKids)
	field("Open to relocate", u.OpenToRelocate)
	field("Open to pets", u.OpenToPets)
	_ = tw.Flush()
}

func renderMatch(w io.Writer, m models.Match) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	field := func(k string, v any) { fmt.Fprintf(tw, "  %s\t%v\n", k, v) }
	fmt.Fprintf(tw, "Match #%d\n", m.ID)
	field("Name", strings.TrimSpace(m.FirstName+" "+m.LastName))
	field("Age", m.Age)
	field("Location", strings.Trim(m.City+", "+m.Country, ", "))
	field("Email", m.Email)
	field("Score", fmt.Sprintf("%.1f/10", m.MatchScore))
	if m.DistanceKM != nil {
		field("Distance", fmt.Sprintf("%.0f km", *m.DistanceKM))
	}
	field("Profile completeness", fmt.Sprintf("%.0f%%", m.ProfileCompleteness*100))
	for _, r := range m.CompatibilityReasons {
		field("Reason", r)
	}
	_ = tw.Flush()
}

func renderStats(w io.Writer, s models.DashboardStats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Total users\t%d\n", s.TotalUsers)
	fmt.Fprintf(tw, "  Active users\t%d\n", s.ActiveUsers)
	fmt.Fprintf(tw, "  Total matches\t%d\n", s.TotalMatches)
	fmt.Fprintf(tw, "  Successful matches\t%d\n", s.SuccessfulMatches)
	fmt.Fprintf(tw, "  Average match score\t%.2f\n", s.AverageMatchScore)
	_ = tw.Flush()
}

func renderEntry(w io.Writer, e diag.Entry) {
	switch e.Kind {
	case diag.KindError:
		fmt.Fprintf(w, "[error %s] %s\n", e.ID, e.Message)
	default:
		fmt.Fprintf(w, "[%s] %s\n", e.Kind, e.Message)
	}
}
