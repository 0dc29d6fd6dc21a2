package report

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// Period selects which slice of expense history a report covers.
// A zero To means the window is open-ended towards the present.
type Period struct {
	Slug string
	From time.Time
	To   time.Time
	All  bool
}

// Monthly covers the current calendar month to date.
func Monthly() Period {
	return Period{Slug: "monthly", From: now.BeginningOfMonth()}
}

// Quarterly covers the current calendar quarter to date.
func Quarterly() Period {
	return Period{Slug: "quarterly", From: now.BeginningOfQuarter()}
}

// Yearly covers the current calendar year to date.
func Yearly() Period {
	return Period{Slug: "yearly", From: now.BeginningOfYear()}
}

// Everything covers the full expense history.
func Everything() Period {
	return Period{Slug: "all", All: true}
}

// Custom covers the inclusive [from, to] date range.
func Custom(from, to time.Time) Period {
	return Period{Slug: "custom", From: from, To: to}
}

// Filename builds the attachment name for a report generated at the given time.
func (p Period) Filename(at time.Time) string {
	return fmt.Sprintf("expenses_%s_%s.xlsx", p.Slug, at.Format("2006-01-02"))
}
