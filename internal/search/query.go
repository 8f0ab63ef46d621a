// Search query construction. Filters are encoded straight into the search
// URL (f_E, f_TPR, sortBy); the UI dropdown flow in navigator.go exists for
// the filters LinkedIn only honors after the page is live.

package search

import (
	"fmt"
	"net/url"
	"strings"
)

const searchBaseURL = "https://www.linkedin.com/jobs/search/"

// SortOrder picks the result ordering.
type SortOrder string

const (
	SortRelevant SortOrder = "relevant"
	SortRecent   SortOrder = "recent"
)

// experienceParam maps the CLI-facing level names onto LinkedIn's f_E codes.
var experienceParam = map[string]string{
	"internship":       "1",
	"entry_level":      "2",
	"associate":        "3",
	"mid_senior":       "4",
	"mid_senior_level": "4",
	"director":         "5",
	"executive":        "6",
}

var experienceLabel = map[string]string{
	"internship":       "Internship",
	"entry_level":      "Entry level",
	"associate":        "Associate",
	"mid_senior":       "Mid-Senior level",
	"mid_senior_level": "Mid-Senior level",
	"director":         "Director",
	"executive":        "Executive",
}

// datePostedParam maps the date window names onto f_TPR values. any_time
// maps to no parameter at all.
var datePostedParam = map[string]string{
	"any_time":      "",
	"past_month":    "r2592000",
	"past_week":     "r604800",
	"past_24_hours": "r86400",
}

var dateLabel = map[string]string{
	"any_time":      "Any time",
	"past_month":    "Past month",
	"past_week":     "Past week",
	"past_24_hours": "Past 24 hours",
}

// Query describes one job search.
type Query struct {
	Keywords         string
	Location         string
	Sort             SortOrder
	ExperienceLevels []string
	DatePosted       string
}

func (q Query) Validate() error {
	if strings.TrimSpace(q.Keywords) == "" {
		return fmt.Errorf("search keywords are required")
	}
	if strings.TrimSpace(q.Location) == "" {
		return fmt.Errorf("search location is required")
	}
	switch q.Sort {
	case "", SortRelevant, SortRecent:
	default:
		return fmt.Errorf("unknown sort order %q", q.Sort)
	}
	for _, level := range q.ExperienceLevels {
		if _, ok := experienceParam[strings.ToLower(level)]; !ok {
			return fmt.Errorf("unknown experience level %q", level)
		}
	}
	if q.DatePosted != "" {
		if _, ok := datePostedParam[strings.ToLower(q.DatePosted)]; !ok {
			return fmt.Errorf("unknown date posted window %q", q.DatePosted)
		}
	}
	return nil
}

// URL renders the query as a LinkedIn search URL.
func (q Query) URL() string {
	params := url.Values{}
	params.Set("keywords", q.Keywords)
	if q.Location != "" {
		params.Set("location", q.Location)
	}
	switch q.Sort {
	case SortRecent:
		params.Set("sortBy", "DD")
	case SortRelevant:
		params.Set("sortBy", "R")
	}
	if codes := q.experienceCodes(); len(codes) > 0 {
		params.Set("f_E", strings.Join(codes, ","))
	}
	if q.DatePosted != "" {
		if code := datePostedParam[strings.ToLower(q.DatePosted)]; code != "" {
			params.Set("f_TPR", code)
		}
	}
	return searchBaseURL + "?" + params.Encode()
}

// experienceCodes returns the deduplicated f_E codes in input order.
func (q Query) experienceCodes() []string {
	var codes []string
	seen := map[string]bool{}
	for _, level := range q.ExperienceLevels {
		code, ok := experienceParam[strings.ToLower(level)]
		if !ok || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}
