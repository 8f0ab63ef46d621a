package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativeDateRe = regexp.MustCompile(`(?i)(\d+)\+?\s*(minute|hour|day|week|month|year)s?\s+ago`)

// ParsePostedDate turns LinkedIn's posted-date text ("3 days ago",
// "Reposted 2 weeks ago", "2024-05-01", "01/05/2024") into an ISO date.
// Returns "" when the text is not a recognizable date; the raw text is kept
// separately so nothing is lost.
func ParsePostedDate(raw string) string {
	return parsePostedDateAt(raw, time.Now().UTC())
}

func parsePostedDateAt(raw string, now time.Time) string {
	text := CleanText(raw)
	if text == "" {
		return ""
	}

	if m := relativeDateRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return ""
		}
		var d time.Time
		switch strings.ToLower(m[2]) {
		case "minute":
			d = now.Add(-time.Duration(n) * time.Minute)
		case "hour":
			d = now.Add(-time.Duration(n) * time.Hour)
		case "day":
			d = now.AddDate(0, 0, -n)
		case "week":
			d = now.AddDate(0, 0, -7*n)
		case "month":
			d = now.AddDate(0, -n, 0)
		case "year":
			d = now.AddDate(-n, 0, 0)
		}
		return d.Format("2006-01-02")
	}

	for _, layout := range []string{"2006-01-02", "02/01/2006", "Jan 2, 2006", "2 Jan 2006"} {
		if d, err := time.Parse(layout, text); err == nil {
			return d.Format("2006-01-02")
		}
	}
	return ""
}
