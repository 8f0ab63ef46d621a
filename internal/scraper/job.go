// Canonical extracted record plus the listing reference that precedes it.
// Every field a page refuses to give up ends as the "NA" sentinel, never an
// empty string and never a missing key: downstream consumers key off it.

package scraper

import (
	"fmt"
	"strings"
	"time"
)

// Sentinel marks a field that could not be extracted.
const Sentinel = "NA"

// Source identifies where postings come from in the output records.
const Source = "linkedin"

// ListingRef is one discovered posting: its canonical URL plus the job ID
// embedded in the /jobs/view/<id> path.
type ListingRef struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// ParseListingRef turns a raw card href into a ListingRef. Tracking query
// params are dropped and relative links are absolutized, so the same job seen
// twice yields the same ref.
func ParseListingRef(href string) (ListingRef, bool) {
	if !strings.Contains(href, "/jobs/view/") {
		return ListingRef{}, false
	}
	url := strings.SplitN(href, "?", 2)[0]
	url = strings.SplitN(url, "#", 2)[0]
	if strings.HasPrefix(url, "/") {
		url = "https://www.linkedin.com" + url
	}
	url = strings.TrimRight(url, "/")

	rest := url[strings.Index(url, "/jobs/view/")+len("/jobs/view/"):]
	id := strings.Trim(rest, "/")
	if i := strings.IndexByte(id, '/'); i >= 0 {
		id = id[:i]
	}
	if id == "" {
		return ListingRef{}, false
	}
	return ListingRef{URL: url, ID: id}, true
}

// RefFromJobID builds a ListingRef for cards that carry a job ID attribute
// but no resolvable link.
func RefFromJobID(id string) ListingRef {
	return ListingRef{
		URL: fmt.Sprintf("https://www.linkedin.com/jobs/view/%s", id),
		ID:  id,
	}
}

type HiringTeamMember struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	ProfileURL string `json:"profile_url"`
}

type RelatedJob struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	URL     string `json:"url"`
}

// JobPosting is the superset record schema. Immutable once the detail
// extractor returns it.
type JobPosting struct {
	URL              string             `json:"url"`
	Source           string             `json:"source"`
	ScrapedAt        string             `json:"scraped_at"`
	Title            string             `json:"title"`
	Company          string             `json:"company"`
	Location         string             `json:"location"`
	Description      string             `json:"description"`
	DatePosted       string             `json:"date_posted"`
	DatePostedParsed string             `json:"date_posted_parsed"`
	EmploymentType   string             `json:"employment_type"`
	SeniorityLevel   string             `json:"seniority_level"`
	EasyApply        bool               `json:"easy_apply"`
	ApplyInfo        string             `json:"apply_info"`
	CompanyInfo      string             `json:"company_info"`
	JobInsights      string             `json:"job_insights"`
	ApplicantCount   string             `json:"applicant_count"`
	Skills           []string           `json:"skills"`
	HiringTeam       []HiringTeamMember `json:"hiring_team"`
	RelatedJobs      []RelatedJob       `json:"related_jobs"`
}

// NewJobPosting returns a posting with every field pre-set to the sentinel
// and the slices non-nil, so serialization always emits every key.
func NewJobPosting(url string) *JobPosting {
	return &JobPosting{
		URL:              url,
		Source:           Source,
		ScrapedAt:        time.Now().UTC().Format(time.RFC3339),
		Title:            Sentinel,
		Company:          Sentinel,
		Location:         Sentinel,
		Description:      Sentinel,
		DatePosted:       Sentinel,
		DatePostedParsed: Sentinel,
		EmploymentType:   Sentinel,
		SeniorityLevel:   Sentinel,
		ApplyInfo:        Sentinel,
		CompanyInfo:      Sentinel,
		JobInsights:      Sentinel,
		ApplicantCount:   Sentinel,
		Skills:           []string{},
		HiringTeam:       []HiringTeamMember{},
		RelatedJobs:      []RelatedJob{},
	}
}

// PartialExtractionError means the mandatory subset (title, company, url)
// could not be obtained from a detail page. The listing is skipped, the run
// continues.
type PartialExtractionError struct {
	URL     string
	Missing []string
}

func (e *PartialExtractionError) Error() string {
	return fmt.Sprintf("mandatory fields %v missing for %s", e.Missing, e.URL)
}
