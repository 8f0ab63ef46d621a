package scraper

import (
	"os"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//helper start mock browser, gated because CI runners rarely carry the
//playwright browsers
func setupPlaywright(t *testing.T) (*playwright.Playwright, playwright.Browser, playwright.Page) {
	t.Helper()
	if os.Getenv("PLAYWRIGHT_E2E") == "" {
		t.Skip("set PLAYWRIGHT_E2E=1 to run browser-backed tests")
	}
	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("could not launch playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("could not launch browser: %v", err)
	}
	page, err := browser.NewPage()
	if err != nil {
		t.Fatalf("could not create page: %v", err)
	}
	return pw, browser, page
}

const detailFixture = `<html>
<head><title>Senior Go Engineer | Acme | LinkedIn</title></head>
<body>
  <h1 class="t-24">Senior Go Engineer</h1>
  <div class="job-details-jobs-unified-top-card__company-name">Acme Corp</div>
  <div class="job-details-jobs-unified-top-card__tertiary-description-container">
    <span class="tvm__text tvm__text--low-emphasis">Berlin, Germany</span>
    <span class="tvm__text tvm__text--low-emphasis">·</span>
    <span class="tvm__text tvm__text--low-emphasis">2 weeks ago</span>
  </div>
  <li class="job-details-jobs-unified-top-card__job-insight">Hybrid · Full-time · Mid-Senior level</li>
  <button class="jobs-apply-button" aria-label="Easy Apply to Senior Go Engineer">Easy Apply</button>
  <article class="jobs-description__container">
    We build distributed systems in Go. You will own services end to end.
  </article>
</body>
</html>`

func TestExtractFromRoutedFixture(t *testing.T) {
	pw, browser, page := setupPlaywright(t)
	defer pw.Stop()
	defer browser.Close()

	//route every request back to the fixture page
	err := page.Route("**/*", func(route playwright.Route) {
		_ = route.Fulfill(playwright.RouteFulfillOptions{
			Status:      playwright.Int(200),
			ContentType: playwright.String("text/html"),
			Body:        detailFixture,
		})
	})
	require.NoError(t, err)

	_, err = page.Goto("https://www.linkedin.com/jobs/view/123")
	require.NoError(t, err)

	e := &DetailExtractor{}
	job, err := e.ExtractFromPage(page, "https://www.linkedin.com/jobs/view/123")
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Engineer", job.Title)
	assert.Equal(t, "Acme Corp", job.Company)
	assert.Equal(t, "Berlin, Germany", job.Location)
	assert.Equal(t, "2 weeks ago", job.DatePosted)
	assert.NotEqual(t, Sentinel, job.DatePostedParsed)
	assert.Equal(t, "Full-time", job.EmploymentType)
	assert.Equal(t, "Mid-Senior level", job.SeniorityLevel)
	assert.True(t, job.EasyApply)
	assert.Equal(t, "Easy Apply", job.ApplyInfo)
	assert.Contains(t, job.Description, "distributed systems in Go")

	//fields the fixture does not carry stay at the sentinel
	assert.Equal(t, Sentinel, job.ApplicantCount)
	assert.Equal(t, Sentinel, job.CompanyInfo)
	assert.Empty(t, job.Skills)

	//re-extraction is deterministic apart from the scrape timestamp
	again, err := e.ExtractFromPage(page, "https://www.linkedin.com/jobs/view/123")
	require.NoError(t, err)
	again.ScrapedAt = job.ScrapedAt
	assert.Equal(t, job, again)
}

func TestExtractFromEmptyPageReportsMissingMandatoryFields(t *testing.T) {
	pw, browser, page := setupPlaywright(t)
	defer pw.Stop()
	defer browser.Close()

	err := page.Route("**/*", func(route playwright.Route) {
		_ = route.Fulfill(playwright.RouteFulfillOptions{
			Status:      playwright.Int(200),
			ContentType: playwright.String("text/html"),
			Body:        `<html><body><p>Nothing here</p></body></html>`,
		})
	})
	require.NoError(t, err)

	_, err = page.Goto("https://www.linkedin.com/jobs/view/404")
	require.NoError(t, err)

	e := &DetailExtractor{}
	_, err = e.ExtractFromPage(page, "https://www.linkedin.com/jobs/view/404")

	var partial *PartialExtractionError
	require.ErrorAs(t, err, &partial)
	assert.Contains(t, partial.Missing, "company")
}
