// Per-posting field extraction. Title, company and URL are mandatory; every
// other field degrades to the sentinel when its cascade comes up empty.

package scraper

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/playwright-community/playwright-go"

	"go-jobsearch-automation/internal/browser"
)

var (
	applyURLRe = regexp.MustCompile(`(?i)"(?:applyUrl|externalApplyUrl|companyApplyUrl)":"([^"]*)"`)
	skillsMore = regexp.MustCompile(`(?i)\+\d+\s*(more|additional)`)
	skillsJunk = regexp.MustCompile(`[^\w\s\+#\.\-]`)
)

// DetailExtractor pulls the full record off an open job detail page.
// Authenticated unlocks the sections LinkedIn only renders behind login
// (hiring team, related jobs).
type DetailExtractor struct {
	Authenticated bool
}

// Extract navigates to the listing and builds its posting record.
func (e *DetailExtractor) Extract(ctx context.Context, session *browser.Session, ref ListingRef) (*JobPosting, error) {
	if err := session.Navigate(ctx, ref.URL); err != nil {
		return nil, err
	}
	if err := session.WaitForAny(descriptionSelectors...); err != nil {
		log.Printf("⚠️ description container never appeared for %s, extracting anyway", ref.URL)
	}
	if e.Authenticated {
		// hiring team and related jobs render lazily near the bottom of the pane
		if err := session.ScrollElement(".jobs-details__main-content", 0); err != nil {
			_ = browser.HumanScroll(session.Page)
		}
		browser.RandomDelay(500, 1200)
	}
	return e.ExtractFromPage(session.Page, ref.URL)
}

// ExtractFromPage extracts from an already-loaded page. Split out so routed
// fixture pages can exercise the full field set without a live navigation.
func (e *DetailExtractor) ExtractFromPage(page playwright.Page, url string) (*JobPosting, error) {
	job := NewJobPosting(url)

	title, titleTries := FirstMatch("title", textCascade(page, titleSelectors))
	company, companyTries := FirstMatch("company", textCascade(page, companySelectors))
	job.Title = orSentinel(title)
	job.Company = orSentinel(company)

	var missing []string
	if title == "" {
		missing = append(missing, "title")
		logAttempts(titleTries)
	}
	if company == "" {
		missing = append(missing, "company")
		logAttempts(companyTries)
	}
	if len(missing) > 0 {
		return nil, &PartialExtractionError{URL: url, Missing: missing}
	}

	location, _ := FirstMatch("location", textCascade(page, locationSelectors))
	datePosted, _ := FirstMatch("date_posted", textCascade(page, postedDateSelectors))

	// the tertiary container under the top card is the more reliable home
	// for location and posted date on the current markup
	if spans := tertiarySpans(page); len(spans) > 0 {
		if location == "" {
			location = spans[0]
		}
		if datePosted == "" {
			for _, span := range spans[1:] {
				if looksLikePostedDate(span) {
					datePosted = span
					break
				}
			}
		}
	}
	job.Location = orSentinel(location)
	job.DatePosted = orSentinel(datePosted)
	if parsed := ParsePostedDate(datePosted); parsed != "" {
		job.DatePostedParsed = parsed
	}

	job.Description = orSentinel(e.extractDescription(page))

	insights := collectTexts(page, insightSelectors)
	if len(insights) > 0 {
		job.JobInsights = strings.Join(insights, "; ")
		job.EmploymentType = orSentinel(detectEmploymentType(insights))
		job.SeniorityLevel = orSentinel(detectSeniority(insights))
	}

	if count, _ := FirstMatch("applicant_count", textCascade(page, applicantCountSelectors)); count != "" {
		job.ApplicantCount = count
	}

	job.Skills = extractSkills(page)
	job.EasyApply, job.ApplyInfo = extractApplyInfo(page)
	job.CompanyInfo = orSentinel(extractCompanyInfo(page))

	if e.Authenticated {
		job.HiringTeam = extractHiringTeam(page)
		job.RelatedJobs = extractRelatedJobs(page)
	}

	return job, nil
}

func logAttempts(attempts []Attempt) {
	for _, a := range attempts {
		log.Printf("🔍 %s via %q failed (err=%v)", a.Field, a.Strategy, a.Err)
	}
}

// extractDescription expands the "See more" fold first, then prefers the
// full article text over the condensed content block.
func (e *DetailExtractor) extractDescription(page playwright.Page) string {
	if e.clickSeeMore(page) {
		browser.RandomDelay(1500, 2500)
	}

	articleSelectors := []string{
		"article.jobs-description__container",
		"article.jobs-description__container--condensed",
		".jobs-description__container",
		"article[class*='jobs-description__container']",
	}
	description, _ := FirstMatch("description", textCascade(page, articleSelectors))

	// #job-details often carries more text than the article wrapper
	if details, err := textOf(page, "#job-details"); err == nil && len(details) > len(description) {
		description = details
	}
	if description == "" {
		description, _ = FirstMatch("description", textCascade(page, descriptionContentSelectors))
	}
	return description
}

func (e *DetailExtractor) clickSeeMore(page playwright.Page) bool {
	for _, selector := range seeMoreSelectors {
		buttons, err := page.QuerySelectorAll(selector)
		if err != nil {
			continue
		}
		for _, button := range buttons {
			if visible, _ := button.IsVisible(); !visible {
				continue
			}
			if enabled, _ := button.IsEnabled(); !enabled {
				continue
			}
			text, _ := button.TextContent()
			lower := strings.ToLower(text)
			if !strings.Contains(lower, "see more") && !strings.Contains(lower, "show more") {
				continue
			}
			if err := button.ScrollIntoViewIfNeeded(); err == nil {
				browser.RandomDelay(1000, 1500)
			}
			if err := button.Click(); err != nil {
				continue
			}
			return true
		}
	}
	return false
}

func tertiarySpans(page playwright.Page) []string {
	for _, containerSel := range tertiaryContainerSelectors {
		container, err := page.QuerySelector(containerSel)
		if err != nil || container == nil {
			continue
		}
		for _, spanSel := range textSpanSelectors {
			spans, err := container.QuerySelectorAll(spanSel)
			if err != nil || len(spans) == 0 {
				continue
			}
			var out []string
			for _, span := range spans {
				text, _ := span.TextContent()
				text = CleanText(text)
				if text != "" && text != "·" && len(text) > 1 {
					out = append(out, text)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func looksLikePostedDate(text string) bool {
	lower := strings.ToLower(text)
	for _, indicator := range []string{"ago", "week", "day", "month", "hour", "minute", "posted"} {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func collectTexts(page playwright.Page, selectors []string) []string {
	for _, selector := range selectors {
		elements, err := page.QuerySelectorAll(selector)
		if err != nil || len(elements) == 0 {
			continue
		}
		var out []string
		seen := map[string]bool{}
		for _, el := range elements {
			if visible, _ := el.IsVisible(); !visible {
				continue
			}
			text, _ := el.TextContent()
			text = CleanText(text)
			if text != "" && !seen[text] {
				seen[text] = true
				out = append(out, text)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

var employmentTypes = []string{"Full-time", "Part-time", "Contract", "Temporary", "Internship", "Volunteer", "Freelance"}

var seniorityLevels = []string{"Internship", "Entry level", "Associate", "Mid-Senior level", "Director", "Executive"}

func detectEmploymentType(insights []string) string {
	return detectKeyword(insights, employmentTypes)
}

func detectSeniority(insights []string) string {
	return detectKeyword(insights, seniorityLevels)
}

func detectKeyword(texts, keywords []string) string {
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return kw
			}
		}
	}
	return ""
}

// extractSkills parses the "Skills: Go, Python, +3 more" insight button.
func extractSkills(page playwright.Page) []string {
	raw, _ := FirstMatch("skills", textCascade(page, skillsSelectors))
	if raw == "" || !strings.Contains(strings.ToLower(raw), "skill") {
		return []string{}
	}
	content := strings.TrimSpace(strings.TrimPrefix(raw, "Skills:"))
	parts := strings.Split(content, ",")
	out := []string{}
	for _, part := range parts {
		if skillsMore.MatchString(part) {
			continue
		}
		skill := CleanText(skillsJunk.ReplaceAllString(part, ""))
		if len(skill) > 1 {
			out = append(out, skill)
		}
	}
	return out
}

// extractApplyInfo distinguishes Easy Apply from external applications and
// digs the external URL out of the page source when the button hides it.
func extractApplyInfo(page playwright.Page) (bool, string) {
	for _, selector := range applyButtonSelectors {
		buttons, err := page.QuerySelectorAll(selector)
		if err != nil {
			continue
		}
		for _, button := range buttons {
			if visible, _ := button.IsVisible(); !visible {
				continue
			}
			text, _ := button.TextContent()
			text = CleanText(text)
			aria, _ := button.GetAttribute("aria-label")
			if text == "" || (!strings.Contains(text, "Apply") && !strings.Contains(aria, "Apply")) {
				continue
			}
			if strings.Contains(text, "Easy Apply") || strings.Contains(aria, "Easy Apply") {
				return true, "Easy Apply"
			}
			if href, _ := button.GetAttribute("href"); isExternalURL(href) {
				return false, href
			}
			if url := applyURLFromSource(page); url != "" {
				return false, url
			}
			return false, "External application - " + text
		}
	}
	return false, Sentinel
}

func isExternalURL(href string) bool {
	return strings.HasPrefix(href, "http") && !strings.Contains(href, "linkedin.com")
}

func applyURLFromSource(page playwright.Page) string {
	source, err := page.Content()
	if err != nil {
		return ""
	}
	for _, m := range applyURLRe.FindAllStringSubmatch(source, -1) {
		url := strings.NewReplacer(`&`, "&", `\/`, "/").Replace(m[1])
		if isExternalURL(url) {
			return url
		}
	}
	return ""
}

// extractCompanyInfo keeps the about-company blurb and drops the footer
// links and "Show more" buttons that share its container.
func extractCompanyInfo(page playwright.Page) string {
	for _, selector := range companyInfoSelectors {
		elements, err := page.QuerySelectorAll(selector)
		if err != nil {
			continue
		}
		for _, el := range elements {
			if visible, _ := el.IsVisible(); !visible {
				continue
			}
			text, _ := el.TextContent()
			var clean []string
			for _, line := range strings.Split(text, "\n") {
				line = CleanText(line)
				if line == "" {
					continue
				}
				lower := strings.ToLower(line)
				if strings.Contains(lower, "show more") || strings.Contains(lower, "see more") ||
					strings.HasPrefix(line, "http") || strings.Contains(line, "/company/") {
					break
				}
				clean = append(clean, line)
			}
			if len(clean) > 0 {
				return strings.Join(clean, "\n")
			}
		}
	}
	return ""
}

func extractHiringTeam(page playwright.Page) []HiringTeamMember {
	team := []HiringTeamMember{}
	seen := map[string]bool{}
	for _, sectionSel := range hiringSectionSelectors {
		sections, err := page.QuerySelectorAll(sectionSel)
		if err != nil {
			continue
		}
		for _, section := range sections {
			if visible, _ := section.IsVisible(); !visible {
				continue
			}
			for _, memberSel := range hiringMemberSelectors {
				members, err := section.QuerySelectorAll(memberSel)
				if err != nil {
					continue
				}
				for _, member := range members {
					name := elementText(member, hiringNameSelectors)
					if name == "" || seen[name] {
						continue
					}
					seen[name] = true
					entry := HiringTeamMember{
						Name:       name,
						Title:      orSentinel(elementText(member, hiringTitleSelectors)),
						ProfileURL: Sentinel,
					}
					if link, err := member.QuerySelector("a[href*='/in/']"); err == nil && link != nil {
						if href, _ := link.GetAttribute("href"); href != "" {
							entry.ProfileURL = href
						}
					}
					team = append(team, entry)
				}
			}
		}
	}
	return team
}

func extractRelatedJobs(page playwright.Page) []RelatedJob {
	related := []RelatedJob{}
	seen := map[string]bool{}
	for _, sectionSel := range relatedSectionSelectors {
		sections, err := page.QuerySelectorAll(sectionSel)
		if err != nil {
			continue
		}
		for _, section := range sections {
			if visible, _ := section.IsVisible(); !visible {
				continue
			}
			for _, cardSel := range relatedCardSelectors {
				cards, err := section.QuerySelectorAll(cardSel)
				if err != nil {
					continue
				}
				for _, card := range cards {
					title := elementText(card, relatedTitleSelectors)
					if title == "" {
						continue
					}
					company := elementText(card, relatedCompanySelectors)
					key := title + "-" + company
					if seen[key] {
						continue
					}
					seen[key] = true
					entry := RelatedJob{Title: title, Company: orSentinel(company), URL: Sentinel}
					if link, err := card.QuerySelector("a[href*='/jobs/']"); err == nil && link != nil {
						if href, _ := link.GetAttribute("href"); href != "" {
							if ref, ok := ParseListingRef(href); ok {
								entry.URL = ref.URL
							} else {
								entry.URL = href
							}
						}
					}
					related = append(related, entry)
				}
			}
		}
	}
	return related
}

// elementText runs a selector cascade scoped to one element.
func elementText(el playwright.ElementHandle, selectors []string) string {
	for _, selector := range selectors {
		matches, err := el.QuerySelectorAll(selector)
		if err != nil {
			continue
		}
		for _, match := range matches {
			text, _ := match.TextContent()
			if t := CleanText(text); t != "" {
				return t
			}
		}
	}
	return ""
}
