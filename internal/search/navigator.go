// Drives the live results page: opening a search, the in-page filter
// dropdowns, lazy-load scrolling and pagination. Implements the pager the
// listing extractor walks.

package search

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"

	"go-jobsearch-automation/internal/browser"
	"go-jobsearch-automation/internal/scraper"
)

var resultsListSelectors = []string{
	".jobs-search__results-list",
	".scaffold-layout__list",
	"ul.jobs-search-results__list",
	".jobs-search-results-list",
	".job-search-results",
}

var resultsCardSelectors = []string{
	"li[data-occludable-job-id]",
	"li.jobs-search-results__list-item",
	"li.scaffold-layout__list-item",
	".job-card-container",
}

var nextButtonSelectors = []string{
	"button.jobs-search-pagination__button--next",
	"button[aria-label='View next page']",
	"button[aria-label='Next']",
	"button.artdeco-pagination__button--next",
}

var noResultsSelectors = []string{
	".jobs-search-no-results-banner",
	".jobs-search-two-pane__no-results-banner",
}

// Navigator owns one search on one session.
type Navigator struct {
	Session *browser.Session
}

// Open navigates to the query's search URL and waits for either results or
// the empty-results banner.
func (n *Navigator) Open(ctx context.Context, q Query) error {
	if err := q.Validate(); err != nil {
		return err
	}
	target := q.URL()
	log.Printf("🔎 opening search %s", target)
	if err := n.Session.Navigate(ctx, target); err != nil {
		return err
	}
	waitFor := append(append([]string{}, resultsListSelectors...), noResultsSelectors...)
	if err := n.Session.WaitForAny(waitFor...); err != nil {
		return fmt.Errorf("search results never rendered: %w", err)
	}
	if err := browser.HumanScroll(n.Session.Page); err == nil {
		_ = browser.MouseJiggle(n.Session.Page)
	}
	if total := n.TotalResults(); total > 0 {
		log.Printf("📊 LinkedIn reports %d results for this search", total)
	}
	return nil
}

var resultCountSelectors = []string{
	".jobs-search-results-list__title-heading .t-12",
	".jobs-search-results-list__subtitle",
}

// TotalResults reads the advertised result count from the results header.
// Returns 0 when the header is absent or unreadable.
func (n *Navigator) TotalResults() int {
	for _, selector := range resultCountSelectors {
		el, err := n.Session.Page.QuerySelector(selector)
		if err != nil || el == nil {
			continue
		}
		text, _ := el.TextContent()
		if total := parseResultCount(text); total > 0 {
			return total
		}
	}
	return 0
}

// parseResultCount pulls the number out of header text like "1,024 results".
func parseResultCount(text string) int {
	lower := strings.ToLower(text)
	idx := strings.Index(lower, "result")
	if idx < 0 {
		return 0
	}
	var digits strings.Builder
	for _, r := range text[:idx] {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	total, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return total
}

// NoResults reports whether the current page is the empty-results state.
func (n *Navigator) NoResults() bool {
	for _, selector := range noResultsSelectors {
		if el, err := n.Session.Page.QuerySelector(selector); err == nil && el != nil {
			return true
		}
	}
	body, err := n.Session.Page.QuerySelector("body")
	if err != nil || body == nil {
		return false
	}
	text, _ := body.TextContent()
	return strings.Contains(strings.ToLower(text), "no matching jobs found")
}

// ApplyFilters works the experience-level and date-posted dropdowns on the
// live page. A missing control is logged and skipped, not fatal: the URL
// parameters already carry the same filters.
func (n *Navigator) ApplyFilters(ctx context.Context, q Query) {
	if len(q.ExperienceLevels) > 0 {
		n.applyExperienceFilter(q.ExperienceLevels)
	}
	if q.DatePosted != "" && !strings.EqualFold(q.DatePosted, "any_time") {
		n.applyDateFilter(q.DatePosted)
	}
}

func (n *Navigator) applyExperienceFilter(levels []string) {
	dropdown := n.openFilterDropdown([]string{
		`button[id="searchFilter_experience"]`,
		`button[aria-label*="Experience level filter"]`,
	})
	if dropdown == nil {
		log.Printf("⚠️ experience filter control not found, relying on URL parameters")
		return
	}
	selected := 0
	for _, level := range levels {
		code, ok := experienceParam[strings.ToLower(level)]
		if !ok {
			continue
		}
		if n.checkOption(dropdown, "experience-"+code, experienceLabel[strings.ToLower(level)]) {
			selected++
			browser.RandomDelay(500, 1000)
		} else {
			log.Printf("⚠️ could not select experience level %q", level)
		}
	}
	if selected == 0 {
		n.closeDropdown()
		return
	}
	n.submitDropdown(dropdown)
}

func (n *Navigator) applyDateFilter(window string) {
	dropdown := n.openFilterDropdown([]string{
		`button[id="searchFilter_timePostedRange"]`,
		`button[aria-label*="Date posted filter"]`,
	})
	if dropdown == nil {
		log.Printf("⚠️ date posted filter control not found, relying on URL parameters")
		return
	}
	code := datePostedParam[strings.ToLower(window)]
	if !n.checkOption(dropdown, "timePostedRange-"+code, dateLabel[strings.ToLower(window)]) {
		log.Printf("⚠️ could not select date window %q", window)
		n.closeDropdown()
		return
	}
	n.submitDropdown(dropdown)
}

func (n *Navigator) openFilterDropdown(buttonSelectors []string) playwright.ElementHandle {
	page := n.Session.Page
	for _, selector := range buttonSelectors {
		button, err := page.QuerySelector(selector)
		if err != nil || button == nil {
			continue
		}
		if err := button.Click(); err != nil {
			continue
		}
		browser.RandomDelay(1000, 2000)
		for _, containerSel := range []string{
			".artdeco-hoverable-content--visible .reusable-search-filters-trigger-dropdown__container",
			"fieldset.reusable-search-filters-trigger-dropdown__container",
			".artdeco-hoverable-content--visible fieldset",
		} {
			if container, err := page.QuerySelector(containerSel); err == nil && container != nil {
				return container
			}
		}
	}
	return nil
}

// checkOption ticks an input inside the dropdown, preferring its label, then
// the input id, then exact label text.
func (n *Navigator) checkOption(dropdown playwright.ElementHandle, inputID, labelText string) bool {
	if label, err := dropdown.QuerySelector(fmt.Sprintf(`label[for="%s"]`, inputID)); err == nil && label != nil {
		if err := label.Click(); err == nil {
			return true
		}
	}
	if input, err := dropdown.QuerySelector("#" + inputID); err == nil && input != nil {
		if err := input.Click(); err == nil {
			return true
		}
	}
	if labelText != "" {
		if label, err := dropdown.QuerySelector("text=" + labelText); err == nil && label != nil {
			if err := label.Click(); err == nil {
				return true
			}
		}
	}
	return false
}

func (n *Navigator) submitDropdown(dropdown playwright.ElementHandle) {
	for _, selector := range []string{
		`button.artdeco-button--primary[aria-label*="Apply current filter"]`,
		`button.artdeco-button--primary[aria-label*="Show"]`,
		".reusable-search-filters-buttons button.artdeco-button--primary",
		`button[class*="artdeco-button--primary"]`,
	} {
		buttons, err := dropdown.QuerySelectorAll(selector)
		if err != nil {
			continue
		}
		for _, button := range buttons {
			visible, _ := button.IsVisible()
			enabled, _ := button.IsEnabled()
			if !visible || !enabled {
				continue
			}
			text, _ := button.TextContent()
			lower := strings.ToLower(text)
			if strings.Contains(lower, "show") || strings.Contains(lower, "apply") || strings.Contains(lower, "done") {
				if err := button.Click(); err == nil {
					browser.RandomDelay(2000, 4000)
					return
				}
			}
		}
	}
	// Enter as the last resort submit
	if err := n.Session.Page.Keyboard().Press("Enter"); err == nil {
		browser.RandomDelay(2000, 4000)
	}
}

func (n *Navigator) closeDropdown() {
	if err := n.Session.Page.Keyboard().Press("Escape"); err != nil {
		log.Printf("⚠️ could not close filter dropdown: %v", err)
	}
}

// VisibleListings returns the hrefs of the job cards currently in the DOM.
// Cards that only expose a job ID attribute get a synthesized detail URL.
func (n *Navigator) VisibleListings() ([]string, error) {
	page := n.Session.Page
	for _, cardSel := range resultsCardSelectors {
		cards, err := page.QuerySelectorAll(cardSel)
		if err != nil || len(cards) == 0 {
			continue
		}
		var hrefs []string
		for _, card := range cards {
			if link, err := card.QuerySelector("a[href*='/jobs/view/']"); err == nil && link != nil {
				if href, _ := link.GetAttribute("href"); href != "" {
					hrefs = append(hrefs, href)
					continue
				}
			}
			if id, _ := card.GetAttribute("data-occludable-job-id"); id != "" {
				hrefs = append(hrefs, scraper.RefFromJobID(id).URL)
			}
		}
		return hrefs, nil
	}
	return nil, nil
}

// LoadMore scrolls the results container one step so the virtualized list
// renders its next slice. Returns false once the container is pinned to the
// bottom.
func (n *Navigator) LoadMore() (bool, error) {
	for _, selector := range resultsListSelectors {
		result, err := n.Session.Page.Evaluate(`(sel) => {
			const el = document.querySelector(sel);
			if (!el) return null;
			const before = el.scrollTop;
			el.scrollBy(0, 800);
			return el.scrollTop > before;
		}`, selector)
		if err != nil {
			continue
		}
		if moved, ok := result.(bool); ok {
			if moved {
				browser.RandomDelay(800, 1600)
			}
			return moved, nil
		}
	}
	// no scrollable container, fall back to scrolling the window
	if err := browser.HumanScroll(n.Session.Page); err != nil {
		return false, nil
	}
	return false, nil
}

// HasNextPage reports whether an enabled next-page control is present.
func (n *Navigator) HasNextPage() (bool, error) {
	button, err := n.nextButton()
	return button != nil, err
}

// AdvancePage clicks through to the next results page and waits for it to
// render.
func (n *Navigator) AdvancePage(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	button, err := n.nextButton()
	if err != nil {
		return err
	}
	if button == nil {
		return fmt.Errorf("no next page available")
	}
	if err := button.ScrollIntoViewIfNeeded(); err == nil {
		browser.RandomDelay(500, 1000)
	}
	if err := button.Click(); err != nil {
		return fmt.Errorf("clicking next page: %w", err)
	}
	browser.RandomDelay(2000, 4000)
	if err := n.Session.WaitForAny(resultsCardSelectors...); err != nil {
		return fmt.Errorf("next page never rendered: %w", err)
	}
	return nil
}

func (n *Navigator) nextButton() (playwright.ElementHandle, error) {
	page := n.Session.Page
	for _, selector := range nextButtonSelectors {
		button, err := page.QuerySelector(selector)
		if err != nil || button == nil {
			continue
		}
		visible, _ := button.IsVisible()
		enabled, _ := button.IsEnabled()
		class, _ := button.GetAttribute("class")
		if visible && enabled && !strings.Contains(class, "disabled") {
			return button, nil
		}
	}
	return nil, nil
}
