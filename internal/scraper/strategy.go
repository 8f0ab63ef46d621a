// Fallback extraction: each field gets an ordered list of strategies and the
// first one that yields non-empty text wins. Later strategies never run once
// one succeeds, and a strategy error just moves the cascade along.

package scraper

import "github.com/playwright-community/playwright-go"

// Strategy is one attempt at pulling a field off the current page.
type Strategy struct {
	Name string
	Fn   func() (string, error)
}

// Attempt records one cascade step for diagnostics.
type Attempt struct {
	Field    string
	Strategy string
	OK       bool
	Err      error
}

// FirstMatch runs strategies in order and returns the first non-empty cleaned
// result, along with the attempts made up to and including the winning one.
func FirstMatch(field string, strategies []Strategy) (string, []Attempt) {
	attempts := make([]Attempt, 0, len(strategies))
	for _, s := range strategies {
		text, err := s.Fn()
		text = CleanText(text)
		ok := err == nil && text != ""
		attempts = append(attempts, Attempt{Field: field, Strategy: s.Name, OK: ok, Err: err})
		if ok {
			return text, attempts
		}
	}
	return "", attempts
}

// orSentinel maps a failed cascade onto the output sentinel.
func orSentinel(text string) string {
	if text == "" {
		return Sentinel
	}
	return text
}

// textOf reads the first visible, non-empty match for selector.
func textOf(page playwright.Page, selector string) (string, error) {
	elements, err := page.QuerySelectorAll(selector)
	if err != nil {
		return "", err
	}
	for _, el := range elements {
		if visible, _ := el.IsVisible(); !visible {
			continue
		}
		text, err := el.TextContent()
		if err != nil {
			continue
		}
		if t := CleanText(text); t != "" {
			return t, nil
		}
	}
	return "", nil
}

// attrOf reads an attribute off the first match for selector.
func attrOf(page playwright.Page, selector, attr string) (string, error) {
	el, err := page.QuerySelector(selector)
	if err != nil || el == nil {
		return "", err
	}
	return el.GetAttribute(attr)
}

// textStrategy adapts textOf into a cascade step.
func textStrategy(page playwright.Page, selector string) Strategy {
	return Strategy{
		Name: selector,
		Fn:   func() (string, error) { return textOf(page, selector) },
	}
}

func textCascade(page playwright.Page, selectors []string) []Strategy {
	out := make([]Strategy, 0, len(selectors))
	for _, sel := range selectors {
		out = append(out, textStrategy(page, sel))
	}
	return out
}
