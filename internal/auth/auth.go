// LinkedIn login and security-challenge handling. Typing is paced like a
// human, challenges pause the run until an operator clears them in the
// browser, and an anonymous session is a supported degraded mode.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/playwright-community/playwright-go"

	"go-jobsearch-automation/internal/browser"
	"go-jobsearch-automation/utils"
)

const loginURL = "https://www.linkedin.com/login"

// AuthenticationError means credentials were presented and rejected, with no
// challenge involved.
type AuthenticationError struct {
	Username string
	Reason   string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("login failed for %s: %s", e.Username, e.Reason)
}

// ChallengeError surfaces a security verification the operator declined or
// failed to clear.
type ChallengeError struct {
	URL string
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("security challenge not cleared at %s", e.URL)
}

// ErrMissingCredentials is returned when a login is requested without a
// username and password configured.
var ErrMissingCredentials = errors.New("linkedin username and password are required")

// Result reports how a login attempt ended.
type Result struct {
	Success           bool
	ChallengeDetected bool
	// ChallengeShot is the screenshot path captured when a challenge was
	// detected, empty otherwise.
	ChallengeShot string
}

// Authenticator drives the login flow on an open session.
type Authenticator struct {
	Username string
	Password string
	// Gate is consulted when a challenge appears. Nil means challenges are
	// immediately fatal.
	Gate OperatorGate
	// CookiesPath, when set, persists the authenticated cookie jar after a
	// successful login.
	CookiesPath string
}

var loggedInSelectors = []string{
	"#global-nav",
	".nav-main",
	".search-global-typeahead",
	".feed-identity-module",
}

var challengeSelectors = []string{
	"form[action*='checkpoint']",
	"input[name='captcha']",
	"img[src*='captcha']",
	"iframe[src*='captcha']",
	"iframe[src*='recaptcha']",
}

// Login signs the session in. On success the session is marked
// authenticated; on a challenge the operator gate is given a chance to clear
// it before the attempt is declared failed.
func (a *Authenticator) Login(ctx context.Context, session *browser.Session) (Result, error) {
	if a.Username == "" || a.Password == "" {
		return Result{}, ErrMissingCredentials
	}

	log.Printf("🔐 logging in to LinkedIn as %s", a.Username)
	session.AuthState = browser.AuthAuthenticating

	if err := session.Navigate(ctx, loginURL); err != nil {
		return Result{}, err
	}
	if err := session.WaitForAny("#username"); err != nil {
		return Result{}, fmt.Errorf("login form never appeared: %w", err)
	}

	if err := typeSlowly(session.Page, "#username", a.Username); err != nil {
		return Result{}, fmt.Errorf("filling username: %w", err)
	}
	if err := typeSlowly(session.Page, "#password", a.Password); err != nil {
		return Result{}, fmt.Errorf("filling password: %w", err)
	}
	if err := session.Page.Click("button[type='submit']"); err != nil {
		return Result{}, fmt.Errorf("submitting login form: %w", err)
	}
	browser.RandomDelay(3000, 5000)

	if a.isLoggedIn(session.Page) {
		return a.finishLogin(session)
	}

	if challenged, shot := a.DetectChallenge(session.Page); challenged {
		session.AuthState = browser.AuthChallenged
		result := Result{ChallengeDetected: true, ChallengeShot: shot}
		if a.Gate == nil {
			return result, &ChallengeError{URL: session.Page.URL()}
		}
		// operator resolves the challenge in the live browser window; keep
		// waiting through as many rounds as it takes until the checkpoint
		// clears or the operator gives up (gate returns an error)
		for {
			log.Printf("🛑 security challenge detected, waiting for operator")
			if err := a.Gate.AwaitResolution(ctx); err != nil {
				return result, err
			}
			if a.isLoggedIn(session.Page) || !strings.Contains(session.Page.URL(), "checkpoint") {
				done, err := a.finishLogin(session)
				done.ChallengeDetected = true
				done.ChallengeShot = shot
				return done, err
			}
			if still, _ := a.DetectChallenge(session.Page); !still {
				return result, &ChallengeError{URL: session.Page.URL()}
			}
		}
	}

	session.AuthState = browser.AuthAnonymous
	return Result{}, &AuthenticationError{Username: a.Username, Reason: "post-login navigation never rendered"}
}

func (a *Authenticator) finishLogin(session *browser.Session) (Result, error) {
	session.AuthState = browser.AuthAuthenticated
	log.Printf("✅ logged in to LinkedIn")
	if a.CookiesPath != "" {
		if err := browser.SaveCookies(session.Context, a.CookiesPath); err != nil {
			log.Printf("⚠️ could not persist cookies: %v", err)
		}
	}
	return Result{Success: true}, nil
}

func (a *Authenticator) isLoggedIn(page playwright.Page) bool {
	for _, selector := range loggedInSelectors {
		if el, err := page.QuerySelector(selector); err == nil && el != nil {
			return true
		}
	}
	return false
}

// DetectChallenge decides whether the current page is a security
// verification wall. The job results list or the main LinkedIn chrome being
// present vetoes it. Returns the screenshot path when one was captured.
func (a *Authenticator) DetectChallenge(page playwright.Page) (bool, string) {
	jobListSelectors := []string{
		".jobs-search__results-list",
		".scaffold-layout__list",
		".job-search-results",
		"ul.jobs-search-results__list",
		".jobs-search-results-list",
	}
	for _, selector := range jobListSelectors {
		if el, err := page.QuerySelector(selector); err == nil && el != nil {
			return false, ""
		}
	}

	for _, selector := range challengeSelectors {
		elements, err := page.QuerySelectorAll(selector)
		if err != nil {
			continue
		}
		for _, el := range elements {
			if visible, _ := el.IsVisible(); visible {
				return true, utils.ScreenShotDebugger(page, "challenge")
			}
		}
	}

	if a.isLoggedIn(page) {
		return false, ""
	}

	title, err := page.Title()
	if err == nil && TitleIndicatesChallenge(title) {
		return true, utils.ScreenShotDebugger(page, "challenge")
	}

	body, err := page.QuerySelector("body")
	if err == nil && body != nil {
		text, _ := body.TextContent()
		if BodyIndicatesChallenge(text) {
			return true, utils.ScreenShotDebugger(page, "challenge")
		}
	}
	return false, ""
}

var challengeTitlePhrases = []string{"security verification", "captcha", "checkpoint"}

var challengeBodyPhrases = []string{
	"security verification",
	"quick security check",
	"verify you're a human",
	"prove you're a human",
	"complete this security check",
}

// TitleIndicatesChallenge scans a page title for verification wording.
func TitleIndicatesChallenge(title string) bool {
	return containsAny(title, challengeTitlePhrases)
}

// BodyIndicatesChallenge scans body text for verification wording.
func BodyIndicatesChallenge(body string) bool {
	return containsAny(body, challengeBodyPhrases)
}

func containsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// typeSlowly clears a field and types character by character with human
// pacing.
func typeSlowly(page playwright.Page, selector, value string) error {
	if err := page.Fill(selector, ""); err != nil {
		return err
	}
	locator := page.Locator(selector)
	return locator.PressSequentially(value, playwright.LocatorPressSequentiallyOptions{
		Delay: playwright.Float(120),
	})
}
