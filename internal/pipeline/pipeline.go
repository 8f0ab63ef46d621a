// End-to-end run orchestration: authenticate, search, discover listings,
// extract details, deduplicate and persist. One Orchestrator drives exactly
// one run; per-listing failures are recorded and skipped, only session-level
// failures abort.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"go-jobsearch-automation/internal/auth"
	"go-jobsearch-automation/internal/browser"
	"go-jobsearch-automation/internal/dedup"
	"go-jobsearch-automation/internal/generator"
	"go-jobsearch-automation/internal/scraper"
	"go-jobsearch-automation/internal/search"
)

// Stage names the phase a run is in, and the phase a failure happened in.
type Stage string

const (
	StageInitializing       Stage = "initializing"
	StageAuthenticating     Stage = "authenticating"
	StageSearching          Stage = "searching"
	StageExtractingListings Stage = "extracting_listings"
	StageExtractingDetails  Stage = "extracting_details"
	StagePersisting         Stage = "persisting"
	StageCompleted          Stage = "completed"
	StageFailed             Stage = "failed"
)

// FailedListing records one listing that could not be fully processed.
type FailedListing struct {
	URL    string `json:"url"`
	Stage  Stage  `json:"stage"`
	Reason string `json:"reason"`
}

// Report is the outcome of a run: what was kept, what was skipped as already
// seen, and what failed.
type Report struct {
	Accepted   int                   `json:"accepted"`
	Duplicates int                   `json:"duplicates"`
	Failed     []FailedListing       `json:"failed"`
	Postings   []*scraper.JobPosting `json:"postings"`
}

// ErrAlreadyRan is returned when Run is called twice on one Orchestrator.
var ErrAlreadyRan = errors.New("pipeline already ran, build a new one")

// Authenticator is the login step. Satisfied by auth.Authenticator.
type Authenticator interface {
	Login(ctx context.Context, session *browser.Session) (auth.Result, error)
}

// Searcher opens a query on the live session. Satisfied by search.Navigator.
type Searcher interface {
	Open(ctx context.Context, q search.Query) error
	ApplyFilters(ctx context.Context, q search.Query)
	NoResults() bool
}

// Collector walks the results view. Satisfied by scraper.ListingExtractor.
type Collector interface {
	Collect(ctx context.Context, pager scraper.ResultsPager) ([]scraper.ListingRef, error)
}

// Detailer extracts one posting. Satisfied by scraper.DetailExtractor.
type Detailer interface {
	Extract(ctx context.Context, session *browser.Session, ref scraper.ListingRef) (*scraper.JobPosting, error)
}

// PostingSaver persists accepted postings. Satisfied by database.Repository.
type PostingSaver interface {
	SavePosting(ctx context.Context, job *scraper.JobPosting) error
}

// Notifier pushes run events out of band. Satisfied by reporter.Bot.
type Notifier interface {
	SendPosting(job *scraper.JobPosting) error
	SendStatus(message string) error
	SendError(err error) error
	SendChallengeAlert(pageURL string) error
}

// Orchestrator wires one run together. Session, Search, Pager, Listings,
// Details and Store are required; the rest are optional and skipped when nil.
type Orchestrator struct {
	Session  *browser.Session
	Auth     Authenticator
	Search   Searcher
	Pager    scraper.ResultsPager
	Listings Collector
	Details  Detailer
	Store    dedup.Store
	DB       PostingSaver
	Docs     generator.DocumentGenerator
	Notify   Notifier
	Query    search.Query

	// BaseResumeJSON feeds the document generator when one is wired.
	BaseResumeJSON string

	// Throttle spaces out listing visits. Defaults to a randomized delay.
	Throttle func()

	stage Stage
	ran   atomic.Bool
}

// Stage reports the phase the run is currently in.
func (o *Orchestrator) Stage() Stage {
	if o.stage == "" {
		return StageInitializing
	}
	return o.stage
}

// Run executes the pipeline once. The returned report is valid even when err
// is non-nil: it covers everything processed before the failure.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	if !o.ran.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRan
	}
	report := &Report{Failed: []FailedListing{}, Postings: []*scraper.JobPosting{}}

	if err := o.authenticate(ctx); err != nil {
		o.stage = StageFailed
		o.notifyError(err)
		return report, err
	}

	o.stage = StageSearching
	if err := o.Search.Open(ctx, o.Query); err != nil {
		o.stage = StageFailed
		o.notifyError(err)
		return report, fmt.Errorf("opening search: %w", err)
	}
	o.Search.ApplyFilters(ctx, o.Query)
	if o.Search.NoResults() {
		log.Printf("ℹ️ no matching jobs for %q in %q", o.Query.Keywords, o.Query.Location)
		o.stage = StageCompleted
		o.sendSummary(report)
		return report, nil
	}

	o.stage = StageExtractingListings
	refs, err := o.Listings.Collect(ctx, o.Pager)
	if err != nil {
		o.stage = StageFailed
		o.notifyError(err)
		return report, fmt.Errorf("collecting listings: %w", err)
	}
	log.Printf("📋 %d listings discovered", len(refs))

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			o.stage = StageFailed
			return report, err
		}
		o.processListing(ctx, ref, report)
		o.throttle()
	}

	o.stage = StageCompleted
	o.sendSummary(report)
	return report, nil
}

func (o *Orchestrator) throttle() {
	if o.Throttle != nil {
		o.Throttle()
		return
	}
	browser.RandomDelay(1500, 3500)
}

func (o *Orchestrator) authenticate(ctx context.Context) error {
	if o.Auth == nil {
		log.Printf("👻 running anonymously, gated sections will be skipped")
		return nil
	}
	o.stage = StageAuthenticating
	result, err := o.Auth.Login(ctx, o.Session)
	if result.ChallengeDetected && o.Notify != nil {
		pageURL := ""
		if o.Session != nil && o.Session.Page != nil {
			pageURL = o.Session.Page.URL()
		}
		if alertErr := o.Notify.SendChallengeAlert(pageURL); alertErr != nil {
			log.Printf("⚠️ could not send challenge alert: %v", alertErr)
		}
	}
	if err != nil {
		return fmt.Errorf("authentication: %w", err)
	}
	return nil
}

func (o *Orchestrator) processListing(ctx context.Context, ref scraper.ListingRef, report *Report) {
	canonical := dedup.CanonicalURL(ref.URL)

	seen, err := o.Store.Exists(ctx, canonical)
	if err != nil {
		report.Failed = append(report.Failed, FailedListing{URL: canonical, Stage: StagePersisting, Reason: err.Error()})
		return
	}
	if seen {
		log.Printf("⏭️ already seen %s", canonical)
		report.Duplicates++
		return
	}

	// the key is only claimed once a full posting exists behind it: a failed
	// or cancelled extraction leaves the store untouched so a later run can
	// pick the listing up again
	o.stage = StageExtractingDetails
	job, err := o.Details.Extract(ctx, o.Session, ref)
	if err != nil {
		log.Printf("❌ extraction failed for %s: %v", canonical, err)
		report.Failed = append(report.Failed, FailedListing{URL: canonical, Stage: StageExtractingDetails, Reason: err.Error()})
		return
	}

	o.stage = StagePersisting
	if o.DB != nil {
		if err := o.DB.SavePosting(ctx, job); err != nil {
			log.Printf("❌ persisting %s: %v", canonical, err)
			report.Failed = append(report.Failed, FailedListing{URL: canonical, Stage: StagePersisting, Reason: err.Error()})
			return
		}
	}
	claimed, err := o.Store.InsertIfAbsent(ctx, canonical)
	if err != nil {
		report.Failed = append(report.Failed, FailedListing{URL: canonical, Stage: StagePersisting, Reason: err.Error()})
		return
	}
	if !claimed {
		// a concurrent run claimed it between our pre-check and now; its
		// posting stands, first write wins
		log.Printf("⏭️ lost the claim race for %s", canonical)
		report.Duplicates++
		return
	}

	report.Accepted++
	report.Postings = append(report.Postings, job)
	log.Printf("✅ %s at %s", job.Title, job.Company)

	// best-effort side channels, never fatal
	if o.Docs != nil {
		if _, err := o.Docs.Generate(ctx, o.BaseResumeJSON, job); err != nil {
			log.Printf("⚠️ document generation failed for %s: %v", canonical, err)
		}
	}
	if o.Notify != nil {
		if err := o.Notify.SendPosting(job); err != nil {
			log.Printf("⚠️ telegram notification failed: %v", err)
		}
	}
}

func (o *Orchestrator) sendSummary(report *Report) {
	log.Printf("🏁 run complete: %d accepted, %d duplicates, %d failed",
		report.Accepted, report.Duplicates, len(report.Failed))
	if o.Notify == nil {
		return
	}
	msg := fmt.Sprintf("Run complete: %d new, %d duplicates, %d failed",
		report.Accepted, report.Duplicates, len(report.Failed))
	if err := o.Notify.SendStatus(msg); err != nil {
		log.Printf("⚠️ telegram summary failed: %v", err)
	}
}

func (o *Orchestrator) notifyError(err error) {
	if o.Notify == nil {
		return
	}
	if sendErr := o.Notify.SendError(err); sendErr != nil {
		log.Printf("⚠️ telegram error report failed: %v", sendErr)
	}
}
