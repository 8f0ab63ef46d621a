package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobsearch-automation/internal/auth"
	"go-jobsearch-automation/internal/browser"
	"go-jobsearch-automation/internal/scraper"
	"go-jobsearch-automation/internal/search"
)

type fakeAuth struct {
	result auth.Result
	err    error
	calls  int
}

func (f *fakeAuth) Login(ctx context.Context, s *browser.Session) (auth.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeSearch struct {
	openErr   error
	noResults bool
	filtered  bool
}

func (f *fakeSearch) Open(ctx context.Context, q search.Query) error { return f.openErr }
func (f *fakeSearch) ApplyFilters(ctx context.Context, q search.Query) {
	f.filtered = true
}
func (f *fakeSearch) NoResults() bool { return f.noResults }

type fakeCollector struct {
	refs []scraper.ListingRef
	err  error
}

func (f *fakeCollector) Collect(ctx context.Context, pager scraper.ResultsPager) ([]scraper.ListingRef, error) {
	return f.refs, f.err
}

type fakeDetailer struct {
	jobs map[string]*scraper.JobPosting
	errs map[string]error
}

func (f *fakeDetailer) Extract(ctx context.Context, s *browser.Session, ref scraper.ListingRef) (*scraper.JobPosting, error) {
	if err, ok := f.errs[ref.ID]; ok {
		return nil, err
	}
	if job, ok := f.jobs[ref.ID]; ok {
		return job, nil
	}
	job := scraper.NewJobPosting(ref.URL)
	job.Title = "Engineer " + ref.ID
	job.Company = "Acme"
	return job, nil
}

type memStore struct {
	seen map[string]bool
	err  error
}

func newMemStore() *memStore { return &memStore{seen: map[string]bool{}} }

func (m *memStore) InsertIfAbsent(ctx context.Context, url string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.seen[url] {
		return false, nil
	}
	m.seen[url] = true
	return true, nil
}

func (m *memStore) Exists(ctx context.Context, url string) (bool, error) {
	return m.seen[url], nil
}

type fakeSaver struct {
	saved []string
	errOn string
}

func (f *fakeSaver) SavePosting(ctx context.Context, job *scraper.JobPosting) error {
	if f.errOn != "" && job.URL == f.errOn {
		return errors.New("db down")
	}
	f.saved = append(f.saved, job.URL)
	return nil
}

type fakeNotifier struct {
	postings  int
	statuses  []string
	errors    int
	challenge int
}

func (f *fakeNotifier) SendPosting(job *scraper.JobPosting) error { f.postings++; return nil }
func (f *fakeNotifier) SendStatus(msg string) error               { f.statuses = append(f.statuses, msg); return nil }
func (f *fakeNotifier) SendError(err error) error                 { f.errors++; return nil }
func (f *fakeNotifier) SendChallengeAlert(url string) error       { f.challenge++; return nil }

func ref(id int) scraper.ListingRef {
	return scraper.ListingRef{
		URL: fmt.Sprintf("https://www.linkedin.com/jobs/view/%d", id),
		ID:  fmt.Sprintf("%d", id),
	}
}

func newOrchestrator() *Orchestrator {
	return &Orchestrator{
		Session:  &browser.Session{},
		Search:   &fakeSearch{},
		Listings: &fakeCollector{refs: []scraper.ListingRef{ref(1), ref(2), ref(3)}},
		Details:  &fakeDetailer{},
		Store:    newMemStore(),
		Query:    search.Query{Keywords: "golang", Location: "Berlin"},
		Throttle: func() {},
	}
}

func TestRunHappyPath(t *testing.T) {
	o := newOrchestrator()
	notifier := &fakeNotifier{}
	saver := &fakeSaver{}
	o.Notify = notifier
	o.DB = saver

	report, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Accepted)
	assert.Zero(t, report.Duplicates)
	assert.Empty(t, report.Failed)
	assert.Len(t, report.Postings, 3)
	assert.Len(t, saver.saved, 3)
	assert.Equal(t, 3, notifier.postings)
	assert.Len(t, notifier.statuses, 1)
	assert.Equal(t, StageCompleted, o.Stage())
}

func TestRunIsSingleUse(t *testing.T) {
	o := newOrchestrator()
	_, err := o.Run(context.Background())
	require.NoError(t, err)

	_, err = o.Run(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRan)
}

func TestRunSkipsDuplicates(t *testing.T) {
	o := newOrchestrator()
	store := newMemStore()
	store.seen["https://www.linkedin.com/jobs/view/2"] = true
	o.Store = store

	report, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 1, report.Duplicates)
}

func TestRunRecordsPartialExtractionAndContinues(t *testing.T) {
	o := newOrchestrator()
	o.Details = &fakeDetailer{errs: map[string]error{
		"2": &scraper.PartialExtractionError{URL: ref(2).URL, Missing: []string{"title"}},
	}}

	report, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Accepted)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, StageExtractingDetails, report.Failed[0].Stage)
	assert.Contains(t, report.Failed[0].Reason, "title")
}

// A failed extraction must leave the dedup store untouched so the listing
// stays reachable: a later run against the same store extracts it instead of
// skipping it as already seen.
func TestFailedExtractionDoesNotClaimDedupKey(t *testing.T) {
	store := newMemStore()

	first := newOrchestrator()
	first.Store = store
	first.Details = &fakeDetailer{errs: map[string]error{
		"2": &scraper.PartialExtractionError{URL: ref(2).URL, Missing: []string{"title"}},
	}}
	report, err := first.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Accepted)
	require.Len(t, report.Failed, 1)
	assert.False(t, store.seen["https://www.linkedin.com/jobs/view/2"])

	second := newOrchestrator()
	second.Store = store
	second.Listings = &fakeCollector{refs: []scraper.ListingRef{ref(2)}}
	report, err = second.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Accepted)
	assert.Zero(t, report.Duplicates)
	assert.Empty(t, report.Failed)
}

func TestRunRecordsPersistFailure(t *testing.T) {
	o := newOrchestrator()
	store := newMemStore()
	o.Store = store
	o.DB = &fakeSaver{errOn: "https://www.linkedin.com/jobs/view/1"}

	report, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Accepted)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, StagePersisting, report.Failed[0].Stage)
	assert.False(t, store.seen["https://www.linkedin.com/jobs/view/1"], "failed persistence must not claim the key")
}

// claimRacedStore simulates a concurrent run winning the claim between the
// duplicate pre-check and the post-extraction insert.
type claimRacedStore struct{ *memStore }

func (s *claimRacedStore) InsertIfAbsent(ctx context.Context, url string) (bool, error) {
	return false, nil
}

func TestRunCountsLostClaimRaceAsDuplicate(t *testing.T) {
	o := newOrchestrator()
	o.Listings = &fakeCollector{refs: []scraper.ListingRef{ref(1)}}
	o.Store = &claimRacedStore{newMemStore()}

	report, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Accepted)
	assert.Equal(t, 1, report.Duplicates)
	assert.Empty(t, report.Failed)
}

func TestRunAbortsOnAuthFailure(t *testing.T) {
	o := newOrchestrator()
	notifier := &fakeNotifier{}
	o.Notify = notifier
	o.Auth = &fakeAuth{err: &auth.AuthenticationError{Username: "me", Reason: "rejected"}}

	report, err := o.Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, report.Accepted)
	assert.Equal(t, StageFailed, o.Stage())
	assert.Equal(t, 1, notifier.errors)
}

func TestRunAlertsOnChallenge(t *testing.T) {
	o := newOrchestrator()
	notifier := &fakeNotifier{}
	o.Notify = notifier
	o.Auth = &fakeAuth{
		result: auth.Result{ChallengeDetected: true},
		err:    &auth.ChallengeError{URL: "https://www.linkedin.com/checkpoint"},
	}

	_, err := o.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, notifier.challenge)
}

func TestRunEmptyResultsCompletesCleanly(t *testing.T) {
	o := newOrchestrator()
	o.Search = &fakeSearch{noResults: true}

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Accepted)
	assert.Equal(t, StageCompleted, o.Stage())
}

func TestRunStopsOnCancellationBetweenListings(t *testing.T) {
	o := newOrchestrator()
	ctx, cancel := context.WithCancel(context.Background())
	processed := 0
	o.Details = &fakeDetailer{}
	o.Throttle = func() {
		processed++
		if processed == 1 {
			cancel()
		}
	}

	report, err := o.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, report.Accepted, "first listing finishes, the rest never start")
}

// With no authenticator wired the run goes straight to searching: the session
// is never touched before extraction, no auth events reach the notifier, and
// the run still completes.
func TestRunAnonymousSkipsLogin(t *testing.T) {
	o := newOrchestrator()
	o.Auth = nil
	o.Session = nil
	notifier := &fakeNotifier{}
	o.Notify = notifier

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Accepted)
	assert.Equal(t, StageCompleted, o.Stage())
	assert.Zero(t, notifier.errors)
	assert.Zero(t, notifier.challenge)
}
