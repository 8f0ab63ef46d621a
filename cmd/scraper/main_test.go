package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobsearch-automation/internal/browser"
	"go-jobsearch-automation/internal/scraper"
)

type stubDetailer struct {
	calls int
}

func (s *stubDetailer) Extract(ctx context.Context, sess *browser.Session, ref scraper.ListingRef) (*scraper.JobPosting, error) {
	s.calls++
	job := scraper.NewJobPosting(ref.URL)
	job.Title = "Engineer"
	job.Company = "Acme"
	return job, nil
}

type stubStore struct {
	seen map[string]bool
}

func (s *stubStore) InsertIfAbsent(ctx context.Context, url string) (bool, error) {
	if s.seen[url] {
		return false, nil
	}
	s.seen[url] = true
	return true, nil
}

func (s *stubStore) Exists(ctx context.Context, url string) (bool, error) {
	return s.seen[url], nil
}

type stubSaver struct {
	saved []string
}

func (s *stubSaver) SavePosting(ctx context.Context, job *scraper.JobPosting) error {
	s.saved = append(s.saved, job.URL)
	return nil
}

// An already-seen url must be reported as a duplicate without re-extracting
// or touching the stored posting.
func TestRunSingleSkipsAlreadySeenURL(t *testing.T) {
	opts := &options{
		singleURL: "https://www.linkedin.com/jobs/view/123/",
		output:    t.TempDir(),
	}
	details := &stubDetailer{}
	saver := &stubSaver{}
	store := &stubStore{seen: map[string]bool{
		"https://www.linkedin.com/jobs/view/123": true,
	}}

	err := runSingle(context.Background(), opts, nil, nil, details, store, saver)
	require.NoError(t, err)

	assert.Zero(t, details.calls, "duplicate must not be re-extracted")
	assert.Empty(t, saver.saved, "duplicate must not be re-persisted")
}

func TestRunSingleClaimsAndSavesNewURL(t *testing.T) {
	opts := &options{
		singleURL: "https://www.linkedin.com/jobs/view/456",
		output:    t.TempDir(),
	}
	details := &stubDetailer{}
	saver := &stubSaver{}
	store := &stubStore{seen: map[string]bool{}}

	err := runSingle(context.Background(), opts, nil, nil, details, store, saver)
	require.NoError(t, err)

	assert.Equal(t, 1, details.calls)
	assert.Len(t, saver.saved, 1)
	assert.True(t, store.seen["https://www.linkedin.com/jobs/view/456"])
}
