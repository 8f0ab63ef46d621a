package scraper

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePager serves canned pages of hrefs; each LoadMore reveals one more
// batch on the current page.
type fakePager struct {
	pages    [][][]string // pages[page][batch] = hrefs visible after that many scrolls
	page     int
	batch    int
	advances int
}

func (f *fakePager) VisibleListings() ([]string, error) {
	var out []string
	for i := 0; i <= f.batch && i < len(f.pages[f.page]); i++ {
		out = append(out, f.pages[f.page][i]...)
	}
	return out, nil
}

func (f *fakePager) LoadMore() (bool, error) {
	if f.batch+1 < len(f.pages[f.page]) {
		f.batch++
		return true, nil
	}
	return false, nil
}

func (f *fakePager) HasNextPage() (bool, error) {
	return f.page+1 < len(f.pages), nil
}

func (f *fakePager) AdvancePage(ctx context.Context) error {
	f.advances++
	f.page++
	f.batch = 0
	return nil
}

func href(id int) string {
	return fmt.Sprintf("https://www.linkedin.com/jobs/view/%d/?refId=abc&trackingId=xyz", id)
}

func TestCollectStopsAtCapBeforePaginating(t *testing.T) {
	pager := &fakePager{pages: [][][]string{
		{{href(1), href(2)}, {href(3)}},
		{{href(4), href(5)}},
	}}
	e := &ListingExtractor{MaxListings: 3}

	refs, err := e.Collect(context.Background(), pager)
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "1", refs[0].ID)
	assert.Equal(t, "3", refs[2].ID)
	assert.Zero(t, pager.advances, "should not load page two once the cap is hit")
}

func TestCollectWalksAllPages(t *testing.T) {
	pager := &fakePager{pages: [][][]string{
		{{href(1), href(2)}, {href(3)}},
		{{href(4), href(5)}},
	}}
	e := &ListingExtractor{}

	refs, err := e.Collect(context.Background(), pager)
	require.NoError(t, err)
	require.Len(t, refs, 5)
	assert.Equal(t, 1, pager.advances)
	// discovery order preserved, urls canonical
	assert.Equal(t, "https://www.linkedin.com/jobs/view/4", refs[3].URL)
}

func TestCollectDeduplicatesAcrossPages(t *testing.T) {
	pager := &fakePager{pages: [][][]string{
		{{href(1), href(2)}},
		{{href(2), href(3)}}, // job 2 repeated on page two
	}}
	e := &ListingExtractor{}

	refs, err := e.Collect(context.Background(), pager)
	require.NoError(t, err)
	require.Len(t, refs, 3)
}

func TestCollectZeroResultsIsNotAnError(t *testing.T) {
	pager := &fakePager{pages: [][][]string{{{}}}}
	e := &ListingExtractor{}

	refs, err := e.Collect(context.Background(), pager)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestCollectHonorsPageCap(t *testing.T) {
	pager := &fakePager{pages: [][][]string{
		{{href(1)}},
		{{href(2)}},
		{{href(3)}},
	}}
	e := &ListingExtractor{MaxPages: 2}

	refs, err := e.Collect(context.Background(), pager)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, 1, pager.advances)
}

func TestCollectObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pager := &fakePager{pages: [][][]string{{{href(1)}}}}
	e := &ListingExtractor{}

	_, err := e.Collect(ctx, pager)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectIgnoresNonListingLinks(t *testing.T) {
	pager := &fakePager{pages: [][][]string{
		{{"https://www.linkedin.com/company/acme/", href(7), "/feed/"}},
	}}
	e := &ListingExtractor{}

	refs, err := e.Collect(context.Background(), pager)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "7", refs[0].ID)
}
