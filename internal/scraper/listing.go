// Listing discovery over a paged or lazily loaded results view. The view is
// abstracted behind ResultsPager so the collection loop can be driven by a
// live page or a test double.

package scraper

import (
	"context"
	"log"

	mapset "github.com/deckarep/golang-set/v2"
)

// ResultsPager is the results view the extractor walks: what is rendered now,
// how to coax more entries into view, and how to move between pages.
type ResultsPager interface {
	// VisibleListings returns the hrefs of the currently rendered job cards.
	VisibleListings() ([]string, error)
	// LoadMore scrolls the results container one step. Returns false when
	// there is nothing left to scroll.
	LoadMore() (bool, error)
	HasNextPage() (bool, error)
	AdvancePage(ctx context.Context) error
}

// ListingExtractor collects unique listing refs until the cap is hit or the
// view stops producing anything new.
type ListingExtractor struct {
	// MaxListings caps the collection; 0 means unlimited.
	MaxListings int
	// StagnantLimit is how many consecutive rounds may yield nothing new
	// before the current page counts as exhausted.
	StagnantLimit int
	// MaxPages bounds pagination; 0 means unlimited.
	MaxPages int
}

const defaultStagnantLimit = 3

// Collect walks the results view and returns listings in discovery order.
// Zero results is not an error.
func (e *ListingExtractor) Collect(ctx context.Context, pager ResultsPager) ([]ListingRef, error) {
	stagnantLimit := e.StagnantLimit
	if stagnantLimit <= 0 {
		stagnantLimit = defaultStagnantLimit
	}

	seen := mapset.NewSet[string]()
	var refs []ListingRef
	stagnant := 0
	page := 1

	for {
		select {
		case <-ctx.Done():
			return refs, ctx.Err()
		default:
		}

		hrefs, err := pager.VisibleListings()
		if err != nil {
			return refs, err
		}

		added := 0
		for _, href := range hrefs {
			ref, ok := ParseListingRef(href)
			if !ok {
				continue
			}
			if !seen.Add(ref.ID) {
				continue
			}
			refs = append(refs, ref)
			added++
			if e.MaxListings > 0 && len(refs) >= e.MaxListings {
				log.Printf("✅ listing cap reached (%d), stopping discovery", e.MaxListings)
				return refs, nil
			}
		}

		if added == 0 {
			stagnant++
		} else {
			stagnant = 0
		}

		if stagnant < stagnantLimit {
			scrolled, err := pager.LoadMore()
			if err != nil {
				return refs, err
			}
			if scrolled {
				continue
			}
			stagnant = stagnantLimit
		}

		// page exhausted, try the next one
		if e.MaxPages > 0 && page >= e.MaxPages {
			log.Printf("✅ page cap reached (%d), %d listings collected", e.MaxPages, len(refs))
			return refs, nil
		}
		next, err := pager.HasNextPage()
		if err != nil {
			return refs, err
		}
		if !next {
			log.Printf("✅ results exhausted after %d page(s), %d listings collected", page, len(refs))
			return refs, nil
		}
		if err := pager.AdvancePage(ctx); err != nil {
			return refs, err
		}
		page++
		stagnant = 0
	}
}
