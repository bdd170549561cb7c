package notion

import (
	"context"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// QueryAll fetches all pages from a Notion database, handling pagination.
// Rate limiting is enforced by the Client (3 req/s by default).
// Uses prefetch: starts fetching page N+1 in a goroutine while processing
// page N, reducing effective latency for multi-page results.
func QueryAll(ctx context.Context, c Client, dbID string, filter *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var all []notionapi.Page

	req := &notionapi.DatabaseQueryRequest{}
	if filter != nil {
		req.Filter = filter.Filter
		req.Sorts = filter.Sorts
		req.PageSize = filter.PageSize
	}

	// Prefetch state: holds the result of a prefetched next page.
	type prefetchResult struct {
		resp *notionapi.DatabaseQueryResponse
		err  error
	}
	var prefetchCh <-chan prefetchResult

	for {
		var resp *notionapi.DatabaseQueryResponse
		var err error

		if prefetchCh != nil {
			// We already have a prefetched result pending.
			result := <-prefetchCh
			resp, err = result.resp, result.err
		} else {
			resp, err = c.QueryDatabase(ctx, dbID, req)
		}

		if err != nil {
			return nil, eris.Wrap(err, "notion: query all page")
		}

		all = append(all, resp.Results...)

		if !resp.HasMore {
			break
		}

		// Start prefetching the next page in a goroutine.
		nextReq := &notionapi.DatabaseQueryRequest{
			StartCursor: resp.NextCursor,
		}
		if filter != nil {
			nextReq.Filter = filter.Filter
			nextReq.Sorts = filter.Sorts
			nextReq.PageSize = filter.PageSize
		}

		ch := make(chan prefetchResult, 1)
		prefetchCh = ch
		go func() {
			r, e := c.QueryDatabase(ctx, dbID, nextReq)
			ch <- prefetchResult{resp: r, err: e}
		}()
	}

	return all, nil
}

// QueryUnprocessed fetches all pages from the source database whose done
// checkbox is unchecked and whose created date equals the given date
// (YYYY-MM-DD).
func QueryUnprocessed(ctx context.Context, c Client, dbID, doneProp, createdProp, date string) ([]notionapi.Page, error) {
	filter := &notionapi.DatabaseQueryRequest{
		PageSize: 100,
		Filter: notionapi.AndCompoundFilter{
			notionapi.PropertyFilter{
				Property: doneProp,
				Checkbox: &notionapi.CheckboxFilterCondition{
					DoesNotEqual: true,
				},
			},
			notionapi.PropertyFilter{
				Property: createdProp,
				Date: &notionapi.DateFilterCondition{
					Equals: parseDate(date),
				},
			},
		},
	}
	pages, err := QueryAll(ctx, c, dbID, filter)
	if err != nil {
		return nil, eris.Wrap(err, "notion: query unprocessed")
	}
	return pages, nil
}

// parseDate converts a YYYY-MM-DD string to a Notion date filter value.
func parseDate(date string) *notionapi.Date {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		t = time.Now()
	}
	d := notionapi.Date(t)
	return &d
}
