package douyin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// GetUserWorks extracts the work list of a Douyin user profile. maxWorks
// bounds the number of unique works returned (0 means all); cookieSource
// optionally names a cookie string or file for authenticated access.
//
// The signed XHR pagination is the primary strategy; the simpler direct
// pagination runs only if the primary yields zero works overall. The two
// are never interleaved.
func (e *Extractor) GetUserWorks(ctx context.Context, profileURL string, maxWorks int, cookieSource string) (*UserWorksResult, error) {
	secUID := extractSecUserID(profileURL)
	if secUID == "" {
		return nil, fmt.Errorf("get user works: %w: expected /user/<sec_user_id>", ErrUnknownContent)
	}

	cookies, err := e.cookiesFor(cookieSource)
	if err != nil {
		return nil, fmt.Errorf("get user works: %w", err)
	}

	totalStart := time.Now()
	e.waitForList()

	page, err := e.newPage(pageOptions{cookies: cookies, lightBlock: true})
	if err != nil {
		return nil, fmt.Errorf("get user works: %w", err)
	}
	defer page.Close()

	// Navigate and wait for the SSR-triggered post-list call: it signals
	// that the signing scripts are initialized. Its own payload is ignored
	// — capturing it is racy — and a timeout here is tolerated because the
	// scripts may already be ready.
	userPageURL := "https://www.douyin.com/user/" + secUID
	if _, werr := page.WaitResponse(isPostListResponse, 10*time.Second, func() error {
		return page.Navigate(userPageURL, e.navTimeout)
	}); werr != nil {
		perfLog("GetUserWorks: readiness wait: %v", werr)
	}

	// Profile metadata is fetched once, independent of pagination.
	profile := userInfoFromProfile(e.fetchProfile(page, secUID))

	works, itemUser, perr := e.paginateXHR(ctx, page, secUID, maxWorks)
	if len(works) == 0 {
		perfLog("GetUserWorks: xhr strategy empty (%v), trying direct", perr)
		works, itemUser, perr = e.paginateDirect(ctx, page, secUID, maxWorks)
	}
	if len(works) == 0 {
		if perr != nil {
			return nil, fmt.Errorf("get user works %s: %w", secUID, perr)
		}
		return nil, fmt.Errorf("get user works %s: %w", secUID, ErrNoWorksFound)
	}

	perfLog("GetUserWorks: user=%s works=%d total=%v", secUID, len(works), time.Since(totalStart))
	return &UserWorksResult{
		User:       mergeUserInfo(profile, itemUser),
		WorksCount: len(works),
		Works:      works,
	}, nil
}

// fetchProfile calls the profile API; any failure degrades to empty info.
func (e *Extractor) fetchProfile(page Page, secUID string) *profileResponse {
	raw, err := e.fetchJSON(page, profileAPIURL(secUID))
	if err != nil {
		return nil
	}
	var resp profileResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil
	}
	return &resp
}

// paginateXHR drives cursor-based pagination through in-page XHR calls the
// platform signs transparently. Invariants:
//
//   - works are deduplicated by aweme_id across all pages;
//   - a cursor that fails to advance despite returned items feeds the same
//     empty-page counter that guards transient empty responses, so neither
//     can loop forever;
//   - stop conditions, first wins: has_more false, maxEmptyPages
//     consecutive empty/error pages, or maxWorks unique items collected.
func (e *Extractor) paginateXHR(ctx context.Context, page Page, secUID string, maxWorks int) ([]Work, UserInfo, error) {
	var (
		works      []Work
		itemUser   UserInfo
		seen       = make(map[string]struct{})
		cursor     int64
		emptyPages int
		pageNum    int
		hasMore    = true
	)

	for hasMore && emptyPages < e.maxEmptyPages {
		if err := ctx.Err(); err != nil {
			return works, itemUser, err
		}
		if maxWorks > 0 && len(works) >= maxWorks {
			break
		}
		pageNum++

		raw, err := e.fetchJSONXHR(page, postListAPIURL(secUID, cursor, e.pageSize))
		if err != nil {
			perfLog("paginateXHR: page %d: %v", pageNum, err)
			emptyPages++
			time.Sleep(e.pageDelay)
			continue
		}

		var resp postListResponse
		if err := json.Unmarshal(raw, &resp); err != nil || resp.StatusCode != 0 {
			perfLog("paginateXHR: page %d: status_code=%d err=%v", pageNum, resp.StatusCode, err)
			emptyPages++
			time.Sleep(e.pageDelay)
			continue
		}

		hasMore = resp.HasMore != 0

		newItems := 0
		for _, item := range resp.AwemeList {
			if item.AwemeID == "" {
				continue
			}
			if _, dup := seen[item.AwemeID]; dup {
				continue
			}
			seen[item.AwemeID] = struct{}{}
			works = append(works, parseWork(item))
			newItems++
			if itemUser.Nickname == "" && itemUser.SecUID == "" {
				itemUser = userInfoFromItem(item)
			}
		}
		perfLog("paginateXHR: page %d got %d items (+%d new), total %d, has_more=%v",
			pageNum, len(resp.AwemeList), newItems, len(works), hasMore)

		if newItems == 0 {
			emptyPages++
		} else {
			emptyPages = 0
		}

		if resp.MaxCursor != 0 {
			cursor = resp.MaxCursor
		}

		if e.pageDelay > 0 && hasMore && emptyPages < e.maxEmptyPages {
			// Slight jitter between pages, like a human scrolling.
			time.Sleep(e.pageDelay + time.Duration(pageNum%3)*300*time.Millisecond)
		}
	}

	if maxWorks > 0 && len(works) > maxWorks {
		works = works[:maxWorks]
	}
	if len(works) == 0 && emptyPages >= e.maxEmptyPages {
		return nil, itemUser, ErrPaginationStalled
	}
	return works, itemUser, nil
}

// paginateDirect is the slower fallback: plain in-page fetch pagination
// without the XHR signing indirection. It gives up on the first empty or
// malformed page instead of tolerating a stall window.
func (e *Extractor) paginateDirect(ctx context.Context, page Page, secUID string, maxWorks int) ([]Work, UserInfo, error) {
	var (
		works    []Work
		itemUser UserInfo
		seen     = make(map[string]struct{})
		cursor   int64
		pageNum  int
	)

	for {
		if err := ctx.Err(); err != nil {
			return works, itemUser, err
		}
		pageNum++

		raw, err := e.fetchJSON(page, postListDirectAPIURL(secUID, cursor, 20))
		if err != nil {
			if pageNum == 1 {
				return nil, itemUser, err
			}
			break
		}

		var resp postListResponse
		if err := json.Unmarshal(raw, &resp); err != nil || resp.StatusCode != 0 {
			if pageNum == 1 {
				return nil, itemUser, fmt.Errorf("direct pagination: %w", ErrInvalidResponse)
			}
			break
		}
		if len(resp.AwemeList) == 0 {
			break
		}

		for _, item := range resp.AwemeList {
			if item.AwemeID == "" {
				continue
			}
			if _, dup := seen[item.AwemeID]; dup {
				continue
			}
			seen[item.AwemeID] = struct{}{}
			works = append(works, parseWork(item))
			if itemUser.Nickname == "" && itemUser.SecUID == "" {
				itemUser = userInfoFromItem(item)
			}
		}
		perfLog("paginateDirect: page %d got %d items, total %d", pageNum, len(resp.AwemeList), len(works))

		if maxWorks > 0 && len(works) >= maxWorks {
			works = works[:maxWorks]
			break
		}
		if resp.HasMore == 0 {
			break
		}
		if resp.MaxCursor != 0 {
			cursor = resp.MaxCursor
		}
		time.Sleep(e.pageDelay)
	}

	return works, itemUser, nil
}
