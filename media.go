package douyin

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// GetMedia resolves a Douyin content URL (video, note, or share link) into
// an ExtractionResult. Strategies per content kind are tried in a fixed
// order; every exit path returns either a fully populated result or an
// error — never a partial record.
func (e *Extractor) GetMedia(ctx context.Context, rawURL string) (*ExtractionResult, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("get media: url is required")
	}

	totalStart := time.Now()
	e.waitForMedia()

	canonical := e.ResolveCanonical(ctx, rawURL)
	ref := Classify(canonical)

	page, err := e.newPage(pageOptions{})
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	defer page.Close()

	var result *ExtractionResult
	switch ref.Kind {
	case KindVideo:
		result, err = e.videoStrategy(ctx, page, ref)
	case KindNote:
		result, err = e.noteStrategy(ctx, page, ref, true)
	default:
		result, err = e.unknownStrategy(ctx, page, canonical)
	}
	if err != nil {
		return nil, fmt.Errorf("get media %s: %w", canonical, err)
	}

	perfLog("GetMedia: url=%s kind=%s items=%d total=%v",
		canonical, ref.Kind, len(result.Items), time.Since(totalStart))
	return result, nil
}

// videoStrategy races a one-shot detail-response interception against
// navigation. The wait is registered before navigation is issued, so the
// payload fired during the initial page load is caught. On timeout, or
// when the intercepted payload turns out not to be a video detail, one
// direct same-shape request is the only fallback.
func (e *Extractor) videoStrategy(ctx context.Context, page Page, ref ContentRef) (*ExtractionResult, error) {
	interceptStart := time.Now()
	body, err := page.WaitResponse(isDetailResponse, e.interceptTimeout, func() error {
		return page.Navigate(canonicalURL(ref), e.navTimeout)
	})
	perfLog("videoStrategy: intercept=%v err=%v", time.Since(interceptStart), err)

	var detail *rawAwemeDetail
	if err == nil {
		detail = decodeVideoDetail(body)
	}
	if detail == nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		raw, ferr := e.fetchJSON(page, detailAPIURL(ref.ID))
		if ferr != nil {
			return nil, fmt.Errorf("video detail fallback: %w", ferr)
		}
		detail = decodeVideoDetail(raw)
	}
	if detail == nil {
		return nil, fmt.Errorf("video %s: %w", ref.ID, ErrInvalidResponse)
	}
	return buildVideoResult(detail)
}

// decodeVideoDetail parses a detail payload and returns it only when it
// really is a video detail: presence of the bit_rate list is the
// discriminator. Anything else (note payloads included) yields nil.
func decodeVideoDetail(body []byte) *rawAwemeDetail {
	if len(body) == 0 {
		return nil
	}
	var resp awemeDetailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil
	}
	d := resp.AwemeDetail
	if d == nil || d.Video == nil || len(d.Video.BitRate) == 0 {
		return nil
	}
	return d
}

func buildVideoResult(detail *rawAwemeDetail) (*ExtractionResult, error) {
	playURL, ok := pickBestPlayURL(detail.Video)
	if !ok {
		return nil, ErrNoPlayableVariant
	}

	meta := metadataFromDetail(detail)
	var coverURL string
	if urls := detail.Video.Cover.URLList; len(urls) > 0 {
		coverURL = urls[0]
	}

	return &ExtractionResult{
		Title:    meta.Title,
		Author:   meta.Author,
		AuthorID: meta.AuthorID,
		Cover:    meta.Cover,
		Type:     "video",
		Items: []MediaItem{{
			Type:     MediaVideo,
			VideoURL: playURL,
			CoverURL: coverURL,
		}},
	}, nil
}

// noteStrategy navigates, asks the detail API for the image list, and
// reconciles it; when the direct request yields nothing usable it falls
// back to scraping the rendered DOM.
func (e *Extractor) noteStrategy(ctx context.Context, page Page, ref ContentRef, navigate bool) (*ExtractionResult, error) {
	if navigate {
		if err := page.Navigate(canonicalURL(ref), e.navTimeout); err != nil {
			return nil, err
		}
	}

	if raw, err := e.fetchJSON(page, detailAPIURL(ref.ID)); err == nil {
		var resp awemeDetailResponse
		if json.Unmarshal(raw, &resp) == nil && resp.AwemeDetail != nil && len(resp.AwemeDetail.Images) > 0 {
			if items := reconcileImages(resp.AwemeDetail.Images); len(items) > 0 {
				meta := metadataFromDetail(resp.AwemeDetail)
				return &ExtractionResult{
					Title:    meta.Title,
					Author:   meta.Author,
					AuthorID: meta.AuthorID,
					Cover:    meta.Cover,
					Type:     "images",
					Items:    items,
				}, nil
			}
		}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	perfLog("noteStrategy: detail API unusable for %s, trying DOM", ref.ID)
	return e.noteDOMFallback(page)
}

// noteDOMFallback scrapes content URLs straight off the rendered page.
// Metadata is unavailable on this path; items alone make the result.
func (e *Extractor) noteDOMFallback(page Page) (*ExtractionResult, error) {
	// Give lazy-loaded content a moment to render.
	if e.domSettleDelay > 0 {
		time.Sleep(e.domSettleDelay)
	}

	var candidates []string
	if srcs, err := page.ElementAttrs("img", "src"); err == nil {
		candidates = append(candidates, srcs...)
	}
	if styles, err := page.ElementAttrs(`[style*="background-image"]`, "style"); err == nil {
		for _, style := range styles {
			if u := extractCSSBackgroundURL(style); u != "" {
				candidates = append(candidates, u)
			}
		}
	}
	images := filterContentImages(candidates)

	var videoSrcs []string
	if srcs, err := page.ElementAttrs("video source", "src"); err == nil {
		videoSrcs = srcs
	}
	videos := uniqueDOMVideos(videoSrcs)

	items := pairDOMItems(images, videos)
	if len(items) == 0 {
		return nil, ErrExtractionFailed
	}
	return &ExtractionResult{Type: "images", Items: items}, nil
}

// unknownStrategy handles URLs whose kind could not be classified before
// navigation. A passive listener records detail payloads while the page
// loads and redirects; the final URL decides which branch applies. This
// path is strictly slower than the pre-classified ones and exists only as
// the fallback of last resort.
func (e *Extractor) unknownStrategy(ctx context.Context, page Page, pageURL string) (*ExtractionResult, error) {
	var (
		slotMu sync.Mutex
		slot   []byte
	)
	stop := page.OnResponse(isDetailResponse, func(body []byte) {
		slotMu.Lock()
		slot = append(slot[:0], body...)
		slotMu.Unlock()
	})
	defer stop()

	if err := page.Navigate(pageURL, e.navTimeout); err != nil {
		return nil, err
	}

	finalURL, err := page.FinalURL()
	if err != nil {
		return nil, err
	}
	ref := Classify(finalURL)
	perfLog("unknownStrategy: final url=%s kind=%s", finalURL, ref.Kind)

	switch ref.Kind {
	case KindVideo:
		for i := 0; i < e.pollRetries; i++ {
			slotMu.Lock()
			body := append([]byte(nil), slot...)
			slotMu.Unlock()
			if detail := decodeVideoDetail(body); detail != nil {
				return buildVideoResult(detail)
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			time.Sleep(e.pollInterval)
		}
		// Listener never saw a video detail; one direct request remains.
		raw, ferr := e.fetchJSON(page, detailAPIURL(ref.ID))
		if ferr != nil {
			return nil, fmt.Errorf("video detail after redirect: %w", ferr)
		}
		detail := decodeVideoDetail(raw)
		if detail == nil {
			return nil, fmt.Errorf("video %s: %w", ref.ID, ErrInvalidResponse)
		}
		return buildVideoResult(detail)
	case KindNote:
		return e.noteStrategy(ctx, page, ref, false)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownContent, finalURL)
	}
}
