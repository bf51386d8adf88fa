package douyin

import (
	"regexp"
	"strings"
)

// reconcileImages pairs each raw note image with its optional embedded
// video rendition, producing ordered MediaItems. Input order is preserved;
// a record with both URLs becomes an animated_image, one with only a still
// URL becomes an image, and a record with no usable still URL is skipped.
func reconcileImages(images []rawImage) []MediaItem {
	items := make([]MediaItem, 0, len(images))
	for _, img := range images {
		imageURL := selectPreferredURL(img.URLList, imageCDNMarker)

		var videoURL string
		if img.Video != nil {
			videoURL = pickAnimatedURL(img.Video.PlayAddr.URLList)
		}

		switch {
		case videoURL != "" && imageURL != "":
			items = append(items, MediaItem{
				Type:     MediaAnimatedImage,
				ImageURL: imageURL,
				VideoURL: videoURL,
			})
		case imageURL != "":
			items = append(items, MediaItem{Type: MediaImage, ImageURL: imageURL})
		}
	}
	return items
}

// DOM fallback: when the detail API yields nothing usable, content URLs are
// scraped straight off the rendered page and filtered down to signed
// content-CDN assets.

var (
	cssURLPattern    = regexp.MustCompile(`url\(["']?([^"'()]+)["']?\)`)
	domVideoKeyGroup = regexp.MustCompile(`/video/tos/cn/tos-cn-ve-15/([^/]+)/`)
)

// extractCSSBackgroundURL pulls the url(...) target out of an inline style.
func extractCSSBackgroundURL(style string) string {
	if m := cssURLPattern.FindStringSubmatch(style); m != nil {
		return m[1]
	}
	return ""
}

// isContentImageURL reports whether a DOM-scraped URL is a signed main
// content image, as opposed to a sticker, avatar, comment attachment, or
// recommendation thumbnail.
func isContentImageURL(u string) bool {
	if !strings.Contains(u, imageCDNMarker) {
		return false
	}
	// Content images carry one of these biz tags.
	if !strings.Contains(u, "biz_tag=aweme_images") && !strings.Contains(u, "biz_tag=pcweb_cover") {
		return false
	}
	// Must carry an access signature.
	if !strings.Contains(u, "x-expires") && !strings.Contains(u, "x-signature") {
		return false
	}
	if strings.Contains(u, "sticker") || strings.Contains(u, "aweme_comment") {
		return false
	}
	// Actual content images live under tos-cn-i-0813.
	return strings.Contains(u, "tos-cn-i-0813")
}

// baseURL strips query string and style suffix so near-duplicate signed
// URLs of one asset compare equal.
func baseURL(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	if i := strings.IndexByte(u, '~'); i >= 0 {
		u = u[:i]
	}
	return u
}

// filterContentImages normalizes, filters, and deduplicates DOM-scraped
// image URLs, keeping first-seen order.
func filterContentImages(urls []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, u := range urls {
		if strings.HasPrefix(u, "//") {
			u = "https:" + u
		}
		if !isContentImageURL(u) {
			continue
		}
		base := baseURL(u)
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}
		out = append(out, u)
	}
	return out
}

// uniqueDOMVideos collapses <source> URLs down to one per distinct video,
// preferring the v3-web CDN variant of each. Order follows the first
// appearance of each video.
func uniqueDOMVideos(urls []string) []string {
	var order []string
	byKey := make(map[string][]string)

	for _, u := range urls {
		if !strings.Contains(u, weakVideoCDNMarker) {
			continue
		}
		m := domVideoKeyGroup.FindStringSubmatch(u)
		if m == nil {
			continue
		}
		key := m[1]
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], u)
	}

	out := make([]string, 0, len(order))
	for _, key := range order {
		candidates := byKey[key]
		picked := candidates[0]
		for _, c := range candidates {
			if strings.Contains(c, strongVideoCDNMarker) {
				picked = c
				break
			}
		}
		out = append(out, picked)
	}
	return out
}

// pairDOMItems pairs the first N videos positionally with the first N
// images; surplus images become plain image items.
func pairDOMItems(images, videos []string) []MediaItem {
	var items []MediaItem
	for i, vid := range videos {
		item := MediaItem{Type: MediaAnimatedImage, VideoURL: vid}
		if i < len(images) {
			item.ImageURL = images[i]
		}
		items = append(items, item)
	}
	for i := len(videos); i < len(images); i++ {
		items = append(items, MediaItem{Type: MediaImage, ImageURL: images[i]})
	}
	return items
}
