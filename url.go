package douyin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

var (
	videoIDPattern   = regexp.MustCompile(`/video/(\d+)`)
	noteIDPattern    = regexp.MustCompile(`/note/(\d+)`)
	secUserIDPattern = regexp.MustCompile(`/user/([^/?&#]+)`)
)

// Classify derives a ContentRef from a URL by pattern-matching the numeric
// id after /video/ or /note/. Anything else is KindUnknown.
func Classify(rawURL string) ContentRef {
	if m := videoIDPattern.FindStringSubmatch(rawURL); m != nil {
		return ContentRef{Kind: KindVideo, ID: m[1]}
	}
	if m := noteIDPattern.FindStringSubmatch(rawURL); m != nil {
		return ContentRef{Kind: KindNote, ID: m[1]}
	}
	return ContentRef{Kind: KindUnknown}
}

// extractSecUserID pulls the sec_user_id out of a profile URL.
func extractSecUserID(rawURL string) string {
	if m := secUserIDPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

// isShareHost reports whether host serves short/share redirect links.
func isShareHost(host string) bool {
	return host == "v.douyin.com" || strings.HasSuffix(host, "iesdouyin.com")
}

// ResolveCanonical resolves a short/share link to a canonical content URL
// by reading the redirect Location without following it further. This is a
// fast-path optimization only: at most one hop, no browser, and any failure
// returns the input unchanged.
func (e *Extractor) ResolveCanonical(ctx context.Context, rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || !isShareHost(u.Host) {
		return rawURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return rawURL
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.noRedirectClient.Do(req)
	if err != nil {
		return rawURL
	}
	defer resp.Body.Close()

	location := resp.Header.Get("Location")
	if location == "" {
		return rawURL
	}

	// Rebuild a clean canonical URL from the id the redirect revealed.
	ref := Classify(location)
	if ref.Kind == KindUnknown {
		return rawURL
	}
	return canonicalURL(ref)
}

// canonicalURL builds the www.douyin.com page URL for a content ref.
func canonicalURL(ref ContentRef) string {
	return fmt.Sprintf("https://www.douyin.com/%s/%s", ref.Kind, ref.ID)
}
