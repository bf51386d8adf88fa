package douyin

import "strings"

// CDN domain markers. Signed video URLs live on douyinvod.com; the v3-web
// subdomain serves without extra auth headers and is preferred when present.
// Content images live on douyinpic.
const (
	videoCDNMarker       = "douyinvod.com"
	strongVideoCDNMarker = "v3-web.douyinvod"
	weakVideoCDNMarker   = "douyinvod"
	imageCDNMarker       = "douyinpic"
)

// selectPreferredURL returns the first URL containing marker, else the
// first URL, else "".
func selectPreferredURL(urls []string, marker string) string {
	for _, u := range urls {
		if strings.Contains(u, marker) {
			return u
		}
	}
	if len(urls) > 0 {
		return urls[0]
	}
	return ""
}

// pickAnimatedURL selects the playback URL for an embedded note video,
// preferring the v3-web CDN, then any douyinvod host, then the first entry.
func pickAnimatedURL(urls []string) string {
	for _, marker := range []string{strongVideoCDNMarker, weakVideoCDNMarker} {
		for _, u := range urls {
			if strings.Contains(u, marker) {
				return u
			}
		}
	}
	if len(urls) > 0 {
		return urls[0]
	}
	return ""
}

// pickBestPlayURL selects the single best playable URL from a video's
// bit_rate list:
//
//  1. only muxed mp4 renditions with a known width are eligible;
//  2. highest width*height wins, ties broken by higher bit_rate, further
//     ties by encounter order;
//  3. within the winner's url_list, the signed-CDN entry is preferred.
//
// When no rendition survives, the default play_addr is the fallback; with
// that also empty there is no playable URL.
func pickBestPlayURL(v *rawVideoInfo) (string, bool) {
	if v == nil {
		return "", false
	}

	var best *rawBitRate
	bestResolution, bestBitrate := 0, 0

	for i := range v.BitRate {
		br := &v.BitRate[i]
		if br.Format != "mp4" || br.PlayAddr.Width == 0 {
			continue
		}
		if len(br.PlayAddr.URLList) == 0 {
			continue
		}

		resolution := br.PlayAddr.Width * br.PlayAddr.Height
		better := resolution > bestResolution ||
			(resolution == bestResolution && br.BitRate > bestBitrate)
		if better {
			best = br
			bestResolution = resolution
			bestBitrate = br.BitRate
		}
	}

	if best != nil {
		return selectPreferredURL(best.PlayAddr.URLList, videoCDNMarker), true
	}
	if len(v.PlayAddr.URLList) > 0 {
		return v.PlayAddr.URLList[0], true
	}
	return "", false
}
