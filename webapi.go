package douyin

import (
	"encoding/json"
	"fmt"
)

// All platform API calls are issued from inside the page so the platform's
// own request interceptors on fetch/XMLHttpRequest attach the signing
// parameters (a_bogus, msToken, verifyFp) transparently. The extractor
// never computes a signature itself.

const fetchScript = `async (url) => {
	try {
		const resp = await fetch(url, {credentials: 'include'});
		return await resp.json();
	} catch (e) {
		return null;
	}
}`

const xhrScript = `(url) => new Promise((resolve) => {
	const xhr = new XMLHttpRequest();
	xhr.open('GET', url, true);
	xhr.withCredentials = true;
	xhr.onload = () => {
		try {
			resolve(JSON.parse(xhr.responseText));
		} catch (e) {
			resolve({_error: 'json_parse', _status: xhr.status});
		}
	};
	xhr.onerror = () => resolve({_error: 'network', _status: xhr.status});
	xhr.ontimeout = () => resolve({_error: 'timeout'});
	xhr.timeout = 15000;
	xhr.send();
})`

func detailAPIURL(awemeID string) string {
	return fmt.Sprintf(
		"https://www.douyin.com/aweme/v1/web/aweme/detail/?aweme_id=%s&device_platform=webapp&aid=6383",
		awemeID,
	)
}

func profileAPIURL(secUID string) string {
	return fmt.Sprintf(
		"https://www.douyin.com/aweme/v1/web/user/profile/other/?sec_user_id=%s&device_platform=webapp&aid=6383",
		secUID,
	)
}

// postListAPIURL builds the signed-pagination query with the full
// parameter set the web frontend sends; the in-page interceptors refuse to
// sign anything slimmer.
func postListAPIURL(secUID string, cursor int64, count int) string {
	return fmt.Sprintf(
		"https://www.douyin.com/aweme/v1/web/aweme/post/"+
			"?device_platform=webapp&aid=6383&channel=channel_pc_web"+
			"&sec_user_id=%s&count=%d&max_cursor=%d"+
			"&locate_query=false&show_live_replay_strategy=1"+
			"&need_time_list=1&time_list_query=0&whale_cut_token="+
			"&cut_version=1&publish_video_strategy_type=2"+
			"&from_user_page=1",
		secUID, count, cursor,
	)
}

// postListDirectAPIURL is the minimal query the direct fallback uses.
func postListDirectAPIURL(secUID string, cursor int64, count int) string {
	return fmt.Sprintf(
		"https://www.douyin.com/aweme/v1/web/aweme/post/"+
			"?sec_user_id=%s&count=%d&max_cursor=%d&device_platform=webapp&aid=6383",
		secUID, count, cursor,
	)
}

// fetchJSON issues an in-page fetch and returns the raw JSON payload.
func (e *Extractor) fetchJSON(page Page, apiURL string) (json.RawMessage, error) {
	raw, err := page.Eval(e.evalTimeout, fetchScript, apiURL)
	if err != nil {
		return nil, fmt.Errorf("in-page fetch: %w", err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("in-page fetch %s: %w", apiURL, ErrInvalidResponse)
	}
	return raw, nil
}

// fetchJSONXHR issues an in-page XMLHttpRequest. The XHR path goes through
// a different interceptor than fetch and is the one the platform signs
// most reliably on profile pages.
func (e *Extractor) fetchJSONXHR(page Page, apiURL string) (json.RawMessage, error) {
	raw, err := page.Eval(e.evalTimeout, xhrScript, apiURL)
	if err != nil {
		return nil, fmt.Errorf("in-page xhr: %w", err)
	}
	var probe struct {
		Error  string `json:"_error"`
		Status int    `json:"_status"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil && probe.Error != "" {
		return nil, fmt.Errorf("in-page xhr %s: %s (status %d): %w",
			apiURL, probe.Error, probe.Status, ErrInvalidResponse)
	}
	return raw, nil
}
