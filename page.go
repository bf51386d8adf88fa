package douyin

import (
	"encoding/json"
	"strings"
	"time"
)

// Cookie is one session cookie in the platform's native shape. Domain and
// Path default to ".douyin.com" and "/" when absent.
type Cookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
	Path   string `json:"path"`
}

// ResponseMatcher selects a network response by URL and status.
type ResponseMatcher func(url string, status int) bool

// Page is the minimal browsing-session capability the extractor drives.
// The production implementation wraps a rod page in an isolated incognito
// context; tests substitute in-memory fakes.
type Page interface {
	// Navigate loads the URL and waits for the page to settle.
	Navigate(url string, timeout time.Duration) error

	// FinalURL reports the page URL after any platform-side redirects.
	FinalURL() (string, error)

	// Eval runs a JS function in the page (the platform's own request
	// interceptors sign any fetch/XHR it issues) and returns the
	// JSON-encoded result.
	Eval(timeout time.Duration, script string, args ...any) (json.RawMessage, error)

	// WaitResponse registers a one-shot wait for the first network response
	// matching match, then runs trigger. Registration happens before the
	// trigger is issued, so a response arriving during the initial page
	// load is never missed. Returns the response body, or
	// ErrInterceptTimeout when nothing matched within timeout.
	WaitResponse(match ResponseMatcher, timeout time.Duration, trigger func() error) ([]byte, error)

	// OnResponse installs an always-on listener invoking handle with the
	// body of every matching response until stop is called.
	OnResponse(match ResponseMatcher, handle func(body []byte)) (stop func())

	// ElementAttrs returns the value of attr for every element matching
	// selector, skipping elements where the attribute is empty or absent.
	ElementAttrs(selector, attr string) ([]string, error)

	// SetCookies injects cookies into the page's browsing context.
	SetCookies(cookies []Cookie) error

	// Cookies returns all cookies visible to the page, HttpOnly included.
	Cookies() ([]Cookie, error)

	// Close releases the page and its isolated context.
	Close() error
}

// isDetailResponse matches the aweme detail API.
func isDetailResponse(url string, status int) bool {
	return status == 200 && strings.Contains(url, "aweme/v1/web/aweme/detail")
}

// isPostListResponse matches the user post-list API.
func isPostListResponse(url string, status int) bool {
	return status == 200 && strings.Contains(url, "aweme/v1/web/aweme/post")
}
