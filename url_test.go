package douyin

import (
	"context"
	"net/http"
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		url  string
		want ContentRef
	}{
		{"video url", "https://www.douyin.com/video/7331234567890123456", ContentRef{KindVideo, "7331234567890123456"}},
		{"note url", "https://www.douyin.com/note/7331234567890123456", ContentRef{KindNote, "7331234567890123456"}},
		{"video with query", "https://www.douyin.com/video/123456?from=share", ContentRef{KindVideo, "123456"}},
		{"note beats nothing else in path", "https://www.iesdouyin.com/share/note/999", ContentRef{KindNote, "999"}},
		{"video id must be numeric", "https://www.douyin.com/video/abc", ContentRef{Kind: KindUnknown}},
		{"share link", "https://v.douyin.com/iAbCdEf/", ContentRef{Kind: KindUnknown}},
		{"profile url", "https://www.douyin.com/user/MS4wLjABAAAA", ContentRef{Kind: KindUnknown}},
		{"empty", "", ContentRef{Kind: KindUnknown}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.url); got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractSecUserID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain", "https://www.douyin.com/user/MS4wLjABAAAAxyz", "MS4wLjABAAAAxyz"},
		{"with query", "https://www.douyin.com/user/MS4wLjABAAAAxyz?from_tab_name=main", "MS4wLjABAAAAxyz"},
		{"with fragment", "https://www.douyin.com/user/MS4wLjABAAAAxyz#works", "MS4wLjABAAAAxyz"},
		{"trailing slash", "https://www.douyin.com/user/MS4wLjABAAAAxyz/", "MS4wLjABAAAAxyz"},
		{"not a profile", "https://www.douyin.com/video/123", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := extractSecUserID(tt.url); got != tt.want {
				t.Errorf("extractSecUserID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsShareHost(t *testing.T) {
	t.Parallel()
	tests := []struct {
		host string
		want bool
	}{
		{"v.douyin.com", true},
		{"www.iesdouyin.com", true},
		{"iesdouyin.com", true},
		{"www.douyin.com", false},
		{"example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		tt := tt
		if got := isShareHost(tt.host); got != tt.want {
			t.Errorf("isShareHost(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

// redirectTransport fakes the share-link redirect without touching the
// network.
type redirectTransport struct {
	location string
	err      error
	requests []string
}

func (rt *redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.requests = append(rt.requests, req.URL.String())
	if rt.err != nil {
		return nil, rt.err
	}
	resp := &http.Response{
		StatusCode: http.StatusFound,
		Header:     make(http.Header),
		Body:       http.NoBody,
		Request:    req,
	}
	if rt.location != "" {
		resp.Header.Set("Location", rt.location)
	}
	return resp, nil
}

func TestResolveCanonical_ShareLink(t *testing.T) {
	t.Parallel()
	rt := &redirectTransport{location: "https://www.iesdouyin.com/share/video/7331234567890123456/?region=CN"}
	e := New()
	e.noRedirectClient.Transport = rt

	got := e.ResolveCanonical(context.Background(), "https://v.douyin.com/iAbCdEf/")
	want := "https://www.douyin.com/video/7331234567890123456"
	if got != want {
		t.Errorf("ResolveCanonical = %q, want %q", got, want)
	}
	if len(rt.requests) != 1 {
		t.Errorf("expected exactly one redirect probe, got %d", len(rt.requests))
	}
}

func TestResolveCanonical_NoteShareLink(t *testing.T) {
	t.Parallel()
	rt := &redirectTransport{location: "https://www.iesdouyin.com/share/note/7449/?x=1"}
	e := New()
	e.noRedirectClient.Transport = rt

	got := e.ResolveCanonical(context.Background(), "https://v.douyin.com/short/")
	if want := "https://www.douyin.com/note/7449"; got != want {
		t.Errorf("ResolveCanonical = %q, want %q", got, want)
	}
}

func TestResolveCanonical_NonShareHostUntouched(t *testing.T) {
	t.Parallel()
	rt := &redirectTransport{location: "https://www.douyin.com/video/1"}
	e := New()
	e.noRedirectClient.Transport = rt

	in := "https://www.douyin.com/video/7331234567890123456"
	if got := e.ResolveCanonical(context.Background(), in); got != in {
		t.Errorf("ResolveCanonical changed non-share URL: %q", got)
	}
	if len(rt.requests) != 0 {
		t.Errorf("expected no network requests for non-share host, got %d", len(rt.requests))
	}
}

func TestResolveCanonical_FailureReturnsInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		rt   *redirectTransport
	}{
		{"transport error", &redirectTransport{err: http.ErrHandlerTimeout}},
		{"no location", &redirectTransport{}},
		{"unrecognized location", &redirectTransport{location: "https://www.douyin.com/discover"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := New()
			e.noRedirectClient.Transport = tt.rt
			in := "https://v.douyin.com/broken/"
			if got := e.ResolveCanonical(context.Background(), in); got != in {
				t.Errorf("ResolveCanonical = %q, want input back", got)
			}
		})
	}
}

func TestCanonicalURL(t *testing.T) {
	t.Parallel()
	got := canonicalURL(ContentRef{Kind: KindNote, ID: "42"})
	if got != "https://www.douyin.com/note/42" {
		t.Errorf("canonicalURL = %q", got)
	}
}
