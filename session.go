//go:build !unittest

package douyin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// SessionProvider owns the shared headless browser. The browser is
// launched lazily on first use, guarded by a mutex so concurrent callers
// end up sharing a single instance. Each resolution request draws its own
// incognito page so cookies and state never leak between requests.
type SessionProvider struct {
	mu       sync.Mutex
	browser  *rod.Browser
	proxy    string
	headless bool
}

func newSessionProvider() *SessionProvider {
	return &SessionProvider{headless: true}
}

// ensureBrowser launches the shared browser once.
func (p *SessionProvider) ensureBrowser() (*rod.Browser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.browser != nil {
		return p.browser, nil
	}

	l := launcher.New().Headless(p.headless)
	if p.proxy != "" {
		l = l.Proxy(p.proxy)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch browser: %v", ErrSessionUnavailable, err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect browser: %v", ErrSessionUnavailable, err)
	}

	p.browser = browser
	return browser, nil
}

// NewPage opens a stealth page in a fresh incognito context, with cookies
// injected and resource blocking configured per opts.
func (p *SessionProvider) NewPage(opts pageOptions) (Page, error) {
	browser, err := p.ensureBrowser()
	if err != nil {
		return nil, err
	}

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("create incognito context: %w", err)
	}

	page, err := stealth.Page(incognito)
	if err != nil {
		return nil, fmt.Errorf("create stealth page: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      defaultUserAgent,
		AcceptLanguage: "zh-CN,zh;q=0.9,en;q=0.8",
	}); err != nil {
		return nil, fmt.Errorf("set user agent: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1280,
		Height:            800,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	// Response interception needs the Network domain enabled up front.
	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		return nil, fmt.Errorf("enable network events: %w", err)
	}

	rp := &rodPage{page: page}
	if len(opts.cookies) > 0 {
		if err := rp.SetCookies(opts.cookies); err != nil {
			_ = page.Close()
			return nil, err
		}
	}

	if opts.lightBlock {
		rp.router = setupLightBlocking(page)
	} else {
		rp.router = setupHeavyBlocking(page)
	}
	return rp, nil
}

// setupHeavyBlocking drops styling, images, media, and analytics. Used for
// single-item pages where only the XHR payloads and DOM skeleton matter.
func setupHeavyBlocking(page *rod.Page) *rod.HijackRouter {
	router := page.HijackRequests()
	blocked := []string{"*.css", "*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.mp4", "*.woff*", "*.svg", "*analytics*"}
	for _, pattern := range blocked {
		router.MustAdd(pattern, func(ctx *rod.Hijack) {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
		})
	}
	go router.Run()
	return router
}

// lightBlockedKeywords are tracking/noise endpoints safe to drop on
// profile pages without breaking lazy loading.
var lightBlockedKeywords = []string{
	"analytics", "log-sdk", "sentry", "monitor", "beacon",
	"performance", "frontier/collect",
	"hot/search", "notification",
	"user/settings", "risklevel", "online_feedback",
	"solution/resource", "turn/offline",
	"seo/inner/link",
}

// setupLightBlocking drops only tracking and push channels. Images must
// still load on profile pages so IntersectionObserver-driven lazy loading
// keeps feeding the post list.
func setupLightBlocking(page *rod.Page) *rod.HijackRouter {
	router := page.HijackRequests()
	router.MustAdd("*", func(ctx *rod.Hijack) {
		switch ctx.Request.Type() {
		case proto.NetworkResourceTypeFont,
			proto.NetworkResourceTypeWebSocket,
			proto.NetworkResourceTypeManifest,
			proto.NetworkResourceTypeTextTrack,
			proto.NetworkResourceTypeEventSource,
			proto.NetworkResourceTypePing:
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		u := ctx.Request.URL().String()
		for _, kw := range lightBlockedKeywords {
			if strings.Contains(u, kw) {
				ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
				return
			}
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})
	go router.Run()
	return router
}

// Close shuts down the shared browser.
func (p *SessionProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.browser == nil {
		return nil
	}
	if err := p.browser.Close(); err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	p.browser = nil
	return nil
}

// rodPage adapts a rod page to the Page capability.
type rodPage struct {
	page   *rod.Page
	router *rod.HijackRouter
}

func (p *rodPage) Navigate(url string, timeout time.Duration) error {
	page := p.page.Timeout(timeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitStable(2 * time.Second); err != nil {
		return fmt.Errorf("wait for page stable: %w", err)
	}
	return nil
}

func (p *rodPage) FinalURL() (string, error) {
	info, err := p.page.Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.URL, nil
}

func (p *rodPage) Eval(timeout time.Duration, script string, args ...any) (json.RawMessage, error) {
	result, err := p.page.Timeout(timeout).Eval(script, args...)
	if err != nil {
		return nil, fmt.Errorf("eval: %w", err)
	}
	raw, err := result.Value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal eval result: %w", err)
	}
	return raw, nil
}

func (p *rodPage) WaitResponse(match ResponseMatcher, timeout time.Duration, trigger func() error) ([]byte, error) {
	page := p.page.Timeout(timeout)

	// Register the event wait before the trigger runs so a response
	// arriving mid-navigation is never missed.
	var reqID proto.NetworkRequestID
	wait := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if match(e.Response.URL, e.Response.Status) {
			reqID = e.RequestID
			return true
		}
		return false
	})

	triggerErr := make(chan error, 1)
	go func() { triggerErr <- trigger() }()

	wait()

	if reqID == "" {
		select {
		case err := <-triggerErr:
			if err != nil {
				return nil, err
			}
		default:
		}
		return nil, ErrInterceptTimeout
	}

	body, err := proto.NetworkGetResponseBody{RequestID: reqID}.Call(p.page)
	if err != nil {
		return nil, fmt.Errorf("read intercepted body: %w", err)
	}
	return []byte(body.Body), nil
}

func (p *rodPage) OnResponse(match ResponseMatcher, handle func(body []byte)) (stop func()) {
	ctx, cancel := context.WithCancel(p.page.GetContext())
	page := p.page.Context(ctx)
	go page.EachEvent(func(e *proto.NetworkResponseReceived) {
		if !match(e.Response.URL, e.Response.Status) {
			return
		}
		body, err := proto.NetworkGetResponseBody{RequestID: e.RequestID}.Call(page)
		if err != nil {
			return
		}
		handle([]byte(body.Body))
	})()
	return cancel
}

func (p *rodPage) ElementAttrs(selector, attr string) ([]string, error) {
	elements, err := p.page.Timeout(10 * time.Second).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	var out []string
	for _, el := range elements {
		v, err := el.Attribute(attr)
		if err != nil || v == nil || *v == "" {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (p *rodPage) SetCookies(cookies []Cookie) error {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		})
	}
	if err := p.page.SetCookies(params); err != nil {
		return fmt.Errorf("set cookies: %w", err)
	}
	return nil
}

func (p *rodPage) Cookies() ([]Cookie, error) {
	raw, err := p.page.Cookies([]string{"https://www.douyin.com"})
	if err != nil {
		return nil, fmt.Errorf("get page cookies: %w", err)
	}
	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		})
	}
	return cookies, nil
}

func (p *rodPage) Close() error {
	if p.router != nil {
		_ = p.router.Stop()
	}
	if err := p.page.Close(); err != nil {
		return fmt.Errorf("close page: %w", err)
	}
	return nil
}
