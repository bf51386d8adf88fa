package douyin

import (
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/proxy"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// pageOptions configures an isolated page drawn from the shared session.
type pageOptions struct {
	cookies []Cookie

	// lightBlock blocks only analytics/tracking instead of all heavy
	// resources. Profile pages need images to load so lazy loading and the
	// signing scripts behave normally.
	lightBlock bool
}

// Extractor resolves Douyin media URLs and user work lists. All platform
// requests run inside a headless browser session so the platform's own
// scripts handle request signing; plain HTTP is used only for the one-hop
// short-link fast path.
type Extractor struct {
	provider  *SessionProvider
	userAgent string
	proxy     string

	// noRedirectClient resolves share links by reading the Location header
	// of the first redirect without following it.
	noRedirectClient *http.Client

	// newPage opens an isolated page. Replaceable for testing.
	newPage func(opts pageOptions) (Page, error)

	// Timing and bound tunables.
	navTimeout       time.Duration
	interceptTimeout time.Duration
	evalTimeout      time.Duration
	domSettleDelay   time.Duration
	pollInterval     time.Duration
	pollRetries      int
	pageDelay        time.Duration
	maxEmptyPages    int
	pageSize         int

	// Per-operation rate limiting.
	mediaDelay time.Duration
	listDelay  time.Duration
	lastMedia  time.Time
	lastList   time.Time
	mediaMu    sync.Mutex
	listMu     sync.Mutex

	// Cookie-source cache: populated once per source, never invalidated.
	// Stale cookies are the caller's responsibility.
	cookieMu    sync.Mutex
	cookieCache map[string][]Cookie
}

// defaultTransport returns an http.Transport tuned for scraping:
// connection pooling, keep-alive, and TLS handshake caching.
func defaultTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
}

// New creates an Extractor with sensible defaults. The browser is not
// launched until the first resolution request needs it.
func New() *Extractor {
	e := &Extractor{
		userAgent: defaultUserAgent,
		noRedirectClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: defaultTransport(),
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		navTimeout:       30 * time.Second,
		interceptTimeout: 12 * time.Second,
		evalTimeout:      15 * time.Second,
		domSettleDelay:   2 * time.Second,
		pollInterval:     500 * time.Millisecond,
		pollRetries:      15,
		pageDelay:        500 * time.Millisecond,
		maxEmptyPages:    3,
		pageSize:         18,
		mediaDelay:       1 * time.Second,
		listDelay:        2 * time.Second,
		cookieCache:      make(map[string][]Cookie),
	}
	e.provider = newSessionProvider()
	e.newPage = e.provider.NewPage
	return e
}

// WithNavTimeout sets the navigation timeout per page load.
func (e *Extractor) WithNavTimeout(d time.Duration) *Extractor {
	e.navTimeout = d
	return e
}

// WithInterceptTimeout sets the bound on waiting for an intercepted detail
// response before falling back to a direct request.
func (e *Extractor) WithInterceptTimeout(d time.Duration) *Extractor {
	e.interceptTimeout = d
	return e
}

// WithMaxEmptyPages sets how many consecutive empty or non-advancing list
// responses are tolerated before pagination stops. The platform's stall
// semantics are undocumented, so this is deliberately tunable.
func (e *Extractor) WithMaxEmptyPages(n int) *Extractor {
	e.maxEmptyPages = n
	return e
}

// WithMediaDelay sets the minimum delay between single-item extractions.
func (e *Extractor) WithMediaDelay(d time.Duration) *Extractor {
	e.mediaDelay = d
	return e
}

// WithListDelay sets the minimum delay between user-works runs.
func (e *Extractor) WithListDelay(d time.Duration) *Extractor {
	e.listDelay = d
	return e
}

// WithPageDelay sets the pause between consecutive pagination fetches.
func (e *Extractor) WithPageDelay(d time.Duration) *Extractor {
	e.pageDelay = d
	return e
}

// WithDOMSettleDelay sets how long the note DOM fallback waits for lazy
// content before scraping elements.
func (e *Extractor) WithDOMSettleDelay(d time.Duration) *Extractor {
	e.domSettleDelay = d
	return e
}

// WithPollBounds sets the retry count and interval for the passive
// interception mode used on unclassifiable URLs.
func (e *Extractor) WithPollBounds(retries int, interval time.Duration) *Extractor {
	e.pollRetries = retries
	e.pollInterval = interval
	return e
}

// WithHeadful launches the browser with a visible window. Needed for the
// interactive QR login flow.
func (e *Extractor) WithHeadful() *Extractor {
	e.provider.headless = false
	return e
}

// SetProxy configures an HTTP/HTTPS or SOCKS5 proxy for both the plain
// HTTP client and the browser (applied at launch).
func (e *Extractor) SetProxy(proxyAddr string) error {
	if proxyAddr == "" {
		e.noRedirectClient.Transport = defaultTransport()
		e.proxy = ""
		e.provider.proxy = ""
		return nil
	}

	u, err := url.Parse(proxyAddr)
	if err != nil {
		return fmt.Errorf("parse proxy url: %w", err)
	}

	base := defaultTransport()

	switch u.Scheme {
	case "http", "https":
		base.Proxy = http.ProxyURL(u)
		e.noRedirectClient.Transport = base
	case "socks5":
		var auth *proxy.Auth
		if u.User != nil {
			pass, _ := u.User.Password()
			auth = &proxy.Auth{User: u.User.Username(), Password: pass}
		}
		dialer, err := proxy.SOCKS5("tcp", u.Host, auth, proxy.Direct)
		if err != nil {
			return fmt.Errorf("socks5 proxy: %w", err)
		}
		dc, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return fmt.Errorf("socks5: context dialer not supported")
		}
		base.DialContext = dc.DialContext
		e.noRedirectClient.Transport = base
	default:
		return fmt.Errorf("unsupported proxy scheme: %s", u.Scheme)
	}

	e.proxy = proxyAddr
	e.provider.proxy = proxyAddr
	return nil
}

// waitForMedia enforces rate limiting between single-item extractions.
func (e *Extractor) waitForMedia() {
	e.mediaMu.Lock()
	defer e.mediaMu.Unlock()
	e.throttle(&e.lastMedia, e.mediaDelay)
}

// waitForList enforces rate limiting between user-works runs.
func (e *Extractor) waitForList() {
	e.listMu.Lock()
	defer e.listMu.Unlock()
	e.throttle(&e.lastList, e.listDelay)
}

// throttle sleeps if needed to enforce min delay + jitter between requests.
func (e *Extractor) throttle(lastReq *time.Time, delay time.Duration) {
	if delay == 0 {
		return
	}
	elapsed := time.Since(*lastReq)
	jitter := time.Duration(rand.Int63n(int64(500 * time.Millisecond)))
	wait := delay + jitter - elapsed
	if wait > 0 {
		time.Sleep(wait)
	}
	*lastReq = time.Now()
}

// Close releases all resources including the headless browser if running.
func (e *Extractor) Close() error {
	return e.provider.Close()
}
