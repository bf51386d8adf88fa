//go:build unittest

package douyin

import (
	"fmt"
	"sync"
)

// SessionProvider stub for hermetic unit tests; never launches a browser.
type SessionProvider struct {
	mu       sync.Mutex
	proxy    string
	headless bool
}

func newSessionProvider() *SessionProvider {
	return &SessionProvider{headless: true}
}

func (p *SessionProvider) NewPage(opts pageOptions) (Page, error) {
	return nil, fmt.Errorf("session: %w (build tag: unittest)", ErrBrowserNotReady)
}

func (p *SessionProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return nil
}
