//go:build !unittest

package douyin

import "fmt"

// InteractiveLogin opens the Douyin homepage so a user can scan the QR
// code with the app, then exports every cookie of the session — HttpOnly
// auth cookies included. wait blocks until the user reports the login is
// done (the CLI reads an Enter keypress).
//
// Create the Extractor with WithHeadful, or there is no window to scan.
func (e *Extractor) InteractiveLogin(wait func()) ([]Cookie, error) {
	page, err := e.newPage(pageOptions{lightBlock: true})
	if err != nil {
		return nil, fmt.Errorf("interactive login: %w", err)
	}
	defer page.Close()

	if err := page.Navigate("https://www.douyin.com/", e.navTimeout); err != nil {
		return nil, fmt.Errorf("interactive login: %w", err)
	}

	wait()

	cookies, err := page.Cookies()
	if err != nil {
		return nil, fmt.Errorf("interactive login: %w", err)
	}
	if len(cookies) == 0 {
		return nil, fmt.Errorf("interactive login: no cookies captured")
	}
	return cookies, nil
}
