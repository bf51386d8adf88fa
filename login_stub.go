//go:build unittest

package douyin

import "fmt"

func (e *Extractor) InteractiveLogin(wait func()) ([]Cookie, error) {
	return nil, fmt.Errorf("interactive login: %w (build tag: unittest)", ErrBrowserNotReady)
}
