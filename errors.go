package douyin

import "errors"

var (
	ErrUnknownContent     = errors.New("douyin: url matches no known content pattern")
	ErrInterceptTimeout   = errors.New("douyin: detail response interception timed out")
	ErrInvalidResponse    = errors.New("douyin: response payload missing expected fields")
	ErrNoPlayableVariant  = errors.New("douyin: no playable video variant")
	ErrPaginationStalled  = errors.New("douyin: pagination cursor not advancing")
	ErrExtractionFailed   = errors.New("douyin: extraction produced no media")
	ErrNoWorksFound       = errors.New("douyin: no works found for user")
	ErrSessionUnavailable = errors.New("douyin: browser session unavailable")
	ErrBrowserNotReady    = errors.New("douyin: browser not initialized")
)
