package douyin

// ContentKind classifies a Douyin content URL.
type ContentKind string

const (
	KindVideo   ContentKind = "video"
	KindNote    ContentKind = "note"
	KindUnknown ContentKind = "unknown"
)

// ContentRef identifies one piece of content: its kind plus the numeric
// aweme id. Derived once from a URL and never recomputed.
type ContentRef struct {
	Kind ContentKind
	ID   string
}

// MediaType tags a MediaItem.
type MediaType string

const (
	MediaVideo         MediaType = "video"
	MediaImage         MediaType = "image"
	MediaAnimatedImage MediaType = "animated_image"
)

// MediaItem is one playable/viewable unit inside an extraction result.
// Which URL fields are set depends on Type:
//
//	video          → VideoURL, CoverURL
//	image          → ImageURL
//	animated_image → ImageURL, VideoURL
type MediaItem struct {
	Type     MediaType `json:"type"`
	VideoURL string    `json:"video_url,omitempty"`
	ImageURL string    `json:"image_url,omitempty"`
	CoverURL string    `json:"cover_url,omitempty"`
}

// ExtractionResult is the canonical output of single-item resolution.
// It is always fully populated; a failed extraction returns an error,
// never a partial result.
type ExtractionResult struct {
	Title    string      `json:"title"`
	Author   string      `json:"author"`
	AuthorID string      `json:"author_id"`
	Cover    string      `json:"cover"`
	Type     string      `json:"type"` // "video" or "images"
	Items    []MediaItem `json:"items"`
}

// Work is a lightweight summary of one published item on a user profile.
// Identity is AwemeID; the paginator guarantees uniqueness across pages.
type Work struct {
	AwemeID    string      `json:"aweme_id"`
	Type       ContentKind `json:"type"` // video or note
	Desc       string      `json:"desc"`
	ShareURL   string      `json:"share_url"`
	IsTop      bool        `json:"is_top,omitempty"`
	CreateTime int64       `json:"create_time,omitempty"`
}

// UserInfo describes the profile a works listing belongs to.
type UserInfo struct {
	Nickname   string `json:"nickname"`
	SecUID     string `json:"sec_uid"`
	UID        string `json:"uid"`
	Avatar     string `json:"avatar"`
	Signature  string `json:"signature,omitempty"`
	AwemeCount *int   `json:"aweme_count,omitempty"`
}

// UserWorksResult is the output of user-works pagination.
// WorksCount always equals len(Works).
type UserWorksResult struct {
	User       UserInfo `json:"user"`
	WorksCount int      `json:"works_count"`
	Works      []Work   `json:"works"`
}
