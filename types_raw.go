package douyin

import "fmt"

// Raw structs matching Douyin's web API JSON exactly. Every field is
// optional on the wire; absent fields decode to zero values and are
// defaulted, never treated as fatal.

// Detail API response (aweme/v1/web/aweme/detail).

type awemeDetailResponse struct {
	AwemeDetail *rawAwemeDetail `json:"aweme_detail"`
}

type rawAwemeDetail struct {
	AwemeID string        `json:"aweme_id"`
	Desc    string        `json:"desc"`
	Author  rawAuthor     `json:"author"`
	Video   *rawVideoInfo `json:"video"`
	Images  []rawImage    `json:"images"`
}

type rawAuthor struct {
	Nickname    string     `json:"nickname"`
	SecUID      string     `json:"sec_uid"`
	UID         string     `json:"uid"`
	Signature   string     `json:"signature"`
	AvatarThumb rawURLList `json:"avatar_thumb"`
}

type rawVideoInfo struct {
	Cover       rawURLList   `json:"cover"`
	OriginCover rawURLList   `json:"origin_cover"`
	PlayAddr    rawPlayAddr  `json:"play_addr"`
	BitRate     []rawBitRate `json:"bit_rate"`
}

// rawBitRate is one encoded rendition of a video.
type rawBitRate struct {
	Format   string      `json:"format"`
	BitRate  int         `json:"bit_rate"`
	GearName string      `json:"gear_name"`
	IsH265   int         `json:"is_h265"`
	PlayAddr rawPlayAddr `json:"play_addr"`
}

type rawPlayAddr struct {
	URLList []string `json:"url_list"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
}

type rawURLList struct {
	URLList []string `json:"url_list"`
}

// rawImage is one still image in a note, optionally carrying an embedded
// video rendition (animated "GIFs" are really MP4s).
type rawImage struct {
	URLList []string      `json:"url_list"`
	Video   *rawVideoInfo `json:"video"`
}

// Post-list API response (aweme/v1/web/aweme/post).

type postListResponse struct {
	StatusCode int            `json:"status_code"`
	AwemeList  []rawAwemeItem `json:"aweme_list"`
	HasMore    int            `json:"has_more"`
	MaxCursor  int64          `json:"max_cursor"`
}

type rawAwemeItem struct {
	AwemeID    string     `json:"aweme_id"`
	Desc       string     `json:"desc"`
	CreateTime int64      `json:"create_time"`
	IsTop      int        `json:"is_top"`
	Images     []rawImage `json:"images"`
	Author     rawAuthor  `json:"author"`
}

// Profile API response (aweme/v1/web/user/profile/other).

type profileResponse struct {
	User *rawProfileUser `json:"user"`
}

type rawProfileUser struct {
	Nickname    string     `json:"nickname"`
	SecUID      string     `json:"sec_uid"`
	UID         string     `json:"uid"`
	Signature   string     `json:"signature"`
	AwemeCount  *int       `json:"aweme_count"`
	AvatarThumb rawURLList `json:"avatar_thumb"`
}

// mediaMeta is the shared metadata block of an extraction result.
type mediaMeta struct {
	Title    string
	Author   string
	AuthorID string
	Cover    string
}

// metadataFromDetail pulls title/author/cover out of an aweme detail,
// defaulting every missing field. Cover prefers the video cover, then the
// origin cover, then the first note image.
func metadataFromDetail(d *rawAwemeDetail) mediaMeta {
	var meta mediaMeta
	if d == nil {
		return meta
	}

	meta.Title = d.Desc
	meta.Author = d.Author.Nickname
	meta.AuthorID = d.Author.SecUID

	if d.Video != nil {
		if urls := d.Video.Cover.URLList; len(urls) > 0 {
			meta.Cover = urls[0]
		} else if urls := d.Video.OriginCover.URLList; len(urls) > 0 {
			meta.Cover = urls[0]
		}
	}
	if meta.Cover == "" && len(d.Images) > 0 && len(d.Images[0].URLList) > 0 {
		meta.Cover = d.Images[0].URLList[0]
	}
	return meta
}

// parseWork converts one aweme_list item into a Work summary. Items
// carrying an images array are notes; everything else is a video.
func parseWork(item rawAwemeItem) Work {
	kind := KindVideo
	if len(item.Images) > 0 {
		kind = KindNote
	}
	return Work{
		AwemeID:    item.AwemeID,
		Type:       kind,
		Desc:       item.Desc,
		ShareURL:   fmt.Sprintf("https://www.douyin.com/%s/%s", kind, item.AwemeID),
		IsTop:      item.IsTop != 0,
		CreateTime: item.CreateTime,
	}
}

// userInfoFromItem extracts author identity from a list item. Used only to
// fill gaps the profile API left empty.
func userInfoFromItem(item rawAwemeItem) UserInfo {
	info := UserInfo{
		Nickname: item.Author.Nickname,
		SecUID:   item.Author.SecUID,
		UID:      item.Author.UID,
	}
	if urls := item.Author.AvatarThumb.URLList; len(urls) > 0 {
		info.Avatar = urls[0]
	}
	return info
}

// userInfoFromProfile extracts user info from the profile API response.
func userInfoFromProfile(resp *profileResponse) UserInfo {
	if resp == nil || resp.User == nil {
		return UserInfo{}
	}
	u := resp.User
	info := UserInfo{
		Nickname:   u.Nickname,
		SecUID:     u.SecUID,
		UID:        u.UID,
		Signature:  u.Signature,
		AwemeCount: u.AwemeCount,
	}
	if urls := u.AvatarThumb.URLList; len(urls) > 0 {
		info.Avatar = urls[0]
	}
	return info
}

// mergeUserInfo overlays profile-sourced fields on item-derived ones.
// Profile fields win whenever both are non-empty.
func mergeUserInfo(profile, item UserInfo) UserInfo {
	merged := profile
	if merged.Nickname == "" {
		merged.Nickname = item.Nickname
	}
	if merged.SecUID == "" {
		merged.SecUID = item.SecUID
	}
	if merged.UID == "" {
		merged.UID = item.UID
	}
	if merged.Avatar == "" {
		merged.Avatar = item.Avatar
	}
	if merged.Signature == "" {
		merged.Signature = item.Signature
	}
	if merged.AwemeCount == nil {
		merged.AwemeCount = item.AwemeCount
	}
	return merged
}
