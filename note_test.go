package douyin

import (
	"reflect"
	"testing"
)

func TestReconcileImages(t *testing.T) {
	t.Parallel()
	images := []rawImage{
		{URLList: []string{"https://cdn.example.com/1.jpg", "https://p3.douyinpic.com/1.jpg"}},
		{
			URLList: []string{"https://p9.douyinpic.com/2.jpg"},
			Video:   &rawVideoInfo{PlayAddr: rawPlayAddr{URLList: []string{"https://v1.douyinvod.com/2.mp4", "https://v3-web.douyinvod.com/2.mp4"}}},
		},
		{}, // no usable still URL, skipped
		{URLList: []string{"https://p6.douyinpic.com/4.jpg"}},
	}

	items := reconcileImages(images)
	want := []MediaItem{
		{Type: MediaImage, ImageURL: "https://p3.douyinpic.com/1.jpg"},
		{Type: MediaAnimatedImage, ImageURL: "https://p9.douyinpic.com/2.jpg", VideoURL: "https://v3-web.douyinvod.com/2.mp4"},
		{Type: MediaImage, ImageURL: "https://p6.douyinpic.com/4.jpg"},
	}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("reconcileImages = %+v, want %+v", items, want)
	}
}

func TestExtractCSSBackgroundURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		style string
		want  string
	}{
		{"double quoted", `background-image: url("https://p3.douyinpic.com/a.jpg")`, "https://p3.douyinpic.com/a.jpg"},
		{"single quoted", `background-image: url('https://p3.douyinpic.com/a.jpg')`, "https://p3.douyinpic.com/a.jpg"},
		{"unquoted", `background-image: url(https://p3.douyinpic.com/a.jpg); color: red`, "https://p3.douyinpic.com/a.jpg"},
		{"no url", "color: red", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := extractCSSBackgroundURL(tt.style); got != tt.want {
				t.Errorf("extractCSSBackgroundURL = %q, want %q", got, tt.want)
			}
		})
	}
}

// signedImg builds a DOM image URL that passes every content filter.
func signedImg(path, suffix string) string {
	return "https://p3.douyinpic.com/tos-cn-i-0813/" + path +
		"~" + suffix + "?biz_tag=aweme_images&x-expires=123&x-signature=abc"
}

func TestIsContentImageURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"signed content image", signedImg("abc", "c5"), true},
		{"pcweb cover tag", "https://p3.douyinpic.com/tos-cn-i-0813/x?biz_tag=pcweb_cover&x-expires=1", true},
		{"wrong cdn", "https://cdn.example.com/tos-cn-i-0813/x?biz_tag=aweme_images&x-expires=1", false},
		{"missing biz tag", "https://p3.douyinpic.com/tos-cn-i-0813/x?x-expires=1", false},
		{"missing signature", "https://p3.douyinpic.com/tos-cn-i-0813/x?biz_tag=aweme_images", false},
		{"sticker excluded", "https://p3.douyinpic.com/tos-cn-i-0813/sticker/x?biz_tag=aweme_images&x-expires=1", false},
		{"comment attachment excluded", "https://p3.douyinpic.com/tos-cn-i-0813/x?biz_tag=aweme_images&x-expires=1&source=aweme_comment", false},
		{"wrong storage prefix", "https://p3.douyinpic.com/tos-cn-p-42/x?biz_tag=aweme_images&x-expires=1", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isContentImageURL(tt.url); got != tt.want {
				t.Errorf("isContentImageURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestBaseURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"https://x/a.jpg?sig=1", "https://x/a.jpg"},
		{"https://x/a.jpg~c5_300x300.jpeg?sig=1", "https://x/a.jpg"},
		{"https://x/a.jpg~tplv.image", "https://x/a.jpg"},
		{"https://x/a.jpg", "https://x/a.jpg"},
	}
	for _, tt := range tests {
		tt := tt
		if got := baseURL(tt.in); got != tt.want {
			t.Errorf("baseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterContentImages(t *testing.T) {
	t.Parallel()
	urls := []string{
		// Protocol-relative URL is normalized to https.
		"//p3.douyinpic.com/tos-cn-i-0813/one~a.jpeg?biz_tag=aweme_images&x-expires=1",
		// Same asset, different style suffix and signature: deduplicated.
		"https://p3.douyinpic.com/tos-cn-i-0813/one~b.jpeg?biz_tag=aweme_images&x-expires=2",
		signedImg("two", "c5"),
		"https://p3.douyinpic.com/avatar.jpg", // filtered: no biz tag
	}

	got := filterContentImages(urls)
	want := []string{
		"https://p3.douyinpic.com/tos-cn-i-0813/one~a.jpeg?biz_tag=aweme_images&x-expires=1",
		signedImg("two", "c5"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filterContentImages = %v, want %v", got, want)
	}
}

func TestUniqueDOMVideos(t *testing.T) {
	t.Parallel()
	urls := []string{
		"https://v1.douyinvod.com/video/tos/cn/tos-cn-ve-15/keyA/media.mp4",
		"https://v3-web.douyinvod.com/video/tos/cn/tos-cn-ve-15/keyA/media.mp4",
		"https://v1.douyinvod.com/video/tos/cn/tos-cn-ve-15/keyB/media.mp4",
		"https://cdn.example.com/video/tos/cn/tos-cn-ve-15/keyC/media.mp4", // not a douyinvod host
		"https://v1.douyinvod.com/other/path.mp4",                         // no video key
	}

	got := uniqueDOMVideos(urls)
	want := []string{
		"https://v3-web.douyinvod.com/video/tos/cn/tos-cn-ve-15/keyA/media.mp4",
		"https://v1.douyinvod.com/video/tos/cn/tos-cn-ve-15/keyB/media.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("uniqueDOMVideos = %v, want %v", got, want)
	}
}

func TestPairDOMItems(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		images []string
		videos []string
		want   []MediaItem
	}{
		{
			name:   "one video pairs with first image",
			images: []string{"i1", "i2", "i3"},
			videos: []string{"v1"},
			want: []MediaItem{
				{Type: MediaAnimatedImage, ImageURL: "i1", VideoURL: "v1"},
				{Type: MediaImage, ImageURL: "i2"},
				{Type: MediaImage, ImageURL: "i3"},
			},
		},
		{
			name:   "surplus video keeps no still",
			images: []string{"i1"},
			videos: []string{"v1", "v2"},
			want: []MediaItem{
				{Type: MediaAnimatedImage, ImageURL: "i1", VideoURL: "v1"},
				{Type: MediaAnimatedImage, VideoURL: "v2"},
			},
		},
		{
			name:   "images only",
			images: []string{"i1", "i2"},
			want: []MediaItem{
				{Type: MediaImage, ImageURL: "i1"},
				{Type: MediaImage, ImageURL: "i2"},
			},
		},
		{"nothing", nil, nil, nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := pairDOMItems(tt.images, tt.videos)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("pairDOMItems = %+v, want %+v", got, tt.want)
			}
		})
	}
}
