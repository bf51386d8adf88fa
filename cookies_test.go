package douyin

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseCookieString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want []Cookie
	}{
		{
			name: "basic pair",
			in:   "sessionid=abc; ttwid=xyz",
			want: []Cookie{
				{Name: "sessionid", Value: "abc", Domain: ".douyin.com", Path: "/"},
				{Name: "ttwid", Value: "xyz", Domain: ".douyin.com", Path: "/"},
			},
		},
		{
			name: "value containing equals",
			in:   "token=a=b=c",
			want: []Cookie{{Name: "token", Value: "a=b=c", Domain: ".douyin.com", Path: "/"}},
		},
		{
			name: "empty segments and spacing",
			in:   " sessionid = abc ;; ",
			want: []Cookie{{Name: "sessionid", Value: "abc", Domain: ".douyin.com", Path: "/"}},
		},
		{
			name: "segment without equals is dropped",
			in:   "garbage; sessionid=abc",
			want: []Cookie{{Name: "sessionid", Value: "abc", Domain: ".douyin.com", Path: "/"}},
		},
		{name: "empty input", in: "", want: nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseCookieString(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCookieString(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadCookies_RawString(t *testing.T) {
	t.Parallel()
	cookies, err := LoadCookies("sessionid=abc; odin_tt=1")
	if err != nil {
		t.Fatalf("LoadCookies: %v", err)
	}
	if len(cookies) != 2 || cookies[0].Name != "sessionid" {
		t.Errorf("unexpected cookies: %+v", cookies)
	}
}

func TestLoadCookies_JSONFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookies.json")
	content := `[
		{"name":"sessionid","value":"abc","domain":".douyin.com","path":"/"},
		{"name":"ttwid","value":"xyz"},
		{"value":"nameless"}
	]`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cookies, err := LoadCookies(path)
	if err != nil {
		t.Fatalf("LoadCookies: %v", err)
	}
	want := []Cookie{
		{Name: "sessionid", Value: "abc", Domain: ".douyin.com", Path: "/"},
		{Name: "ttwid", Value: "xyz", Domain: ".douyin.com", Path: "/"},
	}
	if !reflect.DeepEqual(cookies, want) {
		t.Errorf("LoadCookies = %+v, want %+v", cookies, want)
	}
}

func TestLoadCookies_TextFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookies.txt")
	content := "# exported cookies\n\nsessionid=abc; ttwid=xyz\nignored=later-line\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cookies, err := LoadCookies(path)
	if err != nil {
		t.Fatalf("LoadCookies: %v", err)
	}
	if len(cookies) != 2 || cookies[0].Name != "sessionid" || cookies[1].Name != "ttwid" {
		t.Errorf("unexpected cookies: %+v", cookies)
	}
}

func TestLoadCookies_BadJSONFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookies.json")
	if err := os.WriteFile(path, []byte("[{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCookies(path); err == nil {
		t.Error("expected error for malformed JSON file")
	}
}

func TestLoadCookies_EmptySource(t *testing.T) {
	t.Parallel()
	cookies, err := LoadCookies("")
	if err != nil || cookies != nil {
		t.Errorf("LoadCookies(\"\") = %+v, %v; want nil, nil", cookies, err)
	}
}

func TestSaveLoadCookies_Roundtrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookies.json")
	in := []Cookie{
		{Name: "sessionid", Value: "abc", Domain: ".douyin.com", Path: "/"},
		{Name: "ttwid", Value: "xyz", Domain: ".douyin.com", Path: "/"},
	}
	if err := SaveCookies(path, in); err != nil {
		t.Fatalf("SaveCookies: %v", err)
	}

	out, err := LoadCookies(path)
	if err != nil {
		t.Fatalf("LoadCookies: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("roundtrip mismatch: %+v != %+v", out, in)
	}
}

func TestMissingAuthCookies(t *testing.T) {
	t.Parallel()
	cookies := []Cookie{
		{Name: "sessionid", Value: "a"},
		{Name: "ttwid", Value: "b"},
		{Name: "unrelated", Value: "c"},
	}
	missing := MissingAuthCookies(cookies)
	want := []string{"sessionid_ss", "odin_tt", "sid_tt"}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("MissingAuthCookies = %v, want %v", missing, want)
	}

	if got := MissingAuthCookies(nil); len(got) != len(criticalAuthCookies) {
		t.Errorf("empty set should miss all %d, got %v", len(criticalAuthCookies), got)
	}
}

func TestCookiesFor_CachesPerSource(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(path, []byte("sessionid=first"), 0600); err != nil {
		t.Fatal(err)
	}

	e := New()
	first, err := e.cookiesFor(path)
	if err != nil {
		t.Fatalf("cookiesFor: %v", err)
	}
	if len(first) != 1 || first[0].Value != "first" {
		t.Fatalf("unexpected cookies: %+v", first)
	}

	// Rewriting the file must not change what the extractor sees.
	if err := os.WriteFile(path, []byte("sessionid=second"), 0600); err != nil {
		t.Fatal(err)
	}
	second, err := e.cookiesFor(path)
	if err != nil {
		t.Fatalf("cookiesFor: %v", err)
	}
	if second[0].Value != "first" {
		t.Errorf("expected cached value, got %q", second[0].Value)
	}
}
