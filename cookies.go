package douyin

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	defaultCookieDomain = ".douyin.com"
	defaultCookiePath   = "/"
)

// criticalAuthCookies are the cookies a logged-in session carries. Their
// absence does not block a run, but pagination depth suffers without them.
var criticalAuthCookies = []string{"sessionid", "sessionid_ss", "ttwid", "odin_tt", "sid_tt"}

// ParseCookieString parses a Cookie-header string as copied from browser
// devtools ("name1=value1; name2=value2") into cookie records with domain
// and path defaulted.
func ParseCookieString(s string) []Cookie {
	var cookies []Cookie
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies = append(cookies, Cookie{
			Name:   name,
			Value:  strings.TrimSpace(value),
			Domain: defaultCookieDomain,
			Path:   defaultCookiePath,
		})
	}
	return cookies
}

// LoadCookies loads cookies from a source argument, which may be:
//
//  1. a JSON file of cookie records (as exported by InteractiveLogin),
//  2. a text file whose first non-empty, non-comment line is a
//     Cookie-header string, or
//  3. a raw Cookie-header string.
//
// Records missing domain or path get defaults; records missing a name are
// dropped.
func LoadCookies(source string) ([]Cookie, error) {
	if source == "" {
		return nil, nil
	}

	if _, err := os.Stat(source); err != nil {
		// Not a file: treat as a raw cookie string.
		return ParseCookieString(source), nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read cookies file: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil, nil
	}

	if strings.HasPrefix(content, "[") {
		var cookies []Cookie
		if err := json.Unmarshal([]byte(content), &cookies); err != nil {
			return nil, fmt.Errorf("unmarshal cookies file: %w", err)
		}
		return normalizeCookies(cookies), nil
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return ParseCookieString(line), nil
		}
	}
	return nil, nil
}

// normalizeCookies drops nameless records and fills domain/path defaults.
func normalizeCookies(cookies []Cookie) []Cookie {
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		if c.Domain == "" {
			c.Domain = defaultCookieDomain
		}
		if c.Path == "" {
			c.Path = defaultCookiePath
		}
		out = append(out, c)
	}
	return out
}

// MissingAuthCookies reports which critical auth cookies the set lacks.
// Useful for warning callers that a login export is incomplete.
func MissingAuthCookies(cookies []Cookie) []string {
	present := make(map[string]struct{}, len(cookies))
	for _, c := range cookies {
		present[c.Name] = struct{}{}
	}
	var missing []string
	for _, name := range criticalAuthCookies {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// SaveCookies writes cookies to a JSON file reusable as a cookie source.
func SaveCookies(path string, cookies []Cookie) error {
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cookies: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write cookies file: %w", err)
	}
	return nil
}

// cookiesFor returns the cookies for a source, loading each source at most
// once for the lifetime of the process.
func (e *Extractor) cookiesFor(source string) ([]Cookie, error) {
	if source == "" {
		return nil, nil
	}

	e.cookieMu.Lock()
	defer e.cookieMu.Unlock()

	if cached, ok := e.cookieCache[source]; ok {
		return cached, nil
	}
	cookies, err := LoadCookies(source)
	if err != nil {
		return nil, err
	}
	e.cookieCache[source] = cookies
	return cookies, nil
}
