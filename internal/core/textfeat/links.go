package textfeat

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/purell"
)

var urlRe = regexp.MustCompile(`(?:(?:https?|ftp)://)?[\w/\-?=%.]+\.[\w/\-&?=%.]*[\w/\-&?=%]+`)

const purellFlags = purell.FlagsUsuallySafeGreedy |
	purell.FlagRemoveDirectoryIndex |
	purell.FlagRemoveFragment |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagRemoveWWW

// Link is a canonicalized outbound URL
type Link struct {
	Raw  string `json:"raw"`
	URL  string `json:"url"`
	Host string `json:"host"`
}

// ExtractURLs finds URL-shaped substrings in free text
func ExtractURLs(text string) []string {
	return urlRe.FindAllString(text, -1)
}

// ParseLink canonicalizes raw with purell and extracts the lowercased host.
// Bare hosts like "bit.ly/x" are read as https. ok is false when no host can be found
func ParseLink(raw string) (Link, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Link{}, false
	}
	withScheme := raw
	if !strings.Contains(raw, "://") {
		withScheme = "https://" + raw
	}
	clean, err := purell.NormalizeURLString(withScheme, purellFlags)
	if err != nil {
		clean = withScheme
	}
	u, err := url.Parse(clean)
	if err != nil || u.Host == "" {
		return Link{}, false
	}
	host := u.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return Link{}, false
	}
	return Link{Raw: raw, URL: clean, Host: host}, true
}

// Links merges explicit links with URLs found in text, canonicalized and deduplicated by URL.
// Explicit links come first
func Links(text string, explicit []string) []Link {
	var out []Link
	seen := map[string]struct{}{}
	add := func(raw string) {
		l, ok := ParseLink(raw)
		if !ok {
			return
		}
		if _, dup := seen[l.URL]; dup {
			return
		}
		seen[l.URL] = struct{}{}
		out = append(out, l)
	}
	for _, raw := range explicit {
		add(raw)
	}
	for _, raw := range ExtractURLs(text) {
		add(raw)
	}
	return out
}

// HostMatches reports whether host equals domain or is a subdomain of it
func HostMatches(host, domain string) bool {
	host = strings.ToLower(host)
	domain = strings.TrimPrefix(strings.ToLower(domain), ".")
	if domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
