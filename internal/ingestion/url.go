package ingestion

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalidURL is returned when a posting URL is malformed
	ErrInvalidURL = errors.New("invalid URL")
	// ErrFetchFailed is returned when the posting page could not be retrieved
	ErrFetchFailed = errors.New("fetch failed")
	// ErrStoreFailed is returned when the job could not be persisted
	ErrStoreFailed = errors.New("store failed")
)

// trackingParams are query parameters that never identify a posting.
var trackingParams = []string{"gh_src", "lever-source", "lever-origin", "source", "ref", "referrer", "src"}

// CanonicalURL validates a posting URL and strips fragments and tracking
// parameters so the same posting always maps to the same job row.
func CanonicalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	q := u.Query()
	for key := range q {
		if strings.HasPrefix(strings.ToLower(key), "utm_") {
			q.Del(key)
		}
	}
	for _, key := range trackingParams {
		q.Del(key)
	}
	u.RawQuery = q.Encode()
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	return u.String(), nil
}

// companyFromPath reads the board slug hosted ATS URLs carry as their first
// path segment, e.g. jobs.lever.co/acme/<id>.
func companyFromPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Host)
	if !strings.HasSuffix(host, "greenhouse.io") && !strings.HasSuffix(host, "lever.co") &&
		!strings.HasSuffix(host, "ashbyhq.com") {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" || segments[0] == "embed" {
		return ""
	}
	words := strings.FieldsFunc(segments[0], func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
