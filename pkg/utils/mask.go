package utils

import (
	"net/url"
	"regexp"
	"strings"
)

// MaskQueryParam replaces the value of param in rawURL with "***".
// Unparseable input is returned with every occurrence of "param=..." masked.
func MaskQueryParam(rawURL, param string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		re := regexp.MustCompile(`(` + regexp.QuoteMeta(param) + `=)[^&\s"]*`)
		return re.ReplaceAllString(rawURL, "${1}***")
	}
	q := u.Query()
	if _, ok := q[param]; !ok {
		return rawURL
	}
	q.Set(param, "***")
	u.RawQuery = strings.ReplaceAll(q.Encode(), "%2A%2A%2A", "***")
	return u.String()
}

// MaskSecret keeps the last four characters of s visible.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
