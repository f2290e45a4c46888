package api

import (
	"net/url"
	"strings"
)

// CSRFCookieName is the cookie the server issues its anti-forgery token in.
const CSRFCookieName = "csrftoken"

// CSRFHeaderName carries the token back on state-mutating requests.
const CSRFHeaderName = "X-CSRFToken"

// ExtractToken parses a semicolon-delimited "name=value" cookie string and
// returns the percent-decoded anti-forgery token. Pure function of its
// input; malformed text yields ("", false) rather than an error.
func ExtractToken(cookieText string) (string, bool) {
	for _, part := range strings.Split(cookieText, ";") {
		part = strings.TrimSpace(part)
		name, value, found := strings.Cut(part, "=")
		if !found || name != CSRFCookieName {
			continue
		}
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			return "", false
		}
		return decoded, true
	}
	return "", false
}
