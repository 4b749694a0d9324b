package apiclient

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// RFC 5987 extended parameter: filename*=charset''percent-encoded-value
	extFilenameRe = regexp.MustCompile(`(?i)filename\*\s*=\s*([^']*)'[^']*'([^;]+)`)

	// Plain parameter, optionally single- or double-quoted
	plainFilenameRe = regexp.MustCompile(`(?i)filename\s*=\s*("[^"]*"|'[^']*'|[^;]+)`)
)

// ExtractFilename parses a Content-Disposition header value into a filename.
// The RFC 5987 filename*= form wins over the plain filename= form because it
// correctly represents non-ASCII names. Returns "" when no filename can be
// extracted; never panics on malformed input.
func ExtractFilename(contentDisposition string) string {
	if contentDisposition == "" {
		return ""
	}

	if m := extFilenameRe.FindStringSubmatch(contentDisposition); m != nil {
		value := strings.TrimSpace(m[2])
		if decoded, err := url.PathUnescape(value); err == nil && decoded != "" {
			return decoded
		}
		if value != "" {
			return value
		}
	}

	if m := plainFilenameRe.FindStringSubmatch(contentDisposition); m != nil {
		value := strings.TrimSpace(m[1])
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		return value
	}

	return ""
}
