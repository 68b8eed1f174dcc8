package scrape

import "regexp"

// Accepted TikTok video URL shapes. Anything else, including bare profile
// pages, is rejected.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(?:www\.)?tiktok\.com/@[\w.-]+/video/\d+`),
	regexp.MustCompile(`^https?://(?:vm|vt)\.tiktok\.com/\w+`),
	regexp.MustCompile(`^https?://(?:www\.)?tiktok\.com/t/\w+`),
}

var videoRefPattern = regexp.MustCompile(`tiktok\.com/@([^/]+)/video/(\d+)`)

// ValidateURL reports whether url is a TikTok video URL.
func ValidateURL(url string) bool {
	for _, p := range urlPatterns {
		if p.MatchString(url) {
			return true
		}
	}
	return false
}

// ParseVideoRef extracts the creator handle and numeric video id from a
// canonical video URL. Both are empty for short-link forms.
func ParseVideoRef(url string) (handle, videoID string) {
	m := videoRefPattern.FindStringSubmatch(url)
	if len(m) == 3 {
		return m[1], m[2]
	}
	return "", ""
}
