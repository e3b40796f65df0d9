package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board or applicant tracking system.
type Platform string

const (
	// PlatformLinkedIn is the LinkedIn jobs site
	PlatformLinkedIn Platform = "linkedin"
	// PlatformJobindex is the Danish Jobindex board
	PlatformJobindex Platform = "jobindex"
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

var platformHosts = []struct {
	platform Platform
	hosts    []string
}{
	{PlatformLinkedIn, []string{"linkedin.com", "lnkd.in"}},
	{PlatformJobindex, []string{"jobindex.dk"}},
	{PlatformGreenhouse, []string{"greenhouse.io"}},
	{PlatformLever, []string{"lever.co"}},
	{PlatformWorkday, []string{"workday.com", "myworkdayjobs.com"}},
}

// DetectPlatform identifies the job board or ATS from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return PlatformUnknown
	}
	for _, p := range platformHosts {
		for _, h := range p.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p.platform
			}
		}
	}
	return PlatformUnknown
}

// NeedsBrowser reports whether pages on the platform are rendered client side
// and should be loaded in a browser rather than fetched.
func NeedsBrowser(platform Platform) bool {
	switch platform {
	case PlatformLinkedIn, PlatformWorkday:
		return true
	default:
		return false
	}
}
