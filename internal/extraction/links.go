package extraction

import (
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-extractor/internal/dom"
	"github.com/jonathan/job-extractor/internal/logging"
)

// JobPathMarker identifies links to job detail pages.
const JobPathMarker = "/jobs/view/"

// jobIDRe matches the numeric id at the end of a job detail path segment,
// with or without a leading slug ("/jobs/view/backend-developer-at-acme-3912345678").
var jobIDRe = regexp.MustCompile(`/jobs/view/(?:[^/?#]*?-)?(\d+)(?:[/?#]|$)`)

// HarvestJobLinks collects job detail links from a search results page. Every selector
// is applied and the results are unioned, deduplicated by normalized URL in first-seen order.
func HarvestJobLinks(doc dom.Document, logger *zap.Logger) []string {
	logger = logging.OrNop(logger).With(zap.String(logging.FieldComponent, "harvester"))
	base, _ := url.Parse(doc.URL())

	seen := make(map[string]bool)
	links := make([]string, 0)

	for _, sel := range jobLinkSelectors {
		for _, a := range queryAll(doc, sel, logger) {
			href, ok := a.Attr("href")
			if !ok {
				continue
			}
			abs := resolveHref(base, href)
			if !strings.Contains(abs, JobPathMarker) {
				continue
			}
			normalized, err := NormalizeJobURL(abs)
			if err != nil {
				continue
			}
			if !seen[normalized] {
				seen[normalized] = true
				links = append(links, normalized)
			}
		}
	}

	logger.Debug("harvested job links", zap.Int(logging.FieldCount, len(links)))
	return links
}

// NormalizeJobURL strips the query string, fragment and any trailing slash.
func NormalizeJobURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return strings.TrimSuffix(u.String(), "/"), nil
}

// JobIDFromURL returns the site's numeric job id from a detail URL or from the
// currentJobId parameter of a search URL.
func JobIDFromURL(raw string) (string, bool) {
	if m := jobIDRe.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if id := u.Query().Get("currentJobId"); id != "" && isDigits(id) {
		return id, true
	}
	return "", false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
