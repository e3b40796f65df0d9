package extraction

import (
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-extractor/internal/dom"
	"github.com/jonathan/job-extractor/internal/logging"
	"github.com/jonathan/job-extractor/internal/textutil"
)

// minDescriptionLength rejects placeholders and truncated teasers.
const minDescriptionLength = 50

// minLocationLength is the shortest plain location accepted as a fallback.
const minLocationLength = 2

const locationSeparator = "·"

// postedOrApplicantRe marks the composite "<place> · <posted> · <applicants>" line.
// Time units only count after a number, so "Full-time" and "Monday" stay plain.
var postedOrApplicantRe = regexp.MustCompile(`(?:^|[^\p{L}\p{N}-])(?:` +
	// English
	`ago|applicants?|reposted|clicked apply|` +
	`\d+\s*(?:minutes?|hours?|days?|weeks?|months?)|` +
	// Danish
	`siden|ansøgere?|genopslået|klikket på ansøg|` +
	`\d+\s*(?:minut(?:ter)?|timer?|dage?|uger?|måned(?:er)?)` +
	`)(?:[^\p{L}\p{N}-]|$)`)

var followerTokens = []string{"followers", "følgere", "employees", "ansatte", "medarbejdere"}

// DateTimeRule prefers the datetime attribute of the matched element over its text.
func DateTimeRule(selector string) Rule {
	return Rule{Selector: selector, Extract: func(el dom.Element) string {
		if v, ok := el.Attr("datetime"); ok && strings.TrimSpace(v) != "" {
			return v
		}
		return el.Text()
	}}
}

// ExtractTitle returns the job title, or "".
func ExtractTitle(doc dom.Querier, logger *zap.Logger) string {
	v, _, _ := Resolve(doc, titleRules, NonEmpty, fieldLogger(logger, "title"))
	return textutil.CollapseSpaces(v)
}

// ExtractCompany returns the hiring company name, or "".
func ExtractCompany(doc dom.Querier, logger *zap.Logger) string {
	v, _, _ := Resolve(doc, companyRules, NonEmpty, fieldLogger(logger, "company"))
	return textutil.CollapseSpaces(v)
}

// ExtractLocation prefers the composite line carrying posted time or applicant count.
// Failing that it returns the first plausible plain location seen while scanning.
func ExtractLocation(doc dom.Querier, logger *zap.Logger) string {
	logger = fieldLogger(logger, "location")

	var fallback string
	for i, rule := range locationRules {
		text, found := evalRule(doc, rule, i, logger)
		if !found || text == "" {
			continue
		}
		if IsRichLocation(text) {
			logger.Debug("rich location matched",
				zap.Int(logging.FieldRule, i),
				zap.String(logging.FieldSelector, rule.Selector))
			return textutil.CollapseSpaces(text)
		}
		if fallback == "" && isPlausibleLocation(text) {
			fallback = textutil.CollapseSpaces(text)
			logger.Debug("location fallback remembered",
				zap.Int(logging.FieldRule, i),
				zap.String(logging.FieldSelector, rule.Selector))
		}
	}
	if fallback != "" {
		logger.Debug("using location fallback", zap.String(logging.FieldTier, "fallback"))
	}
	return fallback
}

// IsRichLocation reports whether text is a separator-delimited line mentioning when the
// job was posted or how many applied.
func IsRichLocation(text string) bool {
	if !strings.Contains(text, locationSeparator) {
		return false
	}
	return postedOrApplicantRe.MatchString(textutil.Lower(text))
}

func isPlausibleLocation(text string) bool {
	if textutil.RuneLen(text) <= minLocationLength {
		return false
	}
	return !containsAny(textutil.Lower(text), followerTokens)
}

// ExtractDescription returns the cleaned description when it is longer than 50 characters.
func ExtractDescription(doc dom.Querier, logger *zap.Logger) string {
	rules := make([]Rule, len(descriptionRules))
	for i, r := range descriptionRules {
		rules[i] = Rule{Selector: r.Selector, Extract: func(el dom.Element) string {
			return textutil.Clean(el.Text())
		}}
	}
	v, _, _ := Resolve(doc, rules, LongerThan(minDescriptionLength), fieldLogger(logger, "description"))
	return v
}

// ExtractApplyURL returns the absolute apply link, or the page URL when there is none.
func ExtractApplyURL(doc dom.Document, logger *zap.Logger) string {
	pageURL := doc.URL()
	base, _ := url.Parse(pageURL)

	rules := make([]Rule, 0, len(applySelectors))
	for _, sel := range applySelectors {
		rules = append(rules, Rule{Selector: sel, Extract: func(el dom.Element) string {
			href, _ := el.Attr("href")
			return resolveHref(base, href)
		}})
	}

	logger = fieldLogger(logger, "apply_url")
	if v, _, ok := Resolve(doc, rules, NonEmpty, logger); ok {
		return v
	}
	logger.Debug("no apply link, using page URL")
	return pageURL
}

// ExtractPostedDate returns the posting date, preferring machine readable datetime attributes.
func ExtractPostedDate(doc dom.Querier, logger *zap.Logger) string {
	v, _, _ := Resolve(doc, postedDateRules, NonEmpty, fieldLogger(logger, "posted_date"))
	return textutil.CollapseSpaces(v)
}

// resolveHref makes href absolute against base. Script links and unparsable values give "".
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil && !u.IsAbs() {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func fieldLogger(logger *zap.Logger, field string) *zap.Logger {
	return logging.OrNop(logger).With(zap.String(logging.FieldField, field))
}
