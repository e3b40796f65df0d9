package extraction

import (
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-extractor/internal/dom"
	"github.com/jonathan/job-extractor/internal/logging"
	"github.com/jonathan/job-extractor/internal/textutil"
)

// Heuristic tiers used to find the skills insight button, in order.
const (
	HeuristicDataAttribute = "data-attribute"
	HeuristicAriaLabel     = "aria-label"
	HeuristicKeywordScan   = "keyword-scan"
)

// ExpandDescription clicks the first visible show-more control. It clicks at most once
// and does not retry. It reports whether a click happened.
func ExpandDescription(doc dom.Querier, logger *zap.Logger) bool {
	logger = logging.OrNop(logger).With(zap.String(logging.FieldAction, "expand_description"))

	for _, sel := range showMoreSelectors {
		for _, el := range queryAll(doc, sel, logger) {
			if !el.Visible() {
				continue
			}
			if err := el.Click(); err != nil {
				logger.Info("show more click failed",
					zap.String(logging.FieldSelector, sel),
					zap.Error(err))
				return false
			}
			logger.Debug("description expanded", zap.String(logging.FieldSelector, sel))
			return true
		}
	}
	logger.Info("no show more control found")
	return false
}

// OpenSkillsInsight finds the skills insight button through ranked heuristics and
// clicks the first visible match. It returns the heuristic that found the button.
func OpenSkillsInsight(doc dom.Querier, logger *zap.Logger) (string, bool) {
	logger = logging.OrNop(logger).With(zap.String(logging.FieldAction, "open_skills_insight"))

	heuristic, button := findInsightButton(doc, logger)
	if button == nil {
		logger.Info("no skills insight button found")
		return "", false
	}
	if err := button.Click(); err != nil {
		logger.Info("skills insight click failed",
			zap.String(logging.FieldHeur, heuristic),
			zap.Error(err))
		return heuristic, false
	}
	logger.Debug("skills insight opened", zap.String(logging.FieldHeur, heuristic))
	return heuristic, true
}

func findInsightButton(doc dom.Querier, logger *zap.Logger) (string, dom.Element) {
	for _, sel := range insightDataSelectors {
		for _, el := range queryAll(doc, sel, logger) {
			if el.Visible() {
				return HeuristicDataAttribute, el
			}
		}
	}

	labelled := queryAll(doc, "button[aria-label]", logger)
	for _, fragment := range insightLabelFragments {
		for _, el := range labelled {
			label, _ := el.Attr("aria-label")
			if strings.Contains(textutil.Lower(label), fragment) && el.Visible() {
				return HeuristicAriaLabel, el
			}
		}
	}

	for _, el := range queryAll(doc, `button, [role="button"]`, logger) {
		if !el.Visible() {
			continue
		}
		label, _ := el.Attr("aria-label")
		class, _ := el.Attr("class")
		haystack := textutil.Lower(el.Text() + " " + label + " " + class)
		if containsAny(haystack, insightKeywords) {
			return HeuristicKeywordScan, el
		}
	}
	return "", nil
}
