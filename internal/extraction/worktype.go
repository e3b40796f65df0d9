package extraction

import (
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-extractor/internal/dom"
	"github.com/jonathan/job-extractor/internal/logging"
	"github.com/jonathan/job-extractor/internal/textutil"
)

// ClassificationMode names the source a work type was read from.
type ClassificationMode string

// Classification modes.
const (
	ModeModal       ClassificationMode = "modal"
	ModeDescription ClassificationMode = "description"
	ModeNone        ClassificationMode = "none"
)

// WorkTypeDecision explains a work type classification.
type WorkTypeDecision struct {
	Value   WorkType
	Mode    ClassificationMode
	Keyword string
	// Item is the index of the deciding requirement row in modal mode, otherwise -1.
	Item int
}

type keywordGroup struct {
	workType WorkType
	keywords []string
}

// workTypeGroups are checked in order: Remote, then Hybrid, then On-site.
// The lists are broad on purpose and accept some false positives.
var workTypeGroups = []keywordGroup{
	{WorkTypeRemote, []string{
		// English
		"remote", "work from home", "working from home", "wfh", "fully remote",
		// Danish
		"fjernarbejde", "hjemmearbejde", "arbejde hjemmefra", "hjemmefra",
	}},
	{WorkTypeHybrid, []string{
		// English
		"hybrid", "flexible", "flex work",
		// Danish
		"fleksibel", "hjemmekontor", "delvis hjemmearbejde",
	}},
	{WorkTypeOnSite, []string{
		// English
		"on-site", "onsite", "on site", "in-office", "in office", "office",
		// Danish
		"på stedet", "kontor", "fysisk fremmøde",
	}},
}

// ClassifyText matches lowercased text against the keyword groups in order and returns
// the first hit.
func ClassifyText(text string) (WorkType, string, bool) {
	lower := textutil.Lower(text)
	for _, group := range workTypeGroups {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.workType, kw, true
			}
		}
	}
	return WorkTypeUnknown, "", false
}

// ClassifyRequirementText classifies modal requirement rows. Every row is checked and
// the last row that matches decides.
func ClassifyRequirementText(items []string) WorkTypeDecision {
	decision := WorkTypeDecision{Value: WorkTypeUnknown, Mode: ModeModal, Item: -1}
	for i, item := range items {
		if wt, kw, ok := ClassifyText(item); ok {
			decision.Value = wt
			decision.Keyword = kw
			decision.Item = i
		}
	}
	return decision
}

// ClassifyDescriptionText classifies free description text; the first keyword hit in
// group order decides.
func ClassifyDescriptionText(text string) WorkTypeDecision {
	wt, kw, _ := ClassifyText(text)
	return WorkTypeDecision{Value: wt, Mode: ModeDescription, Keyword: kw, Item: -1}
}

// HasInsightModal reports whether a skills insight modal is open on the page.
func HasInsightModal(doc dom.Querier, logger *zap.Logger) bool {
	logger = logging.OrNop(logger)
	for _, sel := range insightModalSelectors {
		if el := queryOne(doc, sel, logger); el != nil && el.Visible() {
			return true
		}
	}
	return false
}

// ClassifyWorkType reads the work type from the insight modal when one is open,
// otherwise from the job description.
func ClassifyWorkType(doc dom.Querier, logger *zap.Logger) WorkTypeDecision {
	logger = fieldLogger(logger, "work_type")

	var decision WorkTypeDecision
	if HasInsightModal(doc, logger) {
		items := queryAll(doc, strings.Join(requirementItemSelectors, ", "), logger)
		texts := make([]string, 0, len(items))
		for _, item := range items {
			texts = append(texts, item.Text())
		}
		decision = ClassifyRequirementText(texts)
	} else {
		text, _, ok := Resolve(doc, workTypeDescriptionRules, NonEmpty, logger)
		if !ok {
			logger.Debug("no text to classify")
			return WorkTypeDecision{Value: WorkTypeUnknown, Mode: ModeNone, Item: -1}
		}
		decision = ClassifyDescriptionText(text)
	}

	logger.Debug("work type classified",
		zap.String(logging.FieldMode, string(decision.Mode)),
		zap.String(logging.FieldKeyword, decision.Keyword),
		zap.String("work_type", string(decision.Value)))
	return decision
}
