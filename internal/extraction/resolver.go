package extraction

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-extractor/internal/dom"
	"github.com/jonathan/job-extractor/internal/logging"
	"github.com/jonathan/job-extractor/internal/textutil"
)

// Rule is one candidate for a field: a selector and how to read the matched element.
type Rule struct {
	Selector string
	Extract  func(dom.Element) string
}

// TextRule reads the visible text of the first element matching selector.
func TextRule(selector string) Rule {
	return Rule{Selector: selector, Extract: func(el dom.Element) string { return el.Text() }}
}

// AttrRule reads an attribute of the first element matching selector.
func AttrRule(selector, attr string) Rule {
	return Rule{Selector: selector, Extract: func(el dom.Element) string {
		v, _ := el.Attr(attr)
		return v
	}}
}

// TextRules builds a TextRule per selector, keeping order.
func TextRules(selectors ...string) []Rule {
	rules := make([]Rule, 0, len(selectors))
	for _, s := range selectors {
		rules = append(rules, TextRule(s))
	}
	return rules
}

// Validator decides whether an extracted, trimmed value is acceptable.
type Validator func(string) bool

// NonEmpty accepts any value that is not blank.
func NonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// LongerThan accepts values with more than n characters.
func LongerThan(n int) Validator {
	return func(s string) bool {
		return textutil.RuneLen(s) > n
	}
}

// Resolve returns the trimmed value of the first rule, in order, whose selector matches
// and whose value passes validate, together with that rule's index. ok is false when
// no rule is accepted. A nil validate means NonEmpty.
func Resolve(doc dom.Querier, rules []Rule, validate Validator, logger *zap.Logger) (value string, index int, ok bool) {
	if validate == nil {
		validate = NonEmpty
	}
	logger = logging.OrNop(logger)

	for i, rule := range rules {
		v, found := evalRule(doc, rule, i, logger)
		if !found {
			continue
		}
		if !validate(v) {
			logger.Debug("rule rejected",
				zap.Int(logging.FieldRule, i),
				zap.String(logging.FieldSelector, rule.Selector))
			continue
		}
		logger.Debug("rule matched",
			zap.Int(logging.FieldRule, i),
			zap.String(logging.FieldSelector, rule.Selector))
		return v, i, true
	}
	return "", -1, false
}

// evalRule runs a single rule. Query errors and panics inside the extract function
// are logged and reported as no match.
func evalRule(doc dom.Querier, rule Rule, index int, logger *zap.Logger) (value string, found bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("rule panicked",
				zap.Int(logging.FieldRule, index),
				zap.String(logging.FieldSelector, rule.Selector),
				zap.String(logging.FieldError, fmt.Sprint(r)))
			value, found = "", false
		}
	}()

	el, err := doc.QueryOne(rule.Selector)
	if err != nil {
		logger.Debug("rule query failed",
			zap.Int(logging.FieldRule, index),
			zap.String(logging.FieldSelector, rule.Selector),
			zap.Error(err))
		return "", false
	}
	if el == nil {
		return "", false
	}
	extract := rule.Extract
	if extract == nil {
		extract = func(el dom.Element) string { return el.Text() }
	}
	return strings.TrimSpace(extract(el)), true
}

// queryAll runs a QueryAll and logs failures, returning nil on error.
func queryAll(q dom.Querier, selector string, logger *zap.Logger) []dom.Element {
	els, err := q.QueryAll(selector)
	if err != nil {
		logger.Debug("query failed",
			zap.String(logging.FieldSelector, selector),
			zap.Error(err))
		return nil
	}
	return els
}

// queryOne runs a QueryOne and logs failures, returning nil on error.
func queryOne(q dom.Querier, selector string, logger *zap.Logger) dom.Element {
	el, err := q.QueryOne(selector)
	if err != nil {
		logger.Debug("query failed",
			zap.String(logging.FieldSelector, selector),
			zap.Error(err))
		return nil
	}
	return el
}
