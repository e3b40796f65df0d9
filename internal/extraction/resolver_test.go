package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/job-extractor/internal/dom"
	"github.com/jonathan/job-extractor/internal/logging"
)

const resolverHTML = `<html><body>
<div class="a">   </div>
<div class="b">Second</div>
<div class="c">Third</div>
<div class="b">Second duplicate</div>
</body></html>`

func TestResolve_FirstAcceptedRuleWins(t *testing.T) {
	doc := parseHTML(t, resolverHTML)

	value, index, ok := Resolve(doc, TextRules(".missing", ".a", ".b", ".c"), nil, nil)

	assert.True(t, ok)
	assert.Equal(t, "Second", value)
	assert.Equal(t, 2, index)
}

func TestResolve_UsesFirstMatchOnly(t *testing.T) {
	doc := parseHTML(t, resolverHTML)

	value, _, ok := Resolve(doc, TextRules(".b"), NonEmpty, nil)

	assert.True(t, ok)
	assert.Equal(t, "Second", value)
}

func TestResolve_ReorderingChangesOutput(t *testing.T) {
	doc := parseHTML(t, resolverHTML)

	first, _, _ := Resolve(doc, TextRules(".b", ".c"), nil, nil)
	second, _, _ := Resolve(doc, TextRules(".c", ".b"), nil, nil)

	assert.Equal(t, "Second", first)
	assert.Equal(t, "Third", second)
}

func TestResolve_ValidatorRejectionFallsThrough(t *testing.T) {
	doc := parseHTML(t, resolverHTML)
	onlyThird := func(s string) bool { return s == "Third" }

	value, index, ok := Resolve(doc, TextRules(".b", ".c"), onlyThird, nil)

	assert.True(t, ok)
	assert.Equal(t, "Third", value)
	assert.Equal(t, 1, index)
}

func TestResolve_NotFound(t *testing.T) {
	doc := parseHTML(t, resolverHTML)

	value, index, ok := Resolve(doc, TextRules(".missing", ".a"), nil, nil)

	assert.False(t, ok)
	assert.Empty(t, value)
	assert.Equal(t, -1, index)
}

func TestResolve_MalformedSelectorIsSkipped(t *testing.T) {
	doc := parseHTML(t, resolverHTML)
	core, logs := observer.New(zapcore.DebugLevel)

	value, index, ok := Resolve(doc, TextRules("div[[", ".c"), nil, zap.New(core))

	assert.True(t, ok)
	assert.Equal(t, "Third", value)
	assert.Equal(t, 1, index)

	failures := logs.FilterMessage("rule query failed").All()
	if assert.Len(t, failures, 1) {
		assert.Equal(t, "div[[", failures[0].ContextMap()[logging.FieldSelector])
	}
}

func TestResolve_QueryErrorIsSkipped(t *testing.T) {
	doc := &faultyQuerier{Querier: parseHTML(t, resolverHTML), failing: map[string]bool{".b": true}}

	value, _, ok := Resolve(doc, TextRules(".b", ".c"), nil, nil)

	assert.True(t, ok)
	assert.Equal(t, "Third", value)
}

func TestResolve_PanickingExtractIsSkipped(t *testing.T) {
	doc := parseHTML(t, resolverHTML)
	rules := []Rule{
		{Selector: ".b", Extract: func(dom.Element) string { panic("boom") }},
		TextRule(".c"),
	}

	value, index, ok := Resolve(doc, rules, nil, nil)

	assert.True(t, ok)
	assert.Equal(t, "Third", value)
	assert.Equal(t, 1, index)
}

func TestAttrRule(t *testing.T) {
	doc := parseHTML(t, `<a class="x" href="/jobs/view/1">link</a><a class="y">no href</a>`)

	value, _, ok := Resolve(doc, []Rule{AttrRule(".y", "href"), AttrRule(".x", "href")}, nil, nil)

	assert.True(t, ok)
	assert.Equal(t, "/jobs/view/1", value)
}

func TestLongerThan(t *testing.T) {
	v := LongerThan(3)
	assert.False(t, v("abc"))
	assert.True(t, v("abcd"))
	assert.True(t, v("åøæé"))
	assert.False(t, v("  ab  "))
}
