package extraction

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-extractor/internal/dom"
	"github.com/jonathan/job-extractor/internal/logging"
	"github.com/jonathan/job-extractor/internal/textutil"
)

// maxSkillLength bounds a chip name; longer text is a sentence, not a skill.
const maxSkillLength = 50

// skillLabelRe captures the skill named in a chip's accessibility label, for example
// "Your profile has Go as a skill" or "Din profil viser ikke Kubernetes som kompetence".
var skillLabelRe = regexp.MustCompile(
	`(?i)\b(?:does not show|doesn't show|shows no|shows|has|viser ikke|viser|har ikke|har)\s+(.+?)\s+(?:as a skill|as a competency|as a competence|som (?:en )?kompetence|som færdighed)`)

// skillsListRe captures an inline "Skills: a, b, c" list in top-card insight blocks.
var skillsListRe = regexp.MustCompile(`(?i)(?:skills|kompetencer|færdigheder)\s*:\s*(.+)`)

// moreSuffixRe drops trailing "+8 more" / "og 8 mere" counters.
var moreSuffixRe = regexp.MustCompile(`(?i)(?:,?\s*(?:\+\s*\d+|and \d+|og \d+)\s*(?:more|mere|flere)?)\s*$`)

var skillSplitRe = regexp.MustCompile(`\s*(?:,|;|\band\b|\bog\b)\s*`)

// skillFamilies are scanned over description text in order.
var skillFamilies = []*skillFamily{
	newSkillFamily("languages and frameworks",
		"javascript", "typescript", "python", "java", "golang", "c#", "c++", "kotlin", "swift",
		"rust", "php", "ruby", "scala", "asp.net", ".net", "node.js", "nodejs", "react", "angular",
		"vue", "django", "flask", "spring boot", "spring", "laravel", "rails"),
	newSkillFamily("data stores and cloud",
		"postgresql", "postgres", "mysql", "mssql", "sql server", "sql", "mongodb", "redis",
		"elasticsearch", "kafka", "rabbitmq", "aws", "azure", "gcp", "google cloud", "docker",
		"kubernetes", "terraform"),
	newSkillFamily("frontend and tooling",
		"html", "css", "sass", "tailwind", "webpack", "graphql", "rest api", "git", "github actions",
		"gitlab", "jenkins", "ci/cd", "figma", "jira", "linux"),
	newSkillFamily("process and methodology",
		"agile", "scrum", "kanban", "devops", "tdd", "microservices", "machine learning",
		"data science", "ux", "product management"),
}

type skillFamily struct {
	name string
	re   *regexp.Regexp
}

// newSkillFamily builds one alternation with longer terms first so "javascript" wins over "java".
func newSkillFamily(name string, terms ...string) *skillFamily {
	sorted := append([]string(nil), terms...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, len(sorted))
	for i, t := range sorted {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return &skillFamily{name: name, re: regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)}
}

// find returns whole-word matches in order of appearance.
func (f *skillFamily) find(text string) []string {
	var out []string
	for _, loc := range f.re.FindAllStringIndex(text, -1) {
		if !isWordBoundary(text, loc[0]-1) || !isWordBoundary(text, loc[1]) {
			continue
		}
		out = append(out, text[loc[0]:loc[1]])
	}
	return out
}

func isWordBoundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	c := text[i]
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_')
}

// skillSet is an ordered set with case-sensitive exact dedup.
type skillSet struct {
	items []string
	seen  map[string]bool
}

func newSkillSet() *skillSet {
	return &skillSet{items: []string{}, seen: map[string]bool{}}
}

func (s *skillSet) add(name string) bool {
	if s.seen[name] {
		return false
	}
	s.seen[name] = true
	s.items = append(s.items, name)
	return true
}

// ParseSkillLabel extracts the skill name from a chip's aria-label.
func ParseSkillLabel(label string) (string, bool) {
	m := skillLabelRe.FindStringSubmatch(label)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	return name, name != ""
}

// ScanSkillKeywords runs every keyword family over lowercased text and returns matches
// in family order, deduplicated.
func ScanSkillKeywords(text string) []string {
	lower := textutil.Lower(text)
	set := newSkillSet()
	for _, family := range skillFamilies {
		for _, m := range family.find(lower) {
			set.add(m)
		}
	}
	return set.items
}

// ParseSkillsList splits an inline "Skills: a, b and c" line into names.
func ParseSkillsList(text string) []string {
	m := skillsListRe.FindStringSubmatch(textutil.CollapseSpaces(text))
	if m == nil {
		return nil
	}
	list := moreSuffixRe.ReplaceAllString(m[1], "")
	var out []string
	for _, part := range skillSplitRe.Split(list, -1) {
		part = strings.Trim(strings.TrimSpace(part), ".")
		if n := textutil.RuneLen(part); n > 0 && n < maxSkillLength {
			out = append(out, part)
		}
	}
	return out
}

// ExtractSkills collects skills from the insight modal chips when the modal is open,
// otherwise from keyword scans of the description and top-card insight blocks.
func ExtractSkills(doc dom.Querier, logger *zap.Logger) []string {
	logger = fieldLogger(logger, "skills")
	set := newSkillSet()

	if HasInsightModal(doc, logger) {
		logger.Debug("reading skill chips", zap.String(logging.FieldMode, string(ModeModal)))
		for _, sel := range skillChipSelectors {
			for _, chip := range queryAll(doc, sel, logger) {
				if name, ok := chipSkillName(chip, logger); ok {
					set.add(name)
				}
			}
		}
		return set.items
	}

	logger.Debug("scanning skill keywords", zap.String(logging.FieldMode, string(ModeDescription)))
	if text, _, ok := Resolve(doc, workTypeDescriptionRules, NonEmpty, logger); ok {
		for _, name := range ScanSkillKeywords(text) {
			set.add(name)
		}
	}
	for _, sel := range skillInsightSelectors {
		for _, block := range queryAll(doc, sel, logger) {
			for _, name := range ParseSkillsList(block.Text()) {
				set.add(name)
			}
		}
	}
	return set.items
}

// chipSkillName reads the aria-label first, then a nested name node, then the chip's text.
func chipSkillName(chip dom.Element, logger *zap.Logger) (string, bool) {
	if label, ok := chip.Attr("aria-label"); ok {
		if name, ok := ParseSkillLabel(label); ok && textutil.RuneLen(name) < maxSkillLength {
			return name, true
		}
	}
	text := ""
	for _, sel := range skillNameSelectors {
		if node := queryOne(chip, sel, logger); node != nil {
			text = node.Text()
			break
		}
	}
	text = textutil.CollapseSpaces(text)
	if n := textutil.RuneLen(text); n > 0 && n < maxSkillLength {
		return text, true
	}
	return "", false
}
