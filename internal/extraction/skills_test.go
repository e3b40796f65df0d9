package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkillLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
		ok    bool
	}{
		{"Your profile has Go as a skill", "Go", true},
		{"Your profile does not show Kubernetes as a skill", "Kubernetes", true},
		{"Your profile shows no Project Management as a competency", "Project Management", true},
		{"Din profil har C# som kompetence", "C#", true},
		{"Din profil viser ikke Terraform som en kompetence", "Terraform", true},
		{"Din profil har Scrum som færdighed", "Scrum", true},
		{"Show qualification details", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParseSkillLabel(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanSkillKeywords(t *testing.T) {
	text := "We use TypeScript, React and Node.js on AWS. Experience with C#, .NET or C++ is a plus. We work agile."

	skills := ScanSkillKeywords(text)

	assert.Equal(t, []string{"typescript", "react", "node.js", "c#", ".net", "c++", "aws", "agile"}, skills)
}

func TestScanSkillKeywords_WholeWordsOnly(t *testing.T) {
	skills := ScanSkillKeywords("A reactive mindset, trust and javascript skills; nosql is fine")

	assert.Equal(t, []string{"javascript"}, skills)
}

func TestScanSkillKeywords_Empty(t *testing.T) {
	assert.Empty(t, ScanSkillKeywords(""))
}

func TestParseSkillsList(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"english with more counter", "Skills: Go, PostgreSQL, Kubernetes, +5 more", []string{"Go", "PostgreSQL", "Kubernetes"}},
		{"and separator", "Skills: Python and SQL", []string{"Python", "SQL"}},
		{"danish", "Kompetencer: Java, Spring og Kafka", []string{"Java", "Spring", "Kafka"}},
		{"no label", "Full-time · Mid-Senior level", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSkillsList(tt.text))
		})
	}
}

func TestExtractSkills_ModalDedupIsCaseSensitive(t *testing.T) {
	doc := parseHTML(t, `
		<div class="job-details-skill-match-modal">
			<ul>
				<li class="job-details-skill-match-status-list__matched-skill" aria-label="Your profile has C# as a skill">C#</li>
				<li class="job-details-skill-match-status-list__matched-skill" aria-label="Your profile has c# as a skill">c#</li>
				<li class="job-details-skill-match-status-list__matched-skill" aria-label="Your profile has C# as a skill">C#</li>
			</ul>
		</div>`)

	assert.Equal(t, []string{"C#", "c#"}, ExtractSkills(doc, nil))
}

func TestExtractSkills_ModalFixture(t *testing.T) {
	doc := loadFixture(t, "job_unified.html", jobPageURL)
	_, opened := OpenSkillsInsight(doc, nil)
	require.True(t, opened)

	assert.Equal(t, []string{"C#", "c#", "Kubernetes"}, ExtractSkills(doc, nil))
}

func TestExtractSkills_NameNodeFallbackAndLengthLimit(t *testing.T) {
	doc := parseHTML(t, `
		<div class="job-details-skill-match-modal">
			<li class="job-details-skill-match-status-list__unmatched-skill" aria-label="Skill chip">
				<span class="job-details-skill-match-status-list__skill-name">Docker</span>
			</li>
			<li class="job-details-skill-match-status-list__unmatched-skill">
				This chip contains a whole sentence that is far too long to be a skill name
			</li>
			<li class="job-details-skill-match-status-list__unmatched-skill"> </li>
			<li class="job-details-skill-match-status-list__unmatched-skill">Terraform</li>
		</div>`)

	assert.Equal(t, []string{"Docker"}, ExtractSkills(doc, nil))
}

func TestExtractSkills_FallbackAccumulatesSources(t *testing.T) {
	doc := loadFixture(t, "job_unified.html", jobPageURL)

	skills := ExtractSkills(doc, nil)

	assert.Equal(t, []string{
		"golang", "aws", "postgresql", "docker", "agile", "scrum",
		"Go", "PostgreSQL", "Kubernetes",
	}, skills)
}

func TestExtractSkills_NothingFound(t *testing.T) {
	doc := parseHTML(t, `<p>no skills</p>`)

	skills := ExtractSkills(doc, nil)

	assert.NotNil(t, skills)
	assert.Empty(t, skills)
}
