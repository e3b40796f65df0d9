package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitleAndCompany(t *testing.T) {
	doc := loadFixture(t, "job_unified.html", jobPageURL)

	assert.Equal(t, "Senior Backend Developer", ExtractTitle(doc, nil))
	assert.Equal(t, "Acme ApS", ExtractCompany(doc, nil))
}

func TestExtractTitle_GuestPage(t *testing.T) {
	doc := parseHTML(t, `<section class="top-card-layout">
		<h1 class="top-card-layout__title">Data Engineer</h1>
		<h4 class="top-card-layout__second-subline">
			<a class="topcard__org-name-link" href="/company/nordic">  Nordic   Data A/S </a>
			<span class="topcard__flavor topcard__flavor--bullet">Aarhus, Central Denmark Region, Denmark</span>
		</h4>
	</section>`)

	assert.Equal(t, "Data Engineer", ExtractTitle(doc, nil))
	assert.Equal(t, "Nordic Data A/S", ExtractCompany(doc, nil))
	assert.Equal(t, "Aarhus, Central Denmark Region, Denmark", ExtractLocation(doc, nil))
}

func TestExtractTitle_Missing(t *testing.T) {
	doc := parseHTML(t, `<div>nothing here</div>`)
	assert.Empty(t, ExtractTitle(doc, nil))
	assert.Empty(t, ExtractCompany(doc, nil))
}

func TestExtractLocation_RichLinePreferredOverEarlierPlainMatch(t *testing.T) {
	doc := loadFixture(t, "job_unified.html", jobPageURL)

	assert.Equal(t, "Copenhagen, Capital Region, Denmark · 3 days ago · 47 applicants", ExtractLocation(doc, nil))
}

func TestExtractLocation_CompositeString(t *testing.T) {
	doc := parseHTML(t, `
		<span class="job-details-jobs-unified-top-card__bullet">Copenhagen</span>
		<div class="jobs-unified-top-card__primary-description">Copenhagen · 3 days ago · 47 applicants</div>`)

	assert.Equal(t, "Copenhagen · 3 days ago · 47 applicants", ExtractLocation(doc, nil))
}

func TestExtractLocation_Danish(t *testing.T) {
	doc := parseHTML(t, `
		<div class="job-details-jobs-unified-top-card__primary-description-container">
			København, Region Hovedstaden · for 2 uger siden · 12 ansøgere
		</div>`)

	assert.Equal(t, "København, Region Hovedstaden · for 2 uger siden · 12 ansøgere", ExtractLocation(doc, nil))
}

func TestExtractLocation_FallbackSkipsFollowersAndShortText(t *testing.T) {
	doc := parseHTML(t, `
		<span class="job-details-jobs-unified-top-card__bullet">DK</span>
		<span class="jobs-unified-top-card__bullet">12.345 følgere</span>
		<div class="job-details-jobs-unified-top-card__primary-description-container">Odense, Denmark</div>
		<div class="job-details-jobs-unified-top-card__tertiary-description-container">Aalborg, Denmark</div>`)

	assert.Equal(t, "Odense, Denmark", ExtractLocation(doc, nil))
}

func TestExtractLocation_SeparatorWithoutTokenIsPlain(t *testing.T) {
	doc := parseHTML(t, `
		<span class="job-details-jobs-unified-top-card__bullet">Aarhus · Denmark</span>`)

	assert.Equal(t, "Aarhus · Denmark", ExtractLocation(doc, nil))
}

func TestExtractLocation_None(t *testing.T) {
	doc := parseHTML(t, `<span class="job-details-jobs-unified-top-card__bullet">500 employees</span>`)
	assert.Empty(t, ExtractLocation(doc, nil))
}

func TestIsRichLocation(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Copenhagen · 3 days ago · 47 applicants", true},
		{"Aarhus · Reposted 1 week ago", true},
		{"Odense · for 5 timer siden", true},
		{"Odense · Over 100 ansøgere", true},
		{"Copenhagen, Denmark", false},
		{"3 days ago", false},
		{"Aarhus · Denmark", false},
		{"Denmark · Full-time", false},
		{"Aarhus · Monday", false},
		{"Aalborg · Part time", false},
		{"Vejle · Fuldtid · 2 dage", true},
		{"Copenhagen · 1 hour", true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRichLocation(tt.text))
		})
	}
}

func TestExtractDescription_MinimumLength(t *testing.T) {
	forty := strings.Repeat("a", 40)
	fiftyOne := strings.Repeat("b", 51)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"40 characters rejected", forty, ""},
		{"50 characters rejected", strings.Repeat("c", 50), ""},
		{"51 characters accepted", fiftyOne, fiftyOne},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseHTML(t, `<div id="job-details">`+tt.text+`</div>`)
			assert.Equal(t, tt.want, ExtractDescription(doc, nil))
		})
	}
}

func TestExtractDescription_PlaceholderFallsThrough(t *testing.T) {
	long := "Join our platform team and help us scale the Nordic payments infrastructure."
	doc := parseHTML(t, `
		<div class="jobs-description-content__text">Loading…</div>
		<div class="show-more-less-html__markup"><p>`+long+`</p></div>`)

	assert.Equal(t, long, ExtractDescription(doc, nil))
}

func TestExtractDescription_Fixture(t *testing.T) {
	doc := loadFixture(t, "job_unified.html", jobPageURL)

	desc := ExtractDescription(doc, nil)
	assert.True(t, strings.HasPrefix(desc, "About the job\nWe are looking for a backend developer"))
	assert.Contains(t, desc, "Copenhagen office.")
	assert.NotContains(t, desc, "Terraform", "hidden text is not part of the description")
}

func TestExtractApplyURL(t *testing.T) {
	doc := loadFixture(t, "job_unified.html", jobPageURL)

	assert.Equal(t, "https://www.linkedin.com/jobs/view/3912345678/apply/?openSDUIApplyFlow=true", ExtractApplyURL(doc, nil))
}

func TestExtractApplyURL_DefaultsToPageURL(t *testing.T) {
	doc := parseHTML(t, `<a class="other" href="/elsewhere">x</a>`)

	assert.Equal(t, jobPageURL, ExtractApplyURL(doc, nil))
}

func TestExtractApplyURL_SkipsScriptLinks(t *testing.T) {
	doc := parseHTML(t, `
		<a class="jobs-apply-button" href="javascript:void(0)">Easy Apply</a>
		<a class="apply-button" href="https://careers.example.com/jobs/42">Apply on company site</a>`)

	assert.Equal(t, "https://careers.example.com/jobs/42", ExtractApplyURL(doc, nil))
}

func TestExtractPostedDate_PrefersDatetime(t *testing.T) {
	doc := loadFixture(t, "job_unified.html", jobPageURL)
	assert.Equal(t, "2026-10-16", ExtractPostedDate(doc, nil))
}

func TestExtractPostedDate_TextWhenNoDatetime(t *testing.T) {
	doc := parseHTML(t, `<span class="posted-time-ago__text"> 2 weeks ago </span>`)
	assert.Equal(t, "2 weeks ago", ExtractPostedDate(doc, nil))
}

func TestExtractPostedDate_Absent(t *testing.T) {
	doc := parseHTML(t, `<p>no date</p>`)
	assert.Empty(t, ExtractPostedDate(doc, nil))
}
