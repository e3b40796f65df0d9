package extraction

// Selector tables. Order is priority: the logged-in unified top card first, then the
// public guest page, then generic markup. Reordering changes output.

var titleRules = TextRules(
	".job-details-jobs-unified-top-card__job-title h1",
	".job-details-jobs-unified-top-card__job-title",
	".jobs-unified-top-card__job-title",
	".t-24.job-details-jobs-unified-top-card__job-title",
	"h1.top-card-layout__title",
	".topcard__title",
	"h1",
)

var companyRules = TextRules(
	".job-details-jobs-unified-top-card__company-name a",
	".job-details-jobs-unified-top-card__company-name",
	".jobs-unified-top-card__company-name a",
	".jobs-unified-top-card__company-name",
	"a.topcard__org-name-link",
	".topcard__flavor a",
	".top-card-layout__second-subline a",
)

var locationRules = TextRules(
	".job-details-jobs-unified-top-card__bullet",
	".jobs-unified-top-card__bullet",
	".job-details-jobs-unified-top-card__primary-description-container",
	".job-details-jobs-unified-top-card__tertiary-description-container",
	".jobs-unified-top-card__primary-description",
	".topcard__flavor--bullet",
	".top-card-layout__second-subline",
	".job-details-jobs-unified-top-card__primary-description-without-tagline",
)

var descriptionRules = TextRules(
	".jobs-description__content .jobs-box__html-content",
	".jobs-description-content__text",
	".jobs-box__html-content",
	"#job-details",
	".show-more-less-html__markup",
	`[data-testid="expandable-text-box"]`,
	".description__text",
	"article.jobs-description__container",
)

// applySelectors are read for their href, resolved against the page URL.
var applySelectors = []string{
	"a.jobs-apply-button[href]",
	".jobs-apply-button--top-card a[href]",
	".jobs-s-apply a[href]",
	"a.apply-button[href]",
	`a[data-tracking-control-name="public_jobs_apply-link-offsite"][href]`,
	`a[data-control-name="jobdetails_topcard_inapply"][href]`,
}

var postedDateRules = []Rule{
	DateTimeRule(".job-details-jobs-unified-top-card__primary-description-container time"),
	DateTimeRule(".jobs-unified-top-card__posted-date"),
	DateTimeRule(".posted-time-ago__text"),
	DateTimeRule(".topcard__flavor--metadata time"),
	DateTimeRule("time[datetime]"),
}

// workTypeDescriptionRules feed the description-text work type fallback.
var workTypeDescriptionRules = TextRules(
	".jobs-description__content",
	".jobs-description-content__text",
	"#job-details",
	".show-more-less-html__markup",
	".description__text",
	`[data-testid="expandable-text-box"]`,
	".job-details-jobs-unified-top-card__job-insight",
)

// insightModalSelectors detect an open skills / qualifications insight modal.
var insightModalSelectors = []string{
	".job-details-skill-match-modal",
	`[data-test-modal-id="skill-match-modal"]`,
	`.artdeco-modal .job-details-skill-match-status-list`,
	`[role="dialog"] .job-details-preferences-and-skills`,
}

// requirementItemSelectors are queried as one union so items come back in document order.
var requirementItemSelectors = []string{
	".job-details-skill-match-modal .job-details-preferences-and-skills__pill",
	".job-details-skill-match-modal li.job-details-skill-match-modal__requirement",
	`[data-test-modal-id="skill-match-modal"] li`,
	`[role="dialog"] .job-details-preferences-and-skills li`,
}

// skillChipSelectors are concatenated in table order; a chip matching several
// selectors is deduplicated by name.
var skillChipSelectors = []string{
	".job-details-skill-match-status-list__matched-skill",
	".job-details-skill-match-status-list__unmatched-skill",
	".job-details-skill-match-modal .skill-chip",
	`[data-test-modal-id="skill-match-modal"] [aria-label*="skill"]`,
}

// skillNameSelectors locate the name node nested in a chip.
var skillNameSelectors = []string{
	".job-details-skill-match-status-list__skill-name",
	".skill-chip__name",
	`span[aria-hidden="true"]`,
}

// skillInsightSelectors are top-card containers that list skills inline.
var skillInsightSelectors = []string{
	".job-details-jobs-unified-top-card__job-insight",
	".jobs-unified-top-card__job-insight",
	".job-details-how-you-match__skills-item-subtitle",
}

// showMoreSelectors are expand-description controls. At most one is clicked.
var showMoreSelectors = []string{
	"button.jobs-description__footer-button",
	`button[aria-label="Click to see more description"]`,
	`button[aria-label="Klik for at se mere beskrivelse"]`,
	"button.show-more-less-html__button--more",
	".inline-show-more-text__button",
	"button.jobs-description__see-more",
}

// insightDataSelectors are the explicit data attributes on the insight button.
var insightDataSelectors = []string{
	"button[data-job-details-skill-match-button]",
	`button[data-control-name="job_details_skill_match"]`,
	`[data-view-name="job-details-how-you-match-card"] button`,
	`button[data-test-skill-match-button]`,
}

// insightLabelFragments are matched case-insensitively against button aria-labels, in order.
var insightLabelFragments = []string{
	"show qualification details",
	"see how you match",
	"show skills",
	"vis kvalifikationsdetaljer",
	"se hvordan du matcher",
	"vis kompetencer",
}

// insightKeywords drive the broad scan over button text, aria-label and class.
var insightKeywords = []string{
	"skill",
	"qualification",
	"how you match",
	"match details",
	"insight",
	"kompetence",
	"kvalifikation",
	"færdighed",
}

// jobLinkSelectors are applied together; every match is considered.
var jobLinkSelectors = []string{
	"a.job-card-container__link",
	"a.job-card-list__title",
	".jobs-search-results__list-item a[href]",
	".scaffold-layout__list-item a[href]",
	"a.base-card__full-link",
	"a.result-card__full-card-link",
	`a[href*="/jobs/view/"]`,
}
