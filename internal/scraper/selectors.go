// Selector tables for LinkedIn job pages. Ordered most-specific first; the
// cascade stops at the first hit, so the tails are the cheap insurance
// against markup churn between page variants.

package scraper

var jobCardSelectors = []string{
	"li[data-occludable-job-id]",
	"li.jobs-search-results__list-item",
	"li.scaffold-layout__list-item",
	".job-card-container",
	"[data-job-id]",
}

var jobLinkSelectors = []string{
	"a.job-card-container__link",
	"a[href*='/jobs/view/']",
	"a[data-control-id]",
	"a.job-card-list__title-link",
	"a.job-card-list__title--link",
}

var titleSelectors = []string{
	".jobs-unified-top-card__job-title",
	".job-details-jobs-unified-top-card__job-title",
	"h1.jobs-unified-top-card__job-title",
	"h1[data-test-job-title]",
	"h1.t-24",
	"h1",
	".job-card-container__title",
	".job-title",
}

var companySelectors = []string{
	".jobs-unified-top-card__company-name",
	".job-details-jobs-unified-top-card__company-name",
	"a.jobs-unified-top-card__company-name",
	"[data-test-job-company-name]",
	".jobs-details__top-card-company-url",
	".jobs-details__top-card-company-name",
	".job-card-container__company-name",
	".artdeco-entity-lockup__subtitle",
	".company-name",
}

var locationSelectors = []string{
	".jobs-unified-top-card__bullet",
	".job-details-jobs-unified-top-card__bullet",
	".jobs-unified-top-card__workplace-type",
	"[data-test-job-location]",
	".job-card-container__location",
	".location",
}

var postedDateSelectors = []string{
	".jobs-unified-top-card__posted-date",
	".jobs-details-job-summary__text--ellipsis",
	"[data-test-job-posted-date]",
	".job-card-container__posted-date",
	".posted-date",
}

var descriptionSelectors = []string{
	".jobs-description",
	".jobs-description-content",
	"#job-details",
	".jobs-box__html-content",
	"[data-test-job-description]",
}

var descriptionContentSelectors = []string{
	".jobs-description__content.jobs-description-content",
	".jobs-description__content",
	".jobs-description-content",
	".jobs-box__html-content",
	"div.jobs-box__html-content.jobs-description-content__text--stretch",
	"[data-test-job-description]",
	"div.jobs-box__html-content",
}

var seeMoreSelectors = []string{
	"button.jobs-description__footer-button",
	"button[aria-label*='see more']",
	"button[aria-label*='Click to see more description']",
	".jobs-description__footer-button",
	"button[class*='jobs-description__footer-button']",
}

var applyButtonSelectors = []string{
	".jobs-apply-button",
	"#jobs-apply-button-id",
	".jobs-s-apply button",
	".jobs-s-apply .jobs-apply-button",
	"button[aria-label*='Apply']",
}

var skillsSelectors = []string{
	".job-details-jobs-unified-top-card__job-insight-text-button",
	".job-details-jobs-unified-top-card__job-insight button",
	".jobs-unified-top-card__job-insight-text-button",
	"button[aria-label*='Skills']",
	"button[data-tracking-control-name*='skills']",
}

var insightSelectors = []string{
	"li.job-details-jobs-unified-top-card__job-insight",
	".job-details-jobs-unified-top-card__job-insight",
	".jobs-unified-top-card__job-insight",
	".job-details-jobs-unified-top-card__insights li",
	"li.job-details-jobs-unified-top-card__job-insight--highlight",
}

var applicantCountSelectors = []string{
	".jobs-unified-top-card__applicant-count",
	".jobs-details-top-card__applicant-count",
	"[data-test-applicant-count]",
	".jobs-details__top-card-applicant-count",
	".jobs-unified-top-card__subtitle-secondary-grouping span[class*='applicant']",
}

var companyInfoSelectors = []string{
	".jobs-company__box",
	".jobs-company__content",
	".jobs-company-information",
}

var tertiaryContainerSelectors = []string{
	".job-details-jobs-unified-top-card__primary-description-container .job-details-jobs-unified-top-card__tertiary-description-container",
	".job-details-jobs-unified-top-card__tertiary-description-container",
	".jobs-unified-top-card__tertiary-description-container",
}

var textSpanSelectors = []string{
	".tvm__text.tvm__text--low-emphasis",
	".tvm__text",
	"span.tvm__text--low-emphasis",
}

var hiringSectionSelectors = []string{
	".job-details-people-who-can-help__section",
	".jobs-poster",
	".jobs-poster__details",
	".hirer-card",
}

var hiringMemberSelectors = []string{
	".hirer-card__hirer-information",
	".jobs-poster__name",
	".display-flex.align-items-center",
}

var hiringNameSelectors = []string{
	".jobs-poster__name",
	".t-black.jobs-poster__name",
	"strong",
	".text-body-medium-bold strong",
}

var hiringTitleSelectors = []string{
	".text-body-small.t-black",
	".hirer-card__job-poster",
	".jobs-poster__title",
}

var relatedSectionSelectors = []string{
	"ul.card-list.card-list--tile.js-similar-jobs-list",
	".js-similar-jobs-list",
	".similar-jobs",
	".jobs-similar-jobs",
}

var relatedCardSelectors = []string{
	"li.list-style-none",
	".job-card-job-posting-card-wrapper",
	".job-card",
}

var relatedTitleSelectors = []string{
	".artdeco-entity-lockup__title strong",
	".job-card-job-posting-card-wrapper__title strong",
	".job-card__title",
}

var relatedCompanySelectors = []string{
	".artdeco-entity-lockup__subtitle",
	".job-card__company-name",
	".job-card-job-posting-card-wrapper__company",
}
