package fetch

import (
	"net/url"
	"strings"
)

// Platform is an applicant tracking system a posting is hosted on. The value
// doubles as the salary extractor provider key.
type Platform string

const (
	PlatformGreenhouse  Platform = "greenhouse"
	PlatformLever       Platform = "lever"
	PlatformAshby       Platform = "ashby"
	PlatformWorkday     Platform = "workday"
	PlatformYCombinator Platform = "ycombinator"
	PlatformUnknown     Platform = "unknown"
)

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Host)

	switch {
	case strings.HasSuffix(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.HasSuffix(host, "lever.co"):
		return PlatformLever
	case strings.HasSuffix(host, "ashbyhq.com"):
		return PlatformAshby
	case strings.HasSuffix(host, "myworkdayjobs.com"), strings.HasSuffix(host, "workday.com"):
		return PlatformWorkday
	case strings.HasSuffix(host, "ycombinator.com") && strings.Contains(parsed.Path, "/jobs"),
		host == "www.workatastartup.com", host == "workatastartup.com":
		return PlatformYCombinator
	default:
		return PlatformUnknown
	}
}

// RendersClientSide reports whether the platform ships an empty shell that
// needs a browser to produce posting content.
func (p Platform) RendersClientSide() bool {
	return p == PlatformAshby || p == PlatformWorkday
}

// PlatformContentSelectors returns content selectors for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{".job__description.body", ".job__description", ".job-post-container", "#content"}
	case PlatformLever:
		return []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"}
	case PlatformAshby:
		return []string{"[class*='descriptionText']", "#overview", "main"}
	case PlatformWorkday:
		return []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"}
	case PlatformYCombinator:
		return []string{".company-details", ".prose", "main"}
	default:
		return JobPostingSelectors()
	}
}

// PlatformNoiseSelectors returns selectors whose text never carries salary
// information and only confuses the parsers: forms, EEO boilerplate, sharing.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		"#application-form",
		".application-form",
		".apply-button-container",
		".voluntary-disclosure",
		".eeo-statement",
		".eeo-section",
		".self-identification",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(common, ".application--wrapper", ".voluntary-self-id", "#usa_self_id_section")
	case PlatformLever:
		return append(common, ".apply-section", ".posting-apply")
	case PlatformAshby:
		return append(common, "[class*='applicationForm']")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']", ".WDAF")
	default:
		return common
	}
}
