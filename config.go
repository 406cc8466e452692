package rulefetch

import "time"

// Config is the immutable configuration shared by a run's components.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Timeouts   TimeoutConfig    `yaml:"timeouts"`
	Controls   ControlConfig    `yaml:"controls"`
	Validation ValidationConfig `yaml:"validation"`
	Scrape     ScrapeConfig     `yaml:"scrape"`
	Classifier ClassifierConfig `yaml:"classifier"`

	// Delay is the minimum interval between section acquisitions.
	Delay time.Duration `yaml:"delay"`

	// ManifestMaxAge bounds how long a manifest is trusted as a skip list
	// and how long downloaded artifacts are considered fresh.
	ManifestMaxAge time.Duration `yaml:"manifest_max_age"`

	// ArtifactPrefix prefixes downloaded artifact file names.
	ArtifactPrefix string `yaml:"artifact_prefix"`
}

// SiteConfig describes the source site.
type SiteConfig struct {
	BaseURL string `yaml:"base_url"`
	TOCURL  string `yaml:"toc_url"`

	// SectionURLTemplate builds a section page URL; "{ruleNumber}" is
	// replaced by the rule number.
	SectionURLTemplate string `yaml:"section_url_template"`

	// SectionLinkToken and LawCode must both appear in a TOC hyperlink for
	// it to count as a section link.
	SectionLinkToken string `yaml:"section_link_token"`
	LawCode          string `yaml:"law_code"`

	// TitlePrefix is used for generated titles ("CCP Section 12").
	TitlePrefix string `yaml:"title_prefix"`
}

// TimeoutConfig bounds each browser operation. A timed-out operation fails
// the current strategy only.
type TimeoutConfig struct {
	PageLoad       time.Duration `yaml:"page_load"`
	TOCSettle      time.Duration `yaml:"toc_settle"`
	SectionSettle  time.Duration `yaml:"section_settle"`
	TOCDownload    time.Duration `yaml:"toc_download"`
	Download       time.Duration `yaml:"download"`
	ScriptDownload time.Duration `yaml:"script_download"`
	Render         time.Duration `yaml:"render"`
	Scrape         time.Duration `yaml:"scrape"`
}

// ControlConfig lists the page controls the acquisition strategies look for.
type ControlConfig struct {
	TOCPrintSelectors    []string `yaml:"toc_print_selectors"`
	DownloadSelectors    []string `yaml:"download_selectors"`
	DownloadText         string   `yaml:"download_text"`
	PrintSelectors       []string `yaml:"print_selectors"`
	PrintText            string   `yaml:"print_text"`
	ScriptTriggerFormSel string   `yaml:"script_trigger_form"`
	ScriptTrigger        string   `yaml:"script_trigger"`
}

// ValidationConfig drives the content validator.
type ValidationConfig struct {
	MinDocumentBytes   int64    `yaml:"min_document_bytes"`
	MinRawTextChars    int      `yaml:"min_raw_text_chars"`
	PlaceholderPhrases []string `yaml:"placeholder_phrases"`

	// TOCPlaceholderPhrases replace PlaceholderPhrases for the table of
	// contents, whose page chrome carries several section placeholders.
	TOCPlaceholderPhrases []string `yaml:"toc_placeholder_phrases"`
}

// ScrapeConfig drives the raw-text fallback scrape.
type ScrapeConfig struct {
	ContentSelectors []string `yaml:"content_selectors"`
	RemoveSelectors  []string `yaml:"remove_selectors"`
	LineBlocklist    []string `yaml:"line_blocklist"`
	MinRegionChars   int      `yaml:"min_region_chars"`
	MinLineChars     int      `yaml:"min_line_chars"`
}

// Range is an inclusive numeric range of rule numbers.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// ExclusionRange rejects sections that are structurally out of scope.
type ExclusionRange struct {
	Range  `yaml:",inline"`
	Reason string `yaml:"reason"`
}

// InclusionRange accepts sections that answer a filing question.
type InclusionRange struct {
	Range    `yaml:",inline"`
	Category Category `yaml:"category"`
	Label    string   `yaml:"label"`
}

// Keyword is a title term that counts toward a category.
type Keyword struct {
	Term     string   `yaml:"term"`
	Category Category `yaml:"category"`
}

// KeywordTier groups keywords that share a point weight.
type KeywordTier struct {
	Name     string    `yaml:"name"`
	Weight   int       `yaml:"weight"`
	Keywords []Keyword `yaml:"keywords"`
}

// ClassifierConfig holds the classifier's static tables.
type ClassifierConfig struct {
	Exclusions           []ExclusionRange   `yaml:"exclusions"`
	Inclusions           []InclusionRange   `yaml:"inclusions"`
	Tiers                []KeywordTier      `yaml:"tiers"`
	StrictExclusionTerms []string           `yaml:"strict_exclusion_terms"`
	Threshold            int                `yaml:"threshold"`
	Critical             []SectionReference `yaml:"critical"`
}

// DefaultConfig returns the configuration for the California Code of Civil
// Procedure on leginfo.legislature.ca.gov. Classifier tables are left empty;
// see classify.DefaultConfig.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			BaseURL:            "https://leginfo.legislature.ca.gov",
			TOCURL:             "https://leginfo.legislature.ca.gov/faces/codedisplayexpand.xhtml?tocCode=CCP",
			SectionURLTemplate: "https://leginfo.legislature.ca.gov/faces/codes_displaySection.xhtml?lawCode=CCP&sectionNum={ruleNumber}",
			SectionLinkToken:   "codes_displaySection",
			LawCode:            "CCP",
			TitlePrefix:        "CCP Section",
		},
		Timeouts: TimeoutConfig{
			PageLoad:       15 * time.Second,
			TOCSettle:      2 * time.Second,
			SectionSettle:  1 * time.Second,
			TOCDownload:    30 * time.Second,
			Download:       15 * time.Second,
			ScriptDownload: 10 * time.Second,
			Render:         30 * time.Second,
			Scrape:         15 * time.Second,
		},
		Controls: ControlConfig{
			TOCPrintSelectors: []string{
				"#codes_print a",
				`a[title*="Print"]`,
				`a[onclick*="window.print"]`,
				`img[alt="print page"]`,
				`[title*="print"]`,
				`[title*="PDF"]`,
			},
			DownloadSelectors: []string{
				`#displayCodeSection\:pdf_link`,
				`a[id*="pdf_link"]`,
			},
			DownloadText: "PDF",
			PrintSelectors: []string{
				`button[onclick*="printPopup"]`,
				`a[onclick*="printPopup"]`,
				`[title*="Print"]`,
			},
			PrintText:            "print",
			ScriptTriggerFormSel: "#displayCodeSection",
			ScriptTrigger: `() => {
	const el = document.querySelector('[id*="pdf_link"]');
	if (!el) { return false; }
	el.click();
	return true;
}`,
		},
		Validation: ValidationConfig{
			MinDocumentBytes: 1000,
			MinRawTextChars:  50,
			PlaceholderPhrases: []string{
				"required pdf file not available",
				"please try again sometime later",
				"code: select code",
				"search phrase:",
				"bill information",
				"california law",
				"publications",
				"other resources",
			},
			TOCPlaceholderPhrases: []string{
				"required pdf file not available",
				"please try again sometime later",
			},
		},
		Scrape: ScrapeConfig{
			ContentSelectors: []string{
				"#displayCodeSection",
				".main-content",
				".content",
				".law-content",
				".section-content",
				"main",
				"article",
			},
			RemoveSelectors: []string{
				"nav", ".nav", ".navigation",
				"header", ".header",
				"footer", ".footer",
				".breadcrumb", ".breadcrumbs",
				".sidebar", ".side-nav",
				"script", "style",
				".search", ".search-box",
				".print-button", ".pdf-button",
				".social-media", ".share-buttons",
			},
			LineBlocklist: []string{
				"search phrase",
				"bill information",
				"california law",
				"publications",
				"other resources",
				"my subscriptions",
				"my favorites",
				"add to my favorites",
				"cross-reference",
				"previous",
				"next",
				"home",
				"search",
				"highlight",
			},
			MinRegionChars: 100,
			MinLineChars:   10,
		},
		Delay:          2 * time.Second,
		ManifestMaxAge: 24 * time.Hour,
		ArtifactPrefix: "ccp_section",
	}
}
