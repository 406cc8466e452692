package classify

import "github.com/fwojciec/rulefetch"

// DefaultThreshold is the minimum keyword score for acceptance.
const DefaultThreshold = 8

// DefaultConfig returns the tables for the Code of Civil Procedure.
// Exclusions are checked before inclusions, so an overlapping range such as
// 664-670 resolves to exclusion.
func DefaultConfig() rulefetch.ClassifierConfig {
	return rulefetch.ClassifierConfig{
		Exclusions:           exclusions(),
		Inclusions:           inclusions(),
		Tiers:                tiers(),
		StrictExclusionTerms: strictExclusionTerms(),
		Threshold:            DefaultThreshold,
		Critical:             critical(),
	}
}

func exclude(min, max float64, reason string) rulefetch.ExclusionRange {
	return rulefetch.ExclusionRange{Range: rulefetch.Range{Min: min, Max: max}, Reason: reason}
}

func include(min, max float64, cat rulefetch.Category, label string) rulefetch.InclusionRange {
	return rulefetch.InclusionRange{Range: rulefetch.Range{Min: min, Max: max}, Category: cat, Label: label}
}

func exclusions() []rulefetch.ExclusionRange {
	return []rulefetch.ExclusionRange{
		exclude(680, 699.5, "Post-judgment enforcement procedures"),
		exclude(699.5, 699.799, "Property exemptions"),
		exclude(700, 724.999, "Post-judgment execution and levy procedures"),
		exclude(726, 799, "Post-judgment asset seizure procedures"),
		exclude(340, 366, "Limitation periods"),
		exclude(377, 391, "Statute of limitations"),
		exclude(631, 658, "Trial procedures"),
		exclude(664, 679, "Trial outcomes"),
		exclude(1000.1, 1000.5, "Evidence presentation"),
		exclude(190, 237, "Jury selection and trial"),
		exclude(607, 630, "Trial management"),
	}
}

func inclusions() []rulefetch.InclusionRange {
	const (
		when   = rulefetch.CategoryWhen
		how    = rulefetch.CategoryHow
		where  = rulefetch.CategoryWhere
		what   = rulefetch.CategoryWhat
		who    = rulefetch.CategoryWho
		format = rulefetch.CategoryFormat
	)
	return []rulefetch.InclusionRange{
		include(12, 12, when, "Time computation rules"),
		include(12, 12.5, when, "Calendar and court days"),
		include(1005, 1005, when, "Motion filing deadlines"),
		include(1012, 1013, when, "Service timing extensions"),
		include(430.30, 430.30, when, "Demurrer filing deadlines"),
		include(2024.020, 2024.020, when, "Discovery cutoff deadlines"),
		include(2025.480, 2025.480, when, "Deposition motion deadlines"),
		include(2030.300, 2030.300, when, "Interrogatory motion deadlines"),
		include(2031.310, 2031.310, when, "Document production deadlines"),
		include(659, 663, when, "Post-trial motion deadlines"),
		include(36, 36, when, "Court calendar preferences"),

		include(430.10, 430.41, how, "Demurrer procedures"),
		include(425.10, 425.13, how, "Complaint format"),
		include(431.30, 431.40, how, "Answer format"),
		include(435, 437, how, "Motion to strike procedures"),
		include(437, 438, how, "Summary judgment procedures"),
		include(1010, 1014, how, "Service procedures"),
		include(472, 472, how, "Amendment procedures"),
		include(1003, 1003, how, "Ex parte application procedures"),
		include(1048, 1048, how, "Case consolidation procedures"),

		include(392, 401, where, "Venue requirements"),
		include(410.10, 418.11, where, "Jurisdiction for filing"),

		include(426.10, 426.50, what, "Cross-complaint requirements"),
		include(2025.010, 2025.020, what, "Deposition notice requirements"),
		include(2030.010, 2030.030, what, "Interrogatory requirements"),
		include(2031.010, 2031.030, what, "Document request requirements"),

		include(367, 367, who, "Capacity to sue"),
		include(372, 373, who, "Attorney authority"),

		include(128.7, 128.7, format, "Document format standards"),

		include(473, 473, how, "Relief from filing errors"),
		include(664, 670, how, "Judgment filing requirements"),
		include(1086, 1086, how, "Writ filing procedures"),
		include(1094.5, 1094.6, how, "Administrative mandate filing"),
	}
}

func keywords(cat rulefetch.Category, terms ...string) []rulefetch.Keyword {
	out := make([]rulefetch.Keyword, len(terms))
	for i, t := range terms {
		out[i] = rulefetch.Keyword{Term: t, Category: cat}
	}
	return out
}

func join(lists ...[]rulefetch.Keyword) []rulefetch.Keyword {
	var out []rulefetch.Keyword
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func tiers() []rulefetch.KeywordTier {
	return []rulefetch.KeywordTier{
		{
			Name:   "primary",
			Weight: 4,
			Keywords: join(
				keywords(rulefetch.CategoryWhen,
					"deadline", "within", "days", "time limit", "before", "after",
					"calendar days", "court days", "business days",
					"filing deadline", "service deadline", "notice deadline",
					"cutoff", "time computation", "extension", "late filing"),
				keywords(rulefetch.CategoryHow,
					"procedure", "method", "process", "steps", "requirements",
					"filing procedure", "service procedure", "electronic filing",
					"mail service", "personal service", "proof of service",
					"meet and confer", "notice requirements", "application procedure"),
				keywords(rulefetch.CategoryWhere,
					"venue", "jurisdiction", "proper court", "county", "district",
					"where to file", "court location", "filing location",
					"transfer", "forum", "proper forum"),
				keywords(rulefetch.CategoryWhat,
					"shall contain", "must contain", "shall include", "must include",
					"required contents", "required elements", "separate statement",
					"points and authorities", "supporting declaration", "exhibits",
					"notice of motion", "memorandum", "brief", "attachment"),
				keywords(rulefetch.CategoryWho,
					"capacity", "authority", "standing", "who may file",
					"attorney", "party", "representative", "agent",
					"verification", "sworn", "under penalty of perjury"),
				keywords(rulefetch.CategoryFormat,
					"format", "formatting", "caption", "title", "heading",
					"font", "margins", "spacing", "numbering", "page limits",
					"document format", "pleading format", "form", "template",
					"typed", "written", "legible", "paper size"),
			),
		},
		{
			Name:   "procedural",
			Weight: 3,
			Keywords: join(
				keywords(rulefetch.CategoryHow,
					"filing", "filed", "service", "served", "summons",
					"complaint", "pleading", "motion", "ex parte", "demurrer"),
				keywords(rulefetch.CategoryWhat,
					"discovery", "deposition", "interrogator", "request for admission",
					"document production", "opposition", "reply", "judgment"),
				keywords(rulefetch.CategoryWhen,
					"time calculation", "trial setting", "calendar", "dismissal for delay"),
			),
		},
		{
			Name:   "administrative",
			Weight: 2,
			Keywords: join(
				keywords(rulefetch.CategoryWhere,
					"clerk", "court clerk", "filing office", "docket"),
				keywords(rulefetch.CategoryWhat,
					"case number", "papers", "documents"),
				keywords(rulefetch.CategoryFormat,
					"header", "footer", "page numbering", "pagination", "font size"),
			),
		},
	}
}

func strictExclusionTerms() []string {
	return []string{
		"property exemption", "homestead exemption", "wage exemption", "personal property exemption",
		"exempt property", "exempt assets", "exemption from execution",
		"wage garnishment", "earnings withholding", "garnishment procedure",
		"writ of execution", "execution procedures", "levy", "seizure",
		"judgment debtor examination", "debtor examination", "asset examination",
		"third-party claim", "claim of exemption", "claim procedures",
		"real property sale", "execution sale", "property auction",
		"distribution of proceeds", "sale proceeds", "sheriff sale",
		"lien on real property", "real property lien", "property liens",
		"attachment of property", "property attachment", "asset seizure",
		"damages", "liability", "breach", "tort", "contract",
		"negligence", "fraud", "defamation",
		"jury verdict", "trial outcome", "evidence rules",
		"witness examination", "closing arguments", "trial testimony",
		"jury selection", "substantive law",
		"criminal", "felony", "misdemeanor", "sentence", "punishment",
	}
}

func critical() []rulefetch.SectionReference {
	return []rulefetch.SectionReference{
		{RuleNumber: "437c", Title: "CCP Section 437c - Summary Judgment Motion Requirements (WHAT: Notice, Separate Statement, Points & Authorities, Evidence)"},
		{RuleNumber: "1005", Title: "CCP Section 1005 - Motion Filing Deadlines (WHEN: 16 court days notice, 9 days opposition, 5 days reply)"},
		{RuleNumber: "1013", Title: "CCP Section 1013 - Service Time Extensions (WHEN: +5 days CA, +10 out-of-state, +2 court days fax)"},
		{RuleNumber: "1013a", Title: "CCP Section 1013a - Additional Service Time Extensions (WHEN: Extended deadlines)"},
		{RuleNumber: "12", Title: "CCP Section 12 - Time Computation Rules (WHEN: How to calculate filing deadlines)"},
		{RuleNumber: "12a", Title: "CCP Section 12a - Holiday Extensions (WHEN: Holiday deadline extensions)"},
		{RuleNumber: "12c", Title: "CCP Section 12c - Weekend and Holiday Computations (WHEN: Weekend/holiday deadline rules)"},
		{RuleNumber: "430.30", Title: "CCP Section 430.30 - Demurrer Filing Deadline (WHEN: 30 days after service)"},
		{RuleNumber: "2024.020", Title: "CCP Section 2024.020 - Discovery Cutoff (WHEN: 30 days before trial)"},
		{RuleNumber: "2030.300", Title: "CCP Section 2030.300 - Motion to Compel Interrogatories (WHEN: 45-day deadline)"},
		{RuleNumber: "2031.310", Title: "CCP Section 2031.310 - Motion to Compel Documents (WHEN: 45-day deadline)"},
		{RuleNumber: "2025.480", Title: "CCP Section 2025.480 - Motion to Compel Deposition (WHEN: 60-day deadline)"},
		{RuleNumber: "1010", Title: "CCP Section 1010 - Service Methods (HOW: Mail, personal, electronic service procedures)"},
		{RuleNumber: "1010.5", Title: "CCP Section 1010.5 - Additional Service Methods (HOW: Alternative service procedures)"},
		{RuleNumber: "1010.6", Title: "CCP Section 1010.6 - Electronic Filing Procedures (HOW: Electronic service requirements)"},
		{RuleNumber: "430.10", Title: "CCP Section 430.10 - Demurrer Grounds (HOW: Proper grounds for demurrer)"},
		{RuleNumber: "430.20", Title: "CCP Section 430.20 - Demurrer Procedure (HOW: Filing procedure for demurrer)"},
		{RuleNumber: "430.40", Title: "CCP Section 430.40 - Demurrer Hearing Procedures (HOW: Court hearing procedures)"},
		{RuleNumber: "430.41", Title: "CCP Section 430.41 - Meet and Confer for Demurrer (HOW: Required meet and confer procedure)"},
		{RuleNumber: "435", Title: "CCP Section 435 - Motion to Strike Procedure (HOW: Filing motion to strike)"},
		{RuleNumber: "436", Title: "CCP Section 436 - Grounds for Motion to Strike (HOW: Proper strike motion grounds)"},
		{RuleNumber: "472", Title: "CCP Section 472 - Amendment Procedure (HOW: How to amend pleadings)"},
		{RuleNumber: "472a", Title: "CCP Section 472a - Amendment by Right (HOW: Automatic amendment procedures)"},
		{RuleNumber: "472c", Title: "CCP Section 472c - Amendment by Leave (HOW: Court permission for amendments)"},
		{RuleNumber: "472d", Title: "CCP Section 472d - Amendment Requirements (HOW: Amendment format requirements)"},
		{RuleNumber: "1003", Title: "CCP Section 1003 - Ex Parte Application Procedure (HOW: Emergency filing procedures)"},
		{RuleNumber: "473", Title: "CCP Section 473 - Relief from Default (HOW: Procedure to fix filing errors)"},
		{RuleNumber: "410.10", Title: "CCP Section 410.10 - Jurisdiction (WHERE: Proper court for filing)"},
		{RuleNumber: "425.10", Title: "CCP Section 425.10 - Complaint Contents (WHAT: Required complaint elements)"},
		{RuleNumber: "425.11", Title: "CCP Section 425.11 - Complaint Caption (WHAT: Caption format requirements)"},
		{RuleNumber: "425.12", Title: "CCP Section 425.12 - Verification Requirements (WHAT: When verification required)"},
		{RuleNumber: "425.13", Title: "CCP Section 425.13 - Additional Complaint Requirements (WHAT: Special complaint elements)"},
		{RuleNumber: "431.30", Title: "CCP Section 431.30 - Answer Contents (WHAT: Required answer elements)"},
		{RuleNumber: "431.40", Title: "CCP Section 431.40 - Answer Requirements (WHAT: Additional answer requirements)"},
		{RuleNumber: "426.10", Title: "CCP Section 426.10 - Cross-Complaint Requirements (WHAT: Required cross-complaint elements)"},
		{RuleNumber: "426.30", Title: "CCP Section 426.30 - Cross-Complaint Procedures (WHAT: Cross-complaint filing requirements)"},
		{RuleNumber: "426.50", Title: "CCP Section 426.50 - Related Cross-Complaint Rules (WHAT: Additional cross-complaint requirements)"},
		{RuleNumber: "1014", Title: "CCP Section 1014 - Proof of Service (WHAT: Required proof of service contents)"},
		{RuleNumber: "2025.010", Title: "CCP Section 2025.010 - Deposition Notice (WHAT: Required deposition notice contents)"},
		{RuleNumber: "2030.010", Title: "CCP Section 2030.010 - Interrogatory Requirements (WHAT: Required interrogatory format)"},
		{RuleNumber: "2031.010", Title: "CCP Section 2031.010 - Document Request Requirements (WHAT: Required document request format)"},
		{RuleNumber: "2033.010", Title: "CCP Section 2033.010 - Request for Admissions (WHAT: Required admission request format)"},
		{RuleNumber: "664", Title: "CCP Section 664 - Judgment Filing Requirements (WHAT: Required judgment contents)"},
		{RuleNumber: "664.5", Title: "CCP Section 664.5 - Additional Judgment Requirements (WHAT: Supplemental judgment contents)"},
		{RuleNumber: "664.6", Title: "CCP Section 664.6 - Judgment Format Requirements (WHAT: Judgment formatting rules)"},
		{RuleNumber: "667", Title: "CCP Section 667 - Judgment Entry Requirements (WHAT: Judgment entry procedures)"},
		{RuleNumber: "670", Title: "CCP Section 670 - Judgment Filing Procedures (WHAT: Judgment filing requirements)"},
		{RuleNumber: "367", Title: "CCP Section 367 - Capacity to Sue (WHO: Who has authority to file)"},
		{RuleNumber: "128.7", Title: "CCP Section 128.7 - Document Format Standards (FORMAT: Required document formatting)"},
		{RuleNumber: "659", Title: "CCP Section 659 - New Trial Motion (WHEN/HOW: Post-trial motion procedures)"},
		{RuleNumber: "659a", Title: "CCP Section 659a - New Trial Motion Requirements (WHAT: Required new trial motion contents)"},
		{RuleNumber: "663", Title: "CCP Section 663 - JNOV Motion (WHEN/HOW: Judgment notwithstanding verdict procedures)"},
		{RuleNumber: "2016.010", Title: "CCP Section 2016.010 - Discovery Definitions (WHAT: Discovery procedure definitions)"},
		{RuleNumber: "2023.010", Title: "CCP Section 2023.010 - Discovery Sanctions (HOW: Discovery violation procedures)"},
		{RuleNumber: "1086", Title: "CCP Section 1086 - Writ of Mandate Filing (WHAT/HOW: Required petition contents and procedure)"},
		{RuleNumber: "1094.5", Title: "CCP Section 1094.5 - Administrative Mandate Filing (WHAT/HOW: Required administrative petition contents)"},
		{RuleNumber: "1094.6", Title: "CCP Section 1094.6 - Administrative Mandate Procedures (HOW: Administrative petition procedures)"},
		{RuleNumber: "527", Title: "CCP Section 527 - TRO Filing Requirements (WHAT/HOW: Emergency relief filing requirements)"},
	}
}
