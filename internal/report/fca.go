package report

import "github.com/gyeh/fraudscan/internal/model"

// Static False Claims Act lookup data keyed by signal type. These strings
// are referral guidance for investigators, not computed by the engine.

var fcaStatutes = map[model.SignalType]string{
	model.SignalExcludedProvider:         "31 U.S.C. §3729(a)(1)(A); 42 U.S.C. §1320a-7b(f)",
	model.SignalBillingOutlier:           "31 U.S.C. §3729(a)(1)(A); 42 U.S.C. §1320a-7a(a)(1)(A)",
	model.SignalRapidEscalation:          "31 U.S.C. §3729(a)(1)(A); 42 CFR §424.530",
	model.SignalWorkforceImpossibility:   "31 U.S.C. §3729(a)(1)(B); 42 U.S.C. §1320a-7b(a)(3)",
	model.SignalSharedOfficial:           "31 U.S.C. §3729(a)(1)(C); 42 U.S.C. §1320a-7b(b)",
	model.SignalGeographicImplausibility: "31 U.S.C. §3729(a)(1)(G); 42 U.S.C. §1395nn(a)",
}

var fcaClaimTypes = map[model.SignalType]string{
	model.SignalExcludedProvider: "Presenting false or fraudulent claims in violation of 31 U.S.C. §3729(a)(1)(A) -- " +
		"provider excluded from Federal healthcare programs under 42 U.S.C. §1320a-7b is " +
		"prohibited from billing Medicaid and all claims submitted post-exclusion constitute " +
		"per se false claims under the FCA",
	model.SignalBillingOutlier: "Presenting false or fraudulent claims through billing volume that materially exceeds " +
		"peer benchmarks, raising an inference of upcoding, unbundling, or services lacking " +
		"medical necessity in violation of 42 U.S.C. §1320a-7a(a)(1)(A); may also implicate " +
		"anti-kickback violations under 42 U.S.C. §1320a-7b(b) if referral relationships " +
		"drove inflated volume",
	model.SignalRapidEscalation: "Presenting false or fraudulent claims consistent with a bust-out fraud pattern -- " +
		"newly enumerated provider exhibits rapid billing escalation characteristic of schemes " +
		"to extract maximum reimbursement before detection; implicates 42 CFR §424.530 " +
		"enrollment integrity requirements and potential fraudulent inducement of enrollment",
	model.SignalWorkforceImpossibility: "Making or using false records or statements material to a false claim under " +
		"31 U.S.C. §3729(a)(1)(B) -- claim volume exceeds physically possible service " +
		"delivery capacity, constituting fabricated records in violation of " +
		"42 U.S.C. §1320a-7b(a)(3) prohibition on false statements material to claims",
	model.SignalSharedOfficial: "Conspiracy to submit false or fraudulent claims under 31 U.S.C. §3729(a)(1)(C) -- " +
		"multiple NPIs under shared authorized official control exhibit coordinated billing " +
		"patterns indicative of organizational fraud through shell entities, potentially " +
		"violating anti-kickback statute 42 U.S.C. §1320a-7b(b) through patient steering " +
		"and self-referrals among controlled entities",
	model.SignalGeographicImplausibility: "Concealing or improperly avoiding an obligation to repay under " +
		"31 U.S.C. §3729(a)(1)(G) (reverse false claims) -- home health provider billing " +
		"pattern with disproportionately low beneficiary-to-claim ratio indicates phantom " +
		"services or repeated billing on same patients, violating geographic service area " +
		"requirements and 42 U.S.C. §1395nn(a) referral limitations",
}

var fcaNextSteps = map[model.SignalType][]string{
	model.SignalExcludedProvider: {
		"Verify current exclusion status via OIG LEIE database (https://exclusions.oig.hhs.gov/) " +
			"and SAM.gov; confirm no reinstatement has been granted",
		"Calculate total Federal healthcare program payments made post-exclusion date for " +
			"treble damages assessment under 31 U.S.C. §3729(a)(1)(G) (current penalty: " +
			"$13,946-$27,894 per claim plus treble damages)",
		"Refer to OIG Hotline (1-800-HHS-TIPS / oig.hhs.gov/fraud/report-fraud/) and " +
			"state Medicaid Fraud Control Unit (MFCU) for coordinated investigation",
		"Review billing entity's compliance program for evidence of knowing participation " +
			"or deliberate ignorance per 31 U.S.C. §3729(b)(1) scienter standard",
	},
	model.SignalBillingOutlier: {
		"Request Recovery Audit Contractor (RAC) or Zone Program Integrity Contractor (ZPIC) " +
			"review of provider's claims for targeted medical record audit",
		"Pull stratified random sample of high-volume claims and request medical records to " +
			"verify medical necessity under 42 CFR §440.230(d)",
		"Compare procedure code distribution against specialty norms to detect upcoding " +
			"(e.g., E&M level inflation) or unbundling violations per NCCI edits",
		"Assess referral patterns for potential anti-kickback statute (AKS) violations under " +
			"42 U.S.C. §1320a-7b(b); refer to OIG if kickback indicators found",
	},
	model.SignalRapidEscalation: {
		"Refer to Medicare Administrative Contractor (MAC) for enrollment verification and " +
			"potential revocation under 42 CFR §424.535 for abuse of billing privileges",
		"Request ZPIC investigation of provider enrollment timeline, practice legitimacy, " +
			"and beneficiary access-to-care documentation",
		"Audit patient records during rapid growth period for phantom billing indicators; " +
			"cross-reference beneficiary identities against OIG identity fraud databases",
		"File referral with state MFCU and OIG Hotline (1-800-HHS-TIPS) citing " +
			"bust-out fraud pattern per OIG Work Plan priorities",
	},
	model.SignalWorkforceImpossibility: {
		"Conduct unannounced site visit to verify staffing levels, operational capacity, " +
			"and physical infrastructure per 42 CFR §447.45 provider participation standards",
		"Subpoena payroll records (W-2s, 1099s) and compare documented workforce against " +
			"claimed service volume; calculate maximum physically deliverable services",
		"Review claims data for impossible scheduling patterns (overlapping services, " +
			"overnight billing, >24 service-hours/day) per MAC audit protocols",
		"Refer to OIG Hotline and state MFCU; request ZPIC data analysis of " +
			"time-of-service patterns across all billing dates",
	},
	model.SignalSharedOfficial: {
		"Investigate corporate structure via Secretary of State filings, IRS EIN records, " +
			"and beneficial ownership disclosures for all controlled NPIs",
		"Request ZPIC cross-entity analysis of billing patterns, shared addresses, phone " +
			"numbers, bank accounts, and beneficiary overlap across controlled NPIs",
		"Assess whether organizational structure was designed to circumvent program billing " +
			"limits or avoid per-provider utilization review under 42 CFR §456",
		"Refer to OIG for potential criminal conspiracy investigation under " +
			"18 U.S.C. §1347 (healthcare fraud) and 18 U.S.C. §371 (conspiracy); " +
			"notify state MFCU for parallel state action",
	},
	model.SignalGeographicImplausibility: {
		"Request RAC or ZPIC audit of home health claims; verify service delivery through " +
			"beneficiary interviews, caregiver logs, and GPS-enabled electronic visit verification (EVV) " +
			"data per 21st Century Cures Act §12006 requirements",
		"Review plans of care (POC) and physician orders for medical necessity under " +
			"42 CFR §440.70; verify ordering physician is not excluded or sanctioned",
		"Cross-reference claimed visit dates against beneficiary hospitalization, SNF admission, " +
			"or out-of-state travel records to identify phantom services",
		"Refer to state MFCU and OIG Hotline (1-800-HHS-TIPS) for investigation of " +
			"potential ghost patient schemes; request MAC claims suspension if warranted " +
			"under 42 CFR §455.23",
	},
}

// FCARelevance is the legal referral block attached to a flagged provider.
type FCARelevance struct {
	ClaimType          string   `json:"claim_type"`
	StatuteReference   string   `json:"statute_reference"`
	SuggestedNextSteps []string `json:"suggested_next_steps"`
}

// buildFCARelevance selects the provider's most severe flag and returns
// its FCA block, so the strongest legal theory leads the referral. On a
// severity tie the lower signal ordinal wins.
func buildFCARelevance(finding *model.Finding) *FCARelevance {
	if len(finding.Flags) == 0 {
		return nil
	}
	best := finding.Flags[0]
	for _, fl := range finding.Flags[1:] {
		if fl.Severity.Rank() > best.Severity.Rank() {
			best = fl
		}
	}
	return &FCARelevance{
		ClaimType:          fcaClaimTypes[best.Signal],
		StatuteReference:   fcaStatutes[best.Signal],
		SuggestedNextSteps: fcaNextSteps[best.Signal],
	}
}
