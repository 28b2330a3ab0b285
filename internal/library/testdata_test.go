package library

func testSnapshot() Snapshot {
	return Snapshot{
		Industries: []Industry{{ID: "healthcare", Name: "Healthcare"}},
		ComplianceFrameworks: []ComplianceFramework{{
			ID:               "hipaa",
			Name:             "HIPAA",
			IndustrySpecific: []string{"Healthcare"},
			Requirements:     []string{"encryption"},
		}},
		Vendors: []Vendor{{ID: "okta", Name: "Okta", Category: "idp", IntegrationMethods: []string{"SAML"}}},
		UseCases: []UseCase{{
			ID:                   "onboarding",
			Name:                 "Onboarding",
			ComplianceFrameworks: []string{"HIPAA"},
			EstimatedEffortWeeks: 2,
		}},
	}
}
