package library

// Industry is a vertical the organization operates in.
type Industry struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// ComplianceFramework is a regulatory or industry standard with its control requirements.
type ComplianceFramework struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Description      string   `json:"description" yaml:"description"`
	IndustrySpecific []string `json:"industry_specific" yaml:"industry_specific"`
	Requirements     []string `json:"requirements" yaml:"requirements"`
}

type DeploymentType struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

type BusinessDomain struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// AuthenticationMethod describes an access authentication mechanism such as EAP-TLS or MAB.
type AuthenticationMethod struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description" yaml:"description"`
	MethodType    string `json:"method_type" yaml:"method_type"`
	SecurityLevel string `json:"security_level" yaml:"security_level"`
}

type NetworkSegment struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Vendor is a product in one infrastructure category (wired, wireless, mdm, idp, edr, radius, nac).
type Vendor struct {
	ID                      string   `json:"id" yaml:"id"`
	Name                    string   `json:"name" yaml:"name"`
	Description             string   `json:"description" yaml:"description"`
	Category                string   `json:"category" yaml:"category"`
	IntegrationMethods      []string `json:"integration_methods" yaml:"integration_methods"`
	ConfigurationComplexity string   `json:"configuration_complexity" yaml:"configuration_complexity"`
}

// UseCase is a deployable access-control scenario.
type UseCase struct {
	ID                    string   `json:"id" yaml:"id"`
	Name                  string   `json:"name" yaml:"name"`
	Description           string   `json:"description" yaml:"description"`
	ComplianceFrameworks  []string `json:"compliance_frameworks" yaml:"compliance_frameworks"`
	TechnicalRequirements []string `json:"technical_requirements" yaml:"technical_requirements"`
	SupportedVendors      []string `json:"supported_vendors" yaml:"supported_vendors"`
	Complexity            string   `json:"complexity" yaml:"complexity"`
	EstimatedEffortWeeks  float64  `json:"estimated_effort_weeks" yaml:"estimated_effort_weeks"`
	Prerequisites         []string `json:"prerequisites" yaml:"prerequisites"`
	Dependencies          []string `json:"dependencies" yaml:"dependencies"`
}

// Requirement is a control mandated by one or more compliance frameworks.
type Requirement struct {
	ID                   string   `json:"id" yaml:"id"`
	Name                 string   `json:"name" yaml:"name"`
	Description          string   `json:"description" yaml:"description"`
	ComplianceFrameworks []string `json:"compliance_frameworks" yaml:"compliance_frameworks"`
	Priority             string   `json:"priority" yaml:"priority"`
	Category             string   `json:"category" yaml:"category"`
}

// Snapshot is one consistent read of every library collection.
type Snapshot struct {
	Industries            []Industry             `json:"industries" yaml:"industries"`
	ComplianceFrameworks  []ComplianceFramework  `json:"compliance_frameworks" yaml:"compliance_frameworks"`
	DeploymentTypes       []DeploymentType       `json:"deployment_types" yaml:"deployment_types"`
	BusinessDomains       []BusinessDomain       `json:"business_domains" yaml:"business_domains"`
	AuthenticationMethods []AuthenticationMethod `json:"authentication_methods" yaml:"authentication_methods"`
	NetworkSegments       []NetworkSegment       `json:"network_segments" yaml:"network_segments"`
	Vendors               []Vendor               `json:"vendors" yaml:"vendors"`
	UseCases              []UseCase              `json:"use_cases" yaml:"use_cases"`
	Requirements          []Requirement          `json:"requirements" yaml:"requirements"`
}

// Summary counts records per collection.
type Summary struct {
	Industries            int `json:"industries"`
	ComplianceFrameworks  int `json:"complianceFrameworks"`
	DeploymentTypes       int `json:"deploymentTypes"`
	BusinessDomains       int `json:"businessDomains"`
	AuthenticationMethods int `json:"authenticationMethods"`
	NetworkSegments       int `json:"networkSegments"`
	Vendors               int `json:"vendors"`
	UseCases              int `json:"useCases"`
	Requirements          int `json:"requirements"`
}

// Summarize counts the records of each collection in s.
func (s Snapshot) Summarize() Summary {
	return Summary{
		Industries:            len(s.Industries),
		ComplianceFrameworks:  len(s.ComplianceFrameworks),
		DeploymentTypes:       len(s.DeploymentTypes),
		BusinessDomains:       len(s.BusinessDomains),
		AuthenticationMethods: len(s.AuthenticationMethods),
		NetworkSegments:       len(s.NetworkSegments),
		Vendors:               len(s.Vendors),
		UseCases:              len(s.UseCases),
		Requirements:          len(s.Requirements),
	}
}
