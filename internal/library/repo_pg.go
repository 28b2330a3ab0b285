package library

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PGReader reads active library rows from Postgres.
type PGReader struct {
	DB *sqlx.DB
}

// NewPGReader constructs a Postgres-backed Reader.
func NewPGReader(db *sqlx.DB) *PGReader {
	return &PGReader{DB: db}
}

type basicRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

type frameworkRow struct {
	basicRow
	IndustrySpecific pq.StringArray `db:"industry_specific"`
	Requirements     pq.StringArray `db:"requirements"`
}

type authMethodRow struct {
	basicRow
	MethodType    string `db:"method_type"`
	SecurityLevel string `db:"security_level"`
}

type vendorRow struct {
	basicRow
	Category                string         `db:"category"`
	IntegrationMethods      pq.StringArray `db:"integration_methods"`
	ConfigurationComplexity string         `db:"configuration_complexity"`
}

type useCaseRow struct {
	basicRow
	ComplianceFrameworks  pq.StringArray `db:"compliance_frameworks"`
	TechnicalRequirements pq.StringArray `db:"technical_requirements"`
	SupportedVendors      pq.StringArray `db:"supported_vendors"`
	Complexity            string         `db:"complexity"`
	EstimatedEffortWeeks  float64        `db:"estimated_effort_weeks"`
	Prerequisites         pq.StringArray `db:"prerequisites"`
	Dependencies          pq.StringArray `db:"dependencies"`
}

type requirementRow struct {
	basicRow
	ComplianceFrameworks pq.StringArray `db:"compliance_frameworks"`
	Priority             string         `db:"priority"`
	Category             string         `db:"category"`
}

const basicColumns = `id, name, description`

func (r *PGReader) selectBasic(ctx context.Context, table string) ([]basicRow, error) {
	var rows []basicRow
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE is_active ORDER BY id`, basicColumns, table)
	if err := r.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return rows, nil
}

func (r *PGReader) Industries(ctx context.Context) ([]Industry, error) {
	rows, err := r.selectBasic(ctx, "industries")
	if err != nil {
		return nil, err
	}
	out := make([]Industry, 0, len(rows))
	for _, row := range rows {
		out = append(out, Industry{ID: row.ID, Name: row.Name, Description: row.Description})
	}
	return out, nil
}

func (r *PGReader) DeploymentTypes(ctx context.Context) ([]DeploymentType, error) {
	rows, err := r.selectBasic(ctx, "deployment_types")
	if err != nil {
		return nil, err
	}
	out := make([]DeploymentType, 0, len(rows))
	for _, row := range rows {
		out = append(out, DeploymentType{ID: row.ID, Name: row.Name, Description: row.Description})
	}
	return out, nil
}

func (r *PGReader) BusinessDomains(ctx context.Context) ([]BusinessDomain, error) {
	rows, err := r.selectBasic(ctx, "business_domains")
	if err != nil {
		return nil, err
	}
	out := make([]BusinessDomain, 0, len(rows))
	for _, row := range rows {
		out = append(out, BusinessDomain{ID: row.ID, Name: row.Name, Description: row.Description})
	}
	return out, nil
}

func (r *PGReader) NetworkSegments(ctx context.Context) ([]NetworkSegment, error) {
	rows, err := r.selectBasic(ctx, "network_segments")
	if err != nil {
		return nil, err
	}
	out := make([]NetworkSegment, 0, len(rows))
	for _, row := range rows {
		out = append(out, NetworkSegment{ID: row.ID, Name: row.Name, Description: row.Description})
	}
	return out, nil
}

func (r *PGReader) ComplianceFrameworks(ctx context.Context) ([]ComplianceFramework, error) {
	var rows []frameworkRow
	if err := r.DB.SelectContext(ctx, &rows, `
SELECT id, name, description, industry_specific, requirements
FROM compliance_frameworks
WHERE is_active
ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select compliance_frameworks: %w", err)
	}
	out := make([]ComplianceFramework, 0, len(rows))
	for _, row := range rows {
		out = append(out, ComplianceFramework{
			ID:               row.ID,
			Name:             row.Name,
			Description:      row.Description,
			IndustrySpecific: []string(row.IndustrySpecific),
			Requirements:     []string(row.Requirements),
		})
	}
	return out, nil
}

func (r *PGReader) AuthenticationMethods(ctx context.Context) ([]AuthenticationMethod, error) {
	var rows []authMethodRow
	if err := r.DB.SelectContext(ctx, &rows, `
SELECT id, name, description, method_type, security_level
FROM authentication_methods
WHERE is_active
ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select authentication_methods: %w", err)
	}
	out := make([]AuthenticationMethod, 0, len(rows))
	for _, row := range rows {
		out = append(out, AuthenticationMethod{
			ID:            row.ID,
			Name:          row.Name,
			Description:   row.Description,
			MethodType:    row.MethodType,
			SecurityLevel: row.SecurityLevel,
		})
	}
	return out, nil
}

func (r *PGReader) Vendors(ctx context.Context) ([]Vendor, error) {
	var rows []vendorRow
	if err := r.DB.SelectContext(ctx, &rows, `
SELECT id, name, description, category, integration_methods, configuration_complexity
FROM vendors
WHERE is_active
ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select vendors: %w", err)
	}
	out := make([]Vendor, 0, len(rows))
	for _, row := range rows {
		out = append(out, Vendor{
			ID:                      row.ID,
			Name:                    row.Name,
			Description:             row.Description,
			Category:                row.Category,
			IntegrationMethods:      []string(row.IntegrationMethods),
			ConfigurationComplexity: row.ConfigurationComplexity,
		})
	}
	return out, nil
}

func (r *PGReader) UseCases(ctx context.Context) ([]UseCase, error) {
	var rows []useCaseRow
	if err := r.DB.SelectContext(ctx, &rows, `
SELECT id, name, description, compliance_frameworks, technical_requirements, supported_vendors,
       complexity, estimated_effort_weeks, prerequisites, dependencies
FROM use_cases
WHERE is_active
ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select use_cases: %w", err)
	}
	out := make([]UseCase, 0, len(rows))
	for _, row := range rows {
		out = append(out, UseCase{
			ID:                    row.ID,
			Name:                  row.Name,
			Description:           row.Description,
			ComplianceFrameworks:  []string(row.ComplianceFrameworks),
			TechnicalRequirements: []string(row.TechnicalRequirements),
			SupportedVendors:      []string(row.SupportedVendors),
			Complexity:            row.Complexity,
			EstimatedEffortWeeks:  row.EstimatedEffortWeeks,
			Prerequisites:         []string(row.Prerequisites),
			Dependencies:          []string(row.Dependencies),
		})
	}
	return out, nil
}

func (r *PGReader) Requirements(ctx context.Context) ([]Requirement, error) {
	var rows []requirementRow
	if err := r.DB.SelectContext(ctx, &rows, `
SELECT id, name, description, compliance_frameworks, priority, category
FROM requirements
WHERE is_active
ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select requirements: %w", err)
	}
	out := make([]Requirement, 0, len(rows))
	for _, row := range rows {
		out = append(out, Requirement{
			ID:                   row.ID,
			Name:                 row.Name,
			Description:          row.Description,
			ComplianceFrameworks: []string(row.ComplianceFrameworks),
			Priority:             row.Priority,
			Category:             row.Category,
		})
	}
	return out, nil
}

var _ Reader = (*PGReader)(nil)
