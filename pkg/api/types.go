package api

import "encoding/json"

// Validation statuses reported by the structure API.
const (
	StatusValid   = "valid"
	StatusWarning = "warning"
	StatusInvalid = "invalid"
)

// SaveResponse is the body returned by the save endpoint.
type SaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ValidateResponse is the body returned by the validate endpoint.
type ValidateResponse struct {
	Success           bool               `json:"success"`
	Error             string             `json:"error,omitempty"`
	ValidationResults *ValidationResults `json:"validation_results,omitempty"`
}

// ValidationResults summarizes the collaborator's checks of a structure.
type ValidationResults struct {
	OverallStatus   string                    `json:"overall_status"`
	Issues          []string                  `json:"issues"`
	Warnings        []string                  `json:"warnings"`
	OwnershipTotals map[string]OwnershipTotal `json:"ownership_totals,omitempty"`

	// Passed through untouched; their shape belongs to the collaborator.
	EntityValidations json.RawMessage `json:"entity_validations,omitempty"`
	HierarchyAnalysis json.RawMessage `json:"hierarchy_analysis,omitempty"`
}

// OwnershipTotal is the summed ownership of one owned entity.
type OwnershipTotal struct {
	EntityName      string  `json:"entity_name"`
	TotalPercentage float64 `json:"total_percentage"`
	Status          string  `json:"status"`
}

// Valid reports whether the structure passed without issues or warnings.
func (r ValidationResults) Valid() bool { return r.OverallStatus == StatusValid }
