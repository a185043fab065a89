package roi

import (
	"errors"
	"strings"
)

// Severity tells whether a finding blocks the calculation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// MaxProjectionMonths bounds the projection horizon.
const MaxProjectionMonths = 60

// ValidationError is a single finding about the inputs.
type ValidationError struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ErrInvalidInput is matched by the error Calculate returns when inputs have blocking findings.
var ErrInvalidInput = errors.New("validation errors must be resolved before calculation")

// InputError carries the blocking findings that stopped a calculation.
type InputError struct {
	Errors []ValidationError
}

func (e *InputError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, v := range e.Errors {
		parts = append(parts, v.Error())
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

type validationRule struct {
	field    string
	severity Severity
	message  string
	violated func(Inputs) bool
}

// The first six rules keep their historical order. A margin below zero trips
// both the range error and the thin-margin warning.
var validationRules = []validationRule{
	{
		field:    "monthlyRevenue",
		severity: SeverityError,
		message:  "Monthly revenue must be greater than 0",
		violated: func(in Inputs) bool { return in.MonthlyRevenue <= 0 },
	},
	{
		field:    "grossMargin",
		severity: SeverityError,
		message:  "Gross margin must be between 0% and 100%",
		violated: func(in Inputs) bool { return in.GrossMargin < 0 || in.GrossMargin > 100 },
	},
	{
		field:    "marketingBudget",
		severity: SeverityError,
		message:  "Marketing budget cannot be negative",
		violated: func(in Inputs) bool { return in.MarketingBudget < 0 },
	},
	{
		field:    "grossMargin",
		severity: SeverityWarning,
		message:  "Gross margin below 20% may indicate pricing or cost issues",
		violated: func(in Inputs) bool { return in.GrossMargin < 20 },
	},
	{
		field:    "cac",
		severity: SeverityWarning,
		message:  "Customer acquisition cost exceeds average order value",
		violated: func(in Inputs) bool {
			return present(in.CAC) && present(in.AverageOrderValue) && *in.CAC > *in.AverageOrderValue
		},
	},
	{
		field:    "churnRate",
		severity: SeverityWarning,
		message:  "High churn rate may impact long-term profitability",
		violated: func(in Inputs) bool { return present(in.ChurnRate) && *in.ChurnRate > 15 },
	},
	{
		field:    "operatingExpenses",
		severity: SeverityError,
		message:  "Operating expenses cannot be negative",
		violated: func(in Inputs) bool { return in.OperatingExpenses < 0 },
	},
	{
		field:    "employeeCosts",
		severity: SeverityError,
		message:  "Employee costs cannot be negative",
		violated: func(in Inputs) bool { return in.EmployeeCosts < 0 },
	},
	{
		field:    "growthRate",
		severity: SeverityError,
		message:  "Growth rate cannot be negative",
		violated: func(in Inputs) bool { return in.GrowthRate < 0 },
	},
	{
		field:    "projectionMonths",
		severity: SeverityError,
		message:  "Projection period must be between 1 and 60 months",
		violated: func(in Inputs) bool {
			return in.ProjectionMonths < 1 || in.ProjectionMonths > MaxProjectionMonths
		},
	},
	{
		field:    "churnRate",
		severity: SeverityError,
		message:  "Churn rate must be between 0% and 100%",
		violated: func(in Inputs) bool {
			return in.ChurnRate != nil && (*in.ChurnRate < 0 || *in.ChurnRate > 100)
		},
	},
	{
		field:    "timeframe",
		severity: SeverityError,
		message:  "Timeframe must be monthly, quarterly or yearly",
		violated: func(in Inputs) bool {
			switch in.Timeframe {
			case "", Monthly, Quarterly, Yearly:
				return false
			}
			return true
		},
	},
}

// Validate checks the inputs and returns every finding in rule order.
// It never fails; an empty slice means the inputs are clean.
func Validate(in Inputs) []ValidationError {
	findings := make([]ValidationError, 0)
	for _, rule := range validationRules {
		if rule.violated(in) {
			findings = append(findings, ValidationError{
				Field:    rule.field,
				Message:  rule.message,
				Severity: rule.severity,
			})
		}
	}
	return findings
}

// HasErrors reports whether any finding blocks calculation.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Blocking returns the findings that prevent calculation, in rule order.
func Blocking(findings []ValidationError) []ValidationError {
	return bySeverity(findings, SeverityError)
}

func bySeverity(findings []ValidationError, severity Severity) []ValidationError {
	out := make([]ValidationError, 0)
	for _, f := range findings {
		if f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}
