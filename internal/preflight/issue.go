// Package preflight implements C5: mandatory-field presence and syntactic
// code-list checks over the row stream (spec §4.2), reporting issues
// before XML generation rather than rejecting the stream outright.
//
// The Rule/Issue/Report shape mirrors speedata/einvoice's rule-registry
// pattern (rules.Rule{Code, Fields, Description} plus addViolation and the
// ValidationError the caller receives), generalized from "one invoice" to
// "one row stream".
package preflight

import "fmt"

// Severity distinguishes issues that fail a run from those that merely
// inform it (spec §4.2).
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Rule documents one preflight check, the way rules.Rule documents one
// EN 16931 business rule in the teacher.
type Rule struct {
	Code        string
	Fields      []string
	Description string
}

// Issue is one concrete violation of a Rule against one row or payee group.
type Issue struct {
	Severity Severity
	RowID    string
	Field    string
	Rule     Rule
	Message  string
}

// Report accumulates issues across a run and is handed back to the caller
// as the preflight result (spec §4.2).
type Report struct {
	issues []Issue
}

// Add appends one issue to the report.
func (r *Report) Add(severity Severity, rowID, field string, rule Rule, message string) {
	r.issues = append(r.issues, Issue{Severity: severity, RowID: rowID, Field: field, Rule: rule, Message: message})
}

// Issues returns a copy of all recorded issues.
func (r *Report) Issues() []Issue {
	out := make([]Issue, len(r.issues))
	copy(out, r.issues)
	return out
}

// Errors returns only the ERROR-severity issues.
func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns only the WARNING-severity issues.
func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r *Report) filter(sev Severity) []Issue {
	var out []Issue
	for _, issue := range r.issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// HasErrors reports the spec §4.2 exit-code policy: preflight fails iff any
// ERROR-severity issue exists.
func (r *Report) HasErrors() bool {
	for _, issue := range r.issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// RowErrorIDs returns the set of row identifiers that carry at least one
// ERROR. The renderer does not consult it; it relies on the scope engine's
// own taint flag.
func (r *Report) RowErrorIDs() map[string]bool {
	out := make(map[string]bool)
	for _, issue := range r.issues {
		if issue.Severity == SeverityError && issue.RowID != "" {
			out[issue.RowID] = true
		}
	}
	return out
}

// ValidationError is returned by Validate when the report contains at least
// one ERROR, mirroring speedata/einvoice's validation.ValidationError.
type ValidationError struct {
	Report *Report
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	errs := e.Report.Errors()
	switch len(errs) {
	case 0:
		return "preflight failed with no errors recorded"
	case 1:
		return fmt.Sprintf("preflight failed: %s - %s", errs[0].Rule.Code, errs[0].Message)
	default:
		return fmt.Sprintf("preflight failed with %d error(s) (first: %s - %s)", len(errs), errs[0].Rule.Code, errs[0].Message)
	}
}
