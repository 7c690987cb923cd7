package models

// Severity tells whether an issue blocks save and export.
type Severity string

const (
	SeverityError   Severity = "error"   // Blocking
	SeverityWarning Severity = "warning" // Informational, expires on its own
)

// Issue is a single problem or notice reported to the user.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// ErrorIssue builds a blocking issue.
func ErrorIssue(message string) Issue {
	return Issue{Severity: SeverityError, Message: message}
}

// WarningIssue builds a non-blocking notice.
func WarningIssue(message string) Issue {
	return Issue{Severity: SeverityWarning, Message: message}
}

// IsBlocking reports whether the issue prevents save and export.
func (i Issue) IsBlocking() bool {
	return i.Severity == SeverityError
}

// Issues is an ordered list of issues.
type Issues []Issue

// HasBlocking reports whether any issue has error severity.
func (is Issues) HasBlocking() bool {
	for _, issue := range is {
		if issue.IsBlocking() {
			return true
		}
	}

	return false
}

// Blocking returns only the error-severity issues, in order.
func (is Issues) Blocking() Issues {
	var blocking Issues

	for _, issue := range is {
		if issue.IsBlocking() {
			blocking = append(blocking, issue)
		}
	}

	return blocking
}

// WithoutWarnings drops the informational notices.
func (is Issues) WithoutWarnings() Issues {
	kept := make(Issues, 0, len(is))

	for _, issue := range is {
		if issue.Severity != SeverityWarning {
			kept = append(kept, issue)
		}
	}

	return kept
}

// Messages returns the issue messages, in order.
func (is Issues) Messages() []string {
	messages := make([]string, 0, len(is))
	for _, issue := range is {
		messages = append(messages, issue.Message)
	}

	return messages
}
