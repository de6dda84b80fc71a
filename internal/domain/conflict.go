package domain

// ConflictInfo describes a single materialization conflict detected while
// building an install plan (§4.6 collision rules), e.g. a target path that
// already exists and is owned by a different package.
type ConflictInfo struct {
	Type    string
	Path    string
	Details string
	Context map[string]string
}

// WarningInfo describes a non-fatal condition surfaced alongside a
// successful plan or execution, e.g. an overwrite permitted by policy.
type WarningInfo struct {
	Message  string
	Severity string
	Context  map[string]string
}
