package lif

// IssueAt creates an Issue at p. The hint is optional.
func IssueAt(p PathRef, code, msg, hint string) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Hint: hint}
}
