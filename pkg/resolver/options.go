package resolver

// Options controls how index expressions resolve to concrete indices.
// The zero value is maximally strict; use the preset constructors for the
// combinations the request layer hands out.
type Options struct {
	// IgnoreUnavailable silently drops expressions naming missing concrete
	// indices instead of failing the request.
	IgnoreUnavailable bool `json:"ignore_unavailable"`

	// AllowNoIndices permits an empty final result.
	AllowNoIndices bool `json:"allow_no_indices"`

	// ExpandWildcardsOpen/Closed/Hidden select which index states and
	// visibilities wildcard expressions expand to.
	ExpandWildcardsOpen   bool `json:"expand_wildcards_open"`
	ExpandWildcardsClosed bool `json:"expand_wildcards_closed"`
	ExpandWildcardsHidden bool `json:"expand_wildcards_hidden"`

	// AllowAliasesToMultipleIndices permits aliases with more than one
	// member index in single-index operations.
	AllowAliasesToMultipleIndices bool `json:"allow_aliases_to_multiple_indices"`

	// ForbidClosedIndices rejects closed indices outright; combined with
	// IgnoreUnavailable they are skipped instead.
	ForbidClosedIndices bool `json:"forbid_closed_indices"`

	// IgnoreAliases treats aliases as if they did not exist.
	IgnoreAliases bool `json:"ignore_aliases"`

	// IgnoreThrottled drops indices marked frozen.
	IgnoreThrottled bool `json:"ignore_throttled"`

	// ExpandWildcardExpressions is the master switch for wildcard
	// expansion; when false expressions pass through literally.
	ExpandWildcardExpressions bool `json:"expand_wildcard_expressions"`
}

// StrictExpandOpen fails on missing names and expands wildcards to open
// indices only.
func StrictExpandOpen() Options {
	return Options{
		AllowNoIndices:                true,
		ExpandWildcardsOpen:           true,
		AllowAliasesToMultipleIndices: true,
		ExpandWildcardExpressions:     true,
	}
}

// StrictExpandOpenAndForbidClosed additionally rejects closed indices.
func StrictExpandOpenAndForbidClosed() Options {
	o := StrictExpandOpen()
	o.ForbidClosedIndices = true
	return o
}

// StrictExpandOpenHiddenForbidClosed expands to hidden indices as well.
func StrictExpandOpenHiddenForbidClosed() Options {
	o := StrictExpandOpenAndForbidClosed()
	o.ExpandWildcardsHidden = true
	return o
}

// LenientExpandOpen ignores missing names and expands wildcards to open
// indices only.
func LenientExpandOpen() Options {
	o := StrictExpandOpen()
	o.IgnoreUnavailable = true
	return o
}

// LenientExpandOpenHidden also expands to hidden indices.
func LenientExpandOpenHidden() Options {
	o := LenientExpandOpen()
	o.ExpandWildcardsHidden = true
	return o
}

// StrictSingleIndexNoExpandForbidClosed requires a single concrete open
// index: no wildcard expansion, no multi-index aliases, no closed indices.
func StrictSingleIndexNoExpandForbidClosed() Options {
	return Options{
		ForbidClosedIndices: true,
	}
}
