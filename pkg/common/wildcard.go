package common

import "strings"

// IsWildcardPattern reports whether expr contains glob metacharacters
// (`*` or `?`).
func IsWildcardPattern(expr string) bool {
	return strings.ContainsAny(expr, "*?")
}

// IsMatchAllPattern reports whether expr matches every name.
func IsMatchAllPattern(expr string) bool {
	return expr == "*"
}

// IsSuffixWildcard reports whether expr is of the form `prefix*`, with no
// other metacharacters. Such patterns admit a prefix range scan.
func IsSuffixWildcard(expr string) bool {
	return len(expr) >= 2 &&
		expr[len(expr)-1] == '*' &&
		!strings.ContainsAny(expr[:len(expr)-1], "*?")
}

// WildcardMatch reports whether s matches the glob pattern, where `*`
// matches any run of characters and `?` matches exactly one.
func WildcardMatch(pattern, s string) bool {
	p, n := 0, 0
	star, mark := -1, 0
	for n < len(s) {
		switch {
		case p < len(pattern) && (pattern[p] == '?' || pattern[p] == s[n]):
			p++
			n++
		case p < len(pattern) && pattern[p] == '*':
			star, mark = p, n
			p++
		case star >= 0:
			p = star + 1
			mark++
			n = mark
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}
