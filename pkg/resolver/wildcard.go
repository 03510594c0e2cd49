package resolver

import (
	"github.com/meridiandb/meridian/pkg/common"
	"github.com/meridiandb/meridian/pkg/metadata"
	"github.com/meridiandb/meridian/pkg/systemindices"
	"github.com/meridiandb/meridian/pkg/types"
)

// orderedSet is a string set preserving first-insertion order, so that
// resolution output is deterministic for a fixed snapshot and options.
type orderedSet struct {
	names []string
	index map[string]int
}

func newOrderedSet(seed []string) *orderedSet {
	s := &orderedSet{index: make(map[string]int, len(seed)+8)}
	for _, name := range seed {
		s.add(name)
	}
	return s
}

func (s *orderedSet) add(name string) {
	if _, ok := s.index[name]; ok {
		return
	}
	s.index[name] = len(s.names)
	s.names = append(s.names, name)
}

func (s *orderedSet) remove(name string) {
	i, ok := s.index[name]
	if !ok {
		return
	}
	delete(s.index, name)
	s.names = append(s.names[:i], s.names[i+1:]...)
	for j := i; j < len(s.names); j++ {
		s.index[s.names[j]] = j
	}
}

func (s *orderedSet) values() []string {
	return s.names
}

// resolveWildcardExpressions expands wildcard patterns and applies
// exclusions against the snapshot, returning the surviving resource names.
//
// While every leading expression is a plain name that exists, the input
// slice is reused as-is; a working set is only allocated on the first
// wildcard, exclusion, or missing name.
func resolveWildcardExpressions(ctx *resolveContext, expressions []string) ([]string, error) {
	if !ctx.options.ExpandWildcardExpressions {
		return expressions, nil
	}
	if isEmptyOrTrivialWildcard(expressions) {
		return resolveAll(ctx)
	}
	return innerResolve(ctx, expressions)
}

func isEmptyOrTrivialWildcard(expressions []string) bool {
	return len(expressions) == 0 ||
		(len(expressions) == 1 && (expressions[0] == metadata.All || common.IsMatchAllPattern(expressions[0])))
}

// resolveAll returns the all-indices selection, unioned with the data
// stream expansion when the context admits data streams.
func resolveAll(ctx *resolveContext) ([]string, error) {
	resolved := resolveEmptyOrTrivialWildcard(ctx)
	if !ctx.includeDataStreams {
		return resolved, nil
	}

	result := newOrderedSet(resolved)
	ctx.state.Metadata.IndicesLookup().Each(func(ia *metadata.IndexAbstraction) bool {
		if ia.Type != metadata.TypeDataStream {
			return true
		}
		if ia.System && !ctx.systemIndexAccess(ia.Name) {
			return true
		}
		if ia.Hidden && !ctx.options.ExpandWildcardsHidden {
			return true
		}
		for _, name := range expandToOpenClosed(ctx, ia) {
			result.add(name)
		}
		return true
	})
	return result.values(), nil
}

func innerResolve(ctx *resolveContext, expressions []string) ([]string, error) {
	var result *orderedSet
	wildcardSeen := false
	for i, expression := range expressions {
		if err := validateAliasOrIndex(expression); err != nil {
			return nil, err
		}
		missingErr := aliasOrIndexExists(ctx, expression)
		if missingErr == nil {
			// The expression exists; while the working set is unallocated
			// the input slice stands in for it.
			if result != nil {
				result.add(expression)
			}
			continue
		}
		if result == nil {
			result = newOrderedSet(expressions[:i])
		}

		add := true
		if expression[0] == '-' && wildcardSeen {
			add = false
			expression = expression[1:]
		}

		if !common.IsWildcardPattern(expression) {
			if add {
				if !ctx.options.IgnoreUnavailable {
					return nil, missingErr
				}
				result.add(expression)
			} else {
				result.remove(expression)
			}
			continue
		}

		wildcardSeen = true
		matched := 0
		eachWildcardMatch(ctx, expression, func(ia *metadata.IndexAbstraction) {
			for _, name := range expandToOpenClosed(ctx, ia) {
				matched++
				if add {
					result.add(name)
				} else {
					result.remove(name)
				}
			}
		})
		if matched == 0 && !ctx.options.AllowNoIndices {
			return nil, &types.ErrIndexNotFound{Expression: expression, Resources: []string{expression}}
		}
	}
	if result == nil {
		// Every expression was a plain existing name.
		return expressions, nil
	}
	return result.values(), nil
}

func validateAliasOrIndex(expression string) error {
	if expression == "" {
		return &types.ErrInvalidExpression{Expression: expression, Reason: "must not be empty"}
	}
	// Names beginning with an underscore are reserved for APIs; reaching
	// this point means no such API exists, which deserves a more specific
	// error than a missing-index one.
	if expression[0] == '_' {
		return &types.ErrInvalidExpression{Expression: expression, Reason: "must not start with '_'"}
	}
	return nil
}

// aliasOrIndexExists returns nil when the expression names a usable
// abstraction, or the error to raise if the expression turns out to be a
// plain missing name.
func aliasOrIndexExists(ctx *resolveContext, expression string) error {
	ia := ctx.state.Metadata.IndicesLookup().Get(expression)
	if ia == nil {
		return &types.ErrIndexNotFound{Expression: expression, Resources: []string{expression}}
	}
	// Treat aliases as unavailable when the request must act on concrete
	// indices (delete index, update aliases).
	if ia.Type == metadata.TypeAlias && ctx.options.IgnoreAliases {
		return &types.ErrAliasNotSupported{Expression: expression}
	}
	if ia.IsDataStreamRelated() && !ctx.includeDataStreams {
		return &types.ErrIndexNotFound{Expression: expression, Resources: []string{expression}}
	}
	return nil
}

// eachWildcardMatch calls fn for every abstraction matching the wildcard
// under the context's visibility rules, in lookup (name) order.
func eachWildcardMatch(ctx *resolveContext, wildcard string, fn func(*metadata.IndexAbstraction)) {
	lookup := ctx.state.Metadata.IndicesLookup()
	visit := func(ia *metadata.IndexAbstraction) bool {
		if wildcardMatchesAbstraction(ctx, wildcard, ia) {
			fn(ia)
		}
		return true
	}
	if common.IsSuffixWildcard(wildcard) {
		from := wildcard[:len(wildcard)-1]
		lookup.EachInRange(from, nextPrefix(from), visit)
	} else {
		lookup.Each(visit)
	}
}

// nextPrefix returns the smallest string greater than every string with
// the given prefix, by incrementing the last codepoint.
func nextPrefix(prefix string) string {
	runes := []rune(prefix)
	runes[len(runes)-1]++
	return string(runes)
}

func wildcardMatchesAbstraction(ctx *resolveContext, wildcard string, ia *metadata.IndexAbstraction) bool {
	if !common.IsSuffixWildcard(wildcard) && !common.IsMatchAllPattern(wildcard) &&
		!common.WildcardMatch(wildcard, ia.Name) {
		return false
	}
	if ctx.options.IgnoreAliases && ia.Type == metadata.TypeAlias {
		return false
	}
	if !ctx.includeDataStreams && ia.IsDataStreamRelated() {
		return false
	}
	// Historic (non net-new) system indices are matched irrespective of
	// the access predicate; the predicate gates net-new ones and anything
	// data-stream shaped.
	if ia.System {
		historic := ia.Type != metadata.TypeDataStream &&
			ia.ParentDataStream == nil &&
			!ctx.netNewSystemIndex(ia.Name)
		if !historic && !ctx.systemIndexAccess(ia.Name) {
			return false
		}
	}
	if !ctx.options.ExpandWildcardsHidden && ia.Hidden {
		// Hidden resources whose name starts with a dot stay visible to
		// dot-prefixed wildcards.
		if !(wildcard[0] == '.' && ia.Name != "" && ia.Name[0] == '.') {
			return false
		}
	}
	return true
}

// expandToOpenClosed yields the names an abstraction stands for: itself
// for preserved aliases and data streams, otherwise its backing indices
// filtered by the open/closed expansion options.
func expandToOpenClosed(ctx *resolveContext, ia *metadata.IndexAbstraction) []string {
	if ctx.preserveAliases && ia.Type == metadata.TypeAlias {
		return []string{ia.Name}
	}
	if ctx.preserveDataStreams && ia.Type == metadata.TypeDataStream {
		return []string{ia.Name}
	}
	excludeState := excludeStateFromOptions(ctx.options)
	names := make([]string, 0, len(ia.Indices))
	for _, index := range ia.Indices {
		imd := ctx.state.Metadata.Index(index.Name)
		if excludeState != "" && imd.State == excludeState {
			continue
		}
		names = append(names, index.Name)
	}
	return names
}

func excludeStateFromOptions(options Options) metadata.State {
	switch {
	case options.ExpandWildcardsOpen && options.ExpandWildcardsClosed:
		return ""
	case options.ExpandWildcardsOpen:
		return metadata.StateClose
	case options.ExpandWildcardsClosed:
		return metadata.StateOpen
	default:
		return ""
	}
}

// resolveEmptyOrTrivialWildcard returns the all-indices selection for the
// open/closed/hidden option triple, additionally filtered by system index
// access when the caller does not hold full access.
func resolveEmptyOrTrivialWildcard(ctx *resolveContext) []string {
	all := allIndicesForOptions(ctx.options, ctx.state.Metadata)
	if ctx.systemIndexAccessLevel == systemindices.AccessAll {
		return all
	}
	filtered := make([]string, 0, len(all))
	for _, name := range all {
		if isSystemIndexVisible(ctx, name) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

func isSystemIndexVisible(ctx *resolveContext, name string) bool {
	if name == "" || name[0] != '.' {
		return true
	}
	ia := ctx.state.Metadata.IndicesLookup().Get(name)
	if ia == nil || !ia.System {
		return true
	}
	if ctx.netNewSystemIndex(name) {
		if ctx.systemIndexAccessLevel == systemindices.AccessBackwardsCompatibleOnly {
			return false
		}
		return ctx.systemIndexAccess(name)
	}
	if ia.Type == metadata.TypeDataStream || ia.ParentDataStream != nil {
		return ctx.systemIndexAccess(name)
	}
	return true
}

func allIndicesForOptions(options Options, meta *metadata.Metadata) []string {
	switch {
	case options.ExpandWildcardsOpen && options.ExpandWildcardsClosed && options.ExpandWildcardsHidden:
		return meta.ConcreteAllIndices()
	case options.ExpandWildcardsOpen && options.ExpandWildcardsClosed:
		return meta.ConcreteVisibleIndices()
	case options.ExpandWildcardsOpen && options.ExpandWildcardsHidden:
		return meta.ConcreteAllOpenIndices()
	case options.ExpandWildcardsOpen:
		return meta.ConcreteVisibleOpenIndices()
	case options.ExpandWildcardsClosed && options.ExpandWildcardsHidden:
		return meta.ConcreteAllClosedIndices()
	case options.ExpandWildcardsClosed:
		return meta.ConcreteVisibleClosedIndices()
	default:
		return nil
	}
}
