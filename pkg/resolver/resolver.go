package resolver

import (
	"sort"
	"strings"

	"github.com/meridiandb/meridian/pkg/common"
	"github.com/meridiandb/meridian/pkg/metadata"
	"github.com/meridiandb/meridian/pkg/systemindices"
	"github.com/meridiandb/meridian/pkg/types"
)

// Resolver translates index expressions (names, wildcards, exclusions,
// date math) into concrete backing indices against a cluster snapshot.
// One resolver serves every request; all per-call state lives in the
// context built per operation.
type Resolver struct {
	systemIndices *systemindices.Registry
	deprecations  *common.DeprecationLogger
}

// New returns a resolver over the given system index registry, emitting
// deprecation events into the given sink.
func New(registry *systemindices.Registry, deprecations *common.DeprecationLogger) *Resolver {
	return &Resolver{systemIndices: registry, deprecations: deprecations}
}

// Request bundles the expression-bearing part of an API request.
type Request struct {
	Expressions        []string
	Options            Options
	IncludeDataStreams bool
}

// WriteRequest is the single-target form used by write resolution.
type WriteRequest struct {
	Index              string
	Options            Options
	OpCreate           bool
	IncludeDataStreams bool
}

// ----------------------------------------------------------------------------
// Public operations

// ConcreteIndexNames resolves expressions to deduplicated concrete index
// names, in first-occurrence order.
func (r *Resolver) ConcreteIndexNames(state *metadata.ClusterState, access systemindices.RequestAccess, options Options, expressions ...string) ([]string, error) {
	ctx := r.newContext(state, options, access, contextFlags{})
	return r.concreteIndexNames(ctx, expressions)
}

// ConcreteIndexNamesForRequest is ConcreteIndexNames with the expressions
// and options encapsulated in the request.
func (r *Resolver) ConcreteIndexNamesForRequest(state *metadata.ClusterState, access systemindices.RequestAccess, req Request) ([]string, error) {
	ctx := r.newContext(state, req.Options, access, contextFlags{includeDataStreams: req.IncludeDataStreams})
	return r.concreteIndexNames(ctx, req.Expressions)
}

// ConcreteIndexNamesWithSystemAccess is ConcreteIndexNamesForRequest with
// system index access always allowed; reserved for internal callers.
func (r *Resolver) ConcreteIndexNamesWithSystemAccess(state *metadata.ClusterState, req Request) ([]string, error) {
	ctx := r.newSystemAccessContext(state, req.Options, contextFlags{includeDataStreams: req.IncludeDataStreams})
	return r.concreteIndexNames(ctx, req.Expressions)
}

// ConcreteIndices resolves expressions to deduplicated concrete indices,
// in first-occurrence order.
func (r *Resolver) ConcreteIndices(state *metadata.ClusterState, access systemindices.RequestAccess, options Options, expressions ...string) ([]metadata.Index, error) {
	ctx := r.newContext(state, options, access, contextFlags{})
	return r.concreteIndices(ctx, expressions)
}

// ConcreteIndicesForRequest is ConcreteIndices with the expressions and
// options encapsulated in the request.
func (r *Resolver) ConcreteIndicesForRequest(state *metadata.ClusterState, access systemindices.RequestAccess, req Request) ([]metadata.Index, error) {
	ctx := r.newContext(state, req.Options, access, contextFlags{includeDataStreams: req.IncludeDataStreams})
	return r.concreteIndices(ctx, req.Expressions)
}

// ConcreteIndicesAt is ConcreteIndicesForRequest against an explicit
// request start time (milliseconds since epoch) for date math.
func (r *Resolver) ConcreteIndicesAt(state *metadata.ClusterState, access systemindices.RequestAccess, req Request, startTime int64) ([]metadata.Index, error) {
	ctx := r.newContext(state, req.Options, access, contextFlags{includeDataStreams: req.IncludeDataStreams, startTime: startTime})
	return r.concreteIndices(ctx, req.Expressions)
}

// DataStreamNames resolves expressions and keeps only names whose
// abstraction is a data stream.
func (r *Resolver) DataStreamNames(state *metadata.ClusterState, access systemindices.RequestAccess, options Options, expressions ...string) ([]string, error) {
	ctx := r.newContext(state, options, access, contextFlags{
		includeDataStreams:  true,
		preserveDataStreams: true,
	})
	if len(expressions) == 0 {
		expressions = []string{"*"}
	}
	resolved, err := r.resolveExpressionList(ctx, expressions)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, name := range resolved {
		ia := state.Metadata.IndicesLookup().Get(name)
		if ia != nil && ia.Type == metadata.TypeDataStream {
			names = append(names, ia.Name)
		}
	}
	return names, nil
}

// ResolveWriteIndexAbstraction resolves a write request to its single
// target abstraction. The abstraction is not reduced to an index; callers
// take its WriteIndex. Aliases without a designated write index fail.
func (r *Resolver) ResolveWriteIndexAbstraction(state *metadata.ClusterState, access systemindices.RequestAccess, req WriteRequest) (*metadata.IndexAbstraction, error) {
	includeDataStreams := req.OpCreate && req.IncludeDataStreams
	ctx := r.newContext(state, req.Options, access, contextFlags{includeDataStreams: includeDataStreams})

	resolved, err := r.resolveExpressionList(ctx, []string{req.Index})
	if err != nil {
		return nil, err
	}
	if len(resolved) != 1 {
		return nil, &types.ErrNotSingleTarget{
			Expression: req.Index,
			Reason:     "the expression and options resolved to multiple targets",
		}
	}
	ia := state.Metadata.IndicesLookup().Get(resolved[0])
	if ia == nil {
		return nil, &types.ErrIndexNotFound{Expression: resolved[0], Resources: []string{resolved[0]}}
	}
	if ia.Type == metadata.TypeAlias && ia.WriteIndex == nil {
		return nil, &types.ErrNoWriteIndex{Alias: ia.Name}
	}
	if err := r.checkSystemIndexAccess(ctx, []metadata.Index{*ia.WriteIndex}); err != nil {
		return nil, err
	}
	return ia, nil
}

// ConcreteSingleIndex resolves an expression that must name exactly one
// concrete index.
func (r *Resolver) ConcreteSingleIndex(state *metadata.ClusterState, access systemindices.RequestAccess, options Options, expression string) (metadata.Index, error) {
	indices, err := r.ConcreteIndices(state, access, options, expression)
	if err != nil {
		return metadata.Index{}, err
	}
	if len(indices) != 1 {
		return metadata.Index{}, &types.ErrNotSingleTarget{
			Expression: expression,
			Reason:     "the index and options provided got resolved to multiple indices",
		}
	}
	return indices[0], nil
}

// ConcreteWriteIndex resolves an expression to its single write index.
// With allowNoIndices, a resolution to nothing returns nil.
func (r *Resolver) ConcreteWriteIndex(state *metadata.ClusterState, access systemindices.RequestAccess, options Options, expression string, allowNoIndices, includeDataStreams bool) (*metadata.Index, error) {
	combined := options
	combined.AllowNoIndices = allowNoIndices
	ctx := r.newContext(state, combined, access, contextFlags{
		resolveToWriteIndex: true,
		includeDataStreams:  includeDataStreams,
	})
	indices, err := r.concreteIndices(ctx, []string{expression})
	if err != nil {
		return nil, err
	}
	if allowNoIndices && len(indices) == 0 {
		return nil, nil
	}
	if len(indices) != 1 {
		return nil, &types.ErrNotSingleTarget{
			Expression: expression,
			Reason:     "the expression and options provided did not point to a single write-index",
		}
	}
	return &indices[0], nil
}

// HasIndexAbstraction reports whether the name (after date math
// resolution) exists in the snapshot as an index, alias or data stream.
func (r *Resolver) HasIndexAbstraction(state *metadata.ClusterState, name string) (bool, error) {
	resolved, err := ResolveDateMath(name)
	if err != nil {
		return false, err
	}
	return state.Metadata.HasIndexAbstraction(resolved), nil
}

// ResolveExpressions resolves expressions to the set of index, alias and
// data stream names they match, with lenient options (missing names
// ignored, open and hidden expansion, aliases preserved, data streams
// included).
func (r *Resolver) ResolveExpressions(state *metadata.ClusterState, access systemindices.RequestAccess, expressions ...string) (*ExpressionSet, error) {
	ctx := r.newContext(state, LenientExpandOpenHidden(), access, contextFlags{
		preserveAliases:    true,
		includeDataStreams: true,
	})
	resolved, err := r.resolveExpressionList(ctx, expressions)
	if err != nil {
		return nil, err
	}
	return newExpressionSet(resolved), nil
}

// ----------------------------------------------------------------------------
// Pipeline

func (r *Resolver) resolveExpressionList(ctx *resolveContext, expressions []string) ([]string, error) {
	rewritten, err := resolveDateMathExpressions(ctx, expressions)
	if err != nil {
		return nil, err
	}
	return resolveWildcardExpressions(ctx, rewritten)
}

func (r *Resolver) concreteIndexNames(ctx *resolveContext, expressions []string) ([]string, error) {
	indices, err := r.concreteIndices(ctx, expressions)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(indices))
	for i, index := range indices {
		names[i] = index.Name
	}
	return names, nil
}

func (r *Resolver) concreteIndices(ctx *resolveContext, expressions []string) ([]metadata.Index, error) {
	options := ctx.options
	if len(expressions) == 0 {
		expressions = []string{metadata.All}
	} else if !options.IgnoreUnavailable {
		var crossCluster []string
		for _, expression := range expressions {
			if strings.Contains(expression, ":") {
				crossCluster = append(crossCluster, expression)
			}
		}
		if len(crossCluster) > 0 {
			return nil, &types.ErrCrossClusterNotSupported{Expressions: crossCluster}
		}
	}

	// Whether a missing expression fails the request historically depends
	// on the expression count; preserved for compatibility.
	failNoIndices := !options.IgnoreUnavailable
	if len(expressions) == 1 {
		failNoIndices = !options.AllowNoIndices
	}

	resolved, err := r.resolveExpressionList(ctx, expressions)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		if !options.AllowNoIndices {
			return nil, &types.ErrIndexNotFound{Resources: expressions}
		}
		return []metadata.Index{}, nil
	}

	excludedDataStreams := false
	lookup := ctx.state.Metadata.IndicesLookup()
	concrete := make([]metadata.Index, 0, len(resolved))
	seen := make(map[metadata.Index]struct{}, len(resolved))
	track := func(index metadata.Index) {
		if _, dup := seen[index]; !dup {
			seen[index] = struct{}{}
			concrete = append(concrete, index)
		}
	}

	for _, expression := range resolved {
		ia := lookup.Get(expression)
		if ia == nil {
			if failNoIndices {
				return nil, &types.ErrIndexNotFound{Expression: expression, Resources: []string{expression}}
			}
			continue
		}
		if ia.Type == metadata.TypeAlias && options.IgnoreAliases {
			if failNoIndices {
				return nil, &types.ErrAliasNotSupported{Expression: expression}
			}
			continue
		}
		if ia.IsDataStreamRelated() && !ctx.includeDataStreams {
			excludedDataStreams = true
			continue
		}

		switch {
		case ia.Type == metadata.TypeAlias && ctx.resolveToWriteIndex:
			if ia.WriteIndex == nil {
				return nil, &types.ErrNoWriteIndex{Alias: ia.Name}
			}
			if r.admitIndex(ctx, *ia.WriteIndex) {
				track(*ia.WriteIndex)
			}
		case ia.Type == metadata.TypeDataStream && ctx.resolveToWriteIndex:
			if r.admitIndex(ctx, *ia.WriteIndex) {
				track(*ia.WriteIndex)
			}
		default:
			if len(ia.Indices) > 1 && !options.AllowAliasesToMultipleIndices {
				names := make([]string, len(ia.Indices))
				for i, index := range ia.Indices {
					names[i] = index.Name
				}
				return nil, &types.ErrNotSingleIndex{
					Kind:       ia.Type.DisplayName(),
					Expression: expression,
					Indices:    names,
				}
			}
			for _, index := range ia.Indices {
				ok, err := r.shouldTrackConcreteIndex(ctx, index)
				if err != nil {
					return nil, err
				}
				if ok {
					track(index)
				}
			}
		}
	}

	if !options.AllowNoIndices && len(concrete) == 0 {
		return nil, &types.ErrIndexNotFound{
			Resources:           expressions,
			ExcludedDataStreams: excludedDataStreams,
		}
	}
	if err := r.checkSystemIndexAccess(ctx, concrete); err != nil {
		return nil, err
	}
	return concrete, nil
}

// shouldTrackConcreteIndex decides whether one backing index joins the
// result under the context's state and visibility policy.
func (r *Resolver) shouldTrackConcreteIndex(ctx *resolveContext, index metadata.Index) (bool, error) {
	if ctx.systemIndexAccessLevel == systemindices.AccessBackwardsCompatibleOnly && ctx.netNewSystemIndex(index.Name) {
		// Net-new system indices are invisible in backwards compatible
		// mode.
		return false, nil
	}
	imd := ctx.state.Metadata.Index(index.Name)
	if imd == nil {
		return false, &types.ErrIndexNotFound{Expression: index.Name, Resources: []string{index.Name}}
	}
	switch imd.State {
	case metadata.StateClose:
		if ctx.options.ForbidClosedIndices && !ctx.options.IgnoreUnavailable {
			return false, &types.ErrIndexClosed{Index: index.Name}
		}
		return !ctx.options.ForbidClosedIndices && r.admitIndex(ctx, index), nil
	case metadata.StateOpen:
		return r.admitIndex(ctx, index), nil
	default:
		return false, &types.ErrInvalidState{Index: index.Name, State: string(imd.State)}
	}
}

// admitIndex applies the throttled filter: with IgnoreThrottled, frozen
// indices are dropped. The check reads index.frozen rather than a
// search-throttled marker; frozen indices were the only users of the
// throttled search path when the filter changed.
func (r *Resolver) admitIndex(ctx *resolveContext, index metadata.Index) bool {
	if !ctx.options.IgnoreThrottled {
		return true
	}
	imd := ctx.state.Metadata.Index(index.Name)
	if imd == nil {
		return true
	}
	return !imd.Settings.GetAsBool(metadata.SettingFrozen, false)
}

// checkSystemIndexAccess enforces the system index policy over the final
// concrete set. Historic system indices only draw a deprecation event;
// system data streams and net-new system indices fail the call.
func (r *Resolver) checkSystemIndexAccess(ctx *resolveContext, concrete []metadata.Index) error {
	meta := ctx.state.Metadata
	var historic, netNew []string
	var dataStreams []string
	seenDataStreams := map[string]struct{}{}

	for _, index := range concrete {
		imd := meta.Index(index.Name)
		if imd == nil || !imd.System || ctx.systemIndexAccess(index.Name) {
			continue
		}
		ia := meta.IndicesLookup().Get(index.Name)
		if ia != nil && ia.ParentDataStream != nil {
			name := ia.ParentDataStream.Name
			if _, dup := seenDataStreams[name]; !dup {
				seenDataStreams[name] = struct{}{}
				dataStreams = append(dataStreams, name)
			}
		} else if ctx.netNewSystemIndex(index.Name) {
			netNew = append(netNew, index.Name)
		} else {
			historic = append(historic, index.Name)
		}
	}

	if len(historic) > 0 {
		sort.Strings(historic)
		r.deprecations.Warn(common.DeprecationCategoryAPI, "open_system_index_access",
			"this request accesses system indices: %v, but in a future major version, direct access to system indices will be prevented by default",
			historic)
	}
	if len(dataStreams) > 0 {
		sort.Strings(dataStreams)
		return &types.ErrSystemDataStreamAccess{Names: dataStreams}
	}
	if len(netNew) > 0 {
		sort.Strings(netNew)
		return &types.ErrSystemIndexAccess{Names: netNew}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Helpers

// ExpressionSet is the resolved form handed to the alias and routing
// projections; it preserves resolution order and supports membership
// checks.
type ExpressionSet struct {
	set *orderedSet
}

func newExpressionSet(names []string) *ExpressionSet {
	return &ExpressionSet{set: newOrderedSet(names)}
}

// NewExpressionSet builds a set from already-resolved names.
func NewExpressionSet(names ...string) *ExpressionSet {
	return newExpressionSet(names)
}

// Contains reports membership.
func (s *ExpressionSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.set.index[name]
	return ok
}

// Values returns the member names in resolution order.
func (s *ExpressionSet) Values() []string {
	if s == nil {
		return nil
	}
	return s.set.values()
}

// Len returns the member count.
func (s *ExpressionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.set.names)
}

// IsAllIndices reports whether the names address all indices: nil, empty,
// or the explicit all pattern.
func IsAllIndices(names []string) bool {
	return len(names) == 0 || IsExplicitAllPattern(names)
}

// IsExplicitAllPattern reports whether the names are exactly the explicit
// all pattern.
func IsExplicitAllPattern(names []string) bool {
	return len(names) == 1 && names[0] == metadata.All
}
