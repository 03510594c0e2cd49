package resolver

import (
	"sort"
	"strings"

	"github.com/meridiandb/meridian/pkg/metadata"
	"github.com/meridiandb/meridian/pkg/systemindices"
)

// ResolveSearchRouting projects the caller's routing (comma-separated
// values, empty for none) onto the concrete indices the expressions
// resolve to. Aliases with per-index search routing intersect with the
// caller routing; data streams that forbid custom routing contribute
// nothing. Returns nil when no index requires routing.
func (r *Resolver) ResolveSearchRouting(state *metadata.ClusterState, access systemindices.RequestAccess, routing string, expressions ...string) (map[string][]string, error) {
	ctx := r.newContext(state, LenientExpandOpen(), access, contextFlags{includeDataStreams: true})
	resolved, err := r.resolveExpressionList(ctx, expressions)
	if err != nil {
		return nil, err
	}

	if IsAllIndices(resolved) {
		return ResolveSearchRoutingAllIndices(state.Metadata, routing), nil
	}

	var paramRouting map[string]struct{}
	if routing != "" {
		paramRouting = splitRoutingValues(routing)
	}

	routings := map[string]map[string]struct{}{}
	// Indices already known to need no alias routing.
	noRouting := map[string]struct{}{}

	for _, expression := range resolved {
		ia := state.Metadata.IndicesLookup().Get(expression)
		switch {
		case ia != nil && ia.Type == metadata.TypeAlias:
			for _, index := range ia.Indices {
				concreteIndex := index.Name
				if _, done := noRouting[concreteIndex]; done {
					continue
				}
				var aliasRouting []string
				if imd := state.Metadata.Index(concreteIndex); imd != nil {
					if am, ok := imd.Aliases[ia.Name]; ok {
						aliasRouting = am.SearchRoutingValues()
					}
				}
				if len(aliasRouting) > 0 {
					values := routings[concreteIndex]
					if values == nil {
						values = map[string]struct{}{}
						routings[concreteIndex] = values
					}
					for _, v := range aliasRouting {
						values[v] = struct{}{}
					}
					if paramRouting != nil {
						for v := range values {
							if _, keep := paramRouting[v]; !keep {
								delete(values, v)
							}
						}
					}
					if len(values) == 0 {
						delete(routings, concreteIndex)
					}
				} else {
					collectRoutings(routings, paramRouting, noRouting, concreteIndex)
				}
			}
		case ia != nil && ia.Type == metadata.TypeDataStream:
			if !ia.DataStream.AllowCustomRouting {
				continue
			}
			for _, index := range ia.Indices {
				collectRoutings(routings, paramRouting, noRouting, index.Name)
			}
		default:
			collectRoutings(routings, paramRouting, noRouting, expression)
		}
	}

	if len(routings) == 0 {
		return nil, nil
	}
	return sortedRoutings(routings), nil
}

// collectRoutings records a no-alias-routing index: the caller routing
// applies when given, and any alias routing recorded earlier is void.
func collectRoutings(routings map[string]map[string]struct{}, paramRouting, noRouting map[string]struct{}, concreteIndex string) {
	if _, done := noRouting[concreteIndex]; done {
		return
	}
	noRouting[concreteIndex] = struct{}{}
	if paramRouting != nil {
		values := make(map[string]struct{}, len(paramRouting))
		for v := range paramRouting {
			values[v] = struct{}{}
		}
		routings[concreteIndex] = values
	} else {
		delete(routings, concreteIndex)
	}
}

// ResolveSearchRoutingAllIndices applies the caller routing to every
// concrete index, or returns nil when no routing was given.
func ResolveSearchRoutingAllIndices(meta *metadata.Metadata, routing string) map[string][]string {
	if routing == "" {
		return nil
	}
	values := splitRoutingValues(routing)
	routings := map[string]map[string]struct{}{}
	for _, index := range meta.ConcreteAllIndices() {
		routings[index] = values
	}
	return sortedRoutings(routings)
}

func splitRoutingValues(routing string) map[string]struct{} {
	values := map[string]struct{}{}
	for _, v := range strings.Split(routing, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values[v] = struct{}{}
		}
	}
	return values
}

func sortedRoutings(routings map[string]map[string]struct{}) map[string][]string {
	out := make(map[string][]string, len(routings))
	for index, values := range routings {
		sorted := make([]string, 0, len(values))
		for v := range values {
			sorted = append(sorted, v)
		}
		sort.Strings(sorted)
		out[index] = sorted
	}
	return out
}
