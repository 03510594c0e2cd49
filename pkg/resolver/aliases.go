package resolver

import (
	"sort"

	"github.com/meridiandb/meridian/pkg/metadata"
	"github.com/meridiandb/meridian/pkg/types"
)

// FilteringAliases selects the effective filtering aliases for one
// concrete index out of a pre-resolved expression set. Only aliases
// carrying a filter are returned; a non-filtering reference to the index
// itself, or to any of its aliases, yields nil (no filtering).
//
// The expressions must have been resolved via ResolveExpressions.
func (r *Resolver) FilteringAliases(state *metadata.ClusterState, index string, resolved *ExpressionSet) ([]string, error) {
	return r.IndexAliases(state, index,
		metadata.AliasMetadata.FilteringRequired,
		metadata.DataStreamAlias.FilteringRequired,
		false, resolved)
}

// iterateIndexAliases picks the candidate generation side: the aliases of
// the index when there are no more of them than resolved expressions.
func iterateIndexAliases(indexAliasesSize, resolvedExpressionsSize int) bool {
	return indexAliasesSize <= resolvedExpressionsSize
}

// IndexAliases selects the aliases of index that are in the resolved set
// and satisfy requiredAlias. Any candidate failing the predicate means
// the index is also reachable without the requirement, so nil is returned.
// Returns nil when nothing applies.
func (r *Resolver) IndexAliases(
	state *metadata.ClusterState,
	index string,
	requiredAlias func(metadata.AliasMetadata) bool,
	requiredDataStreamAlias func(metadata.DataStreamAlias) bool,
	skipIdentity bool,
	resolved *ExpressionSet,
) ([]string, error) {
	if IsAllIndices(resolved.Values()) {
		return nil, nil
	}

	meta := state.Metadata
	imd := meta.Index(index)
	if imd == nil {
		return nil, &types.ErrIndexNotFound{Expression: index, Resources: []string{index}}
	}

	if !skipIdentity && resolved.Contains(index) {
		return nil, nil
	}

	ia := meta.IndicesLookup().Get(index)
	if ia != nil && ia.ParentDataStream != nil {
		dataStreamName := ia.ParentDataStream.Name
		dataStreamAliases := meta.DataStreamAliases()

		var candidates []*metadata.DataStreamAlias
		if iterateIndexAliases(len(dataStreamAliases), resolved.Len()) {
			for _, alias := range dataStreamAliases {
				if resolved.Contains(alias.Name) {
					candidates = append(candidates, alias)
				}
			}
		} else {
			for _, name := range resolved.Values() {
				if alias, ok := dataStreamAliases[name]; ok {
					candidates = append(candidates, alias)
				}
			}
		}

		var aliases []string
		for _, alias := range candidates {
			if !alias.ContainsDataStream(dataStreamName) {
				continue
			}
			if !requiredDataStreamAlias(*alias) {
				// A non-required alias also reaches this data stream;
				// requirement filtering does not apply.
				return nil, nil
			}
			aliases = append(aliases, alias.Name)
		}
		sort.Strings(aliases)
		return aliases, nil
	}

	indexAliases := imd.Aliases
	var candidates []metadata.AliasMetadata
	if iterateIndexAliases(len(indexAliases), resolved.Len()) {
		for _, am := range indexAliases {
			if resolved.Contains(am.Alias) {
				candidates = append(candidates, am)
			}
		}
	} else {
		for _, name := range resolved.Values() {
			if am, ok := indexAliases[name]; ok {
				candidates = append(candidates, am)
			}
		}
	}

	var aliases []string
	for _, am := range candidates {
		if !requiredAlias(am) {
			// A non-required alias also reaches this index; requirement
			// filtering does not apply.
			return nil, nil
		}
		aliases = append(aliases, am.Alias)
	}
	if aliases == nil {
		return nil, nil
	}
	sort.Strings(aliases)
	return aliases, nil
}
