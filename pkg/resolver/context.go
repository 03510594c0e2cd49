package resolver

import (
	"time"

	"github.com/meridiandb/meridian/pkg/metadata"
	"github.com/meridiandb/meridian/pkg/systemindices"
)

// resolveContext is the immutable per-call record the pipeline stages
// read. The clock is sampled once at construction so every date math token
// in one call resolves against the same instant.
type resolveContext struct {
	state   *metadata.ClusterState
	options Options

	// startTime is milliseconds since epoch.
	startTime int64

	preserveAliases     bool
	resolveToWriteIndex bool
	includeDataStreams  bool
	preserveDataStreams bool

	systemIndexAccessLevel systemindices.AccessLevel
	systemIndexAccess      func(string) bool
	netNewSystemIndex      func(string) bool
}

type contextFlags struct {
	preserveAliases     bool
	resolveToWriteIndex bool
	includeDataStreams  bool
	preserveDataStreams bool
	startTime           int64
}

func (r *Resolver) newContext(state *metadata.ClusterState, options Options, access systemindices.RequestAccess, flags contextFlags) *resolveContext {
	level := access.Level()
	startTime := flags.startTime
	if startTime == 0 {
		startTime = time.Now().UnixMilli()
	}
	return &resolveContext{
		state:                  state,
		options:                options,
		startTime:              startTime,
		preserveAliases:        flags.preserveAliases,
		resolveToWriteIndex:    flags.resolveToWriteIndex,
		includeDataStreams:     flags.includeDataStreams,
		preserveDataStreams:    flags.preserveDataStreams,
		systemIndexAccessLevel: level,
		systemIndexAccess:      r.systemIndices.AccessPredicate(level, access.Product),
		netNewSystemIndex:      r.systemIndices.NetNewPredicate(),
	}
}

// newSystemAccessContext is the internal-caller variant: the access
// predicate is forced open and the level pinned to backwards compatible,
// so historic system indices resolve without deprecation noise while
// net-new ones stay out of reach.
func (r *Resolver) newSystemAccessContext(state *metadata.ClusterState, options Options, flags contextFlags) *resolveContext {
	ctx := r.newContext(state, options, systemindices.RequestAccess{}, flags)
	ctx.systemIndexAccessLevel = systemindices.AccessBackwardsCompatibleOnly
	ctx.systemIndexAccess = func(string) bool { return true }
	return ctx
}
