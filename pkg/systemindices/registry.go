package systemindices

import (
	"github.com/meridiandb/meridian/pkg/common"
	"github.com/meridiandb/meridian/pkg/types"
)

// AccessLevel is the per-request policy for touching system indices.
type AccessLevel int

const (
	// AccessNone rejects every system index.
	AccessNone AccessLevel = iota

	// AccessAll admits every system index.
	AccessAll

	// AccessRestricted admits only the system indices owned by the product
	// named in the request.
	AccessRestricted

	// AccessBackwardsCompatibleOnly admits historic system indices but
	// never net-new ones. It is reserved for known internal callers and is
	// never derived from a request.
	AccessBackwardsCompatibleOnly
)

func (l AccessLevel) String() string {
	switch l {
	case AccessAll:
		return "all"
	case AccessRestricted:
		return "restricted"
	case AccessBackwardsCompatibleOnly:
		return "backwards_compatible_only"
	default:
		return "none"
	}
}

// Descriptor declares one system index namespace: a glob pattern, the
// product that owns it, and whether the namespace is net-new (introduced
// after the compatibility cutoff, so under strictly gated access).
type Descriptor struct {
	Pattern string
	Product string
	NetNew  bool
}

// Registry classifies index names against the declared system namespaces.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	descriptors []Descriptor
}

// NewRegistry builds a registry from descriptors.
func NewRegistry(descriptors []Descriptor) *Registry {
	return &Registry{descriptors: append([]Descriptor(nil), descriptors...)}
}

// NewRegistryFromConfig builds a registry from the resolver configuration.
func NewRegistryFromConfig(cfg types.ResolverConfig) *Registry {
	descriptors := make([]Descriptor, 0, len(cfg.SystemIndexPatterns))
	for _, p := range cfg.SystemIndexPatterns {
		descriptors = append(descriptors, Descriptor{
			Pattern: p.Pattern,
			Product: p.Product,
			NetNew:  p.NetNew,
		})
	}
	return NewRegistry(descriptors)
}

func (r *Registry) match(name string) (Descriptor, bool) {
	for _, d := range r.descriptors {
		if common.WildcardMatch(d.Pattern, name) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// IsSystemName reports whether name falls in any system namespace.
func (r *Registry) IsSystemName(name string) bool {
	_, ok := r.match(name)
	return ok
}

// IsNetNewSystemIndex reports whether name falls in a net-new system
// namespace.
func (r *Registry) IsNetNewSystemIndex(name string) bool {
	d, ok := r.match(name)
	return ok && d.NetNew
}

// NetNewPredicate returns IsNetNewSystemIndex as a free function, for
// contexts that carry predicates rather than the registry.
func (r *Registry) NetNewPredicate() func(string) bool {
	return r.IsNetNewSystemIndex
}

// ProductPredicate accepts the system names owned by product.
func (r *Registry) ProductPredicate(product string) func(string) bool {
	return func(name string) bool {
		d, ok := r.match(name)
		return ok && d.Product != "" && d.Product == product
	}
}

// AccessPredicate returns the name predicate for an access level. For
// AccessRestricted the product identifies the caller.
func (r *Registry) AccessPredicate(level AccessLevel, product string) func(string) bool {
	switch level {
	case AccessAll:
		return func(string) bool { return true }
	case AccessBackwardsCompatibleOnly:
		return r.IsNetNewSystemIndex
	case AccessRestricted:
		return r.ProductPredicate(product)
	default:
		return func(string) bool { return false }
	}
}
