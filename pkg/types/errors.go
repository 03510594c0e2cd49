package types

import (
	"fmt"
	"strings"
)

// ErrIndexNotFound is returned when an expression names a missing index,
// alias or data stream under strict options, or when resolution produced
// no indices and the options do not allow an empty result.
type ErrIndexNotFound struct {
	// Expression is the triggering expression, or empty when the error
	// covers the request as a whole.
	Expression string

	// Resources carries the expressions the error covers, for callers that
	// report them back: the triggering expression, or the request's
	// expressions when the error covers the request as a whole.
	Resources []string

	// ExcludedDataStreams marks that data streams matched but were
	// excluded by the request options, so callers can distinguish a truly
	// empty result.
	ExcludedDataStreams bool
}

func (e *ErrIndexNotFound) Error() string {
	if e.Expression == "" {
		return "no such index"
	}
	return fmt.Sprintf("no such index [%s]", e.Expression)
}

// ErrAliasNotSupported is returned when an expression matches an alias in
// a context that requires concrete indices.
type ErrAliasNotSupported struct {
	Expression string
}

func (e *ErrAliasNotSupported) Error() string {
	return fmt.Sprintf("the provided expression [%s] matches an alias, specify the corresponding concrete indices instead", e.Expression)
}

// ErrNotSingleIndex is returned when an alias or data stream resolves to
// several indices but the operation requires exactly one.
type ErrNotSingleIndex struct {
	Kind       string
	Expression string
	Indices    []string
}

func (e *ErrNotSingleIndex) Error() string {
	return fmt.Sprintf("%s [%s] has more than one index associated with it [%s], can't execute a single index op",
		e.Kind, e.Expression, strings.Join(e.Indices, ", "))
}

// ErrNoWriteIndex is returned when write-index resolution hits an alias
// without a designated write index.
type ErrNoWriteIndex struct {
	Alias string
}

func (e *ErrNoWriteIndex) Error() string {
	return fmt.Sprintf("no write index is defined for alias [%s]. The write index may be explicitly disabled using is_write_index=false or the alias points to multiple indices without one being designated as a write index", e.Alias)
}

// ErrIndexClosed is returned when a closed index is matched while closed
// indices are forbidden and unavailable indices are not ignored.
type ErrIndexClosed struct {
	Index string
}

func (e *ErrIndexClosed) Error() string {
	return fmt.Sprintf("closed index [%s]", e.Index)
}

// ErrInvalidExpression is returned for expressions that can never resolve:
// empty names, names starting with '_', or malformed date math.
type ErrInvalidExpression struct {
	Expression string
	Reason     string
}

func (e *ErrInvalidExpression) Error() string {
	return fmt.Sprintf("invalid index name [%s], %s", e.Expression, e.Reason)
}

// ErrCrossClusterNotSupported is returned when expressions reference a
// remote cluster in a context that cannot dispatch them.
type ErrCrossClusterNotSupported struct {
	Expressions []string
}

func (e *ErrCrossClusterNotSupported) Error() string {
	return fmt.Sprintf("cross-cluster calls are not supported in this context but remote indices were requested: [%s]",
		strings.Join(e.Expressions, ", "))
}

// ErrSystemDataStreamAccess is returned when resolution touched backing
// indices of system data streams the caller may not access.
type ErrSystemDataStreamAccess struct {
	Names []string
}

func (e *ErrSystemDataStreamAccess) Error() string {
	return fmt.Sprintf("cannot access system data streams [%s] with this request", strings.Join(e.Names, ", "))
}

// ErrSystemIndexAccess is returned when resolution touched net-new system
// indices the caller may not access.
type ErrSystemIndexAccess struct {
	Names []string
}

func (e *ErrSystemIndexAccess) Error() string {
	return fmt.Sprintf("cannot access system indices [%s] with this request", strings.Join(e.Names, ", "))
}

// ErrInvalidState is returned when an index is in a state the resolver
// does not understand; it indicates a corrupt snapshot.
type ErrInvalidState struct {
	Index string
	State string
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("index state [%s] not supported for [%s]", e.State, e.Index)
}

// ErrNotSingleTarget is returned by single-target resolution helpers when
// the expression and options resolve to zero or several targets.
type ErrNotSingleTarget struct {
	Expression string
	Reason     string
}

func (e *ErrNotSingleTarget) Error() string {
	return fmt.Sprintf("unable to resolve [%s] to a single target: %s", e.Expression, e.Reason)
}
