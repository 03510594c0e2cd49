package metadata

// AbstractionType discriminates the three kinds of named resources in the
// snapshot lookup.
type AbstractionType int

const (
	TypeConcreteIndex AbstractionType = iota
	TypeAlias
	TypeDataStream
)

// DisplayName returns the user-facing name of the abstraction kind, used
// in error messages.
func (t AbstractionType) DisplayName() string {
	switch t {
	case TypeAlias:
		return "alias"
	case TypeDataStream:
		return "data stream"
	default:
		return "concrete index"
	}
}

// IndexAbstraction is one entry of the snapshot name lookup: a concrete
// index, an alias, or a data stream. It is a tagged value rather than an
// interface so the resolver hot loop dispatches on Type directly.
type IndexAbstraction struct {
	Type AbstractionType
	Name string

	// Indices are the backing indices, in a deterministic order. A concrete
	// index abstraction has exactly one; a data stream keeps generation
	// order with the write index last.
	Indices []Index

	// WriteIndex is the designated write index, when one exists. For
	// aliases it is the member flagged is_write_index, or the sole member
	// when the flag is unset; data streams always have one.
	WriteIndex *Index

	Hidden bool
	System bool

	// ParentDataStream is set on concrete-index abstractions that back a
	// data stream.
	ParentDataStream *DataStream

	// DataStream is the payload of a TypeDataStream abstraction.
	DataStream *DataStream

	// dataStreamAlias marks an alias whose members are data streams.
	dataStreamAlias bool
}

// IsDataStreamRelated reports whether the abstraction is a data stream, a
// backing index of one, or an alias over data streams.
func (ia *IndexAbstraction) IsDataStreamRelated() bool {
	return ia.Type == TypeDataStream || ia.ParentDataStream != nil || ia.dataStreamAlias
}
