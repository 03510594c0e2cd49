package metadata

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Metadata is an immutable snapshot of the cluster naming state: every
// index, alias and data stream, plus the derived lookups the resolver
// consumes. Build one with a Builder; never mutate it afterwards.
type Metadata struct {
	indices           map[string]*IndexMetadata
	dataStreams       map[string]*DataStream
	dataStreamAliases map[string]*DataStreamAlias
	lookup            *Lookup

	allIndices           []string
	visibleIndices       []string
	allOpenIndices       []string
	visibleOpenIndices   []string
	allClosedIndices     []string
	visibleClosedIndices []string
}

// ClusterState is the versioned view handed to the resolver. The metadata
// pointer is shared, never copied; snapshots are replaced wholesale.
type ClusterState struct {
	Version  int64
	Metadata *Metadata
}

// IndicesLookup returns the ordered abstraction lookup.
func (m *Metadata) IndicesLookup() *Lookup {
	return m.lookup
}

// Index returns the metadata of the named concrete index, or nil.
func (m *Metadata) Index(name string) *IndexMetadata {
	return m.indices[name]
}

// Indices returns the name → index metadata map.
func (m *Metadata) Indices() map[string]*IndexMetadata {
	return m.indices
}

// DataStreams returns the name → data stream map.
func (m *Metadata) DataStreams() map[string]*DataStream {
	return m.dataStreams
}

// DataStreamAliases returns the name → data stream alias map.
func (m *Metadata) DataStreamAliases() map[string]*DataStreamAlias {
	return m.dataStreamAliases
}

// HasIndexAbstraction reports whether name exists in the lookup as an
// index, alias or data stream.
func (m *Metadata) HasIndexAbstraction(name string) bool {
	return m.lookup.Get(name) != nil
}

// ConcreteAllIndices returns the names of every concrete index.
func (m *Metadata) ConcreteAllIndices() []string { return m.allIndices }

// ConcreteVisibleIndices returns the names of every non-hidden concrete
// index.
func (m *Metadata) ConcreteVisibleIndices() []string { return m.visibleIndices }

// ConcreteAllOpenIndices returns the names of every open concrete index.
func (m *Metadata) ConcreteAllOpenIndices() []string { return m.allOpenIndices }

// ConcreteVisibleOpenIndices returns the names of every non-hidden open
// concrete index.
func (m *Metadata) ConcreteVisibleOpenIndices() []string { return m.visibleOpenIndices }

// ConcreteAllClosedIndices returns the names of every closed concrete
// index.
func (m *Metadata) ConcreteAllClosedIndices() []string { return m.allClosedIndices }

// ConcreteVisibleClosedIndices returns the names of every non-hidden
// closed concrete index.
func (m *Metadata) ConcreteVisibleClosedIndices() []string { return m.visibleClosedIndices }

// ----------------------------------------------------------------------------

// Builder accumulates snapshot entries and derives the lookup structures.
type Builder struct {
	indices           map[string]*IndexMetadata
	dataStreams       map[string]*DataStream
	dataStreamAliases map[string]*DataStreamAlias
}

// NewBuilder returns an empty snapshot builder.
func NewBuilder() *Builder {
	return &Builder{
		indices:           map[string]*IndexMetadata{},
		dataStreams:       map[string]*DataStream{},
		dataStreamAliases: map[string]*DataStreamAlias{},
	}
}

// Put adds an index to the snapshot. An empty uuid is assigned one.
func (b *Builder) Put(imd IndexMetadata) *Builder {
	if imd.Index.UUID == "" {
		imd.Index.UUID = uuid.NewString()
	}
	if imd.State == "" {
		imd.State = StateOpen
	}
	b.indices[imd.Index.Name] = &imd
	return b
}

// PutDataStream adds a data stream to the snapshot. Its backing indices
// must be added separately via Put.
func (b *Builder) PutDataStream(ds DataStream) *Builder {
	b.dataStreams[ds.Name] = &ds
	return b
}

// PutDataStreamAlias adds a data stream alias to the snapshot.
func (b *Builder) PutDataStreamAlias(a DataStreamAlias) *Builder {
	b.dataStreamAliases[a.Name] = &a
	return b
}

// Build derives the abstraction lookup and the concrete index name slices,
// validating that every name is claimed by exactly one abstraction and
// every referenced backing index exists.
func (b *Builder) Build() (*Metadata, error) {
	entries := map[string]*IndexAbstraction{}

	parentOf := map[string]*DataStream{}
	for _, ds := range b.dataStreams {
		if len(ds.Indices) == 0 {
			return nil, fmt.Errorf("data stream [%s] has no backing indices", ds.Name)
		}
		for _, idx := range ds.Indices {
			if b.indices[idx.Name] == nil {
				return nil, fmt.Errorf("data stream [%s] references missing index [%s]", ds.Name, idx.Name)
			}
			parentOf[idx.Name] = ds
		}
	}

	for name, imd := range b.indices {
		entries[name] = &IndexAbstraction{
			Type:             TypeConcreteIndex,
			Name:             name,
			Indices:          []Index{imd.Index},
			WriteIndex:       &imd.Index,
			Hidden:           imd.IsHidden(),
			System:           imd.System,
			ParentDataStream: parentOf[name],
		}
	}

	type aliasAccum struct {
		indices  []Index
		writers  []Index
		sole     *Index
		soleSet  bool
		hidden   bool
		haveMeta bool
	}
	aliases := map[string]*aliasAccum{}
	for _, imd := range b.indices {
		for aliasName, am := range imd.Aliases {
			acc := aliases[aliasName]
			if acc == nil {
				acc = &aliasAccum{}
				aliases[aliasName] = acc
			}
			acc.indices = append(acc.indices, imd.Index)
			if am.WriteIndex != nil && *am.WriteIndex {
				acc.writers = append(acc.writers, imd.Index)
			} else if am.WriteIndex == nil {
				idx := imd.Index
				acc.sole, acc.soleSet = &idx, true
			}
			if !acc.haveMeta {
				acc.hidden = am.IsHidden()
				acc.haveMeta = true
			}
		}
	}
	for aliasName, acc := range aliases {
		if other, ok := entries[aliasName]; ok {
			return nil, fmt.Errorf("alias [%s] collides with %s of the same name", aliasName, other.Type.DisplayName())
		}
		if len(acc.writers) > 1 {
			return nil, fmt.Errorf("alias [%s] has more than one write index", aliasName)
		}
		sort.Slice(acc.indices, func(i, j int) bool { return acc.indices[i].Name < acc.indices[j].Name })
		var writeIndex *Index
		if len(acc.writers) == 1 {
			writeIndex = &acc.writers[0]
		} else if len(acc.indices) == 1 && acc.soleSet {
			writeIndex = acc.sole
		}
		entries[aliasName] = &IndexAbstraction{
			Type:       TypeAlias,
			Name:       aliasName,
			Indices:    acc.indices,
			WriteIndex: writeIndex,
			Hidden:     acc.hidden,
		}
	}

	for name, ds := range b.dataStreams {
		if other, ok := entries[name]; ok {
			return nil, fmt.Errorf("data stream [%s] collides with %s of the same name", name, other.Type.DisplayName())
		}
		writeIndex := ds.WriteIndex()
		entries[name] = &IndexAbstraction{
			Type:       TypeDataStream,
			Name:       name,
			Indices:    append([]Index(nil), ds.Indices...),
			WriteIndex: &writeIndex,
			Hidden:     ds.Hidden,
			System:     ds.System,
			DataStream: ds,
		}
	}

	for name, dsa := range b.dataStreamAliases {
		if other, ok := entries[name]; ok {
			return nil, fmt.Errorf("data stream alias [%s] collides with %s of the same name", name, other.Type.DisplayName())
		}
		var indices []Index
		var writeIndex *Index
		targets := append([]string(nil), dsa.DataStreams...)
		sort.Strings(targets)
		for _, target := range targets {
			ds := b.dataStreams[target]
			if ds == nil {
				return nil, fmt.Errorf("data stream alias [%s] references missing data stream [%s]", name, target)
			}
			indices = append(indices, ds.Indices...)
			if target == dsa.WriteDataStream {
				wi := ds.WriteIndex()
				writeIndex = &wi
			}
		}
		entries[name] = &IndexAbstraction{
			Type:            TypeAlias,
			Name:            name,
			Indices:         indices,
			WriteIndex:      writeIndex,
			dataStreamAlias: true,
		}
	}

	m := &Metadata{
		indices:           b.indices,
		dataStreams:       b.dataStreams,
		dataStreamAliases: b.dataStreamAliases,
		lookup:            newLookup(entries),
	}

	names := make([]string, 0, len(b.indices))
	for name := range b.indices {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		imd := b.indices[name]
		hidden := imd.IsHidden()
		m.allIndices = append(m.allIndices, name)
		if !hidden {
			m.visibleIndices = append(m.visibleIndices, name)
		}
		switch imd.State {
		case StateOpen:
			m.allOpenIndices = append(m.allOpenIndices, name)
			if !hidden {
				m.visibleOpenIndices = append(m.visibleOpenIndices, name)
			}
		case StateClose:
			m.allClosedIndices = append(m.allClosedIndices, name)
			if !hidden {
				m.visibleClosedIndices = append(m.visibleClosedIndices, name)
			}
		}
	}

	return m, nil
}
