package metadata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestBuilderDerivesAbstractions(t *testing.T) {
	b := NewBuilder()
	b.Put(IndexMetadata{
		Index: Index{Name: "a-1", UUID: "u-1"},
		State: StateOpen,
		Aliases: map[string]AliasMetadata{
			"a": {Alias: "a", WriteIndex: boolPtr(true)},
		},
	})
	b.Put(IndexMetadata{
		Index: Index{Name: "a-2", UUID: "u-2"},
		State: StateClose,
		Aliases: map[string]AliasMetadata{
			"a": {Alias: "a"},
		},
	})
	m, err := b.Build()
	assert.NoError(t, err)

	ia := m.IndicesLookup().Get("a")
	assert.NotNil(t, ia)
	assert.Equal(t, TypeAlias, ia.Type)
	assert.Equal(t, []Index{{Name: "a-1", UUID: "u-1"}, {Name: "a-2", UUID: "u-2"}}, ia.Indices)
	assert.Equal(t, "a-1", ia.WriteIndex.Name)

	concrete := m.IndicesLookup().Get("a-1")
	assert.Equal(t, TypeConcreteIndex, concrete.Type)
	assert.False(t, concrete.IsDataStreamRelated())

	assert.Equal(t, []string{"a-1", "a-2"}, m.ConcreteAllIndices())
	assert.Equal(t, []string{"a-1"}, m.ConcreteAllOpenIndices())
	assert.Equal(t, []string{"a-2"}, m.ConcreteAllClosedIndices())
}

func TestBuilderSoleMemberAliasWriteIndex(t *testing.T) {
	b := NewBuilder()
	b.Put(IndexMetadata{
		Index: Index{Name: "solo-1", UUID: "u-1"},
		State: StateOpen,
		Aliases: map[string]AliasMetadata{
			"solo": {Alias: "solo"},
		},
	})
	m, err := b.Build()
	assert.NoError(t, err)

	// A single-member alias with an unset flag takes that member as its
	// write index; an explicit false leaves it without one.
	assert.Equal(t, "solo-1", m.IndicesLookup().Get("solo").WriteIndex.Name)

	b = NewBuilder()
	b.Put(IndexMetadata{
		Index: Index{Name: "solo-1", UUID: "u-1"},
		State: StateOpen,
		Aliases: map[string]AliasMetadata{
			"solo": {Alias: "solo", WriteIndex: boolPtr(false)},
		},
	})
	m, err = b.Build()
	assert.NoError(t, err)
	assert.Nil(t, m.IndicesLookup().Get("solo").WriteIndex)
}

func TestBuilderRejectsConflicts(t *testing.T) {
	b := NewBuilder()
	b.Put(IndexMetadata{
		Index: Index{Name: "x-1", UUID: "u-1"},
		State: StateOpen,
		Aliases: map[string]AliasMetadata{
			"x": {Alias: "x", WriteIndex: boolPtr(true)},
		},
	})
	b.Put(IndexMetadata{
		Index: Index{Name: "x-2", UUID: "u-2"},
		State: StateOpen,
		Aliases: map[string]AliasMetadata{
			"x": {Alias: "x", WriteIndex: boolPtr(true)},
		},
	})
	_, err := b.Build()
	assert.ErrorContains(t, err, "more than one write index")

	b = NewBuilder()
	b.PutDataStream(DataStream{Name: "ds", Indices: []Index{{Name: "missing", UUID: "u"}}})
	_, err = b.Build()
	assert.ErrorContains(t, err, "missing index")
}

func TestBuilderDataStream(t *testing.T) {
	b := NewBuilder()
	b.Put(IndexMetadata{
		Index:    Index{Name: "ds-000001", UUID: "u-1"},
		State:    StateOpen,
		Settings: Settings{SettingHidden: "true"},
	})
	b.Put(IndexMetadata{
		Index:    Index{Name: "ds-000002", UUID: "u-2"},
		State:    StateOpen,
		Settings: Settings{SettingHidden: "true"},
	})
	b.PutDataStream(DataStream{
		Name:       "ds",
		Generation: 2,
		Indices:    []Index{{Name: "ds-000001", UUID: "u-1"}, {Name: "ds-000002", UUID: "u-2"}},
	})
	m, err := b.Build()
	assert.NoError(t, err)

	ia := m.IndicesLookup().Get("ds")
	assert.Equal(t, TypeDataStream, ia.Type)
	assert.Equal(t, "ds-000002", ia.WriteIndex.Name)
	assert.True(t, ia.IsDataStreamRelated())

	backing := m.IndicesLookup().Get("ds-000001")
	assert.NotNil(t, backing.ParentDataStream)
	assert.Equal(t, "ds", backing.ParentDataStream.Name)
	assert.True(t, backing.IsDataStreamRelated())
}

func TestBuilderDataStreamAlias(t *testing.T) {
	b := NewBuilder()
	b.Put(IndexMetadata{
		Index:    Index{Name: "logs-000001", UUID: "u-1"},
		State:    StateOpen,
		Settings: Settings{SettingHidden: "true"},
	})
	b.PutDataStream(DataStream{
		Name:       "logs",
		Generation: 1,
		Indices:    []Index{{Name: "logs-000001", UUID: "u-1"}},
	})
	b.PutDataStreamAlias(DataStreamAlias{
		Name:            "logs-alias",
		DataStreams:     []string{"logs"},
		WriteDataStream: "logs",
	})
	m, err := b.Build()
	assert.NoError(t, err)

	ia := m.IndicesLookup().Get("logs-alias")
	assert.Equal(t, TypeAlias, ia.Type)
	assert.True(t, ia.IsDataStreamRelated())
	assert.Equal(t, "logs-000001", ia.WriteIndex.Name)
}

func TestLookupRangeScan(t *testing.T) {
	b := NewBuilder()
	for _, name := range []string{"idx-a", "idx-b", "idx-c", "other"} {
		b.Put(IndexMetadata{Index: Index{Name: name, UUID: "u-" + name}, State: StateOpen})
	}
	m, err := b.Build()
	assert.NoError(t, err)

	var visited []string
	m.IndicesLookup().EachInRange("idx-", "idx.", func(ia *IndexAbstraction) bool {
		visited = append(visited, ia.Name)
		return true
	})
	assert.Equal(t, []string{"idx-a", "idx-b", "idx-c"}, visited)
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := Document{
		Version: 7,
		Indices: []IndexMetadata{
			{
				Index:    Index{Name: "round-1", UUID: "u-1"},
				State:    StateOpen,
				Settings: Settings{SettingFrozen: "true"},
				Aliases: map[string]AliasMetadata{
					"round": {Alias: "round", Filter: `{"term":{"x":1}}`},
				},
			},
		},
	}
	raw, err := json.Marshal(&doc)
	assert.NoError(t, err)

	var decoded Document
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	state, err := decoded.Build()
	assert.NoError(t, err)
	assert.Equal(t, int64(7), state.Version)

	imd := state.Metadata.Index("round-1")
	assert.NotNil(t, imd)
	assert.True(t, imd.Settings.GetAsBool(SettingFrozen, false))
	assert.True(t, imd.Aliases["round"].FilteringRequired())
}

func TestSettings(t *testing.T) {
	s := Settings{"index.hidden": "true", "index.frozen": "nope"}
	assert.True(t, s.GetAsBool("index.hidden", false))
	assert.False(t, s.GetAsBool("index.frozen", false))
	assert.False(t, s.GetAsBool("absent", false))
	assert.True(t, s.GetAsBool("absent", true))
	assert.Equal(t, "true", s.Get("index.hidden", ""))
	assert.Equal(t, "def", s.Get("absent", "def"))
}
