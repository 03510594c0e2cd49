package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meridiandb/meridian/pkg/common"
	"github.com/meridiandb/meridian/pkg/metadata"
	"github.com/meridiandb/meridian/pkg/systemindices"
	"github.com/meridiandb/meridian/pkg/types"
)

func boolPtr(b bool) *bool { return &b }

// newTestResolver returns a resolver whose registry declares .tasks* as a
// historic system namespace owned by "tasks" and .fleet* as net-new owned
// by "fleet".
func newTestResolver() *Resolver {
	registry := systemindices.NewRegistry([]systemindices.Descriptor{
		{Pattern: ".tasks*", Product: "tasks"},
		{Pattern: ".fleet*", Product: "fleet", NetNew: true},
	})
	return New(registry, common.NewDeprecationLogger())
}

// newTestState builds the reference snapshot: open logs-1 and logs-2,
// closed logs-old, alias logs over both open ones, data stream events
// with two generations, and a hidden historic system index .tasks.
func newTestState(t *testing.T) *metadata.ClusterState {
	t.Helper()
	b := metadata.NewBuilder()
	b.Put(metadata.IndexMetadata{
		Index: metadata.Index{Name: "logs-1", UUID: "uuid-logs-1"},
		State: metadata.StateOpen,
		Aliases: map[string]metadata.AliasMetadata{
			"logs": {Alias: "logs"},
		},
	})
	b.Put(metadata.IndexMetadata{
		Index: metadata.Index{Name: "logs-2", UUID: "uuid-logs-2"},
		State: metadata.StateOpen,
		Aliases: map[string]metadata.AliasMetadata{
			"logs": {Alias: "logs"},
		},
	})
	b.Put(metadata.IndexMetadata{
		Index: metadata.Index{Name: "logs-old", UUID: "uuid-logs-old"},
		State: metadata.StateClose,
	})
	b.Put(metadata.IndexMetadata{
		Index:    metadata.Index{Name: "events-000001", UUID: "uuid-events-1"},
		State:    metadata.StateOpen,
		Settings: metadata.Settings{metadata.SettingHidden: "true"},
	})
	b.Put(metadata.IndexMetadata{
		Index:    metadata.Index{Name: "events-000002", UUID: "uuid-events-2"},
		State:    metadata.StateOpen,
		Settings: metadata.Settings{metadata.SettingHidden: "true"},
	})
	b.PutDataStream(metadata.DataStream{
		Name:       "events",
		Generation: 2,
		Indices: []metadata.Index{
			{Name: "events-000001", UUID: "uuid-events-1"},
			{Name: "events-000002", UUID: "uuid-events-2"},
		},
		AllowCustomRouting: true,
	})
	b.Put(metadata.IndexMetadata{
		Index:    metadata.Index{Name: ".tasks", UUID: "uuid-tasks"},
		State:    metadata.StateOpen,
		Settings: metadata.Settings{metadata.SettingHidden: "true"},
		System:   true,
	})
	m, err := b.Build()
	assert.NoError(t, err)
	return &metadata.ClusterState{Version: 1, Metadata: m}
}

func allAccess() systemindices.RequestAccess {
	return systemindices.RequestAccess{}
}

func TestConcreteIndexNamesWildcard(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	names, err := r.ConcreteIndexNames(state, allAccess(), StrictExpandOpen(), "logs-*")
	assert.NoError(t, err)
	assert.Equal(t, []string{"logs-1", "logs-2"}, names)
}

func TestConcreteIndexNamesWildcardWithExclusion(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	req := Request{
		Expressions:        []string{"*", "-logs-1"},
		Options:            StrictExpandOpen(),
		IncludeDataStreams: true,
	}
	names, err := r.ConcreteIndexNamesForRequest(state, allAccess(), req)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"logs-2", "events-000001", "events-000002"}, names)

	// Deterministic for a fixed snapshot and options.
	again, err := r.ConcreteIndexNamesForRequest(state, allAccess(), req)
	assert.NoError(t, err)
	assert.Equal(t, names, again)

	// Without data streams the events backing indices drop out.
	req.IncludeDataStreams = false
	names, err = r.ConcreteIndexNamesForRequest(state, allAccess(), req)
	assert.NoError(t, err)
	assert.Equal(t, []string{"logs-2"}, names)
}

func TestConcreteWriteIndexDataStream(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	index, err := r.ConcreteWriteIndex(state, allAccess(), StrictExpandOpen(), "events", false, true)
	assert.NoError(t, err)
	assert.NotNil(t, index)
	assert.Equal(t, "events-000002", index.Name)
}

func TestConcreteIndicesDateMath(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)
	startTime := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC).UnixMilli()

	req := Request{
		Expressions: []string{"<logs-{now/d{yyyy.MM.dd|UTC}}>"},
		Options:     StrictExpandOpen(),
	}
	_, err := r.ConcreteIndicesAt(state, allAccess(), req, startTime)
	var notFound *types.ErrIndexNotFound
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "logs-2024.01.15", notFound.Expression)
}

func TestConcreteIndicesMissingName(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	opts := StrictExpandOpen()
	_, err := r.ConcreteIndexNames(state, allAccess(), opts, "missing")
	var notFound *types.ErrIndexNotFound
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Expression)

	opts.IgnoreUnavailable = true
	names, err := r.ConcreteIndexNames(state, allAccess(), opts, "missing")
	assert.NoError(t, err)
	assert.Empty(t, names)
}

func TestConcreteIndicesCrossCluster(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	_, err := r.ConcreteIndexNames(state, allAccess(), StrictExpandOpen(), "logs-1:foo")
	var cross *types.ErrCrossClusterNotSupported
	assert.ErrorAs(t, err, &cross)
	assert.Equal(t, []string{"logs-1:foo"}, cross.Expressions)

	// Lenient requests skip the remote expression instead.
	opts := LenientExpandOpen()
	names, err := r.ConcreteIndexNames(state, allAccess(), opts, "logs-1:foo")
	assert.NoError(t, err)
	assert.Empty(t, names)
}

func TestConcreteIndicesAliasToMultiple(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	opts := StrictExpandOpen()
	opts.AllowAliasesToMultipleIndices = false
	_, err := r.ConcreteIndexNames(state, allAccess(), opts, "logs")
	var notSingle *types.ErrNotSingleIndex
	assert.ErrorAs(t, err, &notSingle)
	assert.Equal(t, "logs", notSingle.Expression)
	assert.Equal(t, []string{"logs-1", "logs-2"}, notSingle.Indices)
}

func TestConcreteIndicesClosed(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	opts := StrictExpandOpenAndForbidClosed()
	_, err := r.ConcreteIndexNames(state, allAccess(), opts, "logs-old")
	var closed *types.ErrIndexClosed
	assert.ErrorAs(t, err, &closed)
	assert.Equal(t, "logs-old", closed.Index)

	// ignore_unavailable skips the closed index instead of failing.
	opts.IgnoreUnavailable = true
	names, err := r.ConcreteIndexNames(state, allAccess(), opts, "logs-old")
	assert.NoError(t, err)
	assert.Empty(t, names)

	// Without forbid_closed_indices, the closed index is returned.
	names, err = r.ConcreteIndexNames(state, allAccess(), StrictExpandOpen(), "logs-old")
	assert.NoError(t, err)
	assert.Equal(t, []string{"logs-old"}, names)
}

func TestConcreteIndicesIgnoreThrottled(t *testing.T) {
	r := newTestResolver()
	b := metadata.NewBuilder()
	b.Put(metadata.IndexMetadata{
		Index: metadata.Index{Name: "hot", UUID: "uuid-hot"},
		State: metadata.StateOpen,
	})
	b.Put(metadata.IndexMetadata{
		Index:    metadata.Index{Name: "cold", UUID: "uuid-cold"},
		State:    metadata.StateOpen,
		Settings: metadata.Settings{metadata.SettingFrozen: "true"},
	})
	m, err := b.Build()
	assert.NoError(t, err)
	state := &metadata.ClusterState{Version: 1, Metadata: m}

	opts := StrictExpandOpen()
	opts.IgnoreThrottled = true
	names, err := r.ConcreteIndexNames(state, allAccess(), opts, "hot", "cold")
	assert.NoError(t, err)
	assert.Equal(t, []string{"hot"}, names)

	names, err = r.ConcreteIndexNames(state, allAccess(), StrictExpandOpen(), "hot", "cold")
	assert.NoError(t, err)
	assert.Equal(t, []string{"hot", "cold"}, names)
}

func TestConcreteIndicesDeduplicates(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	names, err := r.ConcreteIndexNames(state, allAccess(), StrictExpandOpen(), "logs", "logs-1", "logs-*")
	assert.NoError(t, err)
	assert.Equal(t, []string{"logs-1", "logs-2"}, names)
}

func TestConcreteIndicesRoundTrip(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	names, err := r.ConcreteIndexNames(state, allAccess(), StrictExpandOpen(), "logs-1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"logs-1"}, names)
}

func TestConcreteIndicesEmptyResultForbidden(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	opts := StrictExpandOpen()
	opts.AllowNoIndices = false
	_, err := r.ConcreteIndexNames(state, allAccess(), opts, "none-*")
	var notFound *types.ErrIndexNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestConcreteIndicesExcludedDataStreamAnnotation(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	opts := StrictExpandOpen()
	opts.AllowNoIndices = false
	opts.IgnoreUnavailable = true
	req := Request{
		Expressions: []string{"events", "gone"},
		Options:     opts,
	}
	_, err := r.ConcreteIndicesForRequest(state, allAccess(), req)
	var notFound *types.ErrIndexNotFound
	assert.ErrorAs(t, err, &notFound)
	assert.True(t, notFound.ExcludedDataStreams)
}

func TestSystemIndexHistoricAccessDeprecates(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	// Historic system index access succeeds even when the caller holds no
	// system access; it only draws a deprecation event.
	denied := systemindices.RequestAccess{SystemAccessDenied: true}
	names, err := r.ConcreteIndexNames(state, denied, StrictExpandOpen(), ".tasks")
	assert.NoError(t, err)
	assert.Equal(t, []string{".tasks"}, names)
}

func TestSystemIndexNetNewAccessDenied(t *testing.T) {
	r := newTestResolver()
	b := metadata.NewBuilder()
	b.Put(metadata.IndexMetadata{
		Index:    metadata.Index{Name: ".fleet-000001", UUID: "uuid-fleet"},
		State:    metadata.StateOpen,
		Settings: metadata.Settings{metadata.SettingHidden: "true"},
		System:   true,
	})
	m, err := b.Build()
	assert.NoError(t, err)
	state := &metadata.ClusterState{Version: 1, Metadata: m}

	denied := systemindices.RequestAccess{SystemAccessDenied: true}
	_, err = r.ConcreteIndexNames(state, denied, StrictExpandOpen(), ".fleet-000001")
	var sysErr *types.ErrSystemIndexAccess
	assert.ErrorAs(t, err, &sysErr)
	assert.Equal(t, []string{".fleet-000001"}, sysErr.Names)

	// The owning product keeps access.
	fleet := systemindices.RequestAccess{Product: "fleet"}
	names, err := r.ConcreteIndexNames(state, fleet, StrictExpandOpen(), ".fleet-000001")
	assert.NoError(t, err)
	assert.Equal(t, []string{".fleet-000001"}, names)
}

func TestSystemDataStreamAccessDenied(t *testing.T) {
	r := newTestResolver()
	b := metadata.NewBuilder()
	b.Put(metadata.IndexMetadata{
		Index:    metadata.Index{Name: ".fleet-actions-000001", UUID: "uuid-fa-1"},
		State:    metadata.StateOpen,
		Settings: metadata.Settings{metadata.SettingHidden: "true"},
		System:   true,
	})
	b.PutDataStream(metadata.DataStream{
		Name:       ".fleet-actions",
		Generation: 1,
		Indices:    []metadata.Index{{Name: ".fleet-actions-000001", UUID: "uuid-fa-1"}},
		Hidden:     true,
		System:     true,
	})
	m, err := b.Build()
	assert.NoError(t, err)
	state := &metadata.ClusterState{Version: 1, Metadata: m}

	denied := systemindices.RequestAccess{SystemAccessDenied: true}
	req := Request{
		Expressions:        []string{".fleet-actions"},
		Options:            StrictExpandOpen(),
		IncludeDataStreams: true,
	}
	_, err = r.ConcreteIndicesForRequest(state, denied, req)
	var dsErr *types.ErrSystemDataStreamAccess
	assert.ErrorAs(t, err, &dsErr)
	assert.Equal(t, []string{".fleet-actions"}, dsErr.Names)
}

func TestResolveWriteIndexAbstraction(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	ia, err := r.ResolveWriteIndexAbstraction(state, allAccess(), WriteRequest{
		Index:              "events",
		Options:            StrictExpandOpen(),
		OpCreate:           true,
		IncludeDataStreams: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, metadata.TypeDataStream, ia.Type)
	assert.Equal(t, "events-000002", ia.WriteIndex.Name)

	// An alias without a designated write index cannot take writes.
	_, err = r.ResolveWriteIndexAbstraction(state, allAccess(), WriteRequest{
		Index:   "logs",
		Options: StrictExpandOpen(),
	})
	var noWrite *types.ErrNoWriteIndex
	assert.ErrorAs(t, err, &noWrite)
	assert.Equal(t, "logs", noWrite.Alias)
}

func TestResolveWriteIndexAbstractionAliasWithWriteIndex(t *testing.T) {
	r := newTestResolver()
	b := metadata.NewBuilder()
	b.Put(metadata.IndexMetadata{
		Index: metadata.Index{Name: "queue-1", UUID: "uuid-q1"},
		State: metadata.StateOpen,
		Aliases: map[string]metadata.AliasMetadata{
			"queue": {Alias: "queue", WriteIndex: boolPtr(false)},
		},
	})
	b.Put(metadata.IndexMetadata{
		Index: metadata.Index{Name: "queue-2", UUID: "uuid-q2"},
		State: metadata.StateOpen,
		Aliases: map[string]metadata.AliasMetadata{
			"queue": {Alias: "queue", WriteIndex: boolPtr(true)},
		},
	})
	m, err := b.Build()
	assert.NoError(t, err)
	state := &metadata.ClusterState{Version: 1, Metadata: m}

	ia, err := r.ResolveWriteIndexAbstraction(state, allAccess(), WriteRequest{
		Index:   "queue",
		Options: StrictExpandOpen(),
	})
	assert.NoError(t, err)
	assert.Equal(t, "queue-2", ia.WriteIndex.Name)
}

func TestConcreteSingleIndex(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	index, err := r.ConcreteSingleIndex(state, allAccess(), StrictExpandOpen(), "logs-1")
	assert.NoError(t, err)
	assert.Equal(t, "logs-1", index.Name)
	assert.Equal(t, "uuid-logs-1", index.UUID)

	_, err = r.ConcreteSingleIndex(state, allAccess(), StrictExpandOpen(), "logs")
	var notTarget *types.ErrNotSingleTarget
	assert.ErrorAs(t, err, &notTarget)
}

func TestConcreteWriteIndexAllowNoIndex(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	opts := LenientExpandOpen()
	index, err := r.ConcreteWriteIndex(state, allAccess(), opts, "missing", true, false)
	assert.NoError(t, err)
	assert.Nil(t, index)
}

func TestDataStreamNames(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	names, err := r.DataStreamNames(state, allAccess(), LenientExpandOpenHidden(), "ev*")
	assert.NoError(t, err)
	assert.Equal(t, []string{"events"}, names)

	names, err = r.DataStreamNames(state, allAccess(), LenientExpandOpenHidden(), "logs-*")
	assert.NoError(t, err)
	assert.Empty(t, names)
}

func TestHasIndexAbstraction(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	ok, err := r.HasIndexAbstraction(state, "logs")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.HasIndexAbstraction(state, "nope")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestExclusionOfUnknownNameIsNoop(t *testing.T) {
	r := newTestResolver()
	state := newTestState(t)

	with, err := r.ConcreteIndexNames(state, allAccess(), StrictExpandOpen(), "logs-*")
	assert.NoError(t, err)
	without, err := r.ConcreteIndexNames(state, allAccess(), StrictExpandOpen(), "logs-*", "-never-existed")
	assert.NoError(t, err)
	assert.Equal(t, with, without)
}
