package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridiandb/meridian/pkg/metadata"
)

func testDocument() *metadata.Document {
	return &metadata.Document{
		Indices: []metadata.IndexMetadata{
			{
				Index: metadata.Index{Name: "logs-1", UUID: "u-1"},
				State: metadata.StateOpen,
				Aliases: map[string]metadata.AliasMetadata{
					"logs": {Alias: "logs"},
				},
			},
		},
	}
}

func TestClusterStateRepositoryEmpty(t *testing.T) {
	repo, err := NewClusterStateRepositoryForTest()
	assert.NoError(t, err)

	_, err = repo.Get(context.Background())
	assert.ErrorIs(t, err, ErrNoClusterState)

	_, err = repo.Version(context.Background())
	assert.ErrorIs(t, err, ErrNoClusterState)
}

func TestClusterStatePublishAndGet(t *testing.T) {
	repo, err := NewClusterStateRepositoryForTest()
	assert.NoError(t, err)
	ctx := context.Background()

	version, err := repo.Publish(ctx, testDocument())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), version)

	state, err := repo.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), state.Version)
	assert.True(t, state.Metadata.HasIndexAbstraction("logs-1"))
	assert.True(t, state.Metadata.HasIndexAbstraction("logs"))

	// Publishing again bumps the version.
	version, err = repo.Publish(ctx, testDocument())
	assert.NoError(t, err)
	assert.Equal(t, int64(2), version)

	current, err := repo.Version(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), current)
}

func TestClusterStatePublishRejectsInvalid(t *testing.T) {
	repo, err := NewClusterStateRepositoryForTest()
	assert.NoError(t, err)

	doc := &metadata.Document{
		DataStreams: []metadata.DataStream{
			{Name: "broken", Indices: []metadata.Index{{Name: "missing", UUID: "u"}}},
		},
	}
	_, err = repo.Publish(context.Background(), doc)
	assert.Error(t, err)

	_, err = repo.Version(context.Background())
	assert.ErrorIs(t, err, ErrNoClusterState)
}
