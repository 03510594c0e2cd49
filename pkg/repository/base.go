package repository

import (
	"context"

	"github.com/meridiandb/meridian/pkg/metadata"
)

// ClusterStateRepository stores and serves the cluster naming snapshot.
type ClusterStateRepository interface {
	// Get returns the current cluster state, built from the stored
	// snapshot document.
	Get(ctx context.Context) (*metadata.ClusterState, error)

	// Version returns the current snapshot version without loading the
	// document.
	Version(ctx context.Context) (int64, error)

	// Publish validates and stores a new snapshot document, assigning the
	// next version. Returns the assigned version.
	Publish(ctx context.Context, doc *metadata.Document) (int64, error)
}
