package gateway

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/meridiandb/meridian/pkg/metadata"
	"github.com/meridiandb/meridian/pkg/repository"
)

// stateHolder caches the latest cluster snapshot so request handlers
// never block on the state store. The snapshot pointer is replaced
// wholesale; readers see a consistent view for the whole request.
type stateHolder struct {
	repo    repository.ClusterStateRepository
	current atomic.Pointer[metadata.ClusterState]
}

func newStateHolder(repo repository.ClusterStateRepository) *stateHolder {
	return &stateHolder{repo: repo}
}

// Current returns the cached snapshot, loading it on first use.
func (h *stateHolder) Current() (*metadata.ClusterState, error) {
	if state := h.current.Load(); state != nil {
		return state, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.refresh(ctx)
}

func (h *stateHolder) refresh(ctx context.Context) (*metadata.ClusterState, error) {
	state, err := h.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	h.current.Store(state)
	return state, nil
}

// run refreshes the snapshot on an interval until ctx is canceled. A
// version probe avoids reloading an unchanged document.
func (h *stateHolder) run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			current := h.current.Load()
			version, err := h.repo.Version(ctx)
			if err != nil {
				if err != repository.ErrNoClusterState {
					log.Warn().Err(err).Msg("failed to probe cluster state version")
				}
				continue
			}
			if current != nil && current.Version == version {
				continue
			}
			if _, err := h.refresh(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to refresh cluster state")
				continue
			}
			log.Debug().Int64("version", version).Msg("refreshed cluster state")
		}
	}
}
