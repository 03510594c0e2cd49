package repository

import (
	"github.com/alicebob/miniredis/v2"

	"github.com/meridiandb/meridian/pkg/common"
	"github.com/meridiandb/meridian/pkg/types"
)

// NewRedisClientForTest creates a Redis client backed by miniredis for
// testing.
func NewRedisClientForTest() (*common.RedisClient, error) {
	s, err := miniredis.Run()
	if err != nil {
		return nil, err
	}

	rdb, err := common.NewRedisClient(types.RedisConfig{
		Addrs: []string{s.Addr()},
		Mode:  types.RedisModeSingle,
	})
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

// NewClusterStateRepositoryForTest creates a repository backed by
// miniredis.
func NewClusterStateRepositoryForTest() (*ClusterStateRedisRepository, error) {
	rdb, err := NewRedisClientForTest()
	if err != nil {
		return nil, err
	}
	return NewClusterStateRedisRepository(rdb, "test-cluster"), nil
}
