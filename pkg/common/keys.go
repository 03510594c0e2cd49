package common

import "fmt"

var (
	// Cluster state keys
	clusterStateDoc     string = "cluster:state:doc:%s"     // clusterName
	clusterStateVersion string = "cluster:state:version:%s" // clusterName
	clusterStateLock    string = "cluster:state:lock:%s"    // clusterName
)

var Keys = &redisKeys{}

type redisKeys struct{}

func (rk *redisKeys) ClusterStateDoc(clusterName string) string {
	return fmt.Sprintf(clusterStateDoc, clusterName)
}

func (rk *redisKeys) ClusterStateVersion(clusterName string) string {
	return fmt.Sprintf(clusterStateVersion, clusterName)
}

func (rk *redisKeys) ClusterStateLock(clusterName string) string {
	return fmt.Sprintf(clusterStateLock, clusterName)
}
