package types

import "time"

// AppConfig is the root configuration for the meridian gateway.
type AppConfig struct {
	DebugMode  bool `key:"debugMode" json:"debug_mode"`
	PrettyLogs bool `key:"prettyLogs" json:"pretty_logs"`

	ClusterName string         `key:"clusterName" json:"cluster_name"`
	Database    DatabaseConfig `key:"database" json:"database"`
	Gateway     GatewayConfig  `key:"gateway" json:"gateway"`
	Resolver    ResolverConfig `key:"resolver" json:"resolver"`
}

type DatabaseConfig struct {
	Redis RedisConfig `key:"redis" json:"redis"`
}

type RedisMode string

const (
	RedisModeSingle  RedisMode = "single"
	RedisModeCluster RedisMode = "cluster"
)

type RedisConfig struct {
	Mode               RedisMode     `key:"mode" json:"mode"`
	Addrs              []string      `key:"addrs" json:"addrs"`
	Password           string        `key:"password" json:"password"`
	DialTimeout        time.Duration `key:"dialTimeout" json:"dial_timeout"`
	InsecureSkipVerify bool          `key:"insecureSkipVerify" json:"insecure_skip_verify"`
}

type GatewayConfig struct {
	Host string `key:"host" json:"host"`
	Port int    `key:"port" json:"port"`

	// StateRefreshInterval is how often the gateway re-reads the cluster
	// snapshot from the state store.
	StateRefreshInterval time.Duration `key:"stateRefreshInterval" json:"state_refresh_interval"`
}

type ResolverConfig struct {
	// SystemIndexPatterns declares the system index namespace: glob
	// patterns with an optional owning product and a net-new marker.
	SystemIndexPatterns []SystemIndexPatternConfig `key:"systemIndexPatterns" json:"system_index_patterns"`
}

type SystemIndexPatternConfig struct {
	Pattern string `key:"pattern" json:"pattern"`
	Product string `key:"product" json:"product"`
	NetNew  bool   `key:"netNew" json:"net_new"`
}
