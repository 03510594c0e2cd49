package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	configPathEnv = "CONFIG_PATH"
	configJSONEnv = "CONFIG_JSON"
)

var defaultConfig = []byte(`
debugMode: false
prettyLogs: false
clusterName: meridian
database:
  redis:
    mode: single
    addrs:
      - localhost:6379
    dialTimeout: 5s
gateway:
  host: 0.0.0.0
  port: 1994
  stateRefreshInterval: 5s
resolver:
  systemIndexPatterns: []
`)

// ConfigManager loads layered configuration into a typed struct: built-in
// defaults, then an optional file named by CONFIG_PATH, then an optional
// inline JSON document in CONFIG_JSON. Struct fields bind via `key` tags.
type ConfigManager[T any] struct {
	k      *koanf.Koanf
	config T
}

// NewConfigManager loads configuration and returns the manager.
func NewConfigManager[T any]() (*ConfigManager[T], error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultConfig), kyaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if path := os.Getenv(configPathEnv); path != "" {
		parser := koanf.Parser(kyaml.Parser())
		if filepath.Ext(path) == ".json" {
			parser = kjson.Parser()
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if inline := os.Getenv(configJSONEnv); inline != "" {
		if err := k.Load(rawbytes.Provider([]byte(inline)), kjson.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load inline config: %w", err)
		}
	}

	cm := &ConfigManager[T]{k: k}
	if err := k.UnmarshalWithConf("", &cm.config, koanf.UnmarshalConf{
		Tag: "key",
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:          "key",
			Result:           &cm.config,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cm, nil
}

// GetConfig returns the loaded configuration.
func (cm *ConfigManager[T]) GetConfig() T {
	return cm.config
}
