package metadata

import "strconv"

// Well-known index setting keys consumed by the resolver.
const (
	SettingHidden = "index.hidden"
	SettingFrozen = "index.frozen"
)

// Settings is a flat key/value view over index settings. Values are kept as
// strings the way they arrive from the snapshot document.
type Settings map[string]string

// GetAsBool returns the boolean value for key, or def when the key is
// absent or not parseable.
func (s Settings) GetAsBool(key string, def bool) bool {
	v, ok := s[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Get returns the raw value for key, or def when absent.
func (s Settings) Get(key string, def string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return def
}
