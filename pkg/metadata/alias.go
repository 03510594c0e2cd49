package metadata

import "strings"

// AliasMetadata describes one alias attached to one index. The same alias
// name may appear on many indices; together those entries form the alias
// abstraction in the snapshot lookup.
type AliasMetadata struct {
	Alias string `json:"alias"`

	// Filter is an opaque query document; aliases carrying one restrict
	// what their readers see.
	Filter string `json:"filter,omitempty"`

	IndexRouting  string `json:"index_routing,omitempty"`
	SearchRouting string `json:"search_routing,omitempty"`

	// WriteIndex designates this member as the alias write index. Nil means
	// unset, which is distinct from explicitly false.
	WriteIndex *bool `json:"is_write_index,omitempty"`

	Hidden *bool `json:"is_hidden,omitempty"`
}

// FilteringRequired reports whether reads through this alias must apply a
// filter.
func (a AliasMetadata) FilteringRequired() bool {
	return a.Filter != ""
}

// SearchRoutingValues returns the comma-separated search routing values,
// or nil when the alias defines none.
func (a AliasMetadata) SearchRoutingValues() []string {
	if a.SearchRouting == "" {
		return nil
	}
	parts := strings.Split(a.SearchRouting, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsHidden reports the alias hidden flag, defaulting to visible.
func (a AliasMetadata) IsHidden() bool {
	return a.Hidden != nil && *a.Hidden
}

// DataStreamAlias is an alias over one or more data streams.
type DataStreamAlias struct {
	Name            string   `json:"name"`
	DataStreams     []string `json:"data_streams"`
	WriteDataStream string   `json:"write_data_stream,omitempty"`
	Filter          string   `json:"filter,omitempty"`
}

// FilteringRequired reports whether reads through this alias must apply a
// filter.
func (a DataStreamAlias) FilteringRequired() bool {
	return a.Filter != ""
}

// ContainsDataStream reports whether name is one of the alias targets.
func (a DataStreamAlias) ContainsDataStream(name string) bool {
	for _, ds := range a.DataStreams {
		if ds == name {
			return true
		}
	}
	return false
}
