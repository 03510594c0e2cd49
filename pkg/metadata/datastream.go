package metadata

// DataStream is a managed, ordered sequence of backing indices with a
// single write index (the highest generation).
type DataStream struct {
	Name       string  `json:"name"`
	Indices    []Index `json:"indices"`
	Generation int64   `json:"generation"`

	Hidden bool `json:"hidden,omitempty"`
	System bool `json:"system,omitempty"`

	// AllowCustomRouting permits caller-supplied routing on searches that
	// target this data stream.
	AllowCustomRouting bool `json:"allow_custom_routing,omitempty"`
}

// WriteIndex returns the current write index of the data stream.
func (d *DataStream) WriteIndex() Index {
	return d.Indices[len(d.Indices)-1]
}
