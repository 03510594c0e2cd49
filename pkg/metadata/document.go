package metadata

// Document is the serialized form of a cluster snapshot, as stored in the
// state repository. Build derives the in-memory lookup structures from it.
type Document struct {
	Version           int64             `json:"version"`
	Indices           []IndexMetadata   `json:"indices"`
	DataStreams       []DataStream      `json:"data_streams,omitempty"`
	DataStreamAliases []DataStreamAlias `json:"data_stream_aliases,omitempty"`
}

// Build validates the document and returns the cluster state view over it.
func (d *Document) Build() (*ClusterState, error) {
	b := NewBuilder()
	for _, imd := range d.Indices {
		b.Put(imd)
	}
	for _, ds := range d.DataStreams {
		b.PutDataStream(ds)
	}
	for _, dsa := range d.DataStreamAliases {
		b.PutDataStreamAlias(dsa)
	}
	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &ClusterState{Version: d.Version, Metadata: m}, nil
}
