package cache

// Keyer derives cache keys from content hashes and options.
type Keyer interface {
	// DatasetKey is the key of an ingested graph.
	DatasetKey(datasetHash string, opts DatasetKeyOpts) string

	// LayoutKey is the key of a laid-out (and optionally routed) graph.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string
}

// DatasetKeyOpts are the options that change ingest output.
type DatasetKeyOpts struct {
	Format  string   `json:"format"`
	Palette []string `json:"palette"`
}

// LayoutKeyOpts are the options that change layout output.
type LayoutKeyOpts struct {
	Dataset    DatasetKeyOpts `json:"dataset"`
	Engine     string         `json:"engine"`
	Direction  string         `json:"direction"`
	NodeSep    float64        `json:"nodesep"`
	RankSep    float64        `json:"ranksep"`
	Sweeps     int            `json:"sweeps"`
	NodeWidth  float64        `json:"node_width"`
	NodeHeight float64        `json:"node_height"`
	Routes     bool           `json:"routes"`
	Spacing    float64        `json:"spacing"`
	Radius     float64        `json:"radius"`
	Gap        float64        `json:"gap"`
}

// keyVersion is bumped when the cached encoding changes.
const keyVersion = "v1"

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey implements [Keyer].
func (DefaultKeyer) DatasetKey(datasetHash string, opts DatasetKeyOpts) string {
	return hashKey("dataset:"+keyVersion, datasetHash, opts)
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout:"+keyVersion, datasetHash, opts)
}

var _ Keyer = DefaultKeyer{}
