package cache

// Keyer derives cache keys. Implementations must be deterministic: equal
// inputs yield equal keys across processes.
type Keyer interface {
	// SnapshotKey keys the simulated frame for a resolved engine config.
	SnapshotKey(configHash string, opts SnapshotKeyOpts) string

	// ArtifactKey keys one rendered format of a snapshot.
	ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string
}

// SnapshotKeyOpts are the simulation inputs not covered by the config hash.
type SnapshotKeyOpts struct {
	Seed       uint64 `json:"seed"`
	Steps      int    `json:"steps"`
	TimeScaled bool   `json:"time_scaled"`
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Showcase   string  `json:"showcase,omitempty"`
	Style      string  `json:"style,omitempty"`
	Lines      bool    `json:"lines"`
	Background string  `json:"background,omitempty"`
	Texture    string  `json:"texture,omitempty"`
	Instance   string  `json:"instance,omitempty"`
	Font       string  `json:"font,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes its inputs under fixed prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the stock keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SnapshotKey returns "snapshot:<hash>".
func (DefaultKeyer) SnapshotKey(configHash string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", configHash, opts)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, snapshotHash, opts)
}

var _ Keyer = DefaultKeyer{}
