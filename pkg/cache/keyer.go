package cache

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of the layout of an item set.
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key of a rendered layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every engine option that changes a layout.
type LayoutKeyOpts struct {
	MaxWidth       int     `json:"max_width"`
	MaxRounds      int     `json:"max_rounds"`
	TransposeAfter int     `json:"transpose_after"`
	LayerSpacing   float64 `json:"layer_spacing"`
	VertexSpacing  float64 `json:"vertex_spacing"`
}

// ArtifactKeyOpts holds every render option that changes an artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Detailed   bool   `json:"detailed,omitempty"`
	HideRelays bool   `json:"hide_relays,omitempty"`
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey hashes the item set hash together with the options.
func (DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey(KindLayout, itemsHash, opts)
}

// ArtifactKey hashes the layout hash together with the options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, layoutHash, opts)
}
