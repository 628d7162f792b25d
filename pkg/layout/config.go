package layout

// Default geometry, in diagram units.
const (
	DefaultNodeWidth   = 160.0
	DefaultNodeHeight  = 80.0
	DefaultLevelHeight = 150.0
	DefaultNodeSpacing = 200.0
	DefaultBaseY       = 100.0
)

// Config holds the node box size and the grid used by auto layout.
type Config struct {
	NodeWidth   float64 `toml:"node_width" json:"node_width"`
	NodeHeight  float64 `toml:"node_height" json:"node_height"`
	LevelHeight float64 `toml:"level_height" json:"level_height"`
	NodeSpacing float64 `toml:"node_spacing" json:"node_spacing"`
	BaseY       float64 `toml:"base_y" json:"base_y"`
}

// DefaultConfig returns the editor's standard geometry.
func DefaultConfig() Config {
	return Config{
		NodeWidth:   DefaultNodeWidth,
		NodeHeight:  DefaultNodeHeight,
		LevelHeight: DefaultLevelHeight,
		NodeSpacing: DefaultNodeSpacing,
		BaseY:       DefaultBaseY,
	}
}

// WithDefaults fills zero-valued fields from DefaultConfig.
// BaseY is left alone since zero is a meaningful baseline.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.NodeWidth <= 0 {
		c.NodeWidth = d.NodeWidth
	}
	if c.NodeHeight <= 0 {
		c.NodeHeight = d.NodeHeight
	}
	if c.LevelHeight <= 0 {
		c.LevelHeight = d.LevelHeight
	}
	if c.NodeSpacing <= 0 {
		c.NodeSpacing = d.NodeSpacing
	}
	return c
}
