package history

// Config holds configuration for the merge history store.
type Config struct {
	// Enabled toggles history recording.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Path is the SQLite database file location.
	Path string `mapstructure:"path" default:"pxf-history.db"`
}
