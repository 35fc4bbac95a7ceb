package core

// Config is the top-level YAML configuration for the forwarder daemon,
// unmarshaled with goccy/go-yaml by cmd/ndnfwd.
type Config struct {
	Core   CoreConfig   `yaml:"core"`
	Faces  []FaceConfig `yaml:"faces"`
	Routes []Route      `yaml:"routes"`
}

// CoreConfig holds process-wide settings not tied to any one face or route.
type CoreConfig struct {
	BaseDir string `yaml:"-"` // set from the config file's directory, not unmarshaled

	LogLevel string `yaml:"log_level"`

	StatusListen string `yaml:"status_listen"`

	// CSCacheDurationMS bounds how long a Content Store entry is retained
	// after insertion, independent of its freshness period.
	CSCacheDurationMS int `yaml:"cs_cache_duration_ms"`

	CpuProfile   string `yaml:"-"`
	MemProfile   string `yaml:"-"`
	BlockProfile string `yaml:"-"`
}

// FaceConfig describes one face to create at startup.
type FaceConfig struct {
	// Kind selects the transport: "tcp", "udp", "udp-multicast", "unix",
	// "websocket", "webtransport", or "null".
	Kind string `yaml:"kind"`
	// Listen is a "host:port" or filesystem path, depending on Kind; for
	// "udp-multicast" it names the network interface to join the group on.
	Listen string `yaml:"listen"`
	// Group is the multicast group address, only used when Kind is "udp-multicast".
	Group string `yaml:"group,omitempty"`
	// TLSCert and TLSKey name a certificate pair, only used when Kind is "webtransport".
	TLSCert string `yaml:"tls_cert,omitempty"`
	TLSKey  string `yaml:"tls_key,omitempty"`
}

// Route is a static FIB entry applied at startup: prefix Name routed to
// the face declared at the given index in Config.Faces.
type Route struct {
	Name    string `yaml:"name"`
	FaceIdx int    `yaml:"face"`
	Cost    int    `yaml:"cost"`
}

// DefaultConfig returns a Config with the forwarder's baseline settings,
// suitable as a starting point before a YAML file is read over it.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			LogLevel:          "INFO",
			StatusListen:      "127.0.0.1:6363",
			CSCacheDurationMS: 60_000,
		},
	}
}
