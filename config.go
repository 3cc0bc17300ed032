package termgrid

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config supplies non-interactive defaults, loaded once at process start.
// Every field has a working zero value, so a missing or absent config file
// is never an error -- it just means "use the built-in defaults".
type Config struct {
	OutputMode      string `toml:"output_mode"`       // "normal", "256", "216", "grayscale", "rgb"
	PollTimeoutMS   int    `toml:"poll_timeout_ms"`   // reserved for future blocking-poll backends
	AltEscTimeoutMS int    `toml:"alt_esc_timeout_ms"` // lone-ESC vs alt-sequence disambiguation window
	TermOverride    string `toml:"term_override"`     // force a $TERM value for capability lookup
	Encoding        string `toml:"encoding"`          // "", "UTF-8" (default, no transcoding), or a legacy charmap name
}

const defaultAltEscTimeoutMS = 50

// DefaultConfig returns the built-in defaults (spec §5: 50ms alt-esc
// timeout, Normal output mode, no term override).
func DefaultConfig() Config {
	return Config{
		OutputMode:      "normal",
		AltEscTimeoutMS: defaultAltEscTimeoutMS,
	}
}

// LoadConfig reads a TOML config file at path, overlaying it onto
// DefaultConfig. A missing file is not an error. The TERMGRID_CONFIG
// environment variable is consulted when path is empty.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv("TERMGRID_CONFIG")
	}
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	if cfg.AltEscTimeoutMS <= 0 {
		cfg.AltEscTimeoutMS = defaultAltEscTimeoutMS
	}
	return cfg, nil
}

func (c Config) outputMode() OutputMode {
	switch c.OutputMode {
	case "256":
		return Mode256
	case "216":
		return Mode216
	case "grayscale":
		return ModeGrayscale
	case "rgb":
		return ModeRGB
	default:
		return ModeNormal
	}
}
