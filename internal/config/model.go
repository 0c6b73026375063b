// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   - optional `.env`                               dotenv values,
//   - `conf/global.yaml`                            primary static file,
//   - `INTERACTIVE_`-prefixed environment overrides highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through a SecretResolver *before* unmarshalling, so the model never
// stores Vault references, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml`
//     tags unless configured otherwise.
//   - Durations are written as Go duration strings (“30m”, “5s”).
//   - The `Paths` block is filled at runtime; YAML must not try to set it.
//   - Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr        string        `koanf:"listen_addr"         validate:"required,hostname_port"`
	ForceHTTPS        bool          `koanf:"force_https"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"gte=0"`
	ReadTimeout       time.Duration `koanf:"read_timeout"        validate:"gte=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout"       validate:"gte=0"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"        validate:"gte=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"    validate:"gte=0"`
}

//
// Log section
//

// Log controls the file logger.  Dir is relative to Paths.Root unless
// absolute.
type Log struct {
	Dir   string `koanf:"dir"   validate:"required"`
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Session section
//

// Session tunes the visitor session store.
type Session struct {
	IdleTTL       time.Duration `koanf:"idle_ttl"       validate:"gte=0"`
	MaxEntries    int           `koanf:"max_entries"    validate:"gte=0"`
	EvictInterval time.Duration `koanf:"evict_interval" validate:"gte=0"`
}

//
// Form section
//

// Form holds signup form behavior.
//
// CSRFKey is a base64url (unpadded) key of at least 32 bytes, usually a
// `vault:secret/path#key` reference.  Empty means a random per-process key,
// which is fine for a single instance.
type Form struct {
	NoticeDelay time.Duration `koanf:"notice_delay"  validate:"gte=0"`
	CSRFKey     string        `koanf:"csrf_key"`
	TokenMaxAge time.Duration `koanf:"token_max_age" validate:"gte=0"`
}

//
// Geo section
//

// Geo points at an optional MaxMind City database.  Empty disables geo.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Debug section
//

// Debug toggles the /debug inspection route.
type Debug struct {
	Enabled bool `koanf:"enabled"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.  The loader
// discovers `Root` (repo root or INTERACTIVE_ROOT override) so later code
// can build absolute file paths.
type Paths struct {
	Root string // INTERACTIVE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP    HTTP    `koanf:"http"`
	Log     Log     `koanf:"log"`
	Session Session `koanf:"session"`
	Form    Form    `koanf:"form"`
	Geo     Geo     `koanf:"geo"`
	Debug   Debug   `koanf:"debug"`
	Paths   Paths   `koanf:"-"` // not loaded from config files
}
