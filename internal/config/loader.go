// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `INTERACTIVE_`, where `__` maps to “.”
     (e.g., `INTERACTIVE_HTTP__LISTEN_ADDR → http.listen_addr`).

String values of the form `vault:<path>#<key>` are then handed to the
SecretResolver (when one is supplied) and replaced by the secret.  After
merging, the tree is unmarshalled into strongly-typed structs, validated,
enriched with the runtime root path, and cached in an `atomic.Pointer` for
lock-free reads.  `Reload()` calls `Load()` again with the same options
and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans: root discovery, YAML read, env overlay, vault refs.
  • ERROR spans: YAML parse, env overlay, vault, unmarshal, validation.
  • INFO  span:  final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed (bootstrap console).

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// EnvPrefix marks environment overrides.
const EnvPrefix = "INTERACTIVE_"

// VaultPrefix marks a string value that must be resolved through Vault.
const VaultPrefix = "vault:"

var (
	current atomic.Pointer[Config]

	lastMu   sync.Mutex
	lastOpts []Option
)

// SecretResolver turns a `path#key` reference into its secret value.
// *vault.Client satisfies it.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

type options struct {
	root     string
	resolver SecretResolver
	ctx      context.Context
}

// Option customises Load.
type Option func(*options)

// WithRoot pins the project root instead of discovering it.
func WithRoot(dir string) Option { return func(o *options) { o.root = dir } }

// WithSecrets enables `vault:` reference resolution.
func WithSecrets(ctx context.Context, r SecretResolver) Option {
	return func(o *options) { o.ctx, o.resolver = ctx, r }
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves INTERACTIVE_ROOT or climbs directories until
// conf/global.yaml is found.  Falls back to executable heuristic for
// production layout.
func rootDir() string {
	if r := os.Getenv(EnvPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves vault refs, validates, and
// caches Config.
func Load(opts ...Option) (*Config, error) {
	o := options{ctx: context.Background()}
	for _, fn := range opts {
		fn(&o)
	}
	root := o.root
	if root == "" {
		root = rootDir()
	}
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, fmt.Errorf("config: load %s: %w", yamlPath, err)
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: INTERACTIVE_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, fmt.Errorf("config: env overlay: %w", err)
	}

	if err := resolveSecrets(o.ctx, k, o.resolver); err != nil {
		zap.S().Errorw("config vault resolve failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, fmt.Errorf("config: %w", err)
	}

	current.Store(&cfg)
	lastMu.Lock()
	lastOpts = opts
	lastMu.Unlock()

	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"debug", cfg.Debug.Enabled,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// resolveSecrets replaces every `vault:` string in k.  Without a resolver a
// reference is a hard error so the app never runs with a literal ref.
func resolveSecrets(ctx context.Context, k *koanf.Koanf, r SecretResolver) error {
	found := map[string]string{}
	for key, val := range k.All() {
		s, ok := val.(string)
		if !ok || !strings.HasPrefix(s, VaultPrefix) {
			continue
		}
		if r == nil {
			return fmt.Errorf("config: %s references vault but no vault client is configured", key)
		}
		ref := strings.TrimPrefix(s, VaultPrefix)
		sec, err := r.Resolve(ctx, ref)
		if err != nil {
			return fmt.Errorf("config: resolve %s: %w", key, err)
		}
		zap.S().Debugw("config vault ref resolved", "key", key)
		found[key] = sec
	}
	for key, sec := range found {
		if err := k.Set(key, sec); err != nil {
			return fmt.Errorf("config: set %s: %w", key, err)
		}
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config { return current.Load() }

func Reload() error {
	lastMu.Lock()
	opts := lastOpts
	lastMu.Unlock()
	_, err := Load(opts...)
	return err
}
