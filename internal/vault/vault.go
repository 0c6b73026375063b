// internal/vault/vault.go
//
// Secret references for configuration.
//
// Context
// -------
// Config values written as `vault:<mount>/<path>#<key>` name one key of a
// KV-v2 secret.  The loader hands the part after `vault:` to Resolve, which
// reads the secret once and returns the key's string value.  Today that is
// the CSRF signing key; nothing else in the app talks to Vault.
//
// Workflow
// --------
//  1. main builds a Client only when VAULT_ADDR is set.
//  2. config.Load calls Resolve for every reference (again on SIGHUP).
//  3. A background watcher keeps a renewable token alive so a reload
//     hours later still authenticates.
//
// Notes
// -----
//   - VAULT_ADDR, VAULT_TOKEN, and the other VAULT_* variables are read by
//     the SDK itself.
//   - Values are not cached; reads happen at load time only.
//   - Oxford commas, two spaces after periods.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// ErrBadRef reports a reference without the `mount/path#key` shape.
var ErrBadRef = errors.New("vault ref must look like mount/path#key")

// Client resolves secret references.  Safe for concurrent use.
type Client struct {
	api *vault.Client
	log *zap.SugaredLogger
}

// New builds a Client from the VAULT_* environment and starts the token
// watcher, which stops with ctx.
func New(ctx context.Context, log *zap.SugaredLogger) (*Client, error) {
	cfg := vault.DefaultConfig()
	if cfg.Error != nil {
		return nil, fmt.Errorf("vault: config: %w", cfg.Error)
	}
	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault: client: %w", err)
	}
	c := newClient(api, log)
	go c.keepTokenAlive(ctx)
	return c, nil
}

func newClient(api *vault.Client, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.S()
	}
	return &Client{api: api, log: log}
}

// Ref is a parsed `mount/path#key` reference.
type Ref struct {
	Mount string // KV-v2 mount, e.g. "secret"
	Path  string // secret path below the mount
	Key   string // key inside the secret's data
}

func (r Ref) String() string { return r.Mount + "/" + r.Path + "#" + r.Key }

// ParseRef splits “secret/interactive#csrf_key” into its parts.
func ParseRef(s string) (Ref, error) {
	loc, key, ok := strings.Cut(s, "#")
	if !ok || key == "" || strings.Contains(key, "#") {
		return Ref{}, fmt.Errorf("%w: %q", ErrBadRef, s)
	}
	mount, path, ok := strings.Cut(loc, "/")
	if !ok || mount == "" || path == "" {
		return Ref{}, fmt.Errorf("%w: %q", ErrBadRef, s)
	}
	return Ref{Mount: mount, Path: path, Key: key}, nil
}

// Resolve reads the secret ref points at and returns its string value.
// It satisfies config.SecretResolver.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	r, err := ParseRef(ref)
	if err != nil {
		return "", err
	}

	sec, err := c.api.KVv2(r.Mount).Get(ctx, r.Path)
	if err != nil {
		return "", fmt.Errorf("vault: read %s: %w", r, err)
	}
	raw, ok := sec.Data[r.Key]
	if !ok {
		return "", fmt.Errorf("vault: %s: key not found", r)
	}
	val, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("vault: %s: value is %T, want string", r, raw)
	}
	c.log.Debugw("vault secret resolved", "ref", r.String(), "version", version(sec))
	return val, nil
}

func version(sec *vault.KVSecret) int {
	if sec == nil || sec.VersionMetadata == nil {
		return 0
	}
	return sec.VersionMetadata.Version
}
