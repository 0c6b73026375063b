//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, IP + optional geolocation, URL, and timestamp).
//  These structs are inert.  They contain no pointers to large buffers, so
//  they are safe to log or JSON-encode from the debug route.
//
//  Dependencies
//  • internal/ua                        (uasurfer wrapper)
//  • github.com/oschwald/geoip2-golang  (MaxMind lookup, optional)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"

	"github.com/yanizio/interactive/internal/ua"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// UA adds the visitor's primary language to the parsed user agent.
type UA struct {
	ua.Info
	PrimaryLang string `json:"primary_lang,omitempty"` // First tag from Accept-Language ("en", "es", ...)
}

// Geo holds IP-based geolocation hints.
// These are best-effort and empty when no database is configured.
type Geo struct {
	IP         net.IP `json:"ip"`
	CountryISO string `json:"country,omitempty"` // "US", "CA", "FR", ...
	City       string `json:"city,omitempty"`    // "Chicago", "Paris", ...
}

// RequestInfo is stored in the request context by Enrich.
type RequestInfo struct {
	UA        UA        `json:"ua"`
	Geo       Geo       `json:"geo"`
	URL       *url.URL  `json:"-"` // Pointer copy, safe to dereference read-only
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

//
//  -----------------------------
//  Geo database
//  -----------------------------
//

// GeoDB wraps a MaxMind City reader.  A nil *GeoDB is valid and performs
// no lookups, which keeps geo strictly optional.
type GeoDB struct {
	r *geoip2.Reader
}

// OpenGeo opens the GeoLite2-City database at dbPath.
func OpenGeo(dbPath string) (*GeoDB, error) {
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("requestinfo: open geo db: %w", err)
	}
	return &GeoDB{r: r}, nil
}

// Close releases the database.
func (g *GeoDB) Close() error {
	if g == nil || g.r == nil {
		return nil
	}
	return g.r.Close()
}

// Lookup resolves ip.  Misses and errors yield a Geo with only IP set.
func (g *GeoDB) Lookup(ip net.IP) Geo {
	geo := Geo{IP: ip}
	if g == nil || g.r == nil || ip == nil {
		return geo
	}
	rec, err := g.r.City(ip)
	if err != nil {
		return geo
	}
	geo.CountryISO = rec.Country.IsoCode
	geo.City = rec.City.Names["en"]
	return geo
}

//
//  -----------------------------
//  Public helper: FromContext
//  -----------------------------
//

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich.
// It returns nil if the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

func parseUA(uaHeader, acceptLang string) UA {
	return UA{Info: ua.Parse(uaHeader), PrimaryLang: primaryLang(acceptLang)}
}

// primaryLang extracts the first language subtag before any ";q=" rule.
func primaryLang(al string) string {
	if al == "" {
		return ""
	}
	parts := strings.Split(al, ",")
	tag := strings.TrimSpace(parts[0])
	if i := strings.Index(tag, ";"); i != -1 {
		tag = tag[:i]
	}
	if i := strings.Index(tag, "-"); i != -1 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}
