// cmd/web/main.go
//
// Interactive Web Pages – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Console bootstrap logger so config problems are visible.
//
//  2. Load configuration (conf/global.yaml → env overrides), resolving
//     `vault:` references when VAULT_ADDR is set.
//
//  3. Start the daily rotating file logger (tees to console in a TTY).
//
//  4. Open the optional GeoLite2 database and build the CSRF issuer.
//
//  5. Build the session store; each new visitor gets a Page, a bound form
//     Controller, and fresh widget state.
//
//  6. Router:
//
//     • request id → access log → recoverer → security headers → HTTPS
//     • /metrics and /healthz           no session
//     • request info → session cookie   everything else
//     • components                      /, /signup, /play
//     • modules                         exact paths, e.g. /debug
//
//  7. Serve until SIGINT or SIGTERM, then drain and close the store.
//     SIGHUP reloads configuration.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/interactive/components/playground"
	"github.com/yanizio/interactive/components/signup"
	"github.com/yanizio/interactive/internal/component"
	"github.com/yanizio/interactive/internal/config"
	"github.com/yanizio/interactive/internal/form"
	"github.com/yanizio/interactive/internal/logger"
	"github.com/yanizio/interactive/internal/middleware"
	"github.com/yanizio/interactive/internal/module"
	"github.com/yanizio/interactive/internal/requestinfo"
	"github.com/yanizio/interactive/internal/server"
	"github.com/yanizio/interactive/internal/session"
	"github.com/yanizio/interactive/internal/vault"

	_ "github.com/yanizio/interactive/components/home"
	_ "github.com/yanizio/interactive/modules/debug" // inspection module
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	boot := logger.Bootstrap()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	var opts []config.Option
	if os.Getenv("VAULT_ADDR") != "" {
		vc, err := vault.New(ctx, boot)
		if err != nil {
			boot.Fatalw("vault client", "err", err)
		}
		opts = append(opts, config.WithSecrets(ctx, vc))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		boot.Fatalw("load config", "err", err)
	}

	//
	// ── 2.  File logger ─────────────────────────────────────────────────
	//
	logDir := cfg.Log.Dir
	if !filepath.IsAbs(logDir) {
		logDir = filepath.Join(cfg.Paths.Root, logDir)
	}
	log, err := logger.New(logger.Options{Dir: logDir, Level: cfg.Log.Level, Tee: runningInTTY()})
	if err != nil {
		boot.Fatalw("start logger", "err", err)
	}
	defer func() { _ = log.Sync() }()

	//
	// ── 3.  Geo database and CSRF tokens ────────────────────────────────
	//
	var geo *requestinfo.GeoDB
	if cfg.Geo.DBPath != "" {
		if geo, err = requestinfo.OpenGeo(cfg.Geo.DBPath); err != nil {
			log.Warnw("geo lookups disabled", "path", cfg.Geo.DBPath, "err", err)
		}
	}
	defer func() { _ = geo.Close() }()

	var key []byte
	if cfg.Form.CSRFKey != "" {
		if key, err = form.DecodeKey(cfg.Form.CSRFKey); err != nil {
			log.Fatalw("csrf key", "err", err)
		}
	} else {
		log.Warnw("form.csrf_key not set, using a random key; tokens will not survive a restart")
	}
	tokens, err := form.NewTokens(key, cfg.Form.TokenMaxAge)
	if err != nil {
		log.Fatalw("csrf tokens", "err", err)
	}

	//
	// ── 4.  Session store ───────────────────────────────────────────────
	//
	fd, err := signup.Def()
	if err != nil {
		log.Fatalw("signup form", "err", err)
	}
	faq, err := playground.FAQ()
	if err != nil {
		log.Fatalw("faq content", "err", err)
	}
	store := session.New(
		session.Builder(fd, faq,
			form.WithNoticeDelay(cfg.Form.NoticeDelay),
			form.WithLogger(log),
		),
		session.Options{
			IdleTTL:       cfg.Session.IdleTTL,
			MaxEntries:    cfg.Session.MaxEntries,
			EvictInterval: cfg.Session.EvictInterval,
		},
		log,
	)
	defer store.Close()

	//
	// ── 5.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		middleware.AccessLog(log),
		chimw.Recoverer,
		middleware.Security,
		middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS),
	)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	var mountErr error
	r.Group(func(r chi.Router) {
		r.Use(requestinfo.Enrich(geo), session.Middleware(store))

		mountErr = component.Mount(r, component.Deps{
			Config:   cfg,
			Sessions: store,
			Tokens:   tokens,
			Log:      log,
		})

		// Module dispatch – exact path match (e.g., /debug).
		for _, p := range module.Paths() {
			r.Handle(p, module.HTTP(module.Lookup(p)))
			log.Debugw("module mounted", "path", p)
		}
	})
	if mountErr != nil {
		log.Fatalw("mount components", "err", mountErr)
	}

	//
	// ── 6.  Reload on SIGHUP ────────────────────────────────────────────
	//
	go reloadOnHUP(ctx, log)

	//
	// ── 7.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, r, server.Timeouts{
		ReadHeader: cfg.HTTP.ReadHeaderTimeout,
		Read:       cfg.HTTP.ReadTimeout,
		Write:      cfg.HTTP.WriteTimeout,
		Idle:       cfg.HTTP.IdleTimeout,
	})
	if err := server.Run(ctx, srv, nil, cfg.HTTP.ShutdownTimeout, log); err != nil {
		log.Errorw("http server", "err", err)
		return
	}
	log.Infow("bye")
}

// reloadOnHUP re-reads configuration on every SIGHUP.  Only values read
// per request (debug.enabled) change without a restart.
func reloadOnHUP(ctx context.Context, log *zap.SugaredLogger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := config.Reload(); err != nil {
				log.Errorw("config reload failed", "err", err)
				continue
			}
			log.Infow("config reloaded")
		}
	}
}
