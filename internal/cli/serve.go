package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"aashub/internal/bootstrap"
	"aashub/internal/config"
	"aashub/internal/pages"
	"aashub/internal/store"
	"aashub/internal/system"
	"aashub/internal/webui/server"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("addr", "a", "", "address to bind (host:port), overrides the config")
	cmd.Flags().BoolP("open", "o", false, "open the browser after start")
	cmd.Flags().Bool("watch", true, "reload the config file when it changes")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Mount the application and start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	addrFlag, _ := cmd.Flags().GetString("addr")
	if addrFlag != "" {
		cfg.Server.Addr = addrFlag
	}
	open, _ := cmd.Flags().GetBool("open")
	watch, _ := cmd.Flags().GetBool("watch")
	if err := system.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	// mount failures are fatal: there is no page to serve without one
	res, err := bootstrap.New(cfg, bootstrap.Options{})
	if err != nil {
		return err
	}

	// Handle Ctrl+C
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ttl, _ := cfg.Auth.TTL()
	srv := &server.Server{
		Addr:         cfg.Server.Addr,
		App:          res.App,
		Router:       res.Router,
		TokenTTL:     ttl,
		AllowOrigins: cfg.Server.AllowOrigins,
	}
	backend, err := bootstrap.OpenBackend(ctx, cfg)
	if err != nil {
		system.Logger.Error("accounts disabled", "err", err)
	} else {
		defer backend.Close()
		srv.Users = backend.Users
		srv.Verifier = backend.Verification
	}

	unsubscribe := res.Store.Subscribe(func(id string, v any) {
		system.Logger.Debug("state changed", "id", id, "value", v)
	})
	defer unsubscribe()

	if watch && fileExists(path) {
		rl := &reloader{cur: cfg, addr: addrFlag, store: res.Store, backend: backend}
		go func() {
			err := config.Watch(ctx, path, rl.apply)
			if err != nil {
				system.Logger.Warn("config watch stopped", "path", path, "err", err)
			}
		}()
	}

	url := "http://" + browsableAddr(cfg.Server.Addr) + "/"
	system.Logger.Info("starting aashub", "url", url)
	if open {
		if err := server.OpenBrowser(url); err != nil {
			system.Logger.Warn("failed to open browser", "err", err)
		}
	}
	if err := srv.Start(ctx); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
	return nil
}

// reloader applies the settings that can change while serving. Watch calls
// apply from a single goroutine.
type reloader struct {
	cur config.Config
	// addr is the --addr override, which reloads keep applying.
	addr    string
	store   *store.Store
	backend *bootstrap.Backend
}

func (r *reloader) apply(next config.Config, err error) {
	if err != nil {
		system.Logger.Warn("config reload failed; keeping previous settings", "err", err)
		return
	}
	if r.addr != "" {
		next.Server.Addr = r.addr
	}
	if err := system.SetLevel(next.Log.Level); err != nil {
		system.Logger.Warn("invalid log level", "level", next.Log.Level, "err", err)
	}
	if r.backend != nil {
		r.backend.Users.EnableVerification(next.Verification.Enabled)
	}
	if err := r.store.Update(pages.InfoState, func(v any) any {
		info, _ := v.(pages.Info)
		info.Title = next.UI.Title
		return info
	}); err != nil {
		system.Logger.Warn("update app state", "err", err)
	}
	if needsRestart(r.cur, next) {
		system.Logger.Warn("server address and database changes need a restart")
	}
	r.cur = next
	system.Logger.Info("config reloaded", "verification", next.Verification.Enabled, "level", next.Log.Level)
}

func needsRestart(cur, next config.Config) bool {
	return next.Server.Addr != cur.Server.Addr || next.Database != cur.Database
}

// browsableAddr swaps an unspecified bind host for localhost.
func browsableAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
