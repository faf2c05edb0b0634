package server

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"aashub/internal/app"
	"aashub/internal/router"
	"aashub/internal/system"
)

// Server serves the mounted application and its API.
type Server struct {
	Addr string
	App  *app.App
	// Router lists the routes on /api/routes; optional.
	Router *router.Router
	// Users and Verifier back the account API. When nil the account
	// endpoints answer 503.
	Users    UserService
	Verifier VerificationService
	// TokenTTL is the lifetime of the login cookie.
	TokenTTL     time.Duration
	AllowOrigins []string
}

// Handler builds the gin engine.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger())
	r.Use(gin.Recovery())
	r.Use(cors.New(s.corsConfig()))

	r.GET("/health", health)
	mountAPIGin(r, s)
	mountAppGin(r, s.App)
	return r
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	system.Logger.Info("server listening", "addr", s.Addr)
	return srv.ListenAndServe()
}

func (s *Server) corsConfig() cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	// credentials are only allowed for explicit origins
	if len(s.AllowOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = s.AllowOrigins
		c.AllowCredentials = true
	}
	return c
}

// OpenBrowser tries to open a URL in the system browser.
func OpenBrowser(url string) error {
	var cmd string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}
	return runCmd(cmd, args...)
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

// mountAppGin serves static assets and, for every other GET/HEAD path
// outside /api, the page rendered by the application.
func mountAppGin(r *gin.Engine, a *app.App) {
	var httpFS http.FileSystem
	assets := a.Assets()
	if assets != nil {
		httpFS = http.FS(assets)
	}
	r.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		if isAPIPath(p) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusMethodNotAllowed)
			return
		}
		if name := strings.TrimPrefix(path.Clean(p), "/"); httpFS != nil && isAsset(assets, name) {
			if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
				c.Header("Content-Type", ct)
			}
			c.FileFromFS(name, httpFS)
			return
		}
		a.ServeHTTP(c.Writer, c.Request)
	})
}

// isAsset reports whether name is a regular file of assets. The shell
// document itself is only served through the application.
func isAsset(assets fs.FS, name string) bool {
	if name == "" || name == "." || name == "index.html" {
		return false
	}
	st, err := fs.Stat(assets, name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			system.Logger.Warn("asset lookup failed", "name", name, "err", err)
		}
		return false
	}
	return !st.IsDir()
}
