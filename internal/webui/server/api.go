package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appver "aashub/internal/version"
	"aashub/internal/webui/server/docs"
)

type routeInfo struct {
	Path string `json:"path"`
	View string `json:"view"`
}

func mountAPIGin(r *gin.Engine, s *Server) {
	api := r.Group("/api")
	api.GET("/health", gin.WrapF(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	api.GET("/version", gin.WrapF(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": appver.AppVersion})
	}))
	api.GET("/routes", func(c *gin.Context) {
		out := []routeInfo{}
		if s.Router != nil {
			for _, rt := range s.Router.Routes() {
				out = append(out, routeInfo{Path: rt.Path, View: rt.View.Name()})
			}
		}
		c.JSON(http.StatusOK, out)
	})

	h := &accountHandler{users: s.Users, verifier: s.Verifier, tokenTTL: s.TokenTTL}
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Version = appver.AppVersion
	v1 := api.Group("/v1")
	{
		ug := v1.Group("/users")
		ug.POST("/register", h.register)
		ug.POST("/login", h.login)
		v1.GET("/verify", h.verify)
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// health answers liveness probes.
func health(c *gin.Context) {
	c.JSON(http.StatusOK, "healthy")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err, ok := v.(error); ok {
		_ = json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}
