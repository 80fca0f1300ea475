// Package routes exposes the task store over HTTP.
package routes

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"task-manager/store"
)

const welcomeMessage = "Welcome to the Simple Task Manager API!"

// Prefixes the task routes are mounted under.
var taskPrefixes = []string{"/tasks", "/api/v1/tasks"}

type Options struct {
	Store  store.Store
	Logger *log.Logger
	// AllowedOrigin is the client address allowed to call the API from a browser.
	AllowedOrigin string
}

// NewRouter builds the gin engine serving the task API.
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := gin.New()
	r.Use(RequestLogger(logger), Recovery(logger))
	if opts.AllowedOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins: []string{opts.AllowedOrigin},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       12 * time.Hour,
		}))
	}
	r.Use(ErrorHandler(logger))

	h := &taskHandler{store: opts.Store}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, welcomeMessage)
	})
	r.GET("/health", h.health)

	for _, prefix := range taskPrefixes {
		g := r.Group(prefix)
		g.GET("", h.list)
		g.POST("", h.create)
		g.GET("/:id", h.get)
		g.PATCH("/:id", h.update)
		g.DELETE("/:id", h.remove)
	}

	return r
}
