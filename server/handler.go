package server

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gocloud.dev/server/requestlog"
)

const Greeting = "Hello from the Backend Service!"

type (
	handler struct {
		e *gin.Engine
	}
)

// NewHandler routes GET / to the greeting and leaves everything else to gin's
// defaults. Requests are recorded in NCSA format on accessLog when it is not nil.
func NewHandler(accessLog io.Writer) http.Handler {
	h := &handler{
		e: gin.New(),
	}
	h.e.Use(gin.Recovery())
	h.e.GET("/", h.greet)
	if accessLog == nil {
		return h
	}
	return requestlog.NewHandler(requestlog.NewNCSALogger(accessLog, func(err error) {
		slog.Warn("Unable to write access log", "err", err)
	}), h)
}

func (h *handler) greet(c *gin.Context) {
	c.String(http.StatusOK, Greeting)
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.e.ServeHTTP(w, r)
}
