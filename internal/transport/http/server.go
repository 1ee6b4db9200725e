package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Muhammaduzair321/ip-checker/internal/gate"
	"github.com/Muhammaduzair321/ip-checker/internal/logger"
)

// MaxInputLen bounds a single submission.
const MaxInputLen = 2048

type submitRequest struct {
	Input string `json:"input"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter builds the HTTP API around svc. gatherer may be nil to leave
// out /metrics.
func NewRouter(svc *gate.Service, gatherer prometheus.Gatherer, log logger.Logger) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	api := r.Group("/api/v1")
	api.POST("/hosts", submitHandler(svc))
	api.GET("/hosts", listHandler(svc))
	api.GET("/hosts/watch", watchHandler(svc, log))
	api.GET("/normalize", normalizeHandler(svc))

	// /healthz: liveness
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	// /readyz: the ledger view is loaded and not stale
	r.GET("/readyz", func(c *gin.Context) {
		if err := svc.Ready(time.Now()); err != nil {
			c.String(http.StatusServiceUnavailable, "not ready: %v", err)
			return
		}
		c.String(http.StatusOK, "ready")
	})

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return r
}

func submitHandler(svc *gate.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "body must be {\"input\": \"...\"}"})
			return
		}
		if len(req.Input) > MaxInputLen {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "input is too long"})
			return
		}

		res := svc.Submit(c.Request.Context(), req.Input)
		c.JSON(statusCode(res), res)
	}
}

func statusCode(res gate.Result) int {
	switch res.Status {
	case gate.StatusUnique:
		return http.StatusOK
	case gate.StatusDuplicate:
		return http.StatusConflict
	}
	if res.Reason == gate.ReasonEmpty {
		return http.StatusUnprocessableEntity
	}
	return http.StatusServiceUnavailable
}

func listHandler(svc *gate.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"hosts": svc.Recent()})
	}
}

func normalizeHandler(svc *gate.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("input")
		if len(raw) > MaxInputLen {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "input is too long"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"canonical": svc.Normalize(raw)})
	}
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if strings.HasPrefix(c.Request.URL.Path, "/healthz") {
			return
		}
		log.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// RunHTTPServer serves handler on addr until ctx is canceled.
func RunHTTPServer(ctx context.Context, addr string, handler http.Handler, log logger.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown of the HTTP server when the parent context is canceled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("http: graceful shutdown error", "err", err)
		}
	}()

	log.Info("HTTP server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
