package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mlbstats/internal"
)

// Store is the read side of the record store the dashboard aggregates.
type Store interface {
	ListBatting(ctx context.Context) ([]internal.BattingRecord, error)
	ListHomeRuns(ctx context.Context) ([]internal.HomeRunRecord, error)
}

type Handler struct {
	store Store
	log   *zap.Logger
}

func NewHandler(store Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: store, log: log}
}

// NewRouter wires the dashboard endpoints. Every response is computed from the store on request.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(h.log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.GET("/filters", h.Filters)
	v1.GET("/home-runs/top", h.TopHomeRuns)
	v1.GET("/batting/cumulative", h.Cumulative)
	v1.GET("/batting/leagues", h.Leagues)
	v1.GET("/batting/best", h.Best)

	return router
}

func (h *Handler) Filters(c *gin.Context) {
	batting, ok := h.batting(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, FilterDomains(batting))
}

// TopHomeRuns serves the n career leaders, n from the "n" query parameter.
func (h *Handler) TopHomeRuns(c *gin.Context) {
	n, err := intParam(c, "n", DefaultTopHomeRuns)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records, err := h.store.ListHomeRuns(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaders": TopHomeRuns(records, n)})
}

func (h *Handler) Cumulative(c *gin.Context) {
	batting, ok := h.batting(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": CumulativeByYear(batting)})
}

func (h *Handler) Leagues(c *gin.Context) {
	batting, ok := h.batting(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"leagues": CountByLeague(batting)})
}

// Best serves the best average per player. Query parameters: league (repeatable), min_avg, top_n.
func (h *Handler) Best(c *gin.Context) {
	filter := BestFilter{Leagues: c.QueryArray("league")}
	if raw := c.Query("min_avg"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid min_avg: %s", raw)})
			return
		}
		filter.MinAvg = &v
	}
	topN, err := intParam(c, "top_n", DefaultTopPlayers)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter.TopN = topN

	batting, ok := h.batting(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": BestPerPlayer(batting, filter)})
}

func (h *Handler) batting(c *gin.Context) ([]internal.BattingRecord, bool) {
	records, err := h.store.ListBatting(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return records, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.log.Error("dashboard query failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load records"})
}

func intParam(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("invalid %s: %s", name, raw)
	}
	return v, nil
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status_code", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// Serve runs the dashboard on addr until ctx is cancelled, then shuts it down.
func Serve(ctx context.Context, addr string, h *Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.log.Info("dashboard listening", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	h.log.Info("dashboard stopped")
	return nil
}
