package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"waste-monitor-backend/internal/model"
	"waste-monitor-backend/internal/stats"
)

const recentLimit = 50

// CreateReading handles POST /api/waste.
func (h *Handler) CreateReading(c *gin.Context) {
	var in model.ReadingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req, err := in.Validate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reading, err := h.store.Append(c.Request.Context(), req.Reading(h.newID(), h.clock.Now()))
	if err != nil {
		h.internalError(c, "failed to store reading", err)
		return
	}

	if h.alerts != nil {
		h.alerts.Dispatch(reading.BinID)
	}
	c.JSON(http.StatusCreated, reading)
}

// GetRecent handles GET /api/waste/recent.
func (h *Handler) GetRecent(c *gin.Context) {
	readings, err := h.store.Recent(c.Request.Context(), recentLimit)
	if err != nil {
		h.internalError(c, "failed to load readings", err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

// GetDaily handles GET /api/waste/daily?days=N.
func (h *Handler) GetDaily(c *gin.Context) {
	readings, ok := h.windowed(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stats.ByDate(readings))
}

// GetBinStats handles GET /api/bins/stats?days=N.
func (h *Handler) GetBinStats(c *gin.Context) {
	readings, ok := h.windowed(c)
	if !ok {
		return
	}
	bins := stats.ByBin(readings)
	stats.SortByEntries(bins)
	c.JSON(http.StatusOK, bins)
}

// GetBinScore handles GET /api/bins/score/:binId?days=N.
func (h *Handler) GetBinScore(c *gin.Context) {
	binID := c.Param("binId")
	readings, err := h.store.ByBin(c.Request.Context(), binID)
	if err != nil {
		h.internalError(c, "failed to load readings", err)
		return
	}

	days := stats.NormalizeDays(c.Query("days"))
	scored, err := stats.ScoreBin(binID, stats.FilterByDays(readings, days, h.clock.Now()))
	if errors.Is(err, stats.ErrBinNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no readings for bin " + binID})
		return
	}
	if err != nil {
		h.internalError(c, "failed to score bin", err)
		return
	}
	c.JSON(http.StatusOK, scored)
}

// GetTop handles GET /api/admin/top. Rankings always cover the full history.
func (h *Handler) GetTop(c *gin.Context) {
	readings, err := h.store.All(c.Request.Context())
	if err != nil {
		h.internalError(c, "failed to load readings", err)
		return
	}
	c.JSON(http.StatusOK, stats.Rank(readings, stats.RankLimit))
}

// GetHealth handles GET /healthz.
func (h *Handler) GetHealth(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) windowed(c *gin.Context) ([]model.Reading, bool) {
	readings, err := h.store.All(c.Request.Context())
	if err != nil {
		h.internalError(c, "failed to load readings", err)
		return nil, false
	}
	days := stats.NormalizeDays(c.Query("days"))
	return stats.FilterByDays(readings, days, h.clock.Now()), true
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, "path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
