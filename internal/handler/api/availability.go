package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"travelid/internal/domain/booking"
	reqdto "travelid/internal/handler/dto/request"
	"travelid/internal/pkg/clock"
	"travelid/internal/pkg/errs"
	"travelid/internal/usecase/queries"
)

type AvailabilityHandler struct {
	queries queries.AvailabilityQueries
	clock   clock.Clock
}

func NewAvailabilityHandler(qrs queries.AvailabilityQueries, clk clock.Clock) *AvailabilityHandler {
	return &AvailabilityHandler{
		queries: qrs,
		clock:   clk,
	}
}

// @Summary List available hotels
// @Description Hotels with at least one free room over the requested window
// @Tags availability
// @Produce json
// @Param start_time query string true "Window start (RFC3339)"
// @Param end_time query string true "Window end (RFC3339)"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} queries.Page[queries.HotelListItem]
// @Failure 400 {object} map[string]string
// @Router /availability/hotels [get]
func (h *AvailabilityHandler) AvailableHotels(c *gin.Context) {
	var wq reqdto.WindowQuery
	if err := c.ShouldBindQuery(&wq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid window parameters",
		})
		return
	}

	var lq reqdto.ListingQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid pagination parameters",
		})
		return
	}

	window, err := booking.NewInterval(wq.StartTime, wq.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Window start must be before end",
		})
		return
	}

	page, err := h.queries.AvailableHotels(c.Request.Context(), window, lq.Page-1, lq.Size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, page)
}

// @Summary List available flights
// @Description Upcoming flights with at least one free seat
// @Tags availability
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} queries.Page[queries.FlightListItem]
// @Failure 400 {object} map[string]string
// @Router /availability/flights [get]
func (h *AvailabilityHandler) AvailableFlights(c *gin.Context) {
	var lq reqdto.ListingQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid pagination parameters",
		})
		return
	}

	page, err := h.queries.AvailableFlights(c.Request.Context(), parseAsOf(c, h.clock), lq.Page-1, lq.Size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, page)
}

// @Summary List available activities
// @Description Running activities that still have free places
// @Tags availability
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} queries.Page[queries.ActivityListItem]
// @Failure 400 {object} map[string]string
// @Router /availability/activities [get]
func (h *AvailabilityHandler) AvailableActivities(c *gin.Context) {
	var lq reqdto.ListingQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid pagination parameters",
		})
		return
	}

	page, err := h.queries.AvailableActivities(c.Request.Context(), parseAsOf(c, h.clock), lq.Page-1, lq.Size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, page)
}

// @Summary List free ranges of a room
// @Description Free sub-intervals of a room's calendar with lenient quotes
// @Tags availability
// @Produce json
// @Param id path string true "Room ID"
// @Param start_time query string true "Window start (RFC3339)"
// @Param end_time query string true "Window end (RFC3339)"
// @Success 200 {array} queries.RangeQuote
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /availability/rooms/{id}/ranges [get]
func (h *AvailabilityHandler) AvailableRoomRanges(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid room ID format",
		})
		return
	}

	var wq reqdto.WindowQuery
	if err := c.ShouldBindQuery(&wq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid window parameters",
		})
		return
	}

	window, err := booking.NewInterval(wq.StartTime, wq.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Window start must be before end",
		})
		return
	}

	ranges, err := h.queries.AvailableRoomRanges(c.Request.Context(), roomID, window)
	if err != nil {
		if errors.Is(err, errs.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Room not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	if ranges == nil {
		ranges = []queries.RangeQuote{}
	}
	c.JSON(http.StatusOK, ranges)
}

// parseAsOf lets an explicit as_of query param override the clock, so a
// listing can be replayed for another instant.
func parseAsOf(c *gin.Context, clk clock.Clock) time.Time {
	if raw := c.Query("as_of"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t
		}
	}
	return clk.Now()
}
