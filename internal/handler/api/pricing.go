package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"travelid/internal/domain/booking"
	resdto "travelid/internal/handler/dto/response"
	"travelid/internal/pkg/clock"
	"travelid/internal/pkg/errs"
	"travelid/internal/usecase/queries"
)

type PricingHandler struct {
	queries queries.PricingQueries
	clock   clock.Clock
}

func NewPricingHandler(qrs queries.PricingQueries, clk clock.Clock) *PricingHandler {
	return &PricingHandler{
		queries: qrs,
		clock:   clk,
	}
}

// @Summary Current price of a resource
// @Description Price record in force at the given instant; null when undefined
// @Tags pricing
// @Produce json
// @Param kind path string true "Resource kind" Enums(room, seat, activity)
// @Param id path string true "Resource ID"
// @Param as_of query string false "Instant (RFC3339), defaults to now"
// @Success 200 {object} resdto.PriceResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /pricing/{kind}/{id}/current [get]
func (h *PricingHandler) CurrentPrice(c *gin.Context) {
	kind := booking.Kind(c.Param("kind"))
	if !kind.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid resource kind",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid resource ID format",
		})
		return
	}

	price, err := h.queries.CurrentPrice(c.Request.Context(), kind, id, parseAsOf(c, h.clock))
	if err != nil {
		h.writeQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.PriceResponse{Value: price})
}

// @Summary Total price over a range
// @Description Day-by-day accumulated price for the resource over the dates
// @Tags pricing
// @Produce json
// @Param kind path string true "Resource kind" Enums(room, seat, activity)
// @Param id path string true "Resource ID"
// @Param start_time query string true "Range start (RFC3339)"
// @Param end_time query string true "Range end (RFC3339)"
// @Success 200 {object} resdto.TotalPriceResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /pricing/{kind}/{id}/total [get]
func (h *PricingHandler) TotalPrice(c *gin.Context) {
	kind := booking.Kind(c.Param("kind"))
	if !kind.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid resource kind",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid resource ID format",
		})
		return
	}

	var wq struct {
		StartTime string `form:"start_time" binding:"required"`
		EndTime   string `form:"end_time" binding:"required"`
	}
	if bindErr := c.ShouldBindQuery(&wq); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid range parameters",
		})
		return
	}

	start, end, ok := parseRange(wq.StartTime, wq.EndTime)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid range parameters",
		})
		return
	}

	total, err := h.queries.TotalPrice(c.Request.Context(), kind, id, start, end)
	if err != nil {
		if errors.Is(err, errs.ErrPriceUndefined) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "No price defined for part of the requested range",
			})
			return
		}
		h.writeQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.TotalPriceResponse{Total: total})
}

// @Summary Current room prices of a hotel
// @Tags pricing
// @Produce json
// @Param id path string true "Hotel ID"
// @Param as_of query string false "Instant (RFC3339), defaults to now"
// @Success 200 {object} resdto.PriceMapResponse
// @Failure 400 {object} map[string]string
// @Router /pricing/hotels/{id}/rooms [get]
func (h *PricingHandler) CurrentRoomPrices(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid hotel ID format",
		})
		return
	}

	prices, err := h.queries.CurrentRoomPrices(c.Request.Context(), id, parseAsOf(c, h.clock))
	if err != nil {
		h.writeQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.PriceMapResponse{Prices: prices})
}

// @Summary Current seat prices of a flight
// @Tags pricing
// @Produce json
// @Param id path string true "Flight ID"
// @Param as_of query string false "Instant (RFC3339), defaults to now"
// @Success 200 {object} resdto.PriceMapResponse
// @Failure 400 {object} map[string]string
// @Router /pricing/flights/{id}/seats [get]
func (h *PricingHandler) CurrentSeatPrices(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid flight ID format",
		})
		return
	}

	prices, err := h.queries.CurrentSeatPrices(c.Request.Context(), id, parseAsOf(c, h.clock))
	if err != nil {
		h.writeQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.PriceMapResponse{Prices: prices})
}

// @Summary Current prices of activities
// @Description Prices for a comma-separated list of activity ids
// @Tags pricing
// @Produce json
// @Param ids query string true "Comma-separated activity IDs"
// @Param as_of query string false "Instant (RFC3339), defaults to now"
// @Success 200 {object} resdto.PriceMapResponse
// @Failure 400 {object} map[string]string
// @Router /pricing/activities [get]
func (h *PricingHandler) CurrentActivityPrices(c *gin.Context) {
	rawIDs := c.Query("ids")
	if rawIDs == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "ids query parameter is required",
		})
		return
	}

	var ids []uuid.UUID
	for _, part := range strings.Split(rawIDs, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid activity ID format",
			})
			return
		}
		ids = append(ids, id)
	}

	prices, err := h.queries.CurrentActivityPrices(c.Request.Context(), ids, parseAsOf(c, h.clock))
	if err != nil {
		h.writeQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.PriceMapResponse{Prices: prices})
}

func parseRange(startRaw, endRaw string) (time.Time, time.Time, bool) {
	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *PricingHandler) writeQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrRoomNotFound),
		errors.Is(err, errs.ErrSeatNotFound),
		errors.Is(err, errs.ErrActivityNotFound),
		errors.Is(err, errs.ErrHotelNotFound),
		errors.Is(err, errs.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
