package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reqdto "travelid/internal/handler/dto/request"
	resdto "travelid/internal/handler/dto/response"
	"travelid/internal/handler/middleware"
	"travelid/internal/pkg/errs"
	"travelid/internal/usecase/commands"
	"travelid/internal/usecase/queries"
)

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, qrs queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		commands: cmds,
		queries:  qrs,
	}
}

// @Summary Create reservation
// @Description Create an empty reservation envelope for the given dates
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation dates"
// @Success 201 {object} resdto.CreateReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	id, err := h.commands.CreateReservation(c.Request.Context(), userID, req.StartTime, req.EndTime)
	if err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreateReservationResponse{ID: id})
}

// @Summary Get reservation
// @Description Get reservation by ID with its bookings and payment
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	view, err := h.queries.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Get user reservations
// @Description Get the current user's reservations, newest first
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} queries.Page[queries.ReservationView]
// @Failure 401 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) GetUserReservations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var q reqdto.ListingQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid pagination parameters",
		})
		return
	}

	page, err := h.queries.ListForUser(c.Request.Context(), userID, q.Page-1, q.Size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, page)
}

// @Summary Attach room stay
// @Description Book a room for the given dates inside the reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.AttachRoomRequest true "Room and dates"
// @Success 200 {object} resdto.AttachResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations/{id}/rooms [post]
func (h *ReservationHandler) AttachRoom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	var req reqdto.AttachRoomRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	total, err := h.commands.AttachRoom(c.Request.Context(), id, req.RoomID, req.StartTime, req.EndTime)
	if err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.AttachResponse{Total: total})
}

// @Summary Attach seat assignment
// @Description Book a seat for its flight's whole window
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.AttachSeatRequest true "Seat"
// @Success 200 {object} resdto.AttachResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/seats [post]
func (h *ReservationHandler) AttachSeat(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	var req reqdto.AttachSeatRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	total, err := h.commands.AttachSeat(c.Request.Context(), id, req.SeatID)
	if err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.AttachResponse{Total: total})
}

// @Summary Attach activity attendance
// @Description Reserve places on an activity for the given interval
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.AttachActivityRequest true "Activity, interval and attendees"
// @Success 200 {object} resdto.AttachResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations/{id}/activities [post]
func (h *ReservationHandler) AttachActivity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	var req reqdto.AttachActivityRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	total, err := h.commands.AttachActivity(c.Request.Context(), id, req.ActivityID, req.StartTime, req.EndTime, req.Attendees)
	if err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.AttachResponse{Total: total})
}

// @Summary Cancel reservation
// @Description Cancel the reservation and release held activity places
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	if err := h.commands.CancelReservation(c.Request.Context(), id); err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Generate payment
// @Description Attach the single payment to the reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.GeneratePaymentRequest true "Amount and payment method"
// @Success 201
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/payment [post]
func (h *ReservationHandler) GeneratePayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	var req reqdto.GeneratePaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.commands.GeneratePayment(c.Request.Context(), id, req.Amount, req.MethodID); err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

func (h *ReservationHandler) writeCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
	case errors.Is(err, errs.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
	case errors.Is(err, errs.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Seat not found"})
	case errors.Is(err, errs.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
	case errors.Is(err, errs.ErrPaymentMethodNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment method not found"})
	case errors.Is(err, errs.ErrReservationCanceled):
		c.JSON(http.StatusConflict, gin.H{"error": "Reservation is canceled"})
	case errors.Is(err, errs.ErrSlotConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking overlaps an existing reservation"})
	case errors.Is(err, errs.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": "Activity is fully booked"})
	case errors.Is(err, errs.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"error": "Reservation already has a payment"})
	case errors.Is(err, errs.ErrActivityUnavailable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Activity does not run in the requested interval"})
	case errors.Is(err, errs.ErrPriceUndefined):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No price defined for the requested dates"})
	case errors.Is(err, errs.ErrInvalidInterval):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time interval"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
