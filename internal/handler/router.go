package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"travelid/internal/handler/api"
	"travelid/internal/handler/middleware"
	"travelid/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	reservationHandler *api.ReservationHandler,
	availabilityHandler *api.AvailabilityHandler,
	pricingHandler *api.PricingHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, reservationHandler, availabilityHandler, pricingHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	reservationHandler *api.ReservationHandler,
	availabilityHandler *api.AvailabilityHandler,
	pricingHandler *api.PricingHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		availability := apiGroup.Group("/availability")
		{
			addRoutes(availability, []route{
				{Method: http.MethodGet, Path: "/hotels", Handler: availabilityHandler.AvailableHotels},
				{Method: http.MethodGet, Path: "/flights", Handler: availabilityHandler.AvailableFlights},
				{Method: http.MethodGet, Path: "/activities", Handler: availabilityHandler.AvailableActivities},
				{Method: http.MethodGet, Path: "/rooms/:id/ranges", Handler: availabilityHandler.AvailableRoomRanges},
			})
		}

		pricing := apiGroup.Group("/pricing")
		{
			addRoutes(pricing, []route{
				{Method: http.MethodGet, Path: "/hotels/:id/rooms", Handler: pricingHandler.CurrentRoomPrices},
				{Method: http.MethodGet, Path: "/flights/:id/seats", Handler: pricingHandler.CurrentSeatPrices},
				{Method: http.MethodGet, Path: "/activities", Handler: pricingHandler.CurrentActivityPrices},
				{Method: http.MethodGet, Path: "/:kind/:id/current", Handler: pricingHandler.CurrentPrice},
				{Method: http.MethodGet, Path: "/:kind/:id/total", Handler: pricingHandler.TotalPrice},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: reservationHandler.CreateReservation},
				{Method: http.MethodGet, Path: "", Handler: reservationHandler.GetUserReservations},
				{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.GetReservation},
				{Method: http.MethodDelete, Path: "/:id", Handler: reservationHandler.CancelReservation},
				{Method: http.MethodPost, Path: "/:id/rooms", Handler: reservationHandler.AttachRoom},
				{Method: http.MethodPost, Path: "/:id/seats", Handler: reservationHandler.AttachSeat},
				{Method: http.MethodPost, Path: "/:id/activities", Handler: reservationHandler.AttachActivity},
				{Method: http.MethodPost, Path: "/:id/payment", Handler: reservationHandler.GeneratePayment},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
