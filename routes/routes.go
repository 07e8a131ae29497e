package routes

import (
	"shuttlebook/internal/handlers"
	"shuttlebook/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTripRoutes sets up trip catalog and availability routes
func SetupTripRoutes(r *gin.RouterGroup, jwtSecret string, tripHandler *handlers.TripHandler, bookingHandler *handlers.BookingHandler) {
	trips := r.Group("/trips")
	{
		// Public catalog
		trips.GET("", tripHandler.ListTrips)
		trips.GET("/:id", tripHandler.GetTrip)
		trips.GET("/:id/availability", bookingHandler.GetSeatAvailability)
	}

	admin := r.Group("/admin/trips")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("", tripHandler.CreateTrip)
		admin.PUT("/:id/status", tripHandler.UpdateTripStatus)
		admin.PUT("/:id/assign", tripHandler.AssignTripResources)
	}
}

// SetupBookingRoutes sets up booking routes
func SetupBookingRoutes(r *gin.RouterGroup, jwtSecret string, bookingHandler *handlers.BookingHandler) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthRequired(jwtSecret))
	{
		bookings.POST("", bookingHandler.CreateBooking)
		bookings.GET("", bookingHandler.ListMyBookings)
		bookings.GET("/:id", bookingHandler.GetBooking)
		bookings.PUT("/:id/cancel", bookingHandler.CancelBooking)
	}

	admin := r.Group("/admin/bookings")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.PUT("/:id/assign", bookingHandler.AssignBooking)
	}
}

// SetupPaymentRoutes sets up payment order and verification routes
func SetupPaymentRoutes(r *gin.RouterGroup, jwtSecret string, paymentHandler *handlers.PaymentHandler) {
	payments := r.Group("/payments")
	payments.Use(middleware.AuthRequired(jwtSecret))
	{
		payments.POST("/orders", paymentHandler.CreateOrder)
		payments.POST("/verify", paymentHandler.VerifyPayment)
	}
}

// SetupReviewRoutes sets up review routes
func SetupReviewRoutes(r *gin.RouterGroup, jwtSecret string, reviewHandler *handlers.ReviewHandler) {
	// Public listings
	r.GET("/trips/:id/reviews", reviewHandler.ListTripReviews)
	r.GET("/drivers/:id/reviews", reviewHandler.ListDriverReviews)

	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthRequired(jwtSecret))
	{
		reviews.POST("", reviewHandler.CreateReview)
		reviews.DELETE("/:id", reviewHandler.DeleteReview)
	}
}

// SetupAuthRoutes sets up registration and token issuance routes
func SetupAuthRoutes(r *gin.RouterGroup, jwtSecret string, authHandler *handlers.AuthHandler) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/token", authHandler.Token)
		auth.GET("/me", middleware.AuthRequired(jwtSecret), authHandler.Me)
	}
}

// SetupFleetRoutes sets up vehicle and driver administration routes
func SetupFleetRoutes(r *gin.RouterGroup, jwtSecret string, fleetHandler *handlers.FleetHandler) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("/vehicles", fleetHandler.CreateVehicle)
		admin.GET("/vehicles", fleetHandler.ListVehicles)
		admin.GET("/vehicles/:id", fleetHandler.GetVehicle)
		admin.PUT("/vehicles/:id/status", fleetHandler.UpdateVehicleStatus)

		admin.POST("/drivers", fleetHandler.CreateDriver)
		admin.GET("/drivers", fleetHandler.ListDrivers)
		admin.GET("/drivers/:id", fleetHandler.GetDriver)
	}
}
