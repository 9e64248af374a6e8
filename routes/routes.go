package routes

import (
	"github.com/gin-gonic/gin"

	"gorent/internal/handlers"
	"gorent/internal/middleware"
	"gorent/internal/models"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Car      *handlers.CarHandler
	Booking  *handlers.BookingHandler
	Payment  *handlers.PaymentHandler
	Review   *handlers.ReviewHandler
	Business *handlers.BusinessHandler
}

// Setup mounts the whole API under /api/v1.
func Setup(r *gin.RouterGroup, h *Handlers, jwtSecret string) {
	auth := middleware.AuthRequired(jwtSecret)

	SetupAuthRoutes(r, h.Auth, auth)
	SetupCarRoutes(r, h.Car, h.Review, auth)
	SetupBookingRoutes(r, h.Booking, h.Payment, auth)
	SetupReviewRoutes(r, h.Review, auth)
	SetupBusinessRoutes(r, h.Business, auth)
}

func SetupAuthRoutes(r *gin.RouterGroup, h *handlers.AuthHandler, auth gin.HandlerFunc) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.RefreshToken)
	}

	users := r.Group("/users")
	users.Use(auth)
	{
		users.GET("/me", h.GetProfile)
		users.PUT("/me", h.UpdateProfile)
		users.PUT("/me/password", h.ChangePassword)
		users.PUT("/:id/verify", middleware.RoleRequired(models.UserRoleAdmin), h.VerifyUser)
	}
}

func SetupCarRoutes(r *gin.RouterGroup, h *handlers.CarHandler, reviews *handlers.ReviewHandler, auth gin.HandlerFunc) {
	cars := r.Group("/cars")
	{
		// Catalog is public.
		cars.GET("", h.Search)
		cars.GET("/:id", h.Get)
		cars.GET("/:id/availability", h.Availability)
		cars.GET("/:id/reviews", reviews.ForCar)
	}

	owned := r.Group("/cars")
	owned.Use(auth)
	{
		owned.POST("", h.Create)
		owned.GET("/mine", h.MyCars)
		owned.PUT("/:id", h.Update)
		owned.DELETE("/:id", h.Delete)
		owned.POST("/:id/images", h.UploadImage)
		owned.DELETE("/:id/images", h.RemoveImage)
	}
}

func SetupBookingRoutes(r *gin.RouterGroup, h *handlers.BookingHandler, payments *handlers.PaymentHandler, auth gin.HandlerFunc) {
	bookings := r.Group("/bookings")
	bookings.Use(auth)
	{
		bookings.POST("", h.Create)
		bookings.GET("/mine", h.MyBookings)
		bookings.GET("/owner", h.OwnerBookings)
		bookings.GET("/code/:code", h.GetByCode)
		bookings.GET("/:id", h.Get)
		bookings.PATCH("/:id/status", h.UpdateStatus)
		bookings.POST("/:id/cancel", h.Cancel)

		bookings.POST("/:id/payment-intent", payments.CreateIntent)
		bookings.POST("/:id/confirm-payment", payments.Confirm)
		bookings.POST("/:id/refund", payments.Refund)
	}
}

func SetupReviewRoutes(r *gin.RouterGroup, h *handlers.ReviewHandler, auth gin.HandlerFunc) {
	reviews := r.Group("/reviews")
	reviews.Use(auth)
	{
		reviews.POST("", h.Create)
		reviews.GET("/mine", h.Mine)
		reviews.POST("/:id/response", h.Respond)
		reviews.POST("/:id/helpful", h.MarkHelpful)
		reviews.DELETE("/:id", h.Delete)
	}
}

func SetupBusinessRoutes(r *gin.RouterGroup, h *handlers.BusinessHandler, auth gin.HandlerFunc) {
	business := r.Group("/business")
	business.Use(auth, middleware.RoleRequired(models.UserRoleBusiness, models.UserRoleAdmin))
	{
		business.GET("/dashboard", h.Dashboard)
	}

	users := r.Group("/users")
	users.Use(auth)
	{
		users.GET("/me/stats", h.UserStats)
		users.GET("/stats", middleware.RoleRequired(models.UserRoleAdmin), h.PlatformUserStats)
	}
}
