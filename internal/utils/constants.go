package utils

import "time"

// Application Constants
const (
	AppName    = "GoRent"
	AppVersion = "1.0.0"

	DefaultCurrency = "usd"
	DefaultTimeZone = "UTC"

	// Pagination
	DefaultPageSize = 10
	MaxPageSize     = 50
	MinPageSize     = 1
	CarsPageSize    = 12

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 6
	BcryptCost         = 12

	// Rental Constants
	MinCarYear           = 1990
	MinSeats             = 2
	MaxSeats             = 8
	MaxRentalDays        = 90
	MaxExtrasPerBooking  = 10
	MaxAdditionalDrivers = 3

	// Loyalty: one point per ten dollars of a paid booking, rounded down.
	LoyaltyCentsPerPoint = 1000

	// Rate Limiting (per IP)
	RateLimitRequests = 100
	RateLimitWindow   = 15 * time.Minute

	// Request body limit
	MaxRequestBodySize = 10 << 20 // 10MB

	// File Upload
	MaxImageSize = 5 * 1024 * 1024 // 5MB
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrUserNotFound       = "user not found"
	ErrUserExists         = "user already exists with this email"
	ErrInvalidToken       = "invalid token"
	ErrTokenExpired       = "token expired"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrValidationFailed   = "validation failed"
	ErrCarNotFound        = "car not found"
	ErrBookingNotFound    = "booking not found"
	ErrReviewNotFound     = "review not found"
	ErrPlateExists        = "license plate already exists"
)

// Cache Keys
const (
	CacheCarPrefix       = "car:"
	CacheUserPrefix      = "user:"
	CacheRateLimitPrefix = "rate_limit:"
)

// Allowed image upload types
var AllowedImageTypes = []string{"jpg", "jpeg", "png", "webp"}
