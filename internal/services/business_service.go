package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/pkg/logger"
)

// RevenueBucket is one month of completed-rental revenue.
type RevenueBucket struct {
	Month        string `json:"month"` // YYYY-MM
	RevenueCents int64  `json:"revenue_cents"`
	Bookings     int64  `json:"bookings"`
}

type DashboardStats struct {
	TotalCars       int64             `json:"total_cars"`
	ActiveBookings  int64             `json:"active_bookings"`
	PendingBookings int64             `json:"pending_bookings"`
	RevenueCents    int64             `json:"revenue_cents"`
	AverageRating   float64           `json:"average_rating"`
	Revenue         []RevenueBucket   `json:"revenue_by_month"`
	RecentBookings  []*models.Booking `json:"recent_bookings"`
	RecentReviews   []*models.Review  `json:"recent_reviews"`
}

type UserStats struct {
	TotalBookings     int64 `json:"total_bookings"`
	CompletedBookings int64 `json:"completed_bookings"`
	CancelledBookings int64 `json:"cancelled_bookings"`
	TotalSpentCents   int64 `json:"total_spent_cents"`
	LoyaltyPoints     int64 `json:"loyalty_points"`
	ReviewsWritten    int64 `json:"reviews_written"`
}

// PlatformUserStats summarizes the whole user base for administrators.
type PlatformUserStats struct {
	TotalUsers    int64                     `json:"total_users"`
	ByRole        map[models.UserRole]int64 `json:"by_role"`
	VerifiedUsers int64                     `json:"verified_users"`
	NewLast30Days int64                     `json:"new_last_30_days"`
}

type BusinessService interface {
	Dashboard(ctx context.Context, ownerID primitive.ObjectID) (*DashboardStats, error)
	UserStats(ctx context.Context, userID primitive.ObjectID) (*UserStats, error)
	PlatformUserStats(ctx context.Context) (*PlatformUserStats, error)
}

type businessService struct {
	carRepo     interfaces.CarRepository
	bookingRepo interfaces.BookingRepository
	reviewRepo  interfaces.ReviewRepository
	userRepo    interfaces.UserRepository
	logger      *logger.Logger
}

func NewBusinessService(
	carRepo interfaces.CarRepository,
	bookingRepo interfaces.BookingRepository,
	reviewRepo interfaces.ReviewRepository,
	userRepo interfaces.UserRepository,
	log *logger.Logger,
) BusinessService {
	return &businessService{
		carRepo:     carRepo,
		bookingRepo: bookingRepo,
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		logger:      log,
	}
}

// Dashboard aggregates a car owner's fleet: booking counts, 12 months of
// completed-rental revenue, and the latest bookings and reviews.
func (s *businessService) Dashboard(ctx context.Context, ownerID primitive.ObjectID) (*DashboardStats, error) {
	listAll := &utils.PaginationParams{Page: 1, PageSize: utils.MaxPageSize, Sort: "created_at", Order: "desc"}

	cars, totalCars, err := s.carRepo.GetByOwnerID(ctx, ownerID, listAll)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalCars:      totalCars,
		Revenue:        emptyRevenueBuckets(time.Now()),
		RecentBookings: []*models.Booking{},
		RecentReviews:  []*models.Review{},
	}

	if len(cars) == 0 {
		return stats, nil
	}

	carIDs := make([]primitive.ObjectID, len(cars))
	var ratingSum float64
	var ratedCars int64
	for i, c := range cars {
		carIDs[i] = c.ID
		if c.Rating.Count > 0 {
			ratingSum += c.Rating.Average
			ratedCars++
		}
	}
	if ratedCars > 0 {
		stats.AverageRating = ratingSum / float64(ratedCars)
	}

	_, activeCount, err := s.bookingRepo.GetByCarIDs(ctx, carIDs, models.BookingStatusActive, &utils.PaginationParams{Page: 1, PageSize: 1, Sort: "created_at", Order: "desc"})
	if err != nil {
		return nil, err
	}
	stats.ActiveBookings = activeCount

	_, pendingCount, err := s.bookingRepo.GetByCarIDs(ctx, carIDs, models.BookingStatusPending, &utils.PaginationParams{Page: 1, PageSize: 1, Sort: "created_at", Order: "desc"})
	if err != nil {
		return nil, err
	}
	stats.PendingBookings = pendingCount

	since := time.Now().AddDate(0, -11, 0)
	since = time.Date(since.Year(), since.Month(), 1, 0, 0, 0, 0, time.UTC)
	completed, err := s.bookingRepo.CompletedSince(ctx, carIDs, since)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*RevenueBucket, len(stats.Revenue))
	for i := range stats.Revenue {
		buckets[stats.Revenue[i].Month] = &stats.Revenue[i]
	}
	for _, b := range completed {
		stats.RevenueCents += b.TotalAmountCents
		month := b.EndDate.UTC().Format("2006-01")
		if bucket, ok := buckets[month]; ok {
			bucket.RevenueCents += b.TotalAmountCents
			bucket.Bookings++
		}
	}

	recentBookings, _, err := s.bookingRepo.GetByCarIDs(ctx, carIDs, "", &utils.PaginationParams{Page: 1, PageSize: 5, Sort: "created_at", Order: "desc"})
	if err != nil {
		return nil, err
	}
	stats.RecentBookings = recentBookings

	for _, carID := range carIDs {
		reviews, _, err := s.reviewRepo.GetByCarID(ctx, carID, &utils.PaginationParams{Page: 1, PageSize: 5, Sort: "created_at", Order: "desc"})
		if err != nil {
			continue
		}
		stats.RecentReviews = append(stats.RecentReviews, reviews...)
		if len(stats.RecentReviews) >= 5 {
			stats.RecentReviews = stats.RecentReviews[:5]
			break
		}
	}

	return stats, nil
}

func (s *businessService) UserStats(ctx context.Context, userID primitive.ObjectID) (*UserStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	one := &utils.PaginationParams{Page: 1, PageSize: 1, Sort: "created_at", Order: "desc"}

	_, total, err := s.bookingRepo.GetByUserID(ctx, userID, "", one)
	if err != nil {
		return nil, err
	}

	completed, completedCount, err := s.bookingRepo.GetByUserID(ctx, userID, models.BookingStatusCompleted, &utils.PaginationParams{Page: 1, PageSize: utils.MaxPageSize, Sort: "created_at", Order: "desc"})
	if err != nil {
		return nil, err
	}

	_, cancelledCount, err := s.bookingRepo.GetByUserID(ctx, userID, models.BookingStatusCancelled, one)
	if err != nil {
		return nil, err
	}

	_, reviewCount, err := s.reviewRepo.GetByUserID(ctx, userID, one)
	if err != nil {
		return nil, err
	}

	var spent int64
	for _, b := range completed {
		spent += b.TotalAmountCents
	}

	return &UserStats{
		TotalBookings:     total,
		CompletedBookings: completedCount,
		CancelledBookings: cancelledCount,
		TotalSpentCents:   spent,
		LoyaltyPoints:     user.LoyaltyPoints,
		ReviewsWritten:    reviewCount,
	}, nil
}

// PlatformUserStats counts the user base by role, verification and recent
// signups. Admin gating happens at the route.
func (s *businessService) PlatformUserStats(ctx context.Context) (*PlatformUserStats, error) {
	byRole, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	verified, err := s.userRepo.CountVerified(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.userRepo.CountRegisteredSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	stats := &PlatformUserStats{
		ByRole:        byRole,
		VerifiedUsers: verified,
		NewLast30Days: recent,
	}
	for _, count := range byRole {
		stats.TotalUsers += count
	}

	return stats, nil
}

// emptyRevenueBuckets returns the last 12 months, oldest first, zeroed.
func emptyRevenueBuckets(now time.Time) []RevenueBucket {
	first := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	buckets := make([]RevenueBucket, 0, 12)
	for i := 11; i >= 0; i-- {
		buckets = append(buckets, RevenueBucket{Month: first.AddDate(0, -i, 0).Format("2006-01")})
	}
	return buckets
}
