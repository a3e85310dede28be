package mongostore

import (
	"context"

	"phone-mania/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// BookingStore
// ============================================================================

func (s *Store) CreateBooking(ctx context.Context, booking *model.Booking) error {
	return insertOne(ctx, s.col(ColBookings), booking)
}

func (s *Store) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	return findOne[model.Booking](ctx, s.col(ColBookings), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) ListBookingsByEmail(ctx context.Context, email string) ([]*model.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[model.Booking](ctx, s.col(ColBookings), bson.D{{Key: "email", Value: email}}, opts)
}

func (s *Store) DeleteBooking(ctx context.Context, id string) (int64, error) {
	return deleteByID(ctx, s.col(ColBookings), id)
}
