package mongostore

import (
	"context"

	"phone-mania/internal/shared/model"
	"phone-mania/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return insertOne(ctx, s.col(ColUsers), user)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "email", Value: email}})
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[model.User](ctx, s.col(ColUsers), bson.D{}, opts)
}

func (s *Store) SetUserRole(ctx context.Context, id string, role model.UserRole) (*storage.UpdateResult, error) {
	return setByID(ctx, s.col(ColUsers), id, bson.D{{Key: "role", Value: role}}, true)
}

func (s *Store) SetUserVerified(ctx context.Context, id string) (*storage.UpdateResult, error) {
	return setByID(ctx, s.col(ColUsers), id, bson.D{{Key: "verified", Value: true}}, true)
}

func (s *Store) DeleteUser(ctx context.Context, id string) (int64, error) {
	return deleteByID(ctx, s.col(ColUsers), id)
}
