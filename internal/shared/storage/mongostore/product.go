package mongostore

import (
	"context"

	"phone-mania/internal/shared/model"
	"phone-mania/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// ProductStore
// ============================================================================

func (s *Store) CreateProduct(ctx context.Context, product *model.Product) error {
	return insertOne(ctx, s.col(ColProducts), product)
}

func (s *Store) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return findOne[model.Product](ctx, s.col(ColProducts), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) ListProducts(ctx context.Context) ([]*model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[model.Product](ctx, s.col(ColProducts), bson.D{}, opts)
}

func (s *Store) ListProductsByBrand(ctx context.Context, brandID string) ([]*model.Product, error) {
	return findMany[model.Product](ctx, s.col(ColProducts), bson.D{{Key: "BrandId", Value: brandID}})
}

// MarkProductSold 购买完成后固定写 paid=true、availability="false"
// upsert 与原服务保持一致
func (s *Store) MarkProductSold(ctx context.Context, id string) (*storage.UpdateResult, error) {
	return setByID(ctx, s.col(ColProducts), id, bson.D{
		{Key: "paid", Value: true},
		{Key: "availability", Value: model.AvailabilitySold},
	}, true)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) (int64, error) {
	return deleteByID(ctx, s.col(ColProducts), id)
}
