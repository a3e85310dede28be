package mongostore

import (
	"context"

	"phone-mania/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// ReportStore
// ============================================================================

func (s *Store) CreateReport(ctx context.Context, report *model.Report) error {
	return insertOne(ctx, s.col(ColReports), report)
}

func (s *Store) ListReports(ctx context.Context) ([]*model.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[model.Report](ctx, s.col(ColReports), bson.D{}, opts)
}

// DeleteReport 按 _id 删除投诉
// _id 始终是字符串，路径参数可以直接作为过滤条件使用
func (s *Store) DeleteReport(ctx context.Context, id string) (int64, error) {
	return deleteByID(ctx, s.col(ColReports), id)
}
