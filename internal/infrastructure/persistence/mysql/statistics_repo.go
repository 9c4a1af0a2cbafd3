package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/mall-admin/internal/domain/statistics"
)

// StatisticsRepository 统计仓储MySQL实现
// "每日至多一份"由唯一索引兜底（sales_trends.date、
// product_rankings(product_id, date)），冲突映射为领域错误
type StatisticsRepository struct {
	db *gorm.DB
}

// NewStatisticsRepository 创建统计仓储
func NewStatisticsRepository(db *gorm.DB) statistics.Repository {
	return &StatisticsRepository{db: db}
}

// FindTrendByDate 查找指定日期的销售趋势行（不存在返回nil, nil）
func (r *StatisticsRepository) FindTrendByDate(ctx context.Context, date time.Time) (*statistics.SalesTrend, error) {
	var model SalesTrendModel
	err := getDB(ctx, r.db).Where("date = ?", date).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toTrendEntity(&model), nil
}

// CreateTrend 插入销售趋势行
// 并发重复统计时后写入方收到唯一索引冲突，映射为ErrTrendExists
func (r *StatisticsRepository) CreateTrend(ctx context.Context, trend *statistics.SalesTrend) error {
	model := &SalesTrendModel{
		Date:         trend.Date,
		SalesAmount:  trend.SalesAmount,
		OrderCount:   trend.OrderCount,
		UserCount:    trend.UserCount,
		ProductCount: trend.ProductCount,
		RefundCount:  trend.RefundCount,
		RefundAmount: trend.RefundAmount,
		CreatedAt:    trend.CreatedAt,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return statistics.ErrTrendExists
		}
		return err
	}
	trend.ID = model.ID
	return nil
}

// ListTrends 查询日期区间内的趋势行（date倒序）
func (r *StatisticsRepository) ListTrends(ctx context.Context, from, to time.Time, skip, limit int) ([]*statistics.SalesTrend, error) {
	query := applyTimeRange(getDB(ctx, r.db).Model(&SalesTrendModel{}), "date", from, to)

	var models []SalesTrendModel
	err := query.
		Order("date DESC").
		Offset(skip).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	trends := make([]*statistics.SalesTrend, len(models))
	for i := range models {
		trends[i] = toTrendEntity(&models[i])
	}
	return trends, nil
}

// HasRankings 指定日期是否已生成商品排行
func (r *StatisticsRepository) HasRankings(ctx context.Context, date time.Time) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).
		Model(&ProductRankingModel{}).
		Where("date = ?", date).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateRankings 批量插入商品排行
// 在事务中调用时冲突触发整体回滚，保证一天的排行要么全有要么全无
func (r *StatisticsRepository) CreateRankings(ctx context.Context, rankings []*statistics.ProductRanking) error {
	if len(rankings) == 0 {
		return nil
	}

	models := make([]ProductRankingModel, len(rankings))
	for i, rk := range rankings {
		models[i] = ProductRankingModel{
			ProductID:     rk.ProductID,
			Date:          rk.Date,
			SalesAmount:   rk.SalesAmount,
			SalesCount:    rk.SalesCount,
			ViewCount:     rk.ViewCount,
			FavoriteCount: rk.FavoriteCount,
			CartCount:     rk.CartCount,
			Ranking:       rk.Ranking,
			CreatedAt:     rk.CreatedAt,
		}
	}

	if err := getDB(ctx, r.db).Create(&models).Error; err != nil {
		if isDuplicateError(err) {
			return statistics.ErrRankingExists
		}
		return err
	}

	for i := range models {
		rankings[i].ID = models[i].ID
	}
	return nil
}

// ListRankings 查询指定日期的商品排行（名次正序）
func (r *StatisticsRepository) ListRankings(ctx context.Context, date time.Time, skip, limit int) ([]*statistics.ProductRanking, error) {
	var models []ProductRankingModel
	err := getDB(ctx, r.db).
		Where("date = ?", date).
		Order("ranking ASC").
		Offset(skip).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	rankings := make([]*statistics.ProductRanking, len(models))
	for i := range models {
		rankings[i] = &statistics.ProductRanking{
			ID:            models[i].ID,
			ProductID:     models[i].ProductID,
			Date:          models[i].Date,
			SalesAmount:   models[i].SalesAmount,
			SalesCount:    models[i].SalesCount,
			ViewCount:     models[i].ViewCount,
			FavoriteCount: models[i].FavoriteCount,
			CartCount:     models[i].CartCount,
			Ranking:       models[i].Ranking,
			CreatedAt:     models[i].CreatedAt,
		}
	}
	return rankings, nil
}

// toTrendEntity GORM模型 → 领域实体
func toTrendEntity(m *SalesTrendModel) *statistics.SalesTrend {
	return &statistics.SalesTrend{
		ID:           m.ID,
		Date:         m.Date,
		SalesAmount:  m.SalesAmount,
		OrderCount:   m.OrderCount,
		UserCount:    m.UserCount,
		ProductCount: m.ProductCount,
		RefundCount:  m.RefundCount,
		RefundAmount: m.RefundAmount,
		CreatedAt:    m.CreatedAt,
	}
}
