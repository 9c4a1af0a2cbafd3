package statistics

import (
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
)

// 统计领域错误定义
var (
	// ErrTrendExists 指定日期的销售趋势已存在（幂等跳过的信号，非失败）
	ErrTrendExists = apperrors.New(apperrors.ErrCodeConflict, "该日期的销售趋势已生成")

	// ErrRankingExists 指定日期的商品排行已存在
	ErrRankingExists = apperrors.New(apperrors.ErrCodeConflict, "该日期的商品排行已生成")
)
