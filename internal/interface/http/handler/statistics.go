package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appstatistics "github.com/xiebiao/mall-admin/internal/application/statistics"
	"github.com/xiebiao/mall-admin/internal/interface/http/dto"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
	"github.com/xiebiao/mall-admin/pkg/response"
)

// StatisticsHandler 统计HTTP处理器
// 所有统计接口都挂在RequireSuperuser下（后台管理功能）
type StatisticsHandler struct {
	runDailyUseCase  *appstatistics.RunDailyStatsUseCase
	dashboardUseCase *appstatistics.DashboardUseCase
	queryUseCase     *appstatistics.QueryStatisticsUseCase
}

// NewStatisticsHandler 创建统计处理器
func NewStatisticsHandler(
	runDailyUseCase *appstatistics.RunDailyStatsUseCase,
	dashboardUseCase *appstatistics.DashboardUseCase,
	queryUseCase *appstatistics.QueryStatisticsUseCase,
) *StatisticsHandler {
	return &StatisticsHandler{
		runDailyUseCase:  runDailyUseCase,
		dashboardUseCase: dashboardUseCase,
		queryUseCase:     queryUseCase,
	}
}

// GetDashboard 仪表盘快照
// @Summary      仪表盘快照
// @Description  累计与今日的销售额/订单数/用户数/退款等，实时计算
// @Tags         统计模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=statistics.Dashboard}
// @Router       /statistics/dashboard [get]
func (h *StatisticsHandler) GetDashboard(c *gin.Context) {
	d, err := h.dashboardUseCase.GetSnapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, d)
}

// RunDailyStats 手动触发每日统计
// @Summary      手动触发每日统计
// @Description  为指定日期生成销售趋势与商品排行（幂等，已统计的日期直接跳过）。date为空默认统计昨天
// @Tags         统计模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RunDailyStatsRequest false "统计日期(yyyy-MM-dd)"
// @Success      200 {object} response.Response{data=dto.RunDailyStatsResponse}
// @Router       /statistics/run [post]
func (h *StatisticsHandler) RunDailyStats(c *gin.Context) {
	// 请求体可以为空（默认统计昨天）
	var req dto.RunDailyStatsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
			return
		}
	}

	// 默认统计昨天（定时任务的常规补数日期）
	date := time.Now().AddDate(0, 0, -1)
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "日期格式应为yyyy-MM-dd")
			return
		}
		date = parsed
	}

	result, err := h.runDailyUseCase.Execute(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.RunDailyStatsResponse{
		Date:            result.Date.Format("2006-01-02"),
		TrendCreated:    result.TrendCreated,
		RankingsCreated: result.RankingsCreated,
		SalesAmount:     result.SalesAmount,
		OrderCount:      result.OrderCount,
		RankingCount:    result.RankingCount,
	})
}

// ListSalesTrends 查询销售趋势
// @Summary      查询销售趋势
// @Tags         统计模块
// @Produce      json
// @Security     BearerAuth
// @Param        from  query string false "起始日期(yyyy-MM-dd)"
// @Param        to    query string false "截止日期(yyyy-MM-dd,含当天)"
// @Param        skip  query int    false "跳过条数"
// @Param        limit query int    false "每页条数(默认30,上限100)"
// @Success      200 {object} response.Response{data=[]dto.SalesTrendView}
// @Router       /statistics/trends [get]
func (h *StatisticsHandler) ListSalesTrends(c *gin.Context) {
	skip, limit := parsePagination(c)

	var from, to time.Time
	if s := c.Query("from"); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "日期格式应为yyyy-MM-dd")
			return
		}
		from = parsed
	}
	if s := c.Query("to"); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "日期格式应为yyyy-MM-dd")
			return
		}
		to = parsed
	}

	trends, err := h.queryUseCase.ListSalesTrends(c.Request.Context(), from, to, skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]dto.SalesTrendView, len(trends))
	for i, t := range trends {
		views[i] = dto.FromSalesTrend(t)
	}
	response.Success(c, views)
}

// ListProductRankings 查询商品排行
// @Summary      查询商品排行
// @Description  指定日期的商品销售排行，名次按销售额降序（并列按商品ID升序）
// @Tags         统计模块
// @Produce      json
// @Security     BearerAuth
// @Param        date  query string true  "统计日期(yyyy-MM-dd)"
// @Param        skip  query int    false "跳过条数"
// @Param        limit query int    false "每页条数"
// @Success      200 {object} response.Response{data=[]dto.ProductRankingView}
// @Router       /statistics/rankings [get]
func (h *StatisticsHandler) ListProductRankings(c *gin.Context) {
	skip, limit := parsePagination(c)

	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.Local)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "日期格式应为yyyy-MM-dd")
		return
	}

	rankings, err := h.queryUseCase.ListProductRankings(c.Request.Context(), date, skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]dto.ProductRankingView, len(rankings))
	for i, rk := range rankings {
		views[i] = dto.FromProductRanking(rk)
	}
	response.Success(c, views)
}
