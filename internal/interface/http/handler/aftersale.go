package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appaftersale "github.com/xiebiao/mall-admin/internal/application/aftersale"
	"github.com/xiebiao/mall-admin/internal/domain/aftersale"
	"github.com/xiebiao/mall-admin/internal/interface/http/dto"
	"github.com/xiebiao/mall-admin/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
	"github.com/xiebiao/mall-admin/pkg/response"
)

// AfterSaleHandler 售后HTTP处理器
type AfterSaleHandler struct {
	createUseCase     *appaftersale.CreateAfterSaleUseCase
	transitionUseCase *appaftersale.TransitionAfterSaleUseCase
	queryUseCase      *appaftersale.QueryAfterSalesUseCase
}

// NewAfterSaleHandler 创建售后处理器
func NewAfterSaleHandler(
	createUseCase *appaftersale.CreateAfterSaleUseCase,
	transitionUseCase *appaftersale.TransitionAfterSaleUseCase,
	queryUseCase *appaftersale.QueryAfterSalesUseCase,
) *AfterSaleHandler {
	return &AfterSaleHandler{
		createUseCase:     createUseCase,
		transitionUseCase: transitionUseCase,
		queryUseCase:      queryUseCase,
	}
}

// CreateAfterSale 创建售后申请
// @Summary      创建售后申请
// @Description  对订单商品发起退款/退货/换货。同一订单商品上已有进行中的售后时返回40002
// @Tags         售后模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateAfterSaleRequest true "售后申请"
// @Success      200 {object} response.Response{data=dto.CreateAfterSaleResponse}
// @Failure      200 {object} response.Response "已存在进行中的售后申请"
// @Router       /after-sales [post]
func (h *AfterSaleHandler) CreateAfterSale(c *gin.Context) {
	var req dto.CreateAfterSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appaftersale.CreateAfterSaleRequest{
		OrderID:     req.OrderID,
		OrderItemID: req.OrderItemID,
		UserID:      middleware.MustGetUserID(c),
		IsSuperuser: middleware.IsSuperuser(c),
		Operator:    middleware.GetUsername(c),
		Type:        req.Type,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.CreateAfterSaleResponse{
		AfterSaleID: result.AfterSaleID,
		OrderID:     result.OrderID,
		OrderItemID: result.OrderItemID,
		Type:        result.Type,
		Status:      result.Status,
		CreatedAt:   result.CreatedAt,
	})
}

// GetAfterSale 查询售后详情
// @Summary      查询售后详情
// @Tags         售后模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "售后单ID"
// @Success      200 {object} response.Response{data=dto.AfterSaleView}
// @Router       /after-sales/{id} [get]
func (h *AfterSaleHandler) GetAfterSale(c *gin.Context) {
	afterSaleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	a, err := h.queryUseCase.GetAfterSale(c.Request.Context(), afterSaleID,
		middleware.MustGetUserID(c), middleware.IsSuperuser(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	view := dto.FromAfterSale(a)
	response.Success(c, &view)
}

// ListAfterSales 查询售后列表
// @Summary      查询售后列表
// @Tags         售后模块
// @Produce      json
// @Security     BearerAuth
// @Param        status   query string false "按状态过滤"
// @Param        type     query string false "按类型过滤"
// @Param        order_id query int    false "按订单过滤"
// @Param        user_id  query int    false "按用户过滤(仅超级管理员)"
// @Param        skip     query int    false "跳过条数"
// @Param        limit    query int    false "每页条数(默认20,上限100)"
// @Success      200 {object} response.Response{data=dto.AfterSaleListResponse}
// @Router       /after-sales [get]
func (h *AfterSaleHandler) ListAfterSales(c *gin.Context) {
	skip, limit := parsePagination(c)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	orderID, _ := strconv.ParseUint(c.Query("order_id"), 10, 64)

	afterSales, total, err := h.queryUseCase.ListAfterSales(c.Request.Context(), appaftersale.ListAfterSalesRequest{
		ActorID:     middleware.MustGetUserID(c),
		IsSuperuser: middleware.IsSuperuser(c),
		UserID:      uint(userID),
		OrderID:     uint(orderID),
		Status:      c.Query("status"),
		Type:        c.Query("type"),
		Skip:        skip,
		Limit:       limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]dto.AfterSaleView, len(afterSales))
	for i, a := range afterSales {
		views[i] = dto.FromAfterSale(a)
	}
	response.Success(c, &dto.AfterSaleListResponse{Total: total, Items: views})
}

// TransitionAfterSale 售后状态流转
// @Summary      售后状态流转
// @Description  审核通过/拒绝/开始处理/完成/取消。审核类操作仅超级管理员可用
// @Tags         售后模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int true "售后单ID"
// @Param        request body dto.TransitionAfterSaleRequest true "目标状态及附加信息"
// @Success      200 {object} response.Response{data=appaftersale.TransitionAfterSaleResponse}
// @Router       /after-sales/{id}/status [put]
func (h *AfterSaleHandler) TransitionAfterSale(c *gin.Context) {
	afterSaleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.TransitionAfterSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.transitionUseCase.Execute(c.Request.Context(), appaftersale.TransitionAfterSaleRequest{
		AfterSaleID:  afterSaleID,
		Target:       req.Status,
		ActorID:      middleware.MustGetUserID(c),
		IsSuperuser:  middleware.IsSuperuser(c),
		Operator:     middleware.GetUsername(c),
		RejectReason: req.RejectReason,
		CancelReason: req.CancelReason,
		RefundAmount: req.RefundAmount,
		Logistics: aftersale.Logistics{
			TrackingNo: req.TrackingNo,
			Company:    req.Company,
		},
		Remark: req.Remark,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListAfterSaleLogs 查询售后操作日志
// @Summary      查询售后操作日志
// @Tags         售后模块
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int true  "售后单ID"
// @Param        skip  query int false "跳过条数"
// @Param        limit query int false "每页条数"
// @Success      200 {object} response.Response{data=[]dto.AfterSaleLogView}
// @Router       /after-sales/{id}/logs [get]
func (h *AfterSaleHandler) ListAfterSaleLogs(c *gin.Context) {
	afterSaleID, ok := parseIDParam(c)
	if !ok {
		return
	}
	skip, limit := parsePagination(c)

	logs, err := h.queryUseCase.ListAfterSaleLogs(c.Request.Context(), afterSaleID,
		middleware.MustGetUserID(c), middleware.IsSuperuser(c), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]dto.AfterSaleLogView, len(logs))
	for i, log := range logs {
		views[i] = dto.FromAfterSaleLog(log)
	}
	response.Success(c, views)
}
