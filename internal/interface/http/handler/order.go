package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/mall-admin/internal/application/order"
	"github.com/xiebiao/mall-admin/internal/domain/order"
	"github.com/xiebiao/mall-admin/internal/interface/http/dto"
	"github.com/xiebiao/mall-admin/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
	"github.com/xiebiao/mall-admin/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	createUseCase     *apporder.CreateOrderUseCase
	transitionUseCase *apporder.TransitionOrderUseCase
	queryUseCase      *apporder.QueryOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createUseCase *apporder.CreateOrderUseCase,
	transitionUseCase *apporder.TransitionOrderUseCase,
	queryUseCase *apporder.QueryOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		createUseCase:     createUseCase,
		transitionUseCase: transitionUseCase,
		queryUseCase:      queryUseCase,
	}
}

// CreateOrder 创建订单
// @Summary      创建订单
// @Description  下单（需要登录）。金额按下单时刻的SKU价格计算，商品信息快照进明细
// @Tags         订单模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "订单信息"
// @Success      200 {object} response.Response{data=dto.CreateOrderResponse} "下单成功"
// @Failure      200 {object} response.Response "参数错误/商品不在售"
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	items := make([]apporder.CreateOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.CreateOrderItem{
			ProductID: item.ProductID,
			SKUID:     item.SKUID,
			Quantity:  item.Quantity,
		}
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		UserID:   middleware.MustGetUserID(c),
		Operator: middleware.GetUsername(c),
		Items:    items,
		Receiver: order.Receiver{
			Name:     req.Receiver.Name,
			Phone:    req.Receiver.Phone,
			Province: req.Receiver.Province,
			City:     req.Receiver.City,
			District: req.Receiver.District,
			Address:  req.Receiver.Address,
			Zip:      req.Receiver.Zip,
		},
		Remark: req.Remark,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.CreateOrderResponse{
		OrderID:         result.OrderID,
		OrderNo:         result.OrderNo,
		TotalAmount:     result.TotalAmount,
		TotalAmountYuan: result.TotalAmountYuan,
		Status:          result.Status,
		CreatedAt:       result.CreatedAt,
	})
}

// GetOrder 查询订单详情
// @Summary      查询订单详情
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.OrderView}
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	o, err := h.queryUseCase.GetOrder(c.Request.Context(), orderID,
		middleware.MustGetUserID(c), middleware.IsSuperuser(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	view := dto.FromOrder(o)
	response.Success(c, &view)
}

// ListOrders 查询订单列表
// @Summary      查询订单列表
// @Description  普通用户只能看到自己的订单，超级管理员可按用户过滤
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        status  query string false "按状态过滤"
// @Param        user_id query int    false "按用户过滤(仅超级管理员)"
// @Param        skip    query int    false "跳过条数"
// @Param        limit   query int    false "每页条数(默认20,上限100)"
// @Success      200 {object} response.Response{data=dto.OrderListResponse}
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	skip, limit := parsePagination(c)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)

	orders, total, err := h.queryUseCase.ListOrders(c.Request.Context(), apporder.ListOrdersRequest{
		ActorID:     middleware.MustGetUserID(c),
		IsSuperuser: middleware.IsSuperuser(c),
		UserID:      uint(userID),
		Status:      c.Query("status"),
		Skip:        skip,
		Limit:       limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]dto.OrderView, len(orders))
	for i, o := range orders {
		views[i] = dto.FromOrder(o)
	}
	response.Success(c, &dto.OrderListResponse{Total: total, Items: views})
}

// TransitionOrder 订单状态流转
// @Summary      订单状态流转
// @Description  支付/发货/完成/取消/退款。非法流转返回40001，并发冲突返回40002
// @Tags         订单模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int true "订单ID"
// @Param        request body dto.TransitionOrderRequest true "目标状态及附加信息"
// @Success      200 {object} response.Response{data=apporder.TransitionOrderResponse}
// @Router       /orders/{id}/status [put]
func (h *OrderHandler) TransitionOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.TransitionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.transitionUseCase.Execute(c.Request.Context(), apporder.TransitionOrderRequest{
		OrderID:       orderID,
		Target:        req.Status,
		ActorID:       middleware.MustGetUserID(c),
		IsSuperuser:   middleware.IsSuperuser(c),
		Operator:      middleware.GetUsername(c),
		PaymentMethod: req.PaymentMethod,
		CancelReason:  req.CancelReason,
		Remark:        req.Remark,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListOrderLogs 查询订单操作日志
// @Summary      查询订单操作日志
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int true  "订单ID"
// @Param        skip  query int false "跳过条数"
// @Param        limit query int false "每页条数"
// @Success      200 {object} response.Response{data=[]dto.OrderLogView}
// @Router       /orders/{id}/logs [get]
func (h *OrderHandler) ListOrderLogs(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}
	skip, limit := parsePagination(c)

	logs, err := h.queryUseCase.ListOrderLogs(c.Request.Context(), orderID,
		middleware.MustGetUserID(c), middleware.IsSuperuser(c), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]dto.OrderLogView, len(logs))
	for i, log := range logs {
		views[i] = dto.FromOrderLog(log)
	}
	response.Success(c, views)
}

// parseIDParam 解析路径中的ID参数
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "ID参数错误")
		return 0, false
	}
	return uint(id), true
}

// parsePagination 解析分页参数（非法值按默认处理）
func parsePagination(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	if skip < 0 {
		skip = 0
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	return skip, limit
}
