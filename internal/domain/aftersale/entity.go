package aftersale

import (
	"time"
)

// Type 售后类型
type Type string

const (
	TypeRefund   Type = "refund"   // 退款
	TypeReturn   Type = "return"   // 退货
	TypeExchange Type = "exchange" // 换货
)

// ParseType 解析售后类型
func ParseType(s string) (Type, bool) {
	switch t := Type(s); t {
	case TypeRefund, TypeReturn, TypeExchange:
		return t, true
	}
	return "", false
}

// Status 售后状态
// 与订单状态同样的封闭状态机设计，流转规则集中在transitions表
type Status string

const (
	StatusPending    Status = "pending"    // 待审核
	StatusApproved   Status = "approved"   // 已通过
	StatusRejected   Status = "rejected"   // 已拒绝
	StatusProcessing Status = "processing" // 处理中
	StatusCompleted  Status = "completed"  // 已完成
	StatusCancelled  Status = "cancelled"  // 已取消
)

// transitions 合法的售后状态流转表
var transitions = map[Status][]Status{
	StatusPending:    {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:   {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted},
	StatusRejected:   {}, // 终态
	StatusCompleted:  {}, // 终态
	StatusCancelled:  {}, // 终态
}

// ActiveStatuses 进行中的售后状态
// 排他不变式：同一订单商品上同一时刻至多存在一条处于这些状态的售后单
var ActiveStatuses = []Status{StatusPending, StatusApproved, StatusProcessing}

// ParseStatus 解析状态字符串
func ParseStatus(s string) (Status, bool) {
	status := Status(s)
	_, ok := transitions[status]
	return status, ok
}

// IsTerminal 是否终态
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsActive 是否进行中（非终态）
func (s Status) IsActive() bool {
	return !s.IsTerminal()
}

// String 实现Stringer接口
func (s Status) String() string {
	return string(s)
}

// AfterSale 售后单实体(聚合根)
// 1. 关联原订单和具体订单商品行
// 2. 同一订单商品上至多一条进行中的售后单（排他不变式，见仓储层）
// 3. 审计日志AfterSaleLog与状态变更同事务写入
type AfterSale struct {
	ID          uint
	OrderID     uint // 原订单ID
	OrderItemID uint // 原订单商品ID
	UserID      uint // 申请人
	Type        Type
	Reason      string // 售后原因
	Description string // 售后描述
	Status      Status

	RefundAmount int64 // 退款金额(分)
	RefundTime   *time.Time
	RejectReason string
	RejectTime   *time.Time
	CompleteTime *time.Time
	CancelTime   *time.Time
	CancelReason string

	// 退货信息
	ReturnTrackingNo string
	ReturnCompany    string
	ReturnTime       *time.Time

	// 换货信息
	ExchangeTrackingNo string
	ExchangeCompany    string
	ExchangeTime       *time.Time

	Items     []AfterSaleItem // 售后商品明细
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AfterSaleItem 售后商品明细
// 创建后不可变更
type AfterSaleItem struct {
	ID           uint
	AfterSaleID  uint
	ProductID    uint
	SKUID        uint
	Quantity     int
	Price        int64 // 单价(分)
	RefundAmount int64 // 行退款金额(分)，可为0
	Reason       string
	CreatedAt    time.Time
}

// AfterSaleLog 售后日志（审计）
// 追加写入，一次变更一条；禁止修改和删除
type AfterSaleLog struct {
	ID          uint
	AfterSaleID uint
	Action      string // 操作类型：create/update
	Operator    string
	Remark      string
	Extra       map[string]interface{}
	CreatedAt   time.Time
}

// Logistics 退/换货物流信息（流转入参）
type Logistics struct {
	TrackingNo string
	Company    string
}

// NewAfterSale 创建售后申请(工厂方法)，初始状态为pending
func NewAfterSale(orderID, orderItemID, userID uint, typ Type, reason, description string, items []AfterSaleItem) *AfterSale {
	now := time.Now()
	return &AfterSale{
		OrderID:     orderID,
		OrderItemID: orderItemID,
		UserID:      userID,
		Type:        typ,
		Reason:      reason,
		Description: description,
		Status:      StatusPending,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
func (a *AfterSale) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[a.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换（只变更状态和UpdatedAt，副作用见领域行为方法）
func (a *AfterSale) TransitionTo(target Status, now time.Time) error {
	if !a.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	a.Status = target
	a.UpdatedAt = now
	return nil
}

// Approve 审核通过(领域行为)
func (a *AfterSale) Approve(now time.Time) error {
	return a.TransitionTo(StatusApproved, now)
}

// Reject 审核拒绝(领域行为)
func (a *AfterSale) Reject(reason string, now time.Time) error {
	if err := a.TransitionTo(StatusRejected, now); err != nil {
		return err
	}
	a.RejectReason = reason
	a.RejectTime = &now
	return nil
}

// StartProcessing 开始处理(领域行为)
// 退货/换货类型在进入处理中时记录物流信息
func (a *AfterSale) StartProcessing(logistics Logistics, now time.Time) error {
	if err := a.TransitionTo(StatusProcessing, now); err != nil {
		return err
	}
	switch a.Type {
	case TypeReturn:
		a.ReturnTrackingNo = logistics.TrackingNo
		a.ReturnCompany = logistics.Company
		a.ReturnTime = &now
	case TypeExchange:
		a.ExchangeTrackingNo = logistics.TrackingNo
		a.ExchangeCompany = logistics.Company
		a.ExchangeTime = &now
	}
	return nil
}

// Complete 完成售后(领域行为)
// 退款类（refund/return）在完成时落退款金额和退款时间
func (a *AfterSale) Complete(refundAmount int64, now time.Time) error {
	if err := a.TransitionTo(StatusCompleted, now); err != nil {
		return err
	}
	a.CompleteTime = &now
	if a.Type == TypeRefund || a.Type == TypeReturn {
		a.RefundAmount = refundAmount
		a.RefundTime = &now
	}
	return nil
}

// Cancel 取消售后(领域行为)
func (a *AfterSale) Cancel(reason string, now time.Time) error {
	if err := a.TransitionTo(StatusCancelled, now); err != nil {
		return err
	}
	a.CancelReason = reason
	a.CancelTime = &now
	return nil
}

// IsOwnedBy 检查售后单是否属于指定用户
func (a *AfterSale) IsOwnedBy(userID uint) bool {
	return a.UserID == userID
}
