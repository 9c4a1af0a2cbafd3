package order

import (
	"time"
)

// Status 订单状态
// 教学要点:
// 1. 定义为封闭的字符串类型别名（与数据库enum值一致，便于统计查询）
// 2. 状态流转规则集中在transitions表里，禁止散落在各处if判断
// 3. completed/cancelled/refunded是终态，不允许再流转
type Status string

const (
	StatusPending   Status = "pending"   // 待支付
	StatusPaid      Status = "paid"      // 已支付
	StatusShipped   Status = "shipped"   // 已发货
	StatusCompleted Status = "completed" // 已完成
	StatusCancelled Status = "cancelled" // 已取消
	StatusRefunded  Status = "refunded"  // 已退款
)

// transitions 合法的状态流转表
// 教学要点:状态机设计，防止非法状态跳转
// 例如:不能从"待支付"直接跳到"已完成"
var transitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCancelled},     // 待支付→已支付/已取消
	StatusPaid:      {StatusShipped, StatusRefunded},   // 已支付→已发货/已退款
	StatusShipped:   {StatusCompleted, StatusRefunded}, // 已发货→已完成/已退款
	StatusCompleted: {},                                // 终态
	StatusCancelled: {},                                // 终态
	StatusRefunded:  {},                                // 终态
}

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

// String 实现Stringer接口(方便日志输出)
func (s Status) String() string {
	return string(s)
}

// Order 订单实体(聚合根)
// 教学要点:
// 1. Order是聚合根，OrderItem/OrderLog是聚合内的子实体
// 2. TotalAmount冗余存储，必须等于Σ(明细单价×数量)
// 3. 金额统一以"分"为单位的int64存储，避免浮点精度问题
// 4. 订单不做物理删除，生命周期通过Status表达
type Order struct {
	ID          uint
	OrderNo     string // 订单号(业务主键，全局唯一)
	UserID      uint   // 买家用户ID
	TotalAmount int64  // 订单总金额(分)，冗余字段
	Status      Status // 订单状态

	PaymentMethod  string // 支付方式
	PaymentTime    *time.Time
	ShippingTime   *time.Time
	CompletionTime *time.Time
	CancelTime     *time.Time
	CancelReason   string

	// 收货信息
	ReceiverName     string
	ReceiverPhone    string
	ReceiverProvince string
	ReceiverCity     string
	ReceiverDistrict string
	ReceiverAddress  string
	ReceiverZip      string

	Remark         string
	ShippingFee    int64 // 运费(分)
	DiscountAmount int64 // 优惠金额(分)

	Items     []OrderItem // 订单明细(聚合内的子实体)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem 订单明细项
// 教学要点:
// 1. 不是独立聚合根，必须通过Order访问
// 2. 商品名称/图片/SKU属性是下单时的快照，商品改名改图不影响历史订单
// 3. 创建后不可原地修改，售后调整通过AfterSale单独记录
type OrderItem struct {
	ID            uint
	OrderID       uint // 所属订单ID（创建后不可变更）
	ProductID     uint
	SKUID         uint
	ProductName   string            // 下单时商品名称快照
	SKUName       string            // 下单时SKU名称快照
	ProductImage  string            // 下单时商品主图快照
	SKUAttributes map[string]string // 下单时SKU属性快照（颜色、尺码等）
	Quantity      int               // 购买数量（>0）
	Price         int64             // 下单时单价(分)
	TotalAmount   int64             // 行小计 = Price × Quantity
	CreatedAt     time.Time
}

// OrderLog 订单日志（审计）
// 教学要点:追加写入，一次变更一条；禁止修改和删除
type OrderLog struct {
	ID        uint
	OrderID   uint
	Action    string // 操作类型：create/update
	Operator  string // 操作人
	Remark    string
	Extra     map[string]interface{} // 结构化变更内容
	CreatedAt time.Time
}

// Receiver 收货信息（创建订单的入参）
type Receiver struct {
	Name     string
	Phone    string
	Province string
	City     string
	District string
	Address  string
	Zip      string
}

// NewOrder 创建新订单(工厂方法)
// 订单号由外部传入（生成逻辑见order_no.go），初始状态为pending
func NewOrder(orderNo string, userID uint, receiver Receiver, items []OrderItem, remark string) *Order {
	now := time.Now()
	o := &Order{
		OrderNo:          orderNo,
		UserID:           userID,
		Status:           StatusPending,
		ReceiverName:     receiver.Name,
		ReceiverPhone:    receiver.Phone,
		ReceiverProvince: receiver.Province,
		ReceiverCity:     receiver.City,
		ReceiverDistrict: receiver.District,
		ReceiverAddress:  receiver.Address,
		ReceiverZip:      receiver.Zip,
		Remark:           remark,
		Items:            items,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	o.TotalAmount = o.CalculateTotal()
	return o
}

// CalculateTotal 计算订单总金额
// 用于创建时写入冗余字段，以及校验TotalAmount不变式
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.TotalAmount
	}
	return total
}

// CanTransitionTo 检查是否可以转换到目标状态
func (o *Order) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
// 1. 先检查流转表（业务规则校验），非法流转返回ErrInvalidStatusTransition
// 2. 按目标状态落时间戳等副作用字段
// 3. 副作用字段与状态必须由调用方在同一事务内一起持久化
func (o *Order) TransitionTo(target Status, now time.Time) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}

	o.Status = target
	switch target {
	case StatusPaid:
		o.PaymentTime = &now
	case StatusShipped:
		o.ShippingTime = &now
	case StatusCompleted:
		o.CompletionTime = &now
	case StatusCancelled:
		o.CancelTime = &now
	}
	o.UpdatedAt = now
	return nil
}

// Pay 支付订单(领域行为)
func (o *Order) Pay(method string, now time.Time) error {
	if err := o.TransitionTo(StatusPaid, now); err != nil {
		return err
	}
	o.PaymentMethod = method
	return nil
}

// Ship 发货(领域行为)
func (o *Order) Ship(now time.Time) error {
	return o.TransitionTo(StatusShipped, now)
}

// Complete 完成订单(领域行为)
func (o *Order) Complete(now time.Time) error {
	return o.TransitionTo(StatusCompleted, now)
}

// Cancel 取消订单(领域行为)
func (o *Order) Cancel(reason string, now time.Time) error {
	if err := o.TransitionTo(StatusCancelled, now); err != nil {
		return err
	}
	o.CancelReason = reason
	return nil
}

// Refund 整单退款(领域行为)
// 支付后未完成的订单可整单退款；退款金额等细节由售后聚合记录
func (o *Order) Refund(now time.Time) error {
	return o.TransitionTo(StatusRefunded, now)
}

// IsOwnedBy 检查订单是否属于指定用户
// 教学要点:权限校验，防止用户访问他人订单
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
