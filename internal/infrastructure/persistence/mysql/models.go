package mysql

import (
	"time"

	"gorm.io/gorm"
)

// 本文件定义所有GORM数据模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. internal/domain下的实体不依赖GORM，Repository负责两者之间的转换
// 3. 金额字段统一以"分"为单位的int64存储
// 4. JSON字段（SKU属性、日志extra）以json列存储，转换见converters

// UserModel GORM用户模型
type UserModel struct {
	ID          uint           `gorm:"primaryKey"`
	Username    string         `gorm:"uniqueIndex;size:32;not null;comment:用户名"`
	Email       string         `gorm:"uniqueIndex;size:128;not null;comment:邮箱"`
	Password    string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname    string         `gorm:"size:50;comment:昵称"`
	IsSuperuser bool           `gorm:"default:false;comment:是否超级管理员"`
	IsActive    bool           `gorm:"default:true;comment:是否启用"`
	LastLogin   *time.Time     `gorm:"comment:最后登录时间"`
	CreatedAt   time.Time      `gorm:"index;comment:创建时间"` // 统计按注册日期聚合
	UpdatedAt   time.Time      `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// ProductModel GORM商品模型
type ProductModel struct {
	ID          uint              `gorm:"primaryKey"`
	Name        string            `gorm:"index;size:100;not null;comment:商品名称"`
	Description string            `gorm:"type:text;comment:商品描述"`
	Price       int64             `gorm:"not null;comment:展示价(分)"`
	MainImage   string            `gorm:"size:200;comment:主图"`
	Status      string            `gorm:"index;size:20;default:draft;comment:状态(draft/on_sale/off_sale)"`
	IsActive    bool              `gorm:"default:true;comment:是否启用"`
	SKUs        []ProductSKUModel `gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time         `gorm:"comment:创建时间"`
	UpdatedAt   time.Time         `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt    `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (ProductModel) TableName() string {
	return "products"
}

// ProductSKUModel GORM商品SKU模型
type ProductSKUModel struct {
	ID         uint      `gorm:"primaryKey"`
	ProductID  uint      `gorm:"index;not null;comment:商品ID"`
	Code       string    `gorm:"uniqueIndex;size:50;not null;comment:SKU编码"`
	Name       string    `gorm:"size:100;not null;comment:SKU名称"`
	Price      int64     `gorm:"not null;comment:SKU价格(分)"`
	Attributes string    `gorm:"type:json;comment:SKU属性"`
	IsActive   bool      `gorm:"default:true;comment:是否启用"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ProductSKUModel) TableName() string {
	return "product_skus"
}

// OrderModel GORM订单模型
// 教学要点:
// 1. 与OrderItemModel/OrderLogModel是一对多关系
// 2. OrderNo有唯一索引(业务主键)，订单号冲突由它检测
// 3. Status+CreatedAt有索引，统计任务按状态和日期区间扫描
type OrderModel struct {
	ID          uint   `gorm:"primaryKey"`
	OrderNo     string `gorm:"uniqueIndex;size:50;not null;comment:订单号"`
	UserID      uint   `gorm:"index;not null;comment:买家用户ID"`
	TotalAmount int64  `gorm:"not null;comment:订单总金额(分)"`
	Status      string `gorm:"index:idx_status_created;size:20;default:pending;comment:订单状态"`

	PaymentMethod  string     `gorm:"size:50;comment:支付方式"`
	PaymentTime    *time.Time `gorm:"comment:支付时间"`
	ShippingTime   *time.Time `gorm:"comment:发货时间"`
	CompletionTime *time.Time `gorm:"comment:完成时间"`
	CancelTime     *time.Time `gorm:"comment:取消时间"`
	CancelReason   string     `gorm:"size:200;comment:取消原因"`

	ReceiverName     string `gorm:"size:50;not null;comment:收货人姓名"`
	ReceiverPhone    string `gorm:"size:20;not null;comment:收货人电话"`
	ReceiverProvince string `gorm:"size:50;not null;comment:省份"`
	ReceiverCity     string `gorm:"size:50;not null;comment:城市"`
	ReceiverDistrict string `gorm:"size:50;not null;comment:区县"`
	ReceiverAddress  string `gorm:"size:200;not null;comment:详细地址"`
	ReceiverZip      string `gorm:"size:20;comment:邮政编码"`

	Remark         string `gorm:"type:text;comment:订单备注"`
	ShippingFee    int64  `gorm:"default:0;comment:运费(分)"`
	DiscountAmount int64  `gorm:"default:0;comment:优惠金额(分)"`

	Items     []OrderItemModel `gorm:"foreignKey:OrderID"` // 一对多关联
	CreatedAt time.Time        `gorm:"index:idx_status_created;comment:创建时间"`
	UpdatedAt time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// 教学要点:
// 1. 商品名称/图片/SKU属性是下单时的快照（反范式是有意为之，
//    保证历史订单展示不受商品后续修改影响，不要改成联表实时查询）
// 2. CreatedAt有索引，商品排行统计按日期区间扫描
type OrderItemModel struct {
	ID            uint      `gorm:"primaryKey"`
	OrderID       uint      `gorm:"index;not null;comment:订单ID"`
	ProductID     uint      `gorm:"index;not null;comment:商品ID"`
	SKUID         uint      `gorm:"index;not null;comment:商品SKU ID"`
	ProductName   string    `gorm:"size:100;not null;comment:商品名称快照"`
	SKUName       string    `gorm:"size:100;not null;comment:SKU名称快照"`
	ProductImage  string    `gorm:"size:200;comment:商品图片快照"`
	SKUAttributes string    `gorm:"type:json;comment:SKU属性快照"`
	Quantity      int       `gorm:"not null;comment:购买数量"`
	Price         int64     `gorm:"not null;comment:下单时单价(分)"`
	TotalAmount   int64     `gorm:"not null;comment:行小计(分)"`
	CreatedAt     time.Time `gorm:"index;comment:创建时间"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}

// OrderLogModel GORM订单日志模型
// 追加写入，没有UpdatedAt；核心代码只INSERT，绝不UPDATE/DELETE
type OrderLogModel struct {
	ID        uint      `gorm:"primaryKey"`
	OrderID   uint      `gorm:"index;not null;comment:订单ID"`
	Action    string    `gorm:"size:50;not null;comment:操作类型"`
	Operator  string    `gorm:"size:50;comment:操作人"`
	Remark    string    `gorm:"type:text;comment:备注"`
	Extra     string    `gorm:"type:json;comment:额外信息"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (OrderLogModel) TableName() string {
	return "order_logs"
}

// AfterSaleModel GORM售后模型
// OrderItemID+Status复合索引：排他检查（进行中的售后单查询）走索引
type AfterSaleModel struct {
	ID          uint   `gorm:"primaryKey"`
	OrderID     uint   `gorm:"index;not null;comment:订单ID"`
	OrderItemID uint   `gorm:"index:idx_item_status;not null;comment:订单商品ID"`
	UserID      uint   `gorm:"index;not null;comment:用户ID"`
	Type        string `gorm:"size:20;not null;comment:售后类型(refund/return/exchange)"`
	Reason      string `gorm:"size:200;not null;comment:售后原因"`
	Description string `gorm:"type:text;comment:售后描述"`
	Status      string `gorm:"index:idx_item_status;size:20;default:pending;comment:售后状态"`

	RefundAmount int64      `gorm:"default:0;comment:退款金额(分)"`
	RefundTime   *time.Time `gorm:"comment:退款时间"`
	RejectReason string     `gorm:"size:200;comment:拒绝原因"`
	RejectTime   *time.Time `gorm:"comment:拒绝时间"`
	CompleteTime *time.Time `gorm:"index;comment:完成时间"` // 统计按完成日期聚合
	CancelTime   *time.Time `gorm:"comment:取消时间"`
	CancelReason string     `gorm:"size:200;comment:取消原因"`

	ReturnTrackingNo string     `gorm:"size:50;comment:退货物流单号"`
	ReturnCompany    string     `gorm:"size:50;comment:退货物流公司"`
	ReturnTime       *time.Time `gorm:"comment:退货时间"`

	ExchangeTrackingNo string     `gorm:"size:50;comment:换货物流单号"`
	ExchangeCompany    string     `gorm:"size:50;comment:换货物流公司"`
	ExchangeTime       *time.Time `gorm:"comment:换货时间"`

	Items     []AfterSaleItemModel `gorm:"foreignKey:AfterSaleID"`
	CreatedAt time.Time            `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time            `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (AfterSaleModel) TableName() string {
	return "after_sales"
}

// AfterSaleItemModel GORM售后商品明细模型
type AfterSaleItemModel struct {
	ID           uint      `gorm:"primaryKey"`
	AfterSaleID  uint      `gorm:"index;not null;comment:售后单ID"`
	ProductID    uint      `gorm:"index;not null;comment:商品ID"`
	SKUID        uint      `gorm:"not null;comment:商品SKU ID"`
	Quantity     int       `gorm:"not null;comment:数量"`
	Price        int64     `gorm:"not null;comment:单价(分)"`
	RefundAmount int64     `gorm:"default:0;comment:退款金额(分)"`
	Reason       string    `gorm:"size:200;comment:原因"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (AfterSaleItemModel) TableName() string {
	return "after_sale_items"
}

// AfterSaleLogModel GORM售后日志模型
type AfterSaleLogModel struct {
	ID          uint      `gorm:"primaryKey"`
	AfterSaleID uint      `gorm:"index;not null;comment:售后单ID"`
	Action      string    `gorm:"size:50;not null;comment:操作类型"`
	Operator    string    `gorm:"size:50;not null;comment:操作人"`
	Remark      string    `gorm:"size:200;comment:备注"`
	Extra       string    `gorm:"type:json;comment:额外信息"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (AfterSaleLogModel) TableName() string {
	return "after_sale_logs"
}

// SalesTrendModel GORM销售趋势模型
// Date唯一索引：每个自然日至多一行，统计任务的幂等性由它兜底
type SalesTrendModel struct {
	ID           uint      `gorm:"primaryKey"`
	Date         time.Time `gorm:"uniqueIndex;not null;comment:统计日期"`
	SalesAmount  int64     `gorm:"default:0;comment:销售额(分)"`
	OrderCount   int64     `gorm:"default:0;comment:订单数"`
	UserCount    int64     `gorm:"default:0;comment:新增用户数"`
	ProductCount int64     `gorm:"default:0;comment:商品总数"`
	RefundCount  int64     `gorm:"default:0;comment:退款数"`
	RefundAmount int64     `gorm:"default:0;comment:退款金额(分)"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (SalesTrendModel) TableName() string {
	return "sales_trends"
}

// ProductRankingModel GORM商品排行模型
// (ProductID, Date)复合唯一索引：每个商品每日至多一行
type ProductRankingModel struct {
	ID            uint      `gorm:"primaryKey"`
	ProductID     uint      `gorm:"uniqueIndex:idx_product_date;not null;comment:商品ID"`
	Date          time.Time `gorm:"uniqueIndex:idx_product_date;index;not null;comment:统计日期"`
	SalesAmount   int64     `gorm:"default:0;comment:销售额(分)"`
	SalesCount    int64     `gorm:"default:0;comment:销量"`
	ViewCount     int64     `gorm:"default:0;comment:浏览量"`
	FavoriteCount int64     `gorm:"default:0;comment:收藏量"`
	CartCount     int64     `gorm:"default:0;comment:加购量"`
	Ranking       int       `gorm:"default:0;comment:排名"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (ProductRankingModel) TableName() string {
	return "product_rankings"
}
