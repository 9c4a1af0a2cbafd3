package user

import (
	"time"
)

// User 用户实体（聚合根）
// 1. 密码已加密存储（bcrypt），不应该有GetPassword()等方法暴露明文
// 2. IsSuperuser用于后台权限范围控制：普通用户的列表查询只能看到
//    自己的订单/售后，超级管理员可以看到全部
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository负责映射）
type User struct {
	ID          uint
	Username    string
	Email       string
	Password    string // bcrypt哈希值
	Nickname    string
	IsSuperuser bool
	IsActive    bool
	LastLogin   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
