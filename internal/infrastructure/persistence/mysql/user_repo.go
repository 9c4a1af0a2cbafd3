package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/mall-admin/internal/domain/user"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
)

// UserRepository 用户仓储MySQL实现
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

// Create 创建用户
// 用户名/邮箱唯一索引冲突映射为ErrUsernameDuplicate
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrUsernameDuplicate
		}
		return err
	}

	u.ID = model.ID
	return nil
}

// FindByID 根据ID查找用户
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return toUserEntity(&model), nil
}

// FindByUsername 根据用户名查找用户
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var model UserModel
	err := getDB(ctx, r.db).Where("username = ?", username).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return toUserEntity(&model), nil
}

// UpdateLastLogin 更新最后登录时间
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return getDB(ctx, r.db).
		Model(&UserModel{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

// CountCreated 统计区间内注册的用户数
func (r *UserRepository) CountCreated(ctx context.Context, from, to time.Time) (int64, error) {
	query := applyTimeRange(getDB(ctx, r.db).Model(&UserModel{}), "created_at", from, to)

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// toUserModel 领域实体 → GORM模型
func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Password:    u.Password,
		Nickname:    u.Nickname,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// toUserEntity GORM模型 → 领域实体
func toUserEntity(m *UserModel) *user.User {
	return &user.User{
		ID:          m.ID,
		Username:    m.Username,
		Email:       m.Email,
		Password:    m.Password,
		Nickname:    m.Nickname,
		IsSuperuser: m.IsSuperuser,
		IsActive:    m.IsActive,
		LastLogin:   m.LastLogin,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
