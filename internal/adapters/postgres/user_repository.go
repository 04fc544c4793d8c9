package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civicgrid/voting-service/internal/domain"
	"github.com/civicgrid/voting-service/internal/ports"
)

// UserRepository persists voter/admin identities in Postgres.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ ports.UserRepository = (*UserRepository)(nil)

// Create inserts a user record. Admin creation is double-checked inside the
// transaction and still backed by the partial unique index, so two
// concurrent admin signups cannot both commit.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if user.UserID == uuid.Nil {
		user.UserID = uuid.New()
	}
	model := toUserModel(user)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if user.Role == domain.RoleAdmin {
			var count int64
			if err := tx.Model(&userModel{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
				return fmt.Errorf("count admins: %w", err)
			}
			if count > 0 {
				return fmt.Errorf("admin already exists: %w", domain.ErrConflict)
			}
		}
		if err := tx.Create(&model).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("user already exists: %w", domain.ErrConflict)
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(model), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var model userModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return toDomainUser(model), nil
}

func (r *UserRepository) GetByNationalID(ctx context.Context, nationalID string) (domain.User, error) {
	var model userModel
	err := r.db.WithContext(ctx).Where("national_id = ?", nationalID).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, fmt.Errorf("user by national id: %w", domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("get user by national id: %w", err)
	}
	return toDomainUser(model), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var model userModel
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, fmt.Errorf("user by email: %w", domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return toDomainUser(model), nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, updatedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    updatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	var models []userModel
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, toDomainUser(m))
	}
	return users, nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
