// Package staff staff 申请审核
package staff

import (
	"context"
	"errors"
	"time"

	"cofactor-club/internal/model/user"
	"cofactor-club/internal/permission"
	"cofactor-club/pkg/response"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrNotPendingStaff = errors.New("user has no pending staff application")
)

// Applicant 待审核的 staff 申请人
type Applicant struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListPending 待审核申请，先申请的在前
func (s *Service) ListPending(ctx context.Context, actor permission.Actor) ([]Applicant, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	var users []user.User
	if err := s.db.WithContext(ctx).
		Where("role = ?", user.RolePendingStaff).
		Order("created_at asc, id asc").
		Find(&users).Error; err != nil {
		return nil, internalError(err, "failed to list staff applications")
	}

	list := make([]Applicant, 0, len(users))
	for i := range users {
		list = append(list, toApplicant(&users[i]))
	}
	return list, nil
}

// Approve PENDING_STAFF -> STAFF
func (s *Service) Approve(ctx context.Context, actor permission.Actor, userID uint) (*Applicant, *response.BusinessError) {
	return s.decide(ctx, actor, userID, user.RoleStaff)
}

// Reject PENDING_STAFF -> STUDENT
func (s *Service) Reject(ctx context.Context, actor permission.Actor, userID uint) (*Applicant, *response.BusinessError) {
	return s.decide(ctx, actor, userID, user.RoleStudent)
}

// decide 条件更新角色，只有仍是 PENDING_STAFF 的用户会被修改
func (s *Service) decide(ctx context.Context, actor permission.Actor, userID uint, to string) (*Applicant, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ? AND role = ?", userID, user.RolePendingStaff).
		Updates(map[string]interface{}{
			"role":       to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, internalError(result.Error, "failed to update staff application")
	}

	var u user.User
	err := s.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewError(response.NotFound, ErrUserNotFound)
	}
	if err != nil {
		return nil, internalError(err, "failed to load user")
	}
	if result.RowsAffected == 0 {
		return nil, response.NewError(response.InvalidParameter, ErrNotPendingStaff)
	}

	log.WithFields(log.Fields{
		"component": "staff",
		"user_id":   userID,
		"role":      to,
		"admin_id":  actor.UserID,
	}).Info("staff application decided")

	applicant := toApplicant(&u)
	return &applicant, nil
}

func toApplicant(u *user.User) Applicant {
	return Applicant{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func internalError(err error, msg string) *response.BusinessError {
	log.WithError(err).WithField("component", "staff").Error(msg)
	return response.NewBusinessError(
		response.WithErrorCode(response.Fail),
		response.WithErrorMessage(msg),
		response.WithError(err),
	)
}
