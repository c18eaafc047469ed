// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/audit"
	"github.com/carterperez-dev/templates/saas-backend/internal/auth"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

// SessionRevoker ends the refresh sessions of a deactivated account.
type SessionRevoker interface {
	RevokeUserSessions(ctx context.Context, userID string) error
}

type Service struct {
	repo     Repository
	pipeline *access.Pipeline
	resolver *access.Resolver
	policy   *access.Policy
	sessions SessionRevoker
	logger   *slog.Logger
}

func NewService(
	repo Repository,
	pipeline *access.Pipeline,
	resolver *access.Resolver,
	policy *access.Policy,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		pipeline: pipeline,
		resolver: resolver,
		policy:   policy,
		logger:   logger,
	}
}

// SetSessionRevoker wires the auth service after construction; auth itself
// depends on this service as its user provider.
func (s *Service) SetSessionRevoker(r SessionRevoker) {
	s.sessions = r
}

// NewTenantAdmin builds the first administrator of a freshly registered
// tenant.
func NewTenantAdmin(tenantID, email, fullName, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		TenantID:     &tenantID,
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		FullName:     strings.TrimSpace(fullName),
		Role:         access.RoleTenantAdmin,
		IsActive:     true,
	}
}

// NewSystemAdmin builds a super_admin account, which belongs to no tenant.
func NewSystemAdmin(email, fullName, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		FullName:     strings.TrimSpace(fullName),
		Role:         access.RoleSuperAdmin,
		IsActive:     true,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	tenantID, email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, tenantID, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return ToUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// Create adds a user to tenantID. Only that tenant's admin may do so, and
// the tenant's user quota is checked under the tenant row lock.
func (s *Service) Create(
	ctx context.Context,
	subject access.Subject,
	tenantID string,
	req CreateUserRequest,
) (*User, error) {
	role := req.Role
	if role == "" {
		role = access.RoleUser
	}

	user := &User{
		ID:       uuid.New().String(),
		TenantID: &tenantID,
		Email:    normalizeEmail(req.Email),
		FullName: strings.TrimSpace(req.FullName),
		Role:     role,
		IsActive: true,
	}

	return access.Execute(ctx, s.pipeline, access.Mutation[*User]{
		Action:     audit.ActionCreateUser,
		EntityType: access.KindUser,
		Subject:    subject,
		TenantID:   tenantID,
		Authorize: func(context.Context) error {
			return s.policy.Authorize(
				subject,
				access.Target{TenantID: tenantID},
				access.ActionUserCreate,
			)
		},
		Prepare: func(context.Context) error {
			hash, err := core.HashPassword(req.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = hash
			return nil
		},
		Quota: access.KindUser,
		Apply: func(ctx context.Context, tx core.DBTX) (*User, error) {
			if err := s.repo.WithTx(tx).Create(ctx, user); err != nil {
				if errors.Is(err, core.ErrDuplicateKey) {
					return nil, core.ConflictError("Email already exists")
				}
				return nil, err
			}
			return user, nil
		},
		EntityID: func(u *User) string { return u.ID },
	})
}

func (s *Service) List(
	ctx context.Context,
	subject access.Subject,
	tenantID string,
	search, role string,
	page core.PageParams,
) ([]User, int, error) {
	err := s.policy.Authorize(
		subject,
		access.Target{TenantID: tenantID},
		access.ActionUserList,
	)
	if err != nil {
		return nil, 0, err
	}

	return s.repo.List(ctx, tenantID, ListParams{
		Search: strings.TrimSpace(search),
		Role:   role,
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
}

// Update applies patch to userID. Users may edit their own name; role and
// activation changes need a tenant_admin, and a request carrying either is
// rejected whole when the caller lacks that role.
func (s *Service) Update(
	ctx context.Context,
	subject access.Subject,
	userID string,
	patch Patch,
) (*User, error) {
	updated, err := access.Execute(ctx, s.pipeline, access.Mutation[*User]{
		Action:     audit.ActionUpdateUser,
		EntityType: access.KindUser,
		Subject:    subject,
		TenantID:   subject.TenantID,
		Authorize: func(ctx context.Context) error {
			own, err := s.resolver.ResolveInTenant(
				ctx,
				access.KindUser,
				userID,
				subject.TenantID,
				access.Scope{
					Mode:              access.RevealMismatch,
					Message:           "Unauthorized",
					AllowSystemCaller: subject.UserID == userID,
				},
			)
			if err != nil {
				return err
			}
			if err := s.policy.Authorize(subject, own.Target(), patch.Actions()...); err != nil {
				return err
			}
			if patch.IsEmpty() {
				return core.ValidationError("No valid fields to update")
			}
			return nil
		},
		Apply: func(ctx context.Context, tx core.DBTX) (*User, error) {
			return s.repo.WithTx(tx).Update(ctx, userID, patch)
		},
		EntityID: func(u *User) string { return u.ID },
	})
	if err != nil {
		return nil, err
	}

	if patch.Deactivates() {
		s.revokeSessions(ctx, userID)
	}

	return updated, nil
}

// Delete removes userID from the caller's tenant. Tasks assigned to the user
// become unassigned in the same transaction.
func (s *Service) Delete(
	ctx context.Context,
	subject access.Subject,
	userID string,
) error {
	_, err := access.Execute(ctx, s.pipeline, access.Mutation[string]{
		Action:     audit.ActionDeleteUser,
		EntityType: access.KindUser,
		Subject:    subject,
		TenantID:   subject.TenantID,
		Authorize: func(ctx context.Context) error {
			own, err := s.resolver.ResolveInTenant(
				ctx,
				access.KindUser,
				userID,
				subject.TenantID,
				access.Scope{Mode: access.ConcealAsNotFound},
			)
			if err != nil {
				return err
			}
			return s.policy.Authorize(subject, own.Target(), access.ActionUserDelete)
		},
		Apply: func(ctx context.Context, tx core.DBTX) (string, error) {
			if err := s.repo.WithTx(tx).Delete(ctx, userID); err != nil {
				return "", err
			}
			return userID, nil
		},
		EntityID: func(id string) string { return id },
	})
	return err
}

func (s *Service) revokeSessions(ctx context.Context, userID string) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.RevokeUserSessions(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "revoke sessions of deactivated user",
			"user_id", userID,
			"error", err,
		)
	}
}

// ToUserInfo is the view of u that the auth flows consume.
func ToUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		TenantID:     u.TenantIDOrEmpty(),
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ auth.UserProvider = (*Service)(nil)
