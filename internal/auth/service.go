// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/saas-backend/internal/core"
	"github.com/carterperez-dev/templates/saas-backend/internal/middleware"
)

var ErrTokenReuse = errors.New("token reuse detected")

// UserProvider looks up accounts. An empty tenantID in GetByEmail selects
// system accounts.
type UserProvider interface {
	GetByEmail(ctx context.Context, tenantID, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type TenantProvider interface {
	GetBySubdomain(ctx context.Context, subdomain string) (*TenantInfo, error)
	GetByID(ctx context.Context, id string) (*TenantInfo, error)
}

// TenantRegistrar creates a tenant and its first tenant_admin atomically.
type TenantRegistrar interface {
	Register(ctx context.Context, reg Registration) (*Registered, error)
}

type TokenIssuer interface {
	CreateAccessToken(claims middleware.AccessTokenClaims) (string, error)
	CreateRefreshToken(familyID string) (*RefreshTokenData, error)
	AccessTokenTTL() time.Duration
}

type Service struct {
	repo      Repository
	tokens    TokenIssuer
	users     UserProvider
	tenants   TenantProvider
	registrar TenantRegistrar
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	tokens TokenIssuer,
	users UserProvider,
	tenants TenantProvider,
	registrar TenantRegistrar,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		tokens:    tokens,
		users:     users,
		tenants:   tenants,
		registrar: registrar,
		logger:    logger,
	}
}

// Login authenticates against the tenant named by TenantSubdomain, or
// against system accounts when it is empty.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	var tenant *TenantInfo
	if req.TenantSubdomain != "" {
		t, err := s.tenants.GetBySubdomain(ctx, normalizeSubdomain(req.TenantSubdomain))
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("tenant")
		}
		if err != nil {
			return nil, fmt.Errorf("get tenant: %w", err)
		}
		tenant = t
	}

	tenantID := ""
	if tenant != nil {
		tenantID = tenant.ID
	}

	user, err := s.users.GetByEmail(ctx, tenantID, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, core.UnauthorizedError("Invalid credentials")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, core.UnauthorizedError("Invalid credentials")
	}

	if err := checkCanSignIn(user, tenant); err != nil {
		return nil, err
	}

	if core.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, req.Password)
	}

	return s.issue(ctx, user, tenant, userAgent, ipAddress, "", nil)
}

// RegisterTenant creates the tenant with its admin and signs the admin in.
func (s *Service) RegisterTenant(
	ctx context.Context,
	req RegisterTenantRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	registered, err := s.registrar.Register(ctx, Registration{
		TenantName:       strings.TrimSpace(req.TenantName),
		Subdomain:        normalizeSubdomain(req.Subdomain),
		SubscriptionPlan: req.SubscriptionPlan,
		AdminEmail:       normalizeEmail(req.AdminEmail),
		AdminPassword:    req.AdminPassword,
		AdminFullName:    strings.TrimSpace(req.AdminFullName),
	})
	if err != nil {
		return nil, err
	}

	return s.issue(
		ctx,
		&registered.Admin,
		&registered.Tenant,
		userAgent,
		ipAddress,
		"",
		nil,
	)
}

func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*AuthResponse, error) {
	storedToken, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	if storedToken.IsUsed {
		if err := s.repo.RevokeByFamilyID(ctx, storedToken.FamilyID); err != nil {
			s.logger.ErrorContext(ctx, "revoke token family",
				"family_id", storedToken.FamilyID,
				"error", err,
			)
		}
		s.logger.WarnContext(ctx, "refresh token reuse detected",
			"user_id", storedToken.UserID,
			"family_id", storedToken.FamilyID,
		)
		return nil, ErrTokenReuse
	}

	if !storedToken.IsValid() {
		if storedToken.IsRevoked() {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.users.GetByID(ctx, storedToken.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	tenant, err := s.tenantOf(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := checkCanSignIn(user, tenant); err != nil {
		return nil, err
	}

	return s.issue(
		ctx,
		user,
		tenant,
		userAgent,
		ipAddress,
		storedToken.FamilyID,
		&storedToken.ID,
	)
}

// Logout revokes one refresh token. Unknown tokens are ignored.
func (s *Service) Logout(
	ctx context.Context,
	refreshToken, userID string,
) error {
	storedToken, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find token: %w", err)
	}

	if storedToken.UserID != userID {
		return core.ForbiddenError("Cannot revoke another user's token")
	}

	if err := s.repo.RevokeByID(ctx, storedToken.ID); err != nil &&
		!errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

// LogoutAll revokes every refresh token of the user. Access tokens stay
// valid until they expire.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}
	return nil
}

// RevokeUserSessions satisfies the user package's session revoker, used when
// an account is deactivated.
func (s *Service) RevokeUserSessions(ctx context.Context, userID string) error {
	return s.LogoutAll(ctx, userID)
}

func (s *Service) PruneExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("prune refresh tokens: %w", err)
	}
	return n, nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*MeResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	tenant, err := s.tenantOf(ctx, user)
	if err != nil {
		return nil, err
	}

	return &MeResponse{
		User:   toUserResponse(user),
		Tenant: toTenantSummary(tenant),
	}, nil
}

func (s *Service) tenantOf(ctx context.Context, user *UserInfo) (*TenantInfo, error) {
	if user.TenantID == "" {
		return nil, nil
	}

	tenant, err := s.tenants.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return tenant, nil
}

func (s *Service) rehash(ctx context.Context, userID, password string) {
	hash, err := core.HashPassword(password)
	if err != nil {
		s.logger.WarnContext(ctx, "rehash password", "user_id", userID, "error", err)
		return
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		s.logger.WarnContext(ctx, "store rehashed password", "user_id", userID, "error", err)
	}
}

func (s *Service) issue(
	ctx context.Context,
	user *UserInfo,
	tenant *TenantInfo,
	userAgent, ipAddress, familyID string,
	oldTokenID *string,
) (*AuthResponse, error) {
	claims := middleware.AccessTokenClaims{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Role:     user.Role,
	}
	if tenant != nil {
		claims.Plan = tenant.SubscriptionPlan
	}

	accessToken, err := s.tokens.CreateAccessToken(claims)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshData, err := s.tokens.CreateRefreshToken(familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	newTokenID := uuid.New().String()

	if err := s.repo.Create(ctx, &RefreshToken{
		ID:        newTokenID,
		UserID:    user.ID,
		TokenHash: refreshData.Hash,
		FamilyID:  refreshData.FamilyID,
		ExpiresAt: refreshData.ExpiresAt,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	if oldTokenID != nil {
		if err := s.repo.MarkAsUsed(ctx, *oldTokenID, newTokenID); err != nil {
			s.logger.WarnContext(ctx, "mark refresh token used",
				"token_id", *oldTokenID,
				"error", err,
			)
		}
	}

	return &AuthResponse{
		User:         toUserResponse(user),
		Tenant:       toTenantSummary(tenant),
		Token:        accessToken,
		RefreshToken: refreshData.Token,
		ExpiresIn:    int(s.tokens.AccessTokenTTL() / time.Second),
	}, nil
}

func checkCanSignIn(user *UserInfo, tenant *TenantInfo) error {
	if !user.IsActive {
		return core.ForbiddenError("Account is deactivated")
	}
	if tenant != nil && !tenant.CanSignIn() {
		return core.ForbiddenError("Tenant is suspended")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeSubdomain(subdomain string) string {
	return strings.ToLower(strings.TrimSpace(subdomain))
}
