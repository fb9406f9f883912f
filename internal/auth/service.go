// Tiendat | 2026
// service.go

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/Tiendat2703/bleen-private/internal/audit"
	"github.com/Tiendat2703/bleen-private/internal/config"
	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/identity"
	"github.com/Tiendat2703/bleen-private/internal/user"
)

// AdminSubject is the token subject for the provisioned admin account. It is
// not a valid user identifier on purpose, so the admin can never collide
// with a keepsake owner.
const AdminSubject = "admin"

type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, userID string) (*user.User, error)
	UpdatePasscodeHash(ctx context.Context, userID, hash string) error
}

type TokenIssuer interface {
	CreateAccessToken(subject string, role identity.Role) (string, error)
}

type Service struct {
	users    UserStore
	tokens   TokenIssuer
	adminCfg config.AdminConfig
	jwtCfg   config.JWTConfig
	auditor  audit.Recorder
	logger   *slog.Logger
}

func NewService(
	users UserStore,
	tokens TokenIssuer,
	adminCfg config.AdminConfig,
	jwtCfg config.JWTConfig,
	auditor audit.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		adminCfg: adminCfg,
		jwtCfg:   jwtCfg,
		auditor:  auditor,
		logger:   logger,
	}
}

// AdminLogin checks the provisioned admin credentials. The bcrypt comparison
// runs even on a username mismatch so both failure paths cost the same.
func (s *Service) AdminLogin(
	ctx context.Context,
	username, password string,
) (*TokenResponse, error) {
	usernameMatch := subtle.ConstantTimeCompare(
		[]byte(username),
		[]byte(s.adminCfg.Username),
	) == 1

	passwordMatch, err := core.VerifyPasscode(password, s.adminCfg.PasswordHash)
	if err != nil {
		return nil, core.UpstreamError(err)
	}

	if !usernameMatch || !passwordMatch {
		s.auditor.Record(ctx, audit.Event{
			Actor:     username,
			ActorRole: "unknown",
			Action:    "auth.admin_login_failed",
		})
		return nil, core.UnauthorizedError("invalid credentials")
	}

	token, err := s.tokens.CreateAccessToken(AdminSubject, identity.RoleAdmin)
	if err != nil {
		return nil, core.UpstreamError(err)
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:     AdminSubject,
		ActorRole: string(identity.RoleAdmin),
		Action:    "auth.admin_login",
	})

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtCfg.AccessTokenExpire.Seconds()),
		UserID:      AdminSubject,
		Role:        string(identity.RoleAdmin),
	}, nil
}

// Register provisions a new keepsake owner. Only admins reach this; the
// route is gated before the handler. A caller-supplied id is honored when
// valid, otherwise one is minted.
func (s *Service) Register(
	ctx context.Context,
	caller identity.Identity,
	req RegisterRequest,
) (*user.User, error) {
	userID := req.UserID
	if userID == "" {
		userID = identity.NewUserID()
	} else {
		normalized, err := identity.ValidateUserID(userID)
		if err != nil {
			return nil, core.ValidationError("invalid user id")
		}
		userID = normalized
	}

	hash, err := core.HashPasscode(req.Passcode)
	if err != nil {
		return nil, core.UpstreamError(err)
	}

	u := &user.User{
		UserID:       userID,
		PasscodeHash: hash,
		Email:        req.Email,
		IsActive:     true,
	}
	if req.FullName != "" {
		name := req.FullName
		u.FullName = &name
	}
	if req.Phone != "" {
		phone := req.Phone
		u.Phone = &phone
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, core.ConflictError("email already registered")
		}
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.ConflictError("user id already exists")
		}
		return nil, core.UpstreamError(err)
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "auth.register",
		TargetUser: userID,
	})

	return u, nil
}

// VerifyPasscode unlocks a keepsake. Unknown ids get a 404 only after a
// dummy bcrypt comparison, so response timing does not reveal which ids
// exist. Deactivated users are refused with 403 regardless of passcode.
func (s *Service) VerifyPasscode(
	ctx context.Context,
	userID, passcode string,
) (*TokenResponse, error) {
	normalized, err := identity.ValidateUserID(userID)
	if err != nil {
		return nil, core.ValidationError("invalid user id")
	}

	u, err := s.users.GetByID(ctx, normalized)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			_, _ = core.VerifyPasscodeTimingSafe(passcode, nil) //nolint:errcheck // timing equalizer
			return nil, core.NotFoundError("user")
		}
		return nil, core.UpstreamError(err)
	}

	if !u.IsActive {
		s.auditor.Record(ctx, audit.Event{
			Actor:      normalized,
			ActorRole:  string(identity.RoleUser),
			Action:     "auth.verify_rejected_inactive",
			TargetUser: normalized,
		})
		return nil, core.ForbiddenError("account is deactivated")
	}

	valid, err := core.VerifyPasscodeTimingSafe(passcode, &u.PasscodeHash)
	if err != nil {
		return nil, core.UpstreamError(err)
	}
	if !valid {
		s.auditor.Record(ctx, audit.Event{
			Actor:      normalized,
			ActorRole:  string(identity.RoleUser),
			Action:     "auth.verify_failed",
			TargetUser: normalized,
		})
		return nil, core.UnauthorizedError("incorrect passcode")
	}

	token, err := s.tokens.CreateAccessToken(normalized, identity.RoleUser)
	if err != nil {
		return nil, core.UpstreamError(err)
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      normalized,
		ActorRole:  string(identity.RoleUser),
		Action:     "auth.verify_ok",
		TargetUser: normalized,
	})

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtCfg.AccessTokenExpire.Seconds()),
		UserID:      normalized,
		Role:        string(identity.RoleUser),
		Email:       u.Email,
	}, nil
}

// ChangePasscode requires the current passcode even for admins, so a stolen
// admin token alone cannot silently take over an account.
func (s *Service) ChangePasscode(
	ctx context.Context,
	caller identity.Identity,
	userID, oldPasscode, newPasscode string,
) error {
	if newPasscode == oldPasscode {
		return core.ValidationError(
			"new passcode must differ from the current one",
		)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("user")
		}
		return core.UpstreamError(err)
	}

	if !u.IsActive {
		return core.ForbiddenError("account is deactivated")
	}

	valid, err := core.VerifyPasscode(oldPasscode, u.PasscodeHash)
	if err != nil {
		return core.UpstreamError(err)
	}
	if !valid {
		return core.UnauthorizedError("incorrect passcode")
	}

	hash, err := core.HashPasscode(newPasscode)
	if err != nil {
		return core.UpstreamError(err)
	}

	if err := s.users.UpdatePasscodeHash(ctx, userID, hash); err != nil {
		return core.UpstreamError(err)
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "auth.change_passcode",
		TargetUser: userID,
	})

	return nil
}

// ResetPasscode is the admin recovery path: no current passcode needed.
func (s *Service) ResetPasscode(
	ctx context.Context,
	caller identity.Identity,
	userID, newPasscode string,
) error {
	normalized, err := identity.ValidateUserID(userID)
	if err != nil {
		return core.ValidationError("invalid user id")
	}

	hash, err := core.HashPasscode(newPasscode)
	if err != nil {
		return core.UpstreamError(err)
	}

	if err := s.users.UpdatePasscodeHash(ctx, normalized, hash); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("user")
		}
		return core.UpstreamError(err)
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "auth.reset_passcode",
		TargetUser: normalized,
	})

	return nil
}
