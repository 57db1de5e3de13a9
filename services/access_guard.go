package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
	"github.com/vnkhanh/wikismart-edu-backend/logging"
	"github.com/vnkhanh/wikismart-edu-backend/models"
	"github.com/vnkhanh/wikismart-edu-backend/utils"
)

type userLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AccessGuard turns a bearer token into the current user. It is the only
// place a raw token is looked at; everything downstream receives a user.
type AccessGuard struct {
	tokens *utils.TokenService
	users  userLoader
}

func NewAccessGuard(tokens *utils.TokenService, users userLoader) *AccessGuard {
	return &AccessGuard{tokens: tokens, users: users}
}

// AuthenticateRequest verifies token and loads its subject from the store,
// so deleted users and role changes take effect on the next request.
func (g *AccessGuard) AuthenticateRequest(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperr.Unauthenticated("missing bearer token")
	}

	claims, err := g.tokens.VerifyToken(token)
	if err != nil {
		reason := "invalid"
		if errors.Is(err, utils.ErrTokenExpired) {
			reason = "expired"
		}
		logging.Ctx(ctx).Debug().Str("reason", reason).Msg("bearer token rejected")
		return nil, apperr.Wrap(apperr.KindUnauthenticated, "could not validate credentials", err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		logging.Ctx(ctx).Debug().Str("reason", "invalid").Msg("bearer token subject is not a uuid")
		return nil, apperr.Unauthenticated("could not validate credentials")
	}

	user, err := g.users.GetByID(ctx, id)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Unauthenticated("could not validate credentials")
		}
		return nil, err
	}
	return user, nil
}

// Authorize fails with FORBIDDEN unless user holds one of roles.
func (g *AccessGuard) Authorize(user *models.User, roles ...models.UserRole) error {
	if user == nil {
		return apperr.Unauthenticated("not authenticated")
	}
	for _, r := range roles {
		if user.Role == r {
			return nil
		}
	}
	return apperr.Forbidden("not enough permissions")
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
