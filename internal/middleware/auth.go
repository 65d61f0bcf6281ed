package middleware

import (
	"context"
	"strings"

	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/pkg/authenticator"
	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/router"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
)

type AuthVerifier struct {
	accessTokenEngine authenticator.TokenEngine[model.AccessToken]
	optional          bool
}

func NewAuthVerifier(accessTokenEngine authenticator.TokenEngine[model.AccessToken]) *AuthVerifier {
	return &AuthVerifier{accessTokenEngine: accessTokenEngine}
}

// Optional lets unauthenticated requests pass without a user id.
func (a *AuthVerifier) Optional() *AuthVerifier {
	a.optional = true
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := accessToken(ctx)
		if token == "" {
			if a.optional {
				return nil, nil
			}

			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		info, err := a.accessTokenEngine.Verify(token)
		if err != nil || info.ID == "" {
			xcontext.Logger(ctx).Debugf("Invalid access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, info.ID), nil
	}
}

func accessToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	auth, token, found := strings.Cut(req.Header.Get("Authorization"), " ")
	if found {
		if auth == "Bearer" {
			return token
		}
		return ""
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
