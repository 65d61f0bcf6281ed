package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/pkg/authenticator"
	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/testutil"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_AuthVerifier(t *testing.T) {
	ctx := testutil.MockContext()
	engine := authenticator.NewTokenEngine[model.AccessToken]("secret", time.Minute)
	token, err := engine.Generate(testutil.FixtureUser1, model.AccessToken{ID: testutil.FixtureUser1})
	require.NoError(t, err)

	verify := NewAuthVerifier(engine).Middleware()

	// Bearer header.
	req := httptest.NewRequest(http.MethodGet, "/getMyLotteries", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newCtx, err := verify(xcontext.WithHTTPRequest(ctx, req))
	require.NoError(t, err)
	require.Equal(t, testutil.FixtureUser1, xcontext.RequestUserID(newCtx))

	// Cookie.
	req = httptest.NewRequest(http.MethodGet, "/getMyLotteries", nil)
	req.AddCookie(&http.Cookie{Name: testutil.MockConfigs().Auth.AccessToken.Name, Value: token})
	newCtx, err = verify(xcontext.WithHTTPRequest(ctx, req))
	require.NoError(t, err)
	require.Equal(t, testutil.FixtureUser1, xcontext.RequestUserID(newCtx))

	req = httptest.NewRequest(http.MethodGet, "/getMyLotteries", nil)
	req.Header.Set("Authorization", "Basic "+token)
	_, err = verify(xcontext.WithHTTPRequest(ctx, req))
	require.True(t, errorx.Is(err, errorx.Unauthenticated))

	req = httptest.NewRequest(http.MethodGet, "/getMyLotteries", nil)
	req.Header.Set("Authorization", "Bearer "+token+"x")
	_, err = verify(xcontext.WithHTTPRequest(ctx, req))
	require.True(t, errorx.Is(err, errorx.Unauthenticated))

	optional := NewAuthVerifier(engine).Optional().Middleware()
	req = httptest.NewRequest(http.MethodGet, "/getLottery", nil)
	newCtx, err = optional(xcontext.WithHTTPRequest(ctx, req))
	require.NoError(t, err)
	require.Nil(t, newCtx)
}
