package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/router"
	"github.com/questx-lab/cardlottery/pkg/testutil"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name  string   `json:"name"`
	Limit int      `json:"limit"`
	Tags  []string `json:"tags"`
}

type echoResponse struct {
	Name   string   `json:"name"`
	Limit  int      `json:"limit"`
	Tags   []string `json:"tags"`
	UserID string   `json:"user_id"`
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Name == "fail" {
		return nil, errorx.New(errorx.BadRequest, "Bad name")
	}

	return &echoResponse{
		Name:   req.Name,
		Limit:  req.Limit,
		Tags:   req.Tags,
		UserID: xcontext.RequestUserID(ctx),
	}, nil
}

type result struct {
	Code  int64        `json:"code"`
	Error string       `json:"error"`
	Data  echoResponse `json:"data"`
}

func do(t *testing.T, handler http.Handler, req *http.Request) result {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var r result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	return r
}

func TestRouter(t *testing.T) {
	ctx := testutil.MockContext()

	var closed []string
	r := router.New(ctx)
	r.AddCloser(func(ctx context.Context) {
		closed = append(closed, xcontext.HTTPRequest(ctx).URL.Path)
	})

	authed := r.Branch()
	authed.Before(func(ctx context.Context) (context.Context, error) {
		if xcontext.HTTPRequest(ctx).Header.Get("Authorization") == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Need authentication")
		}

		return xcontext.WithRequestUserID(ctx, "user1"), nil
	})

	router.GET(r, "/echo", echo)
	router.POST(authed, "/authedEcho", echo)
	handler := r.Handler()

	resp := do(t, handler, httptest.NewRequest(http.MethodGet, "/echo?name=abc&limit=5&tags=a&tags=b", nil))
	require.Equal(t, int64(0), resp.Code)
	require.Equal(t, "abc", resp.Data.Name)
	require.Equal(t, 5, resp.Data.Limit)
	require.Equal(t, []string{"a", "b"}, resp.Data.Tags)
	require.Empty(t, resp.Data.UserID)

	resp = do(t, handler, httptest.NewRequest(http.MethodGet, "/echo?name=fail", nil))
	require.Equal(t, int64(errorx.BadRequest), resp.Code)
	require.Equal(t, "Bad name", resp.Error)

	resp = do(t, handler, httptest.NewRequest(http.MethodPost, "/authedEcho", strings.NewReader(`{"name":"x"}`)))
	require.Equal(t, int64(errorx.Unauthenticated), resp.Code)

	req := httptest.NewRequest(http.MethodPost, "/authedEcho", strings.NewReader(`{"name":"x","limit":2}`))
	req.Header.Set("Authorization", "Bearer token")
	resp = do(t, handler, req)
	require.Equal(t, int64(0), resp.Code)
	require.Equal(t, "user1", resp.Data.UserID)
	require.Equal(t, 2, resp.Data.Limit)

	req = httptest.NewRequest(http.MethodPost, "/authedEcho", strings.NewReader(`{"name":`))
	req.Header.Set("Authorization", "Bearer token")
	resp = do(t, handler, req)
	require.Equal(t, int64(errorx.BadRequest), resp.Code)

	resp = do(t, handler, httptest.NewRequest(http.MethodPost, "/echo", nil))
	require.Equal(t, int64(errorx.NotFound), resp.Code)

	require.Len(t, closed, 6)
}
