package router

import (
	"context"
	"net/http"
	"time"

	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc may return a new context which replaces the current one. A nil
// context keeps the current one.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written, whether or not the request failed.
type CloserFunc func(ctx context.Context)

type Router struct {
	ctx     context.Context
	mux     *http.ServeMux
	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router. Every request context is derived from ctx, so ctx should
// carry the configs, logger and database.
func New(ctx context.Context) *Router {
	return &Router{ctx: ctx, mux: http.NewServeMux()}
}

// Branch returns a router sharing the routes of r. Middlewares added to the branch
// do not affect r.
func (r *Router) Branch() *Router {
	return &Router{
		ctx:     r.ctx,
		mux:     r.mux,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]MiddlewareFunc{}, r.afters...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

// Handler returns the http.Handler of all routes, allowing cross origin requests
// from the configured origins.
func (r *Router) Handler() http.Handler {
	origins := xcontext.Configs(r.ctx).ApiServer.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Authorization"},
		AllowCredentials: true,
	}).Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodPost, pattern, handler)
}

func route[Request, Response any](
	r *Router, method, pattern string, handler HandlerFunc[Request, Response],
) {
	befores := append([]MiddlewareFunc{}, r.befores...)
	afters := append([]MiddlewareFunc{}, r.afters...)
	closers := append([]CloserFunc{}, r.closers...)

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		ctx := xcontext.WithHTTPRequest(r.ctx, req)
		ctx = xcontext.WithStartTime(ctx, time.Now())

		ctx = serve(ctx, method, req, befores, afters, handler)
		writeResponse(ctx, w)

		for _, closer := range closers {
			closer(ctx)
		}
	})
}

func serve[Request, Response any](
	ctx context.Context,
	method string,
	req *http.Request,
	befores, afters []MiddlewareFunc,
	handler HandlerFunc[Request, Response],
) context.Context {
	if req.Method != method {
		return xcontext.WithError(ctx, errorx.New(errorx.NotFound, "Method %s is not allowed", req.Method))
	}

	var err error
	ctx, err = runMiddlewares(ctx, befores)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	var request Request
	if err := parseRequest(ctx, req, &request); err != nil {
		return xcontext.WithError(ctx, err)
	}

	resp, err := handler(ctx, &request)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	ctx = xcontext.WithResponse(ctx, resp)
	ctx, err = runMiddlewares(ctx, afters)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	return ctx
}

func runMiddlewares(ctx context.Context, middlewares []MiddlewareFunc) (context.Context, error) {
	for _, middleware := range middlewares {
		newCtx, err := middleware(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}
