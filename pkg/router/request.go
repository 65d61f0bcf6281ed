package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
)

const maxBodySize = 1 << 20

// parseRequest fills req from the query string of GET requests or from the json
// body of other requests.
func parseRequest(ctx context.Context, r *http.Request, req any) error {
	if r.Method == http.MethodGet {
		return parseQuery(ctx, r, req)
	}

	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodySize))
	if err := decoder.Decode(req); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot decode request body: %v", err)
		return errorx.New(errorx.BadRequest, "Invalid request body")
	}

	return nil
}

func parseQuery(ctx context.Context, r *http.Request, req any) error {
	query := map[string]any{}
	for key, values := range r.URL.Query() {
		if len(values) == 1 {
			query[key] = values[0]
		} else {
			query[key] = values
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           req,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create query decoder: %v", err)
		return errorx.Unknown
	}

	if err := decoder.Decode(query); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot decode query: %v", err)
		return errorx.New(errorx.BadRequest, "Invalid query")
	}

	return nil
}
