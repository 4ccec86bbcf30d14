package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jguan/modelrun/pkg/unit"
)

// Route binds an HTTP endpoint to a query. Path is relative to the API prefix.
type Route struct {
	Method      string
	Path        string
	Unit        string
	InputMapper func(w http.ResponseWriter, r *http.Request) (map[string]any, error)
}

func defaultRoutes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/accelerators", Unit: "catalog.list_accelerators", InputMapper: queryInputMapper},
		{Method: http.MethodGet, Path: "/accelerators/{id}", Unit: "catalog.get_accelerator", InputMapper: idInputMapper},
		{Method: http.MethodGet, Path: "/accelerators/{id}/models", Unit: "catalog.compatible_models", InputMapper: acceleratorInputMapper},
		{Method: http.MethodGet, Path: "/accelerators/{id}/engines", Unit: "catalog.compatible_engines", InputMapper: acceleratorInputMapper},

		{Method: http.MethodGet, Path: "/models", Unit: "catalog.list_models", InputMapper: queryInputMapper},
		{Method: http.MethodGet, Path: "/models/{id}", Unit: "catalog.get_model", InputMapper: idInputMapper},

		{Method: http.MethodGet, Path: "/engines", Unit: "catalog.list_engines", InputMapper: queryInputMapper},
		{Method: http.MethodGet, Path: "/engines/{id}", Unit: "catalog.get_engine", InputMapper: idInputMapper},

		{Method: http.MethodGet, Path: "/recommend", Unit: "launch.recommend", InputMapper: queryInputMapper},
		{Method: http.MethodPost, Path: "/generate", Unit: "launch.generate", InputMapper: bodyInputMapper},
	}
}

// Routes returns the REST routes served under the API prefix.
func Routes() []Route {
	return defaultRoutes()
}

func mountRoutes(r chi.Router, gw *Gateway, routes []Route) {
	for _, route := range routes {
		r.Method(route.Method, route.Path, routeHandler(gw, route))
	}
}

func routeHandler(gw *Gateway, route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := map[string]any{}
		if route.InputMapper != nil {
			mapped, err := route.InputMapper(w, r)
			if err != nil {
				writeJSONError(w, statusForDecodeError(err), ErrCodeInvalidRequest, err.Error())
				return
			}
			if mapped != nil {
				input = mapped
			}
		}

		ctx := r.Context()
		if id := chimw.GetReqID(ctx); id != "" {
			ctx = unit.WithRequestID(ctx, id)
		}

		req := &Request{
			Type:  TypeQuery,
			Unit:  route.Unit,
			Input: input,
			Options: RequestOptions{
				TraceID: r.Header.Get(HeaderTraceID),
			},
		}

		writeResponse(w, gw.Handle(ctx, req))
	}
}

func bodyInputMapper(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	var input map[string]any
	if err := decodeJSONBody(w, r, &input); err != nil {
		return nil, err
	}
	return input, nil
}

func queryInputMapper(_ http.ResponseWriter, r *http.Request) (map[string]any, error) {
	input := map[string]any{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 && v[0] != "" {
			input[k] = v[0]
		}
	}
	return input, nil
}

func idInputMapper(_ http.ResponseWriter, r *http.Request) (map[string]any, error) {
	return map[string]any{
		"id": chi.URLParam(r, "id"),
	}, nil
}

func acceleratorInputMapper(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	input, _ := queryInputMapper(w, r)
	input["accelerator"] = chi.URLParam(r, "id")
	return input, nil
}
