package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 64 << 10

// Router exposes Handle over plain HTTP for local runs. Each request is
// converted into the API Gateway proxy event Lambda would deliver.
func Router(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	r.Get(resourceGame, h.proxy(resourceGame))
	r.Post(resourceMove, h.proxy(resourceMove))
	r.Post(resourceRestart, h.proxy(resourceRestart))
	r.Get(resourceHistory, h.proxy(resourceHistory))
	r.Delete(resourceHistoryRecord, h.proxy(resourceHistoryRecord))
	return r
}

func (h *Handler) proxy(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, `{"error":"INVALID_INPUT","reason":"body_too_large"}`, http.StatusRequestEntityTooLarge)
			return
		}

		resp, err := h.Handle(r.Context(), toProxyRequest(r, resource, string(body)))
		if err != nil {
			http.Error(w, `{"error":"INTERNAL_ERROR"}`, http.StatusInternalServerError)
			return
		}
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)
	}
}

func toProxyRequest(r *http.Request, resource, body string) events.APIGatewayProxyRequest {
	params := map[string]string{}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			params[key] = rctx.URLParams.Values[i]
		}
	}
	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}
	query := map[string]string{}
	for k := range r.URL.Query() {
		query[k] = r.URL.Query().Get(k)
	}
	return events.APIGatewayProxyRequest{
		Resource:              resource,
		Path:                  r.URL.Path,
		HTTPMethod:            r.Method,
		Headers:               headers,
		QueryStringParameters: query,
		PathParameters:        params,
		Body:                  body,
	}
}
