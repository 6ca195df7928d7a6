// CLAUDE:SUMMARY HTTP router: JSON endpoints, Prometheus scrape, MCP streamable HTTP, rate limiting, CORS, request IDs.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hazyhaar/touchstone-normalize/pkg/dict"
	"github.com/hazyhaar/touchstone-normalize/pkg/kit"
	"github.com/hazyhaar/touchstone-normalize/pkg/translit"
)

const maxBodyBytes = 64 * 1024

// RouterConfig configures NewRouter.
type RouterConfig struct {
	Options
	// RateLimit is the number of requests per minute allowed per client IP
	// on /v1 and /mcp. Zero disables limiting.
	RateLimit int
	// MCP is served at /mcp over streamable HTTP when non-nil.
	MCP    *server.MCPServer
	Logger *slog.Logger
}

// NewRouter returns an http.Handler with all API routes. tr must be safe
// for concurrent use; nil uses the process-wide pool.
func NewRouter(reg *dict.Registry, tr translit.Transliterator, cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	eps := newService(reg, tr, cfg.Options).endpoints()
	h := &handler{eps: eps, reg: reg, logger: cfg.Logger}

	api := http.NewServeMux()
	api.HandleFunc("POST /v1/addresses/normalize", h.handleNormalizeAddress)
	api.HandleFunc("POST /v1/addresses/keywords", h.handleAddressKeywords)
	api.HandleFunc("POST /v1/names/tokenize", h.handleTokenizeName)
	api.HandleFunc("POST /v1/names/prenormalize", h.handlePrenormalizeName)
	api.HandleFunc("POST /v1/names/normalize", h.handleNormalizeName)
	api.HandleFunc("POST /v1/text/ascii", h.handleASCII)
	api.HandleFunc("GET /v1/match/{term}", h.handleMatch)
	api.HandleFunc("GET /v1/dicts", h.handleListDicts)
	if cfg.MCP != nil {
		api.Handle("/mcp", server.NewStreamableHTTPServer(cfg.MCP))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	limited := rateLimit(cfg.RateLimit, api)
	mux.Handle("/v1/", limited)
	mux.Handle("/mcp", limited)

	return cors(requestID(mux))
}

type handler struct {
	eps    *endpoints
	reg    *dict.Registry
	logger *slog.Logger
}

// --- addresses ---

func (h *handler) handleNormalizeAddress(w http.ResponseWriter, r *http.Request) {
	var req addressReq
	if !decodeJSON(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.normalizeAddress, &req)
}

func (h *handler) handleAddressKeywords(w http.ResponseWriter, r *http.Request) {
	var req keywordsReq
	if !decodeJSON(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.addressKeywords, &req)
}

// --- names ---

func (h *handler) handleTokenizeName(w http.ResponseWriter, r *http.Request) {
	var req tokenizeReq
	if !decodeJSON(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.tokenizeName, &req)
}

func (h *handler) handlePrenormalizeName(w http.ResponseWriter, r *http.Request) {
	var req nameReq
	if !decodeJSON(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.prenormalizeName, &req)
}

func (h *handler) handleNormalizeName(w http.ResponseWriter, r *http.Request) {
	var req nameReq
	if !decodeJSON(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.normalizeName, &req)
}

// --- text ---

func (h *handler) handleASCII(w http.ResponseWriter, r *http.Request) {
	var req textReq
	if !decodeJSON(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.asciiText, &req)
}

// --- dictionaries ---

func (h *handler) handleMatch(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.eps.matchTerm, &matchReq{
		Term: r.PathValue("term"),
		Opts: parseOpts(r),
	})
}

func (h *handler) handleListDicts(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.eps.listDicts, nil)
}

// --- health ---

type healthResponse struct {
	Status       string `json:"status"`
	Dictionaries int    `json:"dictionaries"`
	TotalEntries int    `json:"total_entries"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Dictionaries: h.reg.DictCount(),
		TotalEntries: h.reg.TotalEntries(),
	})
}

// --- helpers ---

func (h *handler) serve(w http.ResponseWriter, r *http.Request, ep kit.Endpoint, req any) {
	resp, err := ep(r.Context(), req)
	if err != nil {
		if errors.Is(err, kit.ErrInvalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("endpoint failed",
			"path", r.URL.Path,
			"request_id", kit.GetRequestID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func parseOpts(r *http.Request) *dict.MatchOptions {
	q := r.URL.Query()
	return &dict.MatchOptions{
		Jurisdictions: splitList(q.Get("jurisdictions")),
		Types:         splitList(q.Get("types")),
		Dicts:         splitList(q.Get("dicts")),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// rateLimit limits next per client IP with a sliding window of one minute.
func rateLimit(perMinute int, next http.Handler) http.Handler {
	if perMinute <= 0 {
		return next
	}
	const window = time.Minute
	return httprate.Limit(
		perMinute,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		}),
	)(next)
}

// requestID propagates X-Request-ID, generating one when the client sent none.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(kit.WithRequestID(r.Context(), id)))
	})
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
