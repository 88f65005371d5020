package nasa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ayush/exploring-space/internal/httpx"
)

const (
	cacheControl = "public, s-maxage=3600, stale-while-revalidate=1800"
	proxyError   = "Sorry, I'm having trouble connecting to the NASA API right now."
)

// Fetcher returns raw upstream JSON for a query.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) ([]byte, error)
}

// Handler serves GET /api/nasa.
type Handler struct {
	nasa   Fetcher
	logger *zap.Logger
}

func NewHandler(nasa Fetcher, logger *zap.Logger) *Handler {
	return &Handler{nasa: nasa, logger: logger}
}

// Proxy forwards the request to NASA and passes the JSON body through.
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := Query{
		Endpoint: qs.Get("endpoint"),
		Date:     qs.Get("date"),
		Count:    qs.Get("count"),
		Q:        qs.Get("q"),
	}
	if raw := qs.Get("params"); raw != "" {
		params, err := ParseParams(raw)
		if err != nil {
			h.logger.Warn("ignoring invalid params", zap.String("params", raw), zap.Error(err))
		} else {
			q.Params = params
		}
	}

	body, err := h.nasa.Fetch(r.Context(), q)
	if errors.Is(err, ErrInvalidEndpoint) {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("nasa proxy failed", zap.String("endpoint", q.Endpoint), zap.Error(err))
		httpx.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   proxyError,
			"details": err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// ParseParams decodes a JSON object of extra query parameters.
// Numbers keep their literal form; other non-string values are rendered
// with fmt.
func ParseParams(raw string) (map[string]string, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after params object")
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		switch v := v.(type) {
		case string:
			out[k] = v
		case json.Number:
			out[k] = v.String()
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out, nil
}
