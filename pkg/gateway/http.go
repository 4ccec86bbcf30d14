package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jguan/modelrun/pkg/unit"
)

const (
	ContentTypeJSON = "application/json"
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"

	maxBodyBytes = 1 << 20
)

// HTTPAdapter serves POST /execute, which takes a raw gateway Request.
type HTTPAdapter struct {
	gateway *Gateway
}

func NewHTTPAdapter(gateway *Gateway) *HTTPAdapter {
	return &HTTPAdapter{
		gateway: gateway,
	}
}

func (a *HTTPAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, ErrCodeInvalidRequest, "method not allowed")
		return
	}

	var req Request
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSONError(w, statusForDecodeError(err), ErrCodeInvalidRequest, err.Error())
		return
	}

	if traceID := r.Header.Get(HeaderTraceID); traceID != "" {
		req.Options.TraceID = traceID
	}

	ctx := r.Context()
	if id := chimw.GetReqID(ctx); id != "" {
		ctx = unit.WithRequestID(ctx, id)
	}

	writeResponse(w, a.gateway.Handle(ctx, &req))
}

var errUnsupportedMediaType = errors.New("content-type must be application/json")

// decodeJSONBody decodes an optional JSON body. An empty body leaves v untouched.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != ContentTypeJSON {
			return errUnsupportedMediaType
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return errors.New("failed to read request body: " + err.Error())
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

func statusForDecodeError(err error) int {
	if errors.Is(err, errUnsupportedMediaType) {
		return http.StatusUnsupportedMediaType
	}
	return http.StatusBadRequest
}

func writeResponse(w http.ResponseWriter, resp *Response) {
	w.Header().Set("Content-Type", ContentTypeJSON)

	if resp.Meta != nil {
		if resp.Meta.RequestID != "" {
			w.Header().Set(HeaderRequestID, resp.Meta.RequestID)
		}
		if resp.Meta.TraceID != "" {
			w.Header().Set(HeaderTraceID, resp.Meta.TraceID)
		}
	}

	statusCode := http.StatusOK
	if !resp.Success {
		statusCode = resp.Error.StatusCode()
	}

	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSONError(w http.ResponseWriter, statusCode int, code string, message string) {
	requestID := unit.GenerateRequestID()
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.Header().Set(HeaderRequestID, requestID)
	w.WriteHeader(statusCode)

	resp := &Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
		Meta: &ResponseMeta{
			RequestID: requestID,
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}
