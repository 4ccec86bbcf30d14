package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jguan/modelrun/pkg/unit"
)

const (
	TypeQuery = "query"

	DefaultTimeout = 30 * time.Second
)

type Request struct {
	Type    string         `json:"type"`
	Unit    string         `json:"unit"`
	Input   map[string]any `json:"input,omitempty"`
	Options RequestOptions `json:"options,omitempty"`
}

type RequestOptions struct {
	Timeout time.Duration `json:"timeout,omitempty"`
	TraceID string        `json:"trace_id,omitempty"`
}

type Response struct {
	Success bool          `json:"success"`
	Data    any           `json:"data,omitempty"`
	Error   *ErrorInfo    `json:"error,omitempty"`
	Meta    *ResponseMeta `json:"meta,omitempty"`
}

type ResponseMeta struct {
	RequestID string `json:"request_id"`
	Duration  int64  `json:"duration_ms"`
	TraceID   string `json:"trace_id,omitempty"`
}

// Gateway dispatches requests to registered queries. The CLI and the HTTP
// server both go through it, so validation and error mapping live here.
type Gateway struct {
	registry       *unit.Registry
	requestTimeout time.Duration
	logger         *slog.Logger
}

type GatewayOption func(*Gateway)

// WithTimeout sets the per-request deadline. Non-positive values keep the
// default.
func WithTimeout(timeout time.Duration) GatewayOption {
	return func(g *Gateway) {
		if timeout > 0 {
			g.requestTimeout = timeout
		}
	}
}

func WithLogger(logger *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		g.logger = logger
	}
}

func NewGateway(registry *unit.Registry, opts ...GatewayOption) *Gateway {
	if registry == nil {
		registry = unit.NewRegistry()
	}

	g := &Gateway{
		registry:       registry,
		requestTimeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *Gateway) Handle(ctx context.Context, req *Request) *Response {
	start := time.Now()
	requestID := unit.GetRequestID(ctx)
	if requestID == "" {
		requestID = unit.GenerateRequestID()
	}

	resp := &Response{
		Meta: &ResponseMeta{
			RequestID: requestID,
		},
	}
	defer func() {
		resp.Meta.Duration = time.Since(start).Milliseconds()
	}()

	if err := g.validateRequest(req); err != nil {
		resp.Error = err
		return resp
	}

	traceID := req.Options.TraceID
	if traceID == "" {
		traceID = unit.GenerateTraceID()
	}
	resp.Meta.TraceID = traceID

	ctx = unit.WithRequestID(ctx, requestID)
	ctx = unit.WithTraceID(ctx, traceID)
	ctx = unit.WithStartTime(ctx, start)

	timeout := req.Options.Timeout
	if timeout <= 0 {
		timeout = g.requestTimeout
	}

	var cancel context.CancelFunc
	ctx, cancel = context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := g.executeQuery(ctx, req)
	observeUnit(req.Unit, err, time.Since(start))
	if err != nil {
		resp.Error = ToErrorInfo(err)
		if g.logger != nil {
			g.logger.DebugContext(ctx, "unit failed",
				slog.String("unit", req.Unit),
				slog.String("code", resp.Error.Code),
				slog.String("error", resp.Error.Message),
			)
		}
		return resp
	}

	resp.Success = true
	resp.Data = result
	return resp
}

func (g *Gateway) validateRequest(req *Request) *ErrorInfo {
	if req == nil {
		return NewErrorInfo(ErrCodeInvalidRequest, "request is nil")
	}

	if req.Type != TypeQuery {
		return NewErrorInfo(ErrCodeInvalidRequest, "invalid request type: "+req.Type)
	}

	if req.Unit == "" {
		return NewErrorInfo(ErrCodeInvalidRequest, "unit is required")
	}

	return nil
}

func (g *Gateway) executeQuery(ctx context.Context, req *Request) (any, error) {
	q := g.registry.GetQuery(req.Unit)
	if q == nil {
		return nil, NewErrorInfo(ErrCodeUnitNotFound, "query not found: "+req.Unit)
	}

	input := req.Input
	if input == nil {
		input = map[string]any{}
	}

	schema := q.InputSchema()
	if err := schema.Validate(input); err != nil {
		return nil, NewErrorInfoWithDetails(ErrCodeValidationFailed, "invalid input for "+req.Unit, err.Error())
	}

	result, err := q.Execute(ctx, input)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewErrorInfo(ErrCodeTimeout, "query timed out: "+req.Unit)
		}
		return nil, err
	}

	return result, nil
}

func (g *Gateway) Registry() *unit.Registry {
	return g.registry
}

func (g *Gateway) Timeout() time.Duration {
	return g.requestTimeout
}
