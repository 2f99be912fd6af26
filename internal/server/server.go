// Package server exposes the calculation engine over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/tomsentry/tax-savings-tool/internal/calculation"
	"github.com/tomsentry/tax-savings-tool/internal/domain"
	"github.com/tomsentry/tax-savings-tool/pkg/dateutil"
)

// maxBodySize bounds request bodies; every request fits comfortably in 1 MiB
const maxBodySize = 1 << 20

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// annualBody is the body of POST /v1/tax
type annualBody struct {
	domain.IncomeEstimate
	Brackets domain.BracketSchedule `json:"brackets,omitempty"`
}

// partialBody is the body of POST /v1/tax/partial
type partialBody struct {
	domain.PartialIncome
	Brackets domain.BracketSchedule `json:"brackets,omitempty"`
}

// Server routes HTTP requests to a CalculationEngine. The engine holds no
// per-request state, so one Server serves concurrent requests.
type Server struct {
	Engine *calculation.CalculationEngine
	Logger calculation.Logger
	// Now supplies the reference date for requests that omit one
	Now func() time.Time
}

// New creates a server around engine
func New(engine *calculation.CalculationEngine, logger calculation.Logger) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Server{Engine: engine, Logger: logger, Now: time.Now}
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &fasthttp.Server{
		Handler:            s.Handler,
		Name:               "taxsave",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		MaxRequestBodySize: maxBodySize,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Infof("listening on %s", addr)
		errc <- srv.ListenAndServe(addr)
	}()

	select {
	case <-ctx.Done():
		s.Logger.Infof("shutting down")
		return srv.Shutdown()
	case err := <-errc:
		return err
	}
}

// Handler dispatches a request by path and method
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	switch path {
	case "/healthz":
		if s.allow(ctx, fasthttp.MethodGet) {
			writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
		}
	case "/v1/brackets":
		if s.allow(ctx, fasthttp.MethodGet) {
			writeJSON(ctx, fasthttp.StatusOK, map[string]domain.BracketSchedule{"brackets": s.Engine.Estimator.Schedule})
		}
	case "/v1/plan":
		if s.allow(ctx, fasthttp.MethodPost) {
			s.handlePlan(ctx)
		}
	case "/v1/tax":
		if s.allow(ctx, fasthttp.MethodPost) {
			s.handleAnnual(ctx)
		}
	case "/v1/tax/partial":
		if s.allow(ctx, fasthttp.MethodPost) {
			s.handlePartial(ctx)
		}
	case "/v1/report":
		if s.allow(ctx, fasthttp.MethodPost) {
			s.handleReport(ctx)
		}
	default:
		writeError(ctx, fasthttp.StatusNotFound, "no route for "+path, "")
	}
}

func (s *Server) allow(ctx *fasthttp.RequestCtx, method string) bool {
	if string(ctx.Method()) == method {
		return true
	}
	ctx.Response.Header.Set("Allow", method)
	writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed", "")
	return false
}

func (s *Server) handlePlan(ctx *fasthttp.RequestCtx) {
	var req domain.PlanRequest
	if !decodeBody(ctx, &req) {
		return
	}
	if req.StartDate.IsZero() {
		req.StartDate = s.today()
	}
	req.NormalizeDates()
	plan, err := s.Engine.RunPlan(&req)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, plan)
}

func (s *Server) handleAnnual(ctx *fasthttp.RequestCtx) {
	var body annualBody
	if !decodeBody(ctx, &body) {
		return
	}
	s.runTax(ctx, &domain.TaxRequest{Annual: &body.IncomeEstimate, Brackets: body.Brackets})
}

func (s *Server) handlePartial(ctx *fasthttp.RequestCtx) {
	var body partialBody
	if !decodeBody(ctx, &body) {
		return
	}
	if body.AsOf.IsZero() {
		body.AsOf = s.today()
	}
	body.AsOf = dateutil.CalendarDate(body.AsOf)
	s.runTax(ctx, &domain.TaxRequest{Partial: &body.PartialIncome, Brackets: body.Brackets})
}

func (s *Server) runTax(ctx *fasthttp.RequestCtx, req *domain.TaxRequest) {
	report, err := s.Engine.RunTax(req)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, report)
}

func (s *Server) handleReport(ctx *fasthttp.RequestCtx) {
	var req domain.Request
	if !decodeBody(ctx, &req) {
		return
	}
	if req.AsOf.IsZero() {
		req.AsOf = s.today()
	}
	req.NormalizeDates()
	report, err := s.Engine.Run(&req)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, report)
}

func (s *Server) today() time.Time {
	return dateutil.CalendarDate(s.Now())
}

// fail maps calculation errors onto status codes. Input the engine rejected is
// a 422; anything else is logged and reported as a 500.
func (s *Server) fail(ctx *fasthttp.RequestCtx, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error(), verr.Field)
	case errors.Is(err, domain.ErrInvalidHorizon), errors.Is(err, domain.ErrDivisionByZero), errors.Is(err, domain.ErrInvalidInput):
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error(), "")
	default:
		s.Logger.Errorf("%s %s: %v", ctx.Method(), ctx.Path(), err)
		writeError(ctx, fasthttp.StatusInternalServerError, "internal error", "")
	}
}

func decodeBody(ctx *fasthttp.RequestCtx, v any) bool {
	body := ctx.PostBody()
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "request body is required", "")
		return false
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return false
	}
	return true
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		ctx.Error(`{"status":500,"message":"encoding response failed"}`, fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message, field string) {
	writeJSON(ctx, status, ErrorResponse{Status: status, Message: message, Field: field})
}
