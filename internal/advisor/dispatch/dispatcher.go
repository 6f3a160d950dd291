// Package dispatch orchestrates one advisory request end to end: detect the
// transport, validate the identifier, build the engine instruction, invoke
// the engine once, extract weather fields, and render. Every failure is
// classified and rendered; the dispatcher never lets a fault escape the
// Lambda edge as an unhandled error.
package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"plant-advisor/internal/advisor/classify"
	"plant-advisor/internal/advisor/transport"
	"plant-advisor/internal/advisor/validate"
	"plant-advisor/internal/advisor/weather"
	apperrors "plant-advisor/internal/common/errors"
	"plant-advisor/internal/common/logger"
	"plant-advisor/internal/common/metrics"
	"plant-advisor/internal/common/observability"
	"plant-advisor/internal/models"
)

// Engine is the advisory engine as the dispatcher consumes it: one
// instruction in, one result or failure out. No retries happen at this
// layer; transient-failure recovery is the engine's own business.
type Engine interface {
	Invoke(ctx context.Context, instruction string) (*models.AdvisoryResult, error)
}

type Dispatcher struct {
	engine Engine
	obs    *observability.Observability
	logger logger.Logger
}

func New(engine Engine, obs *observability.Observability, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		engine: engine,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
}

// Handle is the Lambda entrypoint for both invocation shapes. It always
// returns a rendered response and a nil error: faults become classified
// error renders, not handler errors.
func (d *Dispatcher) Handle(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	start := time.Now()
	requestID := uuid.NewString()

	var event map[string]interface{}
	if err := json.Unmarshal(raw, &event); err != nil || event == nil {
		// A non-object payload can only be a direct invocation; let it fall
		// through to the "neither user_id nor prompt" rejection.
		event = map[string]interface{}{}
	}

	log := d.logger.WithFields(map[string]interface{}{"requestId": requestID})

	var (
		kind     models.TransportKind
		response interface{}
	)
	if transport.IsGatewayEvent(event) {
		kind = models.TransportGateway
		response = d.handleGateway(ctx, log, event, requestID)
	} else {
		kind = models.TransportDirect
		response = d.handleDirect(ctx, log, event, requestID)
	}

	metrics.RequestsTotal.WithLabelValues(string(kind)).Inc()
	metrics.RequestDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	d.obs.RecordDuration(ctx, string(kind), time.Since(start))

	return response, nil
}

func (d *Dispatcher) handleGateway(ctx context.Context, log logger.Logger, event map[string]interface{}, requestID string) *transport.GatewayResponse {
	req, err := transport.ParseGateway(event)
	if err != nil {
		cerr := classify.Failure(err, "")
		d.recordFailure(ctx, log, models.TransportGateway, cerr)
		return transport.RenderGatewayError(cerr, nil, requestID)
	}

	// CORS preflight: no validation, no dispatch.
	if req.Method == http.MethodOptions {
		log.Debug("answering preflight", nil)
		d.obs.RecordRequest(ctx, string(models.TransportGateway), "preflight")
		return transport.RenderPreflight()
	}

	rawID := req.Data["user_id"]
	echoID := stringOrNil(rawID)

	valid, reason := validate.UserID(rawID)
	if !valid {
		cerr := apperrors.NewBadRequest(reason, "")
		d.recordFailure(ctx, log, models.TransportGateway, cerr)
		return transport.RenderGatewayError(cerr, echoID, requestID)
	}

	nr := models.NormalizedRequest{
		Transport:     models.TransportGateway,
		UserID:        validate.Normalize(rawID.(string)),
		CorrelationID: requestID,
	}

	result, cerr := d.invoke(ctx, log, &nr)
	if cerr != nil {
		d.recordFailure(ctx, log, models.TransportGateway, cerr)
		return transport.RenderGatewayError(cerr, &nr.UserID, requestID)
	}

	d.obs.RecordRequest(ctx, string(models.TransportGateway), "success")
	return transport.RenderGatewaySuccess(result, weather.Extract(result), nr.UserID, requestID)
}

func (d *Dispatcher) handleDirect(ctx context.Context, log logger.Logger, event map[string]interface{}, requestID string) map[string]interface{} {
	rawID := event["user_id"]
	prompt, _ := event["prompt"].(string)

	nr := models.NormalizedRequest{
		Transport:     models.TransportDirect,
		CorrelationID: requestID,
	}

	switch {
	case rawID != nil:
		valid, reason := validate.UserID(rawID)
		if !valid {
			cerr := apperrors.NewBadRequest(reason, "")
			d.recordFailure(ctx, log, models.TransportDirect, cerr)
			return transport.RenderDirectError("Error: "+reason, stringOrNil(rawID), requestID)
		}
		nr.UserID = validate.Normalize(rawID.(string))
	case prompt != "":
		nr.Prompt = prompt
	default:
		cerr := apperrors.NewBadRequest("Either 'user_id' or 'prompt' must be provided in the event.", "")
		d.recordFailure(ctx, log, models.TransportDirect, cerr)
		return transport.RenderDirectError("Error: "+cerr.Message, nil, requestID)
	}

	result, cerr := d.invoke(ctx, log, &nr)
	if cerr != nil {
		d.recordFailure(ctx, log, models.TransportDirect, cerr)
		return transport.RenderDirectError(cerr.Message, stringOrNil(nr.UserID), requestID)
	}

	d.obs.RecordRequest(ctx, string(models.TransportDirect), "success")
	return transport.RenderDirectSuccess(result, weather.Extract(result), nr.UserID, requestID)
}

// invoke runs the single engine call for a normalized request and classifies
// whatever failure comes back.
func (d *Dispatcher) invoke(ctx context.Context, log logger.Logger, nr *models.NormalizedRequest) (*models.AdvisoryResult, *apperrors.Classified) {
	instruction := nr.Prompt
	if nr.UserID != "" {
		instruction = transport.InstructionForUser(nr.UserID)
	}

	log.Info("invoking advisory engine", map[string]interface{}{
		"transport": string(nr.Transport),
		"userId":    nr.UserID,
	})

	result, err := d.engine.Invoke(ctx, instruction)
	if err != nil {
		return nil, classify.Failure(err, nr.UserID)
	}
	return result, nil
}

func (d *Dispatcher) recordFailure(ctx context.Context, log logger.Logger, kind models.TransportKind, cerr *apperrors.Classified) {
	// Full detail stays server-side; the render only carries cerr.Message.
	log.Error("request failed", map[string]interface{}{
		"transport":  string(kind),
		"kind":       string(cerr.Kind),
		"statusCode": cerr.StatusCode,
		"message":    cerr.Message,
		"detail":     cerr.Detail,
	})
	metrics.RequestFailures.WithLabelValues(string(kind), string(cerr.Kind)).Inc()
	d.obs.RecordRequest(ctx, string(kind), "failure")
}

// stringOrNil returns a pointer to v when it is a non-empty string-typed
// value; error renders echo the identifier only in that case.
func stringOrNil(v interface{}) *string {
	if s, ok := v.(string); ok && s != "" {
		return &s
	}
	return nil
}
