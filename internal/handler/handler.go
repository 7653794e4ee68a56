// Where: internal/handler/handler.go
// What: Lambda handler that stops instances matching the stop policy.
// Why: Translate a scan into the {statusCode, body} contract of the function.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rowdens/instance-stopper/internal/config"
	"github.com/rowdens/instance-stopper/internal/provider"
	"github.com/rowdens/instance-stopper/internal/stopper"
	"go.uber.org/zap"
)

const (
	StatusOK          = 200
	StatusError       = 500
	SuccessBody       = "Lambda execution completed successfully"
	errorBodyPrefix   = "Error: "
	errorLogMessage   = "error stopping instances"
	successLogMessage = "scan complete"
)

// Response is the function result returned to the invoker.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Handler holds process-wide dependencies. Provider clients are built on
// first use and reused by later invocations in the same process.
type Handler struct {
	Clients provider.ClientFactory
	Logger  *zap.Logger

	// Getenv resolves policy overrides. Defaults to os.Getenv.
	Getenv func(string) string

	mu        sync.Mutex
	instances provider.InstanceAPI
	objects   provider.ObjectAPI
}

// New constructs a Handler.
func New(clients provider.ClientFactory, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Clients: clients, Logger: logger, Getenv: os.Getenv}
}

// Handle runs one scan. The event payload is ignored. Failures are reported
// in the response, never as a returned error.
func (h *Handler) Handle(ctx context.Context, _ json.RawMessage) (Response, error) {
	logger := h.logger()
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		logger = logger.With(zap.String("request_id", lc.AwsRequestID))
	}

	result, err := h.run(ctx, logger)
	if err != nil {
		logger.Error(errorLogMessage,
			zap.Error(err),
			zap.String("error_code", provider.ErrorCode(err)),
			zap.Strings("stopped", result.Stopped),
		)
		return Response{StatusCode: StatusError, Body: errorBodyPrefix + err.Error()}, nil
	}

	logger.Info(successLogMessage,
		zap.Int("scanned", result.Scanned),
		zap.Int("matched", len(result.Matched)),
		zap.Int("stopped", len(result.Stopped)),
		zap.Bool("dry_run", result.DryRun),
	)
	return Response{StatusCode: StatusOK, Body: SuccessBody}, nil
}

func (h *Handler) run(ctx context.Context, logger *zap.Logger) (stopper.Result, error) {
	policy, err := config.Load(ctx, config.LoadOptions{
		Objects: h.objectClient,
		Getenv:  h.Getenv,
	})
	if err != nil {
		return stopper.Result{}, err
	}
	client, err := h.instanceClient(ctx)
	if err != nil {
		return stopper.Result{}, err
	}
	return stopper.New(client, policy, logger).Run(ctx)
}

func (h *Handler) instanceClient(ctx context.Context) (provider.InstanceAPI, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.instances != nil {
		return h.instances, nil
	}
	if h.Clients == nil {
		return nil, errors.New("client factory not configured")
	}
	client, err := h.Clients.Instances(ctx)
	if err != nil {
		return nil, err
	}
	h.instances = client
	return client, nil
}

func (h *Handler) objectClient(ctx context.Context) (provider.ObjectAPI, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.objects != nil {
		return h.objects, nil
	}
	if h.Clients == nil {
		return nil, errors.New("client factory not configured")
	}
	client, err := h.Clients.Objects(ctx)
	if err != nil {
		return nil, err
	}
	h.objects = client
	return client, nil
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}
