package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmsphere/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
)

// Predictor runs one forward pass and returns the raw output row.
type Predictor interface {
	Predict(ctx context.Context, input Tensor) ([]float64, error)
}

// ModelServer talks to a TensorFlow Serving compatible REST endpoint.
type ModelServer struct {
	baseURL string
	name    string
	timeout time.Duration
}

type predictRequest struct {
	Instances []Tensor `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error"`
}

type modelStatus struct {
	ModelVersionStatus []struct {
		State string `json:"state"`
	} `json:"model_version_status"`
}

// NewModelServer creates a client for model name served at baseURL.
func NewModelServer(baseURL, name string, timeout time.Duration) *ModelServer {
	return &ModelServer{
		baseURL: strings.TrimRight(baseURL, "/"),
		name:    name,
		timeout: timeout,
	}
}

func (m *ModelServer) statusURL() string {
	return fmt.Sprintf("%s/v1/models/%s", m.baseURL, m.name)
}

func (m *ModelServer) predictURL() string {
	return m.statusURL() + ":predict"
}

func (m *ModelServer) do(ctx context.Context, a *fiber.Agent) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(a)
		return 0, nil, err
	}
	timeout := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout > 0 {
		a.Timeout(timeout)
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return 0, nil, err
	}
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return code, body, errors.Join(errs...)
	}
	return code, body, nil
}

// Ready reports whether the model has an available version.
func (m *ModelServer) Ready(ctx context.Context) (err error) {
	ctx, span := observability.StartClientSpan(ctx, "modelserver.status",
		attribute.String("model.name", m.name))
	defer func() { observability.EndSpan(span, err) }()

	code, body, err := m.do(ctx, fiber.Get(m.statusURL()))
	if err != nil {
		return fmt.Errorf("model server unreachable: %w", err)
	}
	if code != fiber.StatusOK {
		return fmt.Errorf("model server status %d for %s", code, m.name)
	}

	var status modelStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return fmt.Errorf("decode model status: %w", err)
	}
	if len(status.ModelVersionStatus) == 0 {
		return nil
	}
	for _, v := range status.ModelVersionStatus {
		if v.State == "AVAILABLE" {
			return nil
		}
	}
	return fmt.Errorf("model %s has no available version", m.name)
}

// Predict sends input as a single instance and returns its output row.
func (m *ModelServer) Predict(ctx context.Context, input Tensor) (scores []float64, err error) {
	ctx, span := observability.StartClientSpan(ctx, "modelserver.predict",
		attribute.String("model.name", m.name))
	defer func() { observability.EndSpan(span, err) }()

	start := time.Now()
	defer observability.ObserveInference(start)

	a := fiber.Post(m.predictURL())
	a.JSON(predictRequest{Instances: []Tensor{input}})

	code, body, err := m.do(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("model server request: %w", err)
	}

	var resp predictResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode predictions (status %d): %w", code, err)
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("model server status %d: %s", code, resp.Error)
	}
	if len(resp.Predictions) != 1 {
		return nil, fmt.Errorf("expected 1 prediction row, got %d", len(resp.Predictions))
	}
	return resp.Predictions[0], nil
}
