package inference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"farmsphere/internal/config"
	"farmsphere/internal/models"
	"farmsphere/internal/observability"
)

// ErrOutputWidth is returned when the model emits a different number of
// scores than there are labels.
var ErrOutputWidth = errors.New("model output width does not match label count")

// Options tune preprocessing and ranking.
type Options struct {
	InputSize     int
	Normalization string
	TopK          int
	Floor         float64
}

// Classifier ranks plant-disease labels for an image.
type Classifier struct {
	labels []string
	model  Predictor
	pre    Preprocessor
	topK   int
	floor  float64
}

// NewClassifier wires labels to model. Zero options fall back to a 160px
// raw input, top 3 and a 0.1 floor.
func NewClassifier(labels []string, model Predictor, opts Options) *Classifier {
	if opts.InputSize <= 0 {
		opts.InputSize = 160
	}
	if opts.Normalization == "" {
		opts.Normalization = config.NormalizationRaw
	}
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	return &Classifier{
		labels: labels,
		model:  model,
		pre:    Preprocessor{Size: opts.InputSize, Normalization: opts.Normalization},
		topK:   opts.TopK,
		floor:  opts.Floor,
	}
}

// Labels returns the class names in model output order.
func (c *Classifier) Labels() []string { return c.labels }

// Classify runs the full pipeline over raw image bytes. Undecodable input
// yields an error wrapping ErrInvalidImage.
func (c *Classifier) Classify(ctx context.Context, data []byte) ([]models.Prediction, error) {
	tensor, err := c.pre.Tensor(data)
	if err != nil {
		observability.Predictions.WithLabelValues("invalid_image").Inc()
		return nil, err
	}

	scores, err := c.model.Predict(ctx, tensor)
	if err != nil {
		observability.Predictions.WithLabelValues("model_error").Inc()
		return nil, err
	}
	if len(scores) != len(c.labels) {
		observability.Predictions.WithLabelValues("model_error").Inc()
		return nil, fmt.Errorf("%w: %d scores, %d labels", ErrOutputWidth, len(scores), len(c.labels))
	}

	if needsSoftmax(scores) {
		scores = Softmax(scores)
	}
	observability.Predictions.WithLabelValues("ok").Inc()
	return Rank(scores, c.labels, c.topK, c.floor), nil
}

func needsSoftmax(scores []float64) bool {
	for _, s := range scores {
		if s < 0 || s > 1 {
			return true
		}
	}
	return false
}

// Softmax converts logits into probabilities.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return []float64{}
	}
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		maxLogit = math.Max(maxLogit, v)
	}
	out := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		out[i] = math.Exp(v - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Rank returns the topK scores strictly above floor, highest first. Ties
// keep label order.
func Rank(scores []float64, labels []string, topK int, floor float64) []models.Prediction {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	if topK > len(idx) {
		topK = len(idx)
	}
	results := make([]models.Prediction, 0, topK)
	for _, i := range idx[:topK] {
		if scores[i] > floor {
			results = append(results, models.Prediction{Label: labels[i], Confidence: scores[i]})
		}
	}
	return results
}

// Load reads the labels file and checks the model server is serving. Any
// failure leaves the caller without a classifier.
func Load(ctx context.Context, cfg *config.Config) (*Classifier, error) {
	labels, err := LoadLabels(cfg.ModelLabelsPath)
	if err != nil {
		return nil, err
	}

	server := NewModelServer(cfg.ModelServerURL, cfg.ModelName, time.Duration(cfg.ModelTimeoutSeconds)*time.Second)
	if err := server.Ready(ctx); err != nil {
		return nil, err
	}

	return NewClassifier(labels, server, Options{
		InputSize:     cfg.ModelInputSize,
		Normalization: cfg.ModelNormalization,
		TopK:          cfg.ModelTopK,
		Floor:         cfg.ModelConfidenceFloor,
	}), nil
}
