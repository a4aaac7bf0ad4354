package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/truthlens/proof-hub/config"
	"github.com/truthlens/proof-hub/entity"
)

var ErrClassifierNotConfigured = errors.New("classifier not configured")

// ClassifierClient calls the remote authenticity model. Classify always
// returns a usable assessment; the error only explains why a fallback was
// substituted so the caller can log and count it.
type ClassifierClient struct {
	hc  *http.Client
	cfg *config.ClassifierConfig
}

func NewClassifierClient(cfg *config.ClassifierConfig) *ClassifierClient {
	transport := &http.Transport{
		DisableCompression:  true,
		MaxIdleConnsPerHost: 100,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,
	}
	client := &http.Client{
		Timeout:   time.Duration(cfg.TimeoutSeconds()) * time.Second,
		Transport: transport,
	}
	return &ClassifierClient{hc: client, cfg: cfg}
}

func (c *ClassifierClient) Classify(ctx context.Context, data []byte) (*entity.Assessment, error) {
	now := time.Now().UTC()
	if !c.cfg.Configured() {
		return entity.DefaultAssessment(now), ErrClassifierNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(data))
	if err != nil {
		return entity.DefaultAssessment(now), err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.hc.Do(req)
	if err != nil {
		return entity.DefaultAssessment(now), err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entity.DefaultAssessment(now), err
	}
	if resp.StatusCode != http.StatusOK {
		return entity.DefaultAssessment(now), fmt.Errorf("received non-OK response status: %s, err %s", resp.Status, string(body))
	}

	assessment, err := NormalizeClassifierResponse(body, now)
	if err != nil {
		return entity.DefaultAssessment(now), err
	}
	return assessment, nil
}

type prediction struct {
	Label       string  `json:"label"`
	Prediction  string  `json:"prediction"`
	Score       float64 `json:"score"`
	Probability float64 `json:"probability"`
}

func (p *prediction) label() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Prediction
}

func (p *prediction) score() float64 {
	if p.Score != 0 {
		return p.Score
	}
	return p.Probability
}

func labelContainsAny(label string, subs ...string) bool {
	l := strings.ToLower(label)
	for _, s := range subs {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

// NormalizeClassifierResponse folds the model's heterogeneous response shapes
// into one bounded assessment. Preference order: an explicitly AI-labeled
// score; else an inverted real-labeled score; else the top result with a
// label-substring heuristic. A single-object response is handled the same
// way as a one-element array of it.
func NormalizeClassifierResponse(raw []byte, now time.Time) (*entity.Assessment, error) {
	var preds []prediction
	if err := json.Unmarshal(raw, &preds); err != nil {
		var single prediction
		if err = json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("unrecognized classifier response: %s", string(raw))
		}
		preds = []prediction{single}
	}
	if len(preds) == 0 {
		return nil, fmt.Errorf("empty classifier response")
	}

	probability := 0.1
	label := "authentic"
	isAuthentic := true

	var aiPred, realPred *prediction
	for i := range preds {
		p := &preds[i]
		if aiPred == nil && labelContainsAny(p.label(), "ai", "generated", "fake") {
			aiPred = p
		}
		if realPred == nil && labelContainsAny(p.label(), "real", "authentic") {
			realPred = p
		}
	}

	switch {
	case aiPred != nil:
		probability = aiPred.score()
		label = aiPred.label()
		isAuthentic = probability < 0.5
	case realPred != nil:
		probability = 1 - realPred.score()
		label = realPred.label()
		isAuthentic = true
	default:
		top := preds[0]
		probability = top.score()
		label = top.label()
		if label == "" {
			label = "unknown"
		}
		isAuthentic = !labelContainsAny(label, "ai", "fake", "generated")
	}

	return &entity.Assessment{
		Description: fmt.Sprintf("AI Analysis: %s (Probability of AI-generated: %.2f%%)", label, probability*100),
		Probability: probability,
		IsAuthentic: isAuthentic,
		AnalyzedAt:  now,
		Raw:         json.RawMessage(raw),
	}, nil
}
