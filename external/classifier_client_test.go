package external

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/truthlens/proof-hub/config"
)

func TestNormalizeAIGeneratedLabel(t *testing.T) {
	raw := []byte(`[{"label":"AI-generated","score":0.77},{"label":"Real","score":0.23}]`)
	a, err := NormalizeClassifierResponse(raw, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(a.Probability-0.77) > 1e-9 {
		t.Errorf("expected probability 0.77, got %v", a.Probability)
	}
	if a.IsAuthentic {
		t.Errorf("expected isAuthentic false for 0.77")
	}
}

func TestNormalizeRealLabelInverted(t *testing.T) {
	raw := []byte(`[{"label":"Real","score":0.92}]`)
	a, err := NormalizeClassifierResponse(raw, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(a.Probability-0.08) > 1e-9 {
		t.Errorf("expected probability 0.08, got %v", a.Probability)
	}
	if !a.IsAuthentic {
		t.Errorf("expected isAuthentic true for inverted real label")
	}
}

func TestNormalizeTopResultFallback(t *testing.T) {
	raw := []byte(`[{"label":"landscape","score":0.65}]`)
	a, err := NormalizeClassifierResponse(raw, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(a.Probability-0.65) > 1e-9 {
		t.Errorf("expected probability 0.65, got %v", a.Probability)
	}
	if !a.IsAuthentic {
		t.Errorf("label without ai/fake/generated substring should be authentic")
	}
}

func TestNormalizeSingleObjectResponse(t *testing.T) {
	raw := []byte(`{"prediction":"fake","probability":0.9}`)
	a, err := NormalizeClassifierResponse(raw, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(a.Probability-0.9) > 1e-9 {
		t.Errorf("expected probability 0.9, got %v", a.Probability)
	}
	if a.IsAuthentic {
		t.Errorf("expected isAuthentic false for fake label")
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	if _, err := NormalizeClassifierResponse([]byte(`"nope"`), time.Now()); err == nil {
		t.Errorf("expected error for unrecognized response")
	}
	if _, err := NormalizeClassifierResponse([]byte(`[]`), time.Now()); err == nil {
		t.Errorf("expected error for empty response")
	}
}

func TestClassifyDefaultsWhenUnconfigured(t *testing.T) {
	client := NewClassifierClient(&config.ClassifierConfig{})
	a, err := client.Classify(context.Background(), []byte("img"))
	if err != ErrClassifierNotConfigured {
		t.Errorf("expected ErrClassifierNotConfigured, got %v", err)
	}
	if a == nil || a.Probability != 0.1 || !a.IsAuthentic {
		t.Errorf("expected conservative default assessment, got %+v", a)
	}
}

func TestClassifyDefaultsOnUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewClassifierClient(&config.ClassifierConfig{Endpoint: ts.URL, APIKey: "key"})
	a, err := client.Classify(context.Background(), []byte("img"))
	if err == nil {
		t.Errorf("expected fallback reason error")
	}
	if a == nil || a.Probability != 0.1 || !a.IsAuthentic {
		t.Errorf("expected conservative default assessment, got %+v", a)
	}
}

func TestClassifySuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing bearer token")
		}
		w.Write([]byte(`[{"label":"AI-generated","score":0.4}]`))
	}))
	defer ts.Close()

	client := NewClassifierClient(&config.ClassifierConfig{Endpoint: ts.URL, APIKey: "key"})
	a, err := client.Classify(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(a.Probability-0.4) > 1e-9 {
		t.Errorf("expected probability 0.4, got %v", a.Probability)
	}
	if !a.IsAuthentic {
		t.Errorf("probability below 0.5 should be authentic")
	}
	if len(a.Raw) == 0 {
		t.Errorf("raw upstream payload should be retained")
	}
}
