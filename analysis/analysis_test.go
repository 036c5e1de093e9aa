package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleetcheck/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct {
	text string
	err  error
}

func (s stubAnalyzer) Analyze(context.Context, *models.Report) (string, error) {
	return s.text, s.err
}

func sampleReport() *models.Report {
	return &models.Report{
		VehicleInfo: models.VehicleInfo{
			PlateNumber: "BE 1234 XY",
			VehicleType: "Toyota Innova",
			Odometer:    "45210",
			FuelLevel:   40,
		},
		Checks: models.ChecklistData{
			"eng_1": {Week1: models.StatusIssue, Week3: models.StatusIssue},
			"int_2": {Week3: models.StatusIssue},
			"ext_1": {Week1: models.StatusOK},
		},
	}
}

func TestAnalyzeOrFallback(t *testing.T) {
	ctx := context.Background()
	r := sampleReport()

	assert.Equal(t, FallbackText, AnalyzeOrFallback(ctx, nil, r))
	assert.Equal(t, FallbackText, AnalyzeOrFallback(ctx, stubAnalyzer{err: ErrUnavailable}, r))
	assert.Equal(t, FallbackText, AnalyzeOrFallback(ctx, stubAnalyzer{err: errors.New("quota")}, r))
	assert.Equal(t, FallbackText, AnalyzeOrFallback(ctx, stubAnalyzer{text: "  "}, r))
	assert.Equal(t, "sehat", AnalyzeOrFallback(ctx, stubAnalyzer{text: "sehat"}, r))
}

func TestIssuesInCatalogOrder(t *testing.T) {
	assert.Equal(t, []string{
		"Oli Mesin (Level & Kondisi) (Masalah di Minggu: 1 & 3)",
		"Klakson (Masalah di Minggu: 3)",
	}, Issues(sampleReport()))
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(sampleReport())
	assert.Contains(t, p, "Kendaraan: Toyota Innova (BE 1234 XY)")
	assert.Contains(t, p, "Level BBM: 40%")
	assert.Contains(t, p, "Klakson (Masalah di Minggu: 3)")
	assert.Contains(t, p, "Catatan Tambahan Pemeriksa: Tidak ada")

	clean := BuildPrompt(&models.Report{})
	assert.Contains(t, clean, "Tidak ada masalah mekanis yang teridentifikasi.")
}

func TestGeminiClientWithoutKeyIsUnavailable(t *testing.T) {
	c := NewGeminiClient("", "gemini-2.5-flash", time.Second)
	_, err := c.Analyze(context.Background(), sampleReport())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGeminiClientAnalyze(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Status: "},{"text":"Perlu Perhatian"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("k-123", "gemini-2.5-flash", time.Second).WithEndpoint(srv.URL)
	text, err := c.Analyze(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.Equal(t, "Status: Perlu Perhatian", text)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "k-123", gotKey)
	require.Len(t, gotReq.Contents, 1)
	assert.Contains(t, gotReq.Contents[0].Parts[0].Text, "BE 1234 XY")
	assert.InDelta(t, 0.7, gotReq.GenerationConfig.Temperature, 1e-9)
}

func TestGeminiClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"x"}`},
		{"bad json", http.StatusOK, `nope`},
		{"no candidates", http.StatusOK, `{"candidates":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewGeminiClient("k", "m", time.Second).WithEndpoint(srv.URL)
			_, err := c.Analyze(context.Background(), sampleReport())
			assert.Error(t, err)
			assert.Equal(t, FallbackText, AnalyzeOrFallback(context.Background(), c, sampleReport()))
		})
	}
}
