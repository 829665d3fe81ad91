package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendpal/internal/errors"
	"spendpal/internal/models"
	"spendpal/internal/pagination"
	"spendpal/internal/services"
)

// --- mock analysis service ---

type mockAnalysisService struct {
	canGenerateFn func(userID string, today time.Time) (bool, error)
	generateFn    func(ctx context.Context, userID string, today time.Time) (*models.AnalysisReport, error)
	adviceFn      func(ctx context.Context, userID string, today time.Time) ([]string, error)
}

func (m *mockAnalysisService) CanGenerate(userID string, today time.Time) (bool, error) {
	if m.canGenerateFn != nil {
		return m.canGenerateFn(userID, today)
	}
	return true, nil
}

func (m *mockAnalysisService) Generate(ctx context.Context, userID string, today time.Time) (*models.AnalysisReport, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, userID, today)
	}
	return &models.AnalysisReport{Base: models.Base{ID: "r1"}, UserID: userID, Content: "report"}, nil
}

func (m *mockAnalysisService) ListReports(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AnalysisReport], error) {
	resp := pagination.NewPageResponse([]models.AnalysisReport{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockAnalysisService) GetAdvice(ctx context.Context, userID string, today time.Time) ([]string, error) {
	if m.adviceFn != nil {
		return m.adviceFn(ctx, userID, today)
	}
	return []string{"Cook at home."}, nil
}

var _ services.AnalysisServicer = (*mockAnalysisService)(nil)

func setupAnalysisRouter(handler *AnalysisHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID("u1"))
	auth.POST("/analysis/reports", handler.Generate)
	auth.GET("/analysis/reports", handler.ListReports)
	auth.GET("/analysis/status", handler.GetStatus)
	auth.GET("/analysis/advice", handler.GetAdvice)
	return r
}

func TestAnalysisHandler_Generate(t *testing.T) {
	t.Run("returns 201 with the report", func(t *testing.T) {
		handler := NewAnalysisHandler(&mockAnalysisService{}, &mockAuditService{})
		r := setupAnalysisRouter(handler)

		rec := doRequest(r, "POST", "/analysis/reports", "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("maps cooldown to 429", func(t *testing.T) {
		handler := NewAnalysisHandler(&mockAnalysisService{
			generateFn: func(_ context.Context, _ string, _ time.Time) (*models.AnalysisReport, error) {
				return nil, apperrors.ErrAnalysisCoolingDown
			},
		}, &mockAuditService{})
		r := setupAnalysisRouter(handler)

		rec := doRequest(r, "POST", "/analysis/reports", "")
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ANALYSIS_COOLING_DOWN")
	})

	t.Run("maps empty window to 422", func(t *testing.T) {
		handler := NewAnalysisHandler(&mockAnalysisService{
			generateFn: func(_ context.Context, _ string, _ time.Time) (*models.AnalysisReport, error) {
				return nil, apperrors.ErrNothingToAnalyze
			},
		}, &mockAuditService{})
		r := setupAnalysisRouter(handler)

		rec := doRequest(r, "POST", "/analysis/reports", "")
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})
}

func TestAnalysisHandler_GetStatus(t *testing.T) {
	handler := NewAnalysisHandler(&mockAnalysisService{
		canGenerateFn: func(_ string, _ time.Time) (bool, error) { return false, nil },
	}, &mockAuditService{})
	r := setupAnalysisRouter(handler)

	rec := doRequest(r, "GET", "/analysis/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if parseJSON(t, rec)["can_generate"] != false {
		t.Error("expected can_generate false")
	}
}

func TestAnalysisHandler_GetAdvice(t *testing.T) {
	handler := NewAnalysisHandler(&mockAnalysisService{}, &mockAuditService{})
	r := setupAnalysisRouter(handler)

	rec := doRequest(r, "GET", "/analysis/advice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	tips := parseJSON(t, rec)["tips"].([]interface{})
	if len(tips) != 1 {
		t.Errorf("expected 1 tip, got %d", len(tips))
	}
}
