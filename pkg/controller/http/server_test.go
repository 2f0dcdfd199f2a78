package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/sirico/pkg/controller/http"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/repository/memory"
	"github.com/secmon-lab/sirico/pkg/service/narrative"
	"github.com/secmon-lab/sirico/pkg/usecase"
	"github.com/secmon-lab/sirico/pkg/utils/async"
	"github.com/secmon-lab/sirico/pkg/utils/errutil"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	repo    *memory.Memory
}

func newTestServer(t *testing.T, opts ...usecase.Option) *testServer {
	t.Helper()
	repo := memory.New()
	uc := usecase.New(repo, opts...)
	_, err := uc.Bootstrap(context.Background())
	gt.NoError(t, err).Required()

	return &testServer{
		t:       t,
		handler: httpctrl.New(uc),
		repo:    repo,
	}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		gt.NoError(s.t, err).Required()
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &v)).Required()
	return v
}

func (s *testServer) defaultTemplateID(name string) int64 {
	s.t.Helper()
	tpl, err := s.repo.Template().GetDefaultByName(context.Background(), name)
	gt.NoError(s.t, err).Required()
	return tpl.ID
}

func (s *testServer) createAssessment(templateID int64) int64 {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/assessments", map[string]any{
		"kind":        "register",
		"title":       "Risk register 2026",
		"owner_id":    "U001",
		"template_id": templateID,
	})
	gt.Value(s.t, w.Code).Equal(http.StatusCreated)
	return decode[struct {
		ID int64 `json:"id"`
	}](s.t, w).ID
}

type entryBody struct {
	ID            int64 `json:"id"`
	Sequence      int   `json:"sequence"`
	ObjectiveID   int64 `json:"objective_id"`
	InherentScore *int  `json:"inherent_score"`
	ResidualScore *int  `json:"residual_score"`
}

type objectiveBody struct {
	ID                int64 `json:"id"`
	InherentRiskScore *int  `json:"inherent_risk_score"`
	ResidualRiskScore *int  `json:"residual_risk_score"`
}

func TestTemplatesAPI(t *testing.T) {
	s := newTestServer(t)

	t.Run("lists defaults and private templates", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/templates", map[string]any{
			"name":     "Team 3 band",
			"owner_id": "U001",
			"levels": []map[string]any{
				{"name": "Low", "color": "#00FF00", "min_score": 1, "max_score": 8},
				{"name": "High", "color": "#FF0000", "min_score": 9, "max_score": 25},
			},
		})
		gt.Value(t, w.Code).Equal(http.StatusCreated)
		id := decode[struct {
			ID int64 `json:"id"`
		}](t, w).ID

		w = s.do(http.MethodGet, "/api/templates?owner=U001", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		list := decode[[]struct {
			ID        int64 `json:"id"`
			IsDefault bool  `json:"is_default"`
		}](t, w)
		gt.Array(t, list).Length(3)
		gt.Bool(t, list[0].IsDefault).True()
		gt.Value(t, list[2].ID).Equal(id)

		w = s.do(http.MethodGet, "/api/templates", nil)
		gt.Array(t, decode[[]json.RawMessage](t, w)).Length(2)
	})

	t.Run("rejects an invalid template with every violation", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/templates", map[string]any{
			"name": "",
			"levels": []map[string]any{
				{"name": "Inverted", "color": "#FFFFFF", "min_score": 9, "max_score": 1},
			},
			"cells": []map[string]any{
				{"likelihood": 6, "impact": 1, "score": 3},
			},
		})
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
		resp := decode[errutil.ErrorResponse](t, w)
		gt.Array(t, resp.Violations).Length(3)
	})

	t.Run("reports template rules next to payload bounds", func(t *testing.T) {
		labels := make([]map[string]any, 0, 6)
		for level := 1; level <= 6; level++ {
			labels = append(labels, map[string]any{"level": level, "label": fmt.Sprintf("L%d", level)})
		}
		w := s.do(http.MethodPost, "/api/templates", map[string]any{
			"name":              "",
			"likelihood_labels": labels,
			"levels": []map[string]any{
				{"name": "Inverted", "min_score": 9, "max_score": 1},
			},
		})
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)

		resp := decode[errutil.ErrorResponse](t, w)
		fields := make([]string, 0, len(resp.Violations))
		for _, v := range resp.Violations {
			fields = append(fields, v.Field)
		}
		gt.Array(t, fields).Length(4)
		gt.Array(t, fields).Has("likelihood_labels")
		gt.Array(t, fields).Has("name")
		gt.Array(t, fields).Has("likelihood_labels[5].level")
		gt.Array(t, fields).Has("levels[0]")
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/templates", `{"name":"x","colour":"red"}`)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
		resp := decode[errutil.ErrorResponse](t, w)
		gt.Value(t, resp.Violations[0].Field).Equal("body")
	})

	t.Run("returns 404 for unknown template", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/templates/99999", nil)
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})

	t.Run("returns 400 for malformed ID", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/templates/abc", nil)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("refuses to delete a template in use", func(t *testing.T) {
		sirico := s.defaultTemplateID(model.DefaultSIRICOTemplateName)
		s.createAssessment(sirico)

		w := s.do(http.MethodDelete, fmt.Sprintf("/api/templates/%d", sirico), nil)
		gt.Value(t, w.Code).Equal(http.StatusConflict)
		gt.String(t, decode[errutil.ErrorResponse](t, w).Error).Contains("template is bound to")

		w = s.do(http.MethodGet, fmt.Sprintf("/api/templates/%d", sirico), nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		tpl := decode[struct {
			Version int `json:"version"`
			Levels  []struct {
				Name string `json:"name"`
			} `json:"levels"`
		}](t, w)
		gt.Value(t, tpl.Version).Equal(1)
		gt.Array(t, tpl.Levels).Length(5)
	})
}

func TestScoreAPI(t *testing.T) {
	s := newTestServer(t)
	bumn := s.defaultTemplateID(model.DefaultBUMNTemplateName)

	type scoreBody struct {
		Score *int `json:"score"`
		Level *struct {
			Name     string `json:"name"`
			MinScore int    `json:"min_score"`
			MaxScore int    `json:"max_score"`
		} `json:"level"`
		Label string `json:"label"`
	}

	t.Run("BUMN cell override", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/score", map[string]any{"template_id": bumn, "likelihood": 5, "impact": 3})
		gt.Value(t, w.Code).Equal(http.StatusOK)
		resp := decode[scoreBody](t, w)
		gt.Value(t, *resp.Score).Equal(17)
		gt.Value(t, resp.Level.Name).Equal("Moderate to High")
		gt.Value(t, resp.Level.MinScore).Equal(16)
		gt.Value(t, resp.Level.MaxScore).Equal(19)
		gt.Value(t, resp.Label).Equal("Level 17, Moderate to High")
	})

	t.Run("no template falls back to the product", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/score", map[string]any{"likelihood": 3, "impact": 4})
		resp := decode[scoreBody](t, w)
		gt.Value(t, *resp.Score).Equal(12)
		gt.Value(t, resp.Level).Nil()
		gt.Value(t, resp.Label).Equal("Level 12, Unclassified")
	})

	t.Run("missing axis is unscored", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/score", map[string]any{"likelihood": 3})
		resp := decode[scoreBody](t, w)
		gt.Value(t, resp.Score).Nil()
		gt.Value(t, resp.Label).Equal("Unclassified")
	})

	t.Run("out of range axis", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/score", map[string]any{"likelihood": 6, "impact": 0})
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
		resp := decode[errutil.ErrorResponse](t, w)
		gt.Array(t, resp.Violations).Length(2)
		gt.Value(t, resp.Violations[0].Field).Equal("likelihood")
	})
}

func TestAssessmentFlowAPI(t *testing.T) {
	s := newTestServer(t)
	sirico := s.defaultTemplateID(model.DefaultSIRICOTemplateName)
	bumn := s.defaultTemplateID(model.DefaultBUMNTemplateName)
	assessmentID := s.createAssessment(sirico)
	base := fmt.Sprintf("/api/assessments/%d", assessmentID)

	w := s.do(http.MethodPost, base+"/objectives", map[string]any{"name": "Revenue", "kpi": "10% YoY"})
	gt.Value(t, w.Code).Equal(http.StatusCreated)
	objective := decode[objectiveBody](t, w)

	w = s.do(http.MethodPost, base+"/entries", map[string]any{
		"objective_id":        objective.ID,
		"title":               "Supplier failure",
		"inherent_likelihood": 5,
		"inherent_impact":     3,
		"residual_likelihood": 2,
		"residual_impact":     2,
	})
	gt.Value(t, w.Code).Equal(http.StatusCreated)
	first := decode[entryBody](t, w)
	gt.Value(t, first.Sequence).Equal(1)
	gt.Value(t, *first.InherentScore).Equal(15)
	gt.Value(t, *first.ResidualScore).Equal(4)

	w = s.do(http.MethodPost, base+"/entries", map[string]any{
		"objective_id":        objective.ID,
		"title":               "Fraud",
		"inherent_likelihood": 2,
		"inherent_impact":     2,
	})
	second := decode[entryBody](t, w)
	gt.Value(t, second.Sequence).Equal(2)
	gt.Value(t, second.ResidualScore).Nil()

	w = s.do(http.MethodGet, fmt.Sprintf("/api/objectives/%d", objective.ID), nil)
	rollup := decode[objectiveBody](t, w)
	gt.Value(t, *rollup.InherentRiskScore).Equal(15)
	gt.Value(t, *rollup.ResidualRiskScore).Equal(4)

	t.Run("entry validation", func(t *testing.T) {
		w := s.do(http.MethodPost, base+"/entries", map[string]any{
			"title":               "",
			"inherent_likelihood": 7,
		})
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
		resp := decode[errutil.ErrorResponse](t, w)
		gt.Array(t, resp.Violations).Length(2)
	})

	t.Run("matrix export", func(t *testing.T) {
		w := s.do(http.MethodGet, base+"/matrix?view=inherent", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		m := decode[struct {
			View  string `json:"view"`
			Cells []struct {
				Likelihood     int    `json:"likelihood"`
				Impact         int    `json:"impact"`
				Score          int    `json:"score"`
				LevelName      string `json:"level_name"`
				EntrySequences []int  `json:"entry_sequences"`
			} `json:"cells"`
		}](t, w)
		gt.Value(t, m.View).Equal("inherent")
		gt.Array(t, m.Cells).Length(25)
		cell := m.Cells[(5-1)*5+(3-1)]
		gt.Value(t, cell.Likelihood).Equal(5)
		gt.Value(t, cell.Impact).Equal(3)
		gt.Value(t, cell.LevelName).Equal("Tinggi")
		gt.Value(t, cell.EntrySequences).Equal([]int{1})

		w = s.do(http.MethodGet, base+"/matrix?view=target", nil)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("rebind template rescores entries", func(t *testing.T) {
		w := s.do(http.MethodPut, base+"/template", map[string]any{"template_id": bumn})
		gt.Value(t, w.Code).Equal(http.StatusOK)
		resp := decode[struct {
			Recompute struct {
				EntriesRescored int `json:"entries_rescored"`
			} `json:"recompute"`
		}](t, w)
		// BUMN ranks (5,3) as 17 and (2,2) as 6
		gt.Value(t, resp.Recompute.EntriesRescored).Equal(2)

		w = s.do(http.MethodGet, fmt.Sprintf("/api/entries/%d", first.ID), nil)
		gt.Value(t, *decode[entryBody](t, w).InherentScore).Equal(17)

		w = s.do(http.MethodPost, base+"/recompute", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.Value(t, decode[struct {
			EntriesRescored int `json:"entries_rescored"`
		}](t, w).EntriesRescored).Equal(0)
	})

	t.Run("update entry clears residual", func(t *testing.T) {
		w := s.do(http.MethodPut, fmt.Sprintf("/api/entries/%d", first.ID), map[string]any{
			"objective_id":        objective.ID,
			"title":               "Supplier failure",
			"inherent_likelihood": 1,
			"inherent_impact":     1,
		})
		gt.Value(t, w.Code).Equal(http.StatusOK)
		updated := decode[entryBody](t, w)
		gt.Value(t, updated.ResidualScore).Nil()

		w = s.do(http.MethodPost, fmt.Sprintf("/api/objectives/%d/rollup", objective.ID), nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		rollup := decode[objectiveBody](t, w)
		gt.Value(t, *rollup.InherentRiskScore).Equal(6)
		gt.Value(t, rollup.ResidualRiskScore).Nil()
	})

	t.Run("delete objective detaches entries", func(t *testing.T) {
		w := s.do(http.MethodDelete, fmt.Sprintf("/api/objectives/%d", objective.ID), nil)
		gt.Value(t, w.Code).Equal(http.StatusNoContent)

		w = s.do(http.MethodGet, base+"/entries", nil)
		entries := decode[[]entryBody](t, w)
		gt.Array(t, entries).Length(2)
		gt.Value(t, entries[0].ObjectiveID).Equal(int64(0))
	})

	t.Run("delete assessment cascades", func(t *testing.T) {
		w := s.do(http.MethodDelete, base, nil)
		gt.Value(t, w.Code).Equal(http.StatusNoContent)

		w = s.do(http.MethodGet, base, nil)
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
		w = s.do(http.MethodGet, fmt.Sprintf("/api/entries/%d", second.ID), nil)
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})
}

type stubNarrativeService struct{}

func (stubNarrativeService) Summarize(ctx context.Context, input narrative.Input) (*narrative.Result, error) {
	return &narrative.Result{Summary: fmt.Sprintf("%d risks reviewed", len(input.Entries))}, nil
}

func TestNarrativesAPI(t *testing.T) {
	t.Run("generation route is absent without an LLM", func(t *testing.T) {
		s := newTestServer(t)
		id := s.createAssessment(0)
		w := s.do(http.MethodPost, fmt.Sprintf("/api/assessments/%d/narratives", id), nil)
		gt.Value(t, w.Code).Equal(http.StatusMethodNotAllowed)
	})

	t.Run("sync and async generation", func(t *testing.T) {
		s := newTestServer(t, usecase.WithNarrativeService(stubNarrativeService{}))
		id := s.createAssessment(0)
		base := fmt.Sprintf("/api/assessments/%d/narratives", id)

		w := s.do(http.MethodPost, base, nil)
		gt.Value(t, w.Code).Equal(http.StatusCreated)
		gt.String(t, w.Body.String()).Contains("0 risks reviewed")

		w = s.do(http.MethodPost, base+"?async=true", nil)
		gt.Value(t, w.Code).Equal(http.StatusAccepted)
		narrativeID := decode[struct {
			ID string `json:"id"`
		}](t, w).ID

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		gt.NoError(t, async.Wait(ctx)).Required()

		w = s.do(http.MethodGet, "/api/narratives/"+narrativeID, nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		w = s.do(http.MethodGet, base, nil)
		gt.Array(t, decode[[]json.RawMessage](t, w)).Length(2)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/templates", nil)
	s.do(http.MethodGet, "/api/entries/1", nil)
	s.do(http.MethodGet, "/api/entries/2", nil)

	w := s.do(http.MethodGet, "/metrics", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	body := w.Body.String()
	gt.String(t, body).Contains(`sirico_http_requests_total{route="/api/templates",status="200"}`)

	// IDs collapse into the route pattern
	gt.String(t, body).Contains(`sirico_http_requests_total{route="/api/entries/{id}",status="404"}`)
	gt.Bool(t, strings.Contains(body, `route="/api/entries/1"`)).False()
}
