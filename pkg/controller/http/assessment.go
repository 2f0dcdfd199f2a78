package http

import (
	"net/http"

	"github.com/secmon-lab/sirico/pkg/usecase"
	"github.com/secmon-lab/sirico/pkg/utils/errutil"
)

func listAssessmentsHandler(uc *usecase.AssessmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		assessments, err := uc.ListAssessments(ctx, r.URL.Query().Get("owner"))
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, mapSlice(assessments, toAssessment))
	}
}

func createAssessmentHandler(uc *usecase.AssessmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req assessmentRequest
		if err := decodeRequest(w, r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		a, err := uc.CreateAssessment(ctx, req.toInput())
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toAssessment(a))
	}
}

func getAssessmentHandler(uc *usecase.AssessmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		a, err := uc.GetAssessment(ctx, id)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toAssessment(a))
	}
}

func deleteAssessmentHandler(uc *usecase.AssessmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		if err := uc.DeleteAssessment(ctx, id); err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func rebindTemplateHandler(uc *usecase.AssessmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		var req rebindRequest
		if err := decodeRequest(w, r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		a, result, err := uc.RebindTemplate(ctx, id, req.TemplateID)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, rebindResponse{
			Assessment: toAssessment(a),
			Recompute:  toRecompute(result),
		})
	}
}

func recomputeAssessmentHandler(uc *usecase.RiskEntryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		result, err := uc.RecomputeAssessment(ctx, id)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toRecompute(result))
	}
}
