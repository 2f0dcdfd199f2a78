package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/usecase"
	"github.com/secmon-lab/sirico/pkg/utils/errutil"
)

// generateNarrativeHandler runs the summary inline, or in the background with
// ?async=true in which case only the report ID is returned
func generateNarrativeHandler(uc *usecase.NarrativeUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
			narrativeID, err := uc.GenerateNarrativeAsync(ctx, id)
			if err != nil {
				errutil.HandleHTTP(ctx, w, err)
				return
			}
			writeJSON(ctx, w, http.StatusAccepted, idResponse{ID: narrativeID.String()})
			return
		}

		report, err := uc.GenerateNarrative(ctx, id)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toNarrative(report))
	}
}

func listNarrativesHandler(uc *usecase.NarrativeUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		reports, err := uc.ListNarratives(ctx, id)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, mapSlice(reports, toNarrative))
	}
}

func getNarrativeHandler(uc *usecase.NarrativeUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		report, err := uc.GetNarrative(ctx, model.NarrativeID(chi.URLParam(r, "narrativeID")))
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toNarrative(report))
	}
}
