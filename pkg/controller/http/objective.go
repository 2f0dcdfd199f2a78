package http

import (
	"net/http"

	"github.com/secmon-lab/sirico/pkg/usecase"
	"github.com/secmon-lab/sirico/pkg/utils/errutil"
)

func listObjectivesHandler(uc *usecase.ObjectiveUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		objectives, err := uc.ListObjectives(ctx, id)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, mapSlice(objectives, toObjective))
	}
}

func createObjectiveHandler(uc *usecase.ObjectiveUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		var req objectiveRequest
		if err := decodeRequest(w, r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		o, err := uc.CreateObjective(ctx, id, req.Name, req.KPI)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toObjective(o))
	}
}

func getObjectiveHandler(uc *usecase.ObjectiveUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		o, err := uc.GetObjective(ctx, id)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toObjective(o))
	}
}

func updateObjectiveHandler(uc *usecase.ObjectiveUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		var req objectiveRequest
		if err := decodeRequest(w, r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		o, err := uc.UpdateObjective(ctx, id, req.Name, req.KPI)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toObjective(o))
	}
}

func deleteObjectiveHandler(uc *usecase.ObjectiveUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		if err := uc.DeleteObjective(ctx, id); err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func recomputeRollupHandler(uc *usecase.RiskEntryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		o, err := uc.RecomputeRollup(ctx, id)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toObjective(o))
	}
}
