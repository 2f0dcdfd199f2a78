package http

import (
	"net/http"

	"github.com/secmon-lab/sirico/pkg/usecase"
	"github.com/secmon-lab/sirico/pkg/utils/errutil"
)

func listEntriesHandler(uc *usecase.RiskEntryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		entries, err := uc.ListEntries(ctx, id)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, mapSlice(entries, toEntry))
	}
}

func createEntryHandler(uc *usecase.RiskEntryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		var req entryRequest
		if err := decodeRequest(w, r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		e, err := uc.CreateEntry(ctx, id, req.toInput())
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toEntry(e))
	}
}

func getEntryHandler(uc *usecase.RiskEntryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		e, err := uc.GetEntry(ctx, id)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toEntry(e))
	}
}

// updateEntryHandler replaces every editable field. Omitted axis values
// clear the corresponding score.
func updateEntryHandler(uc *usecase.RiskEntryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		var req entryRequest
		if err := decodeRequest(w, r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		e, err := uc.UpdateEntry(ctx, id, req.toInput())
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toEntry(e))
	}
}

func deleteEntryHandler(uc *usecase.RiskEntryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		if err := uc.DeleteEntry(ctx, id); err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
