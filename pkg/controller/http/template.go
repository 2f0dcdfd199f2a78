package http

import (
	"net/http"

	"github.com/secmon-lab/sirico/pkg/domain/types"
	"github.com/secmon-lab/sirico/pkg/usecase"
	"github.com/secmon-lab/sirico/pkg/utils/errutil"
)

func listTemplatesHandler(uc *usecase.TemplateUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		templates, err := uc.ListTemplates(ctx, r.URL.Query().Get("owner"))
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, mapSlice(templates, toTemplate))
	}
}

func saveTemplateHandler(uc *usecase.TemplateUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req templateRequest
		if err := decodeRequest(w, r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		id, err := uc.SaveTemplate(ctx, req.OwnerID, req.toModel())
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, idResponse{ID: id})
	}
}

func getTemplateHandler(uc *usecase.TemplateUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		tpl, err := uc.GetTemplate(ctx, id)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toTemplate(tpl))
	}
}

func updateTemplateHandler(uc *usecase.TemplateUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		var req templateRequest
		if err := decodeRequest(w, r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		tpl, err := uc.UpdateTemplate(ctx, id, req.toModel())
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toTemplate(tpl))
	}
}

func deleteTemplateHandler(uc *usecase.TemplateUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		if err := uc.DeleteTemplate(ctx, id); err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func scoreHandler(uc *usecase.TemplateUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req scoreRequest
		if err := decodeRequest(w, r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		result, err := uc.Score(ctx, req.TemplateID, likelihoodOf(req.Likelihood), impactOf(req.Impact))
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toScore(result))
	}
}

func exportMatrixHandler(uc *usecase.MatrixUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "id")
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}

		m, err := uc.ExportMatrix(ctx, id, types.ScoreView(r.URL.Query().Get("view")))
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toMatrix(m))
	}
}
