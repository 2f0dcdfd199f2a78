package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/domain/types"
)

type MatrixUseCase struct {
	repo interfaces.Repository
}

func NewMatrixUseCase(repo interfaces.Repository) *MatrixUseCase {
	return &MatrixUseCase{repo: repo}
}

// ExportMatrix renders the 5x5 risk map of an assessment for the given view.
// An empty view means inherent.
func (uc *MatrixUseCase) ExportMatrix(ctx context.Context, assessmentID int64, view types.ScoreView) (*model.Matrix, error) {
	view = view.Normalize()
	if !view.IsValid() {
		verr := &model.ValidationError{}
		verr.Add("view", "unknown view %q", view)
		return nil, goerr.Wrap(verr, "invalid matrix view")
	}

	snap, err := loadSnapshot(ctx, uc.repo, assessmentID)
	if err != nil {
		return nil, err
	}

	return model.BuildMatrix(snap.template, snap.entries, view), nil
}
