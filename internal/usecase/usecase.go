package usecase

import (
	"context"

	"github.com/modaics/go-backend/internal/domain"
)

type SearchUC interface {
	SearchText(ctx context.Context, req *TextSearchReq) (*SearchRes, error)
	SearchImage(ctx context.Context, req *ImageSearchReq) (*SearchRes, error)
	SearchCombined(ctx context.Context, req *CombinedSearchReq) (*SearchRes, error)
}

type AnalyzeUC interface {
	AnalyzeImage(ctx context.Context, req *AnalyzeReq) (*domain.AnalysisResult, error)
}

type ItemUC interface {
	RegisterNewItem(ctx context.Context, req *AddItemReq) (*AddItemRes, error)
	GetItemsInfo(ctx context.Context, req *GetItemsReq) (*GetItemsRes, error)
}
