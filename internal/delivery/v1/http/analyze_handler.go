package http

import (
	"net/http"

	"github.com/modaics/go-backend/internal/usecase"
	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/logger"
)

type AnalyzeHandler struct {
	analyzeUsecase usecase.AnalyzeUC
	logger         logger.Logger
}

func NewAnalyzeHandler(analyzeUsecase usecase.AnalyzeUC, logger logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{analyzeUsecase: analyzeUsecase, logger: logger}
}

// analyzeImage
//
//	@Summary		Анализ атрибутов по изображению
//	@Description	Определяет категорию, цвета, паттерн, бренд и оценку цены по фотографии вещи
//	@Tags			analyze
//	@Accept			json
//	@Produce		json
//	@Param			request	body		analyzeDTO		true	"Изображение в base64"
//	@Success		200		{object}	analysisResDTO	"Результат анализа"
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		503		{object}	ErrorResponse	"Сервис эмбеддингов недоступен"
//	@Router			/analyze [post]
func (a *AnalyzeHandler) analyzeImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSearchBodySize)

	var dto analyzeDTO
	if err := decodeJSONBody(r, &dto); err != nil {
		a.logger.Warnf("%d %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error())
		WriteError(w, err)
		return
	}

	image, err := decodeBase64Image(dto.ImageBase64)
	if err != nil {
		a.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	result, err := a.analyzeUsecase.AnalyzeImage(r.Context(), &usecase.AnalyzeReq{Image: image})
	if err != nil {
		a.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newAnalysisResDTO(result))
}
