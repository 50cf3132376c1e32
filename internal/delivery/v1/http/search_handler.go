package http

import (
	"net/http"

	"github.com/modaics/go-backend/internal/usecase"
	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/logger"
)

// Тела поисковых запросов ограничены: base64 двух изображений по 15 МБ
// с запасом на текстовые поля.
const maxSearchBodySize = 42 << 20

type SearchHandler struct {
	searchUsecase usecase.SearchUC
	logger        logger.Logger
}

func NewSearchHandler(searchUsecase usecase.SearchUC, logger logger.Logger) *SearchHandler {
	return &SearchHandler{searchUsecase: searchUsecase, logger: logger}
}

// searchText
//
//	@Summary		Поиск по текстовому запросу
//	@Description	Возвращает ближайшие товары к текстовому запросу в общем пространстве сравнения
//	@Tags			search
//	@Accept			json
//	@Produce		json
//	@Param			request	body		textSearchDTO	true	"Параметры поиска"
//	@Success		200		{object}	searchResDTO	"Результаты поиска"
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		503		{object}	ErrorResponse	"Сервис эмбеддингов или индекс недоступен"
//	@Router			/search/text [post]
func (s *SearchHandler) searchText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSearchBodySize)

	var dto textSearchDTO
	if err := decodeJSONBody(r, &dto); err != nil {
		s.logger.Warnf("%d %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error())
		WriteError(w, err)
		return
	}

	filter, err := dto.Filter.toDomain()
	if err != nil {
		s.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := s.searchUsecase.SearchText(r.Context(), &usecase.TextSearchReq{
		Query:  dto.Query,
		Limit:  dto.Limit,
		Filter: filter,
	})
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newSearchResDTO(res))
}

// searchImage
//
//	@Summary		Поиск по изображению
//	@Description	Возвращает визуально похожие товары по изображению в base64
//	@Tags			search
//	@Accept			json
//	@Produce		json
//	@Param			request	body		imageSearchDTO	true	"Параметры поиска"
//	@Success		200		{object}	searchResDTO	"Результаты поиска"
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		503		{object}	ErrorResponse	"Сервис эмбеддингов или индекс недоступен"
//	@Router			/search/image [post]
func (s *SearchHandler) searchImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSearchBodySize)

	var dto imageSearchDTO
	if err := decodeJSONBody(r, &dto); err != nil {
		s.logger.Warnf("%d %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error())
		WriteError(w, err)
		return
	}

	image, err := decodeBase64Image(dto.ImageBase64)
	if err != nil {
		s.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	filter, err := dto.Filter.toDomain()
	if err != nil {
		s.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := s.searchUsecase.SearchImage(r.Context(), &usecase.ImageSearchReq{
		Image:  image,
		Limit:  dto.Limit,
		Filter: filter,
	})
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newSearchResDTO(res))
}

// searchCombined
//
//	@Summary		Комбинированный поиск
//	@Description	Сливает текстовый и визуальный сигналы во взвешенный запросный вектор
//	@Tags			search
//	@Accept			json
//	@Produce		json
//	@Param			request	body		combinedSearchDTO	true	"Параметры поиска"
//	@Success		200		{object}	searchResDTO		"Результаты поиска"
//	@Failure		400		{object}	ErrorResponse		"Ошибка валидации"
//	@Failure		503		{object}	ErrorResponse		"Сервис эмбеддингов или индекс недоступен"
//	@Router			/search/combined [post]
func (s *SearchHandler) searchCombined(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSearchBodySize)

	var dto combinedSearchDTO
	if err := decodeJSONBody(r, &dto); err != nil {
		s.logger.Warnf("%d %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error())
		WriteError(w, err)
		return
	}

	var image []byte
	if dto.ImageBase64 != "" {
		decoded, err := decodeBase64Image(dto.ImageBase64)
		if err != nil {
			s.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
			WriteError(w, err)
			return
		}
		image = decoded
	}

	filter, err := dto.Filter.toDomain()
	if err != nil {
		s.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := s.searchUsecase.SearchCombined(r.Context(), &usecase.CombinedSearchReq{
		Query:  dto.Query,
		Image:  image,
		Weight: dto.Weight,
		Limit:  dto.Limit,
		Filter: filter,
	})
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newSearchResDTO(res))
}
