package http

import (
	"net/http"

	"github.com/modaics/go-backend/internal/usecase"
	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/logger"
)

type ItemHandler struct {
	itemUsecase usecase.ItemUC
	logger      logger.Logger
}

func NewItemHandler(itemUsecase usecase.ItemUC, logger logger.Logger) *ItemHandler {
	return &ItemHandler{itemUsecase: itemUsecase, logger: logger}
}

// registerNewItem
//
//	@Summary		Публикация нового объявления
//	@Description	Создает объявление с изображениями и ставит его в векторный индекс
//	@Tags			items
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			title		formData	string			true	"Название вещи"
//	@Param			description	formData	string			false	"Описание"
//	@Param			price		formData	number			true	"Цена"
//	@Param			platform	formData	string			true	"Платформа-источник"
//	@Param			item_url	formData	string			false	"Ссылка на объявление"
//	@Param			brand		formData	string			false	"Бренд"
//	@Param			category	formData	string			false	"Категория"
//	@Param			size		formData	string			false	"Размер"
//	@Param			condition	formData	string			false	"Состояние"
//	@Param			images		formData	file			true	"Изображения вещи"
//	@Success		201			{object}	addItemResDTO	"Успешная публикация"
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/items [post]
func (h *ItemHandler) registerNewItem(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 150 << 20
		maxMemory           = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	meta, err := parseItemForm(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	images, err := parseImages(r.MultipartForm.File["images"])
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.itemUsecase.RegisterNewItem(r.Context(), &usecase.AddItemReq{
		Title:       meta.Title,
		Description: meta.Description,
		Price:       meta.Price,
		Platform:    meta.Platform,
		ItemURL:     meta.ItemURL,
		Attributes:  meta.Attributes,
		Images:      images,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, &addItemResDTO{
		ItemID:          res.ItemID,
		ImageURL:        res.ImageURL,
		EmbeddingStatus: string(res.EmbeddingStatus),
	})
}

// getItemsInfo
//
//	@Summary		Информация о товарах
//	@Description	Возвращает данные товаров по списку идентификаторов
//	@Tags			items
//	@Produce		json
//	@Param			ids	query		string			true	"Идентификаторы через запятую: 1,2,3"
//	@Success		200	{object}	getItemsResDTO	"Найденные товары"
//	@Failure		400	{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/items [get]
func (h *ItemHandler) getItemsInfo(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r.URL.Query().Get("ids"))
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.itemUsecase.GetItemsInfo(r.Context(), &usecase.GetItemsReq{IDs: ids})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newGetItemsResDTO(res))
}
