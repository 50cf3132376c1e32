package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/modaics/go-backend/docs" // Импорт сгенерированных файлов
	"github.com/modaics/go-backend/internal/usecase"
	"github.com/modaics/go-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(searchUC usecase.SearchUC, analyzeUC usecase.AnalyzeUC, itemUC usecase.ItemUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Get("/health", healthCheck)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		searchHandler := NewSearchHandler(searchUC, r.logger)
		registerSearchRoutes(v1, searchHandler)

		analyzeHandler := NewAnalyzeHandler(analyzeUC, r.logger)
		registerAnalyzeRoutes(v1, analyzeHandler)

		itemHandler := NewItemHandler(itemUC, r.logger)
		registerItemRoutes(v1, itemHandler)
	})
}

func registerSearchRoutes(router chi.Router, handler *SearchHandler) {
	router.Route("/search", func(search chi.Router) {
		search.Post("/text", handler.searchText)
		search.Post("/image", handler.searchImage)
		search.Post("/combined", handler.searchCombined)
	})
}

func registerAnalyzeRoutes(router chi.Router, handler *AnalyzeHandler) {
	router.Post("/analyze", handler.analyzeImage)
}

func registerItemRoutes(router chi.Router, handler *ItemHandler) {
	router.Route("/items", func(items chi.Router) {
		items.Post("/", handler.registerNewItem)
		items.Get("/", handler.getItemsInfo)
	})
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
