package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/snublejuice/internal/core/port"
)

type ProductsHandler struct {
	finder   port.ProductsFinder
	metadata port.CatalogMetadata
}

func RegisterProducts(
	mux *http.ServeMux, finder port.ProductsFinder, metadata port.CatalogMetadata,
) {
	h := ProductsHandler{finder, metadata}
	mux.HandleFunc("GET /products", h.GetProducts)
	mux.HandleFunc("GET /data/stores", h.GetStores)
	mux.HandleFunc("GET /data/countries", h.GetCountries)
}

// GetProducts responds with a page of products matching the query string.
func (h ProductsHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProducts"
	log := requestLogger(r, op)

	f, err := parseProductFilter(r.URL.Query())
	if err != nil {
		writeError(w, log, err)
		return
	}

	ps, err := h.finder.FindProducts(r.Context(), f)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, fromDomainProducts(ps))
	log.Debug("products found", "nProducts", len(ps))
}

func (h ProductsHandler) GetStores(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetStores"
	log := requestLogger(r, op)

	stores, err := h.metadata.UniqueStores(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromDomainStores(stores))
}

func (h ProductsHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetCountries"
	log := requestLogger(r, op)

	countries, err := h.metadata.UniqueCountries(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, nonNil(countries))
}

func requestLogger(r *http.Request, op string) *slog.Logger {
	return slog.With("op", op, "requestID", RequestIDFrom(r.Context()))
}
