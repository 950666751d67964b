package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/server/validation"
)

func (s *HTTPServer) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProductResponses(products))
}

func (s *HTTPServer) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "product")
	if !ok {
		return
	}

	product, err := s.products.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProductResponse(product))
}

func (s *HTTPServer) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := validation.Bind(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	product, err := s.products.Create(r.Context(), req.toModel(0))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Product created", "id", product.ID)
	writeJSON(w, r, http.StatusCreated, toProductResponse(product))
}

func (s *HTTPServer) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "product")
	if !ok {
		return
	}

	var req productRequest
	if err := validation.Bind(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	product, err := s.products.Update(r.Context(), req.toModel(id))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProductResponse(product))
}

func (s *HTTPServer) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "product")
	if !ok {
		return
	}

	if err := s.products.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Product deleted", "id", id)
	writeMessage(w, r, http.StatusOK, fmt.Sprintf("successfully deleted product %d", id))
}
