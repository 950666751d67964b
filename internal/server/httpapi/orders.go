package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/server/validation"
)

func (s *HTTPServer) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderResponses(orders))
}

func (s *HTTPServer) listUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "user_id", "user")
	if !ok {
		return
	}

	orders, err := s.orders.ListByUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderResponses(orders))
}

func (s *HTTPServer) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "order")
	if !ok {
		return
	}

	order, err := s.orders.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderWithProductsResponse(order))
}

func (s *HTTPServer) listOrderProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "order")
	if !ok {
		return
	}

	products, err := s.orders.ListProducts(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProductValueResponses(products))
}

func (s *HTTPServer) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := validation.Bind(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	order, err := s.orders.Create(r.Context(), req.toModel(0))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Order created", "id", order.ID, "user_id", order.UserID)
	writeJSON(w, r, http.StatusCreated, toOrderWithProductsResponse(order))
}

func (s *HTTPServer) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "order")
	if !ok {
		return
	}

	var req orderRequest
	if err := validation.Bind(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	order, err := s.orders.Update(r.Context(), req.toModel(id))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderWithProductsResponse(order))
}

func (s *HTTPServer) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "order")
	if !ok {
		return
	}

	if err := s.orders.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Order deleted", "id", id)
	writeMessage(w, r, http.StatusOK, fmt.Sprintf("successfully deleted order %d", id))
}

func (s *HTTPServer) addProduct(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id", "order")
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "product_id", "product")
	if !ok {
		return
	}

	order, err := s.orders.AddProduct(r.Context(), orderID, productID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderWithProductsResponse(order))
}

func (s *HTTPServer) removeProduct(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id", "order")
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "product_id", "product")
	if !ok {
		return
	}

	order, err := s.orders.RemoveProduct(r.Context(), orderID, productID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderWithProductsResponse(order))
}
