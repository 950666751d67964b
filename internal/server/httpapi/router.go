package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// maxBodyBytes caps request payloads; every valid payload is far smaller.
const maxBodyBytes = 1 << 20

// Router builds the full route table with its middleware stack.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxBodyBytes))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.notAllowed)

	r.Get("/ping", s.ping)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.listUsers)
		r.Post("/", s.createUser)
		r.Get("/{id}", s.getUser)
		r.Put("/{id}", s.updateUser)
		r.Delete("/{id}", s.deleteUser)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.listProducts)
		r.Post("/", s.createProduct)
		r.Get("/{id}", s.getProduct)
		r.Put("/{id}", s.updateProduct)
		r.Delete("/{id}", s.deleteProduct)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", s.listOrders)
		r.Post("/", s.createOrder)
		r.Get("/user/{user_id}", s.listUserOrders)
		r.Get("/{id}", s.getOrder)
		r.Put("/{id}", s.updateOrder)
		r.Delete("/{id}", s.deleteOrder)
		r.Get("/{id}/products", s.listOrderProducts)
		r.Put("/{id}/add_product/{product_id}", s.addProduct)
		r.Delete("/{id}/remove_product/{product_id}", s.removeProduct)
	})

	return r
}
