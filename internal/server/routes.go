package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/purchases", func(r chi.Router) {
				r.Post("/", handler(s.postV1Purchase))
				r.Get("/", handler(s.getV1Purchases))

				if s.queue != nil {
					r.Post("/queue", handler(s.postV1PurchaseQueue))
				}
			})

			r.Get("/items/{id}/stage", handler(s.getV1ItemStage))

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", handler(s.getV1Settings))
				r.Put("/", handler(s.putV1Settings))
				r.Post("/balance/sync", handler(s.postV1BalanceSync))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			writeError(r.Context(), w, err)
		}
	}
}
