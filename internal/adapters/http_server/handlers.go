package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"bizdir/internal/app"
)

// Handlers is the caller boundary: it decodes plain scalar arguments,
// validates them, and forwards results as JSON or the error message as-is.
type Handlers struct {
	C *app.DirectoryService
	Q *app.QueryService

	validate *validator.Validate
}

func NewHandlers(c *app.DirectoryService, q *app.QueryService) *Handlers {
	return &Handlers{C: c, Q: q, validate: validator.New()}
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/v1/users", h.createUser)
	s.mux.Get("/v1/users/{id}", h.getUser)
	s.mux.Get("/v1/users/{id}/favorites", h.listFavorites)
	s.mux.Get("/v1/users/{id}/favorites/{businessID}", h.isFavorite)
	s.mux.Post("/v1/users/{id}/favorites/{businessID}", h.addFavorite)
	s.mux.Delete("/v1/users/{id}/favorites/{businessID}", h.removeFavorite)

	s.mux.Post("/v1/businesses", h.createBusiness)
	s.mux.Get("/v1/businesses", h.listBusinesses)
	s.mux.Get("/v1/businesses/{id}", h.getBusiness)
	s.mux.Get("/v1/businesses/{id}/reviews", h.listReviews)
	s.mux.Get("/v1/businesses/{id}/deals", h.listDeals)

	s.mux.Post("/v1/reviews", h.createReview)
	s.mux.Post("/v1/deals", h.createDeal)
	s.mux.Get("/v1/deals/active", h.listActiveDeals)

	s.mux.Get("/v1/captcha", h.captcha)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decode unmarshals the body and runs struct validation; callers bail out
// when it reports false.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

// ---- users ----

type createUserReq struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func (h *Handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.C.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Create Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Q.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Lookup Failed", err.Error())
		return
	}
	// Absence is not an error: a null body, not a problem response.
	writeJSON(w, http.StatusOK, u)
}

// ---- businesses ----

type createBusinessReq struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description"`
	Address     string  `json:"address" validate:"required"`
	Phone       string  `json:"phone" validate:"required"`
	Website     *string `json:"website"`
}

func (h *Handlers) createBusiness(w http.ResponseWriter, r *http.Request) {
	var req createBusinessReq
	if !h.decode(w, r, &req) {
		return
	}
	b, err := h.C.CreateBusiness(r.Context(), req.Name, req.Category, req.Description, req.Address, req.Phone, req.Website)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Create Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// listBusinesses returns everything, or the substring matches when ?q= is
// present.
func (h *Handlers) listBusinesses(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		bs, err := h.Q.SearchBusinesses(r.Context(), q)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Search Failed", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, bs)
		return
	}
	bs, err := h.Q.ListBusinesses(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *Handlers) getBusiness(w http.ResponseWriter, r *http.Request) {
	b, err := h.Q.GetBusiness(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Lookup Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// ---- reviews ----

type createReviewReq struct {
	BusinessID string `json:"business_id" validate:"required"`
	UserID     string `json:"user_id" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment"`
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewReq
	if !h.decode(w, r, &req) {
		return
	}
	rv, err := h.C.CreateReview(r.Context(), req.BusinessID, req.UserID, req.Rating, req.Comment)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Create Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- deals ----

type createDealReq struct {
	BusinessID   string  `json:"business_id" validate:"required"`
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description"`
	DiscountCode *string `json:"discount_code"`
	StartDate    string  `json:"start_date" validate:"required"`
	EndDate      string  `json:"end_date" validate:"required"`
}

func (h *Handlers) createDeal(w http.ResponseWriter, r *http.Request) {
	var req createDealReq
	if !h.decode(w, r, &req) {
		return
	}
	d, err := h.C.CreateDeal(r.Context(), req.BusinessID, req.Title, req.Description, req.DiscountCode, req.StartDate, req.EndDate)
	if err != nil {
		// Date parse failures carry their own field-naming message.
		writeProblem(w, http.StatusBadRequest, "Create Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *Handlers) listDeals(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListDeals(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) listActiveDeals(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListActiveDeals(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- favorites ----

func (h *Handlers) addFavorite(w http.ResponseWriter, r *http.Request) {
	f, err := h.C.AddFavorite(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "businessID"))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Create Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *Handlers) removeFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.C.RemoveFavorite(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "businessID")); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Delete Failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listFavorites(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Q.GetFavoritesByUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *Handlers) isFavorite(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Q.IsFavorite(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "businessID"))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Lookup Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"favorite": ok})
}

// ---- captcha ----

func (h *Handlers) captcha(w http.ResponseWriter, r *http.Request) {
	question, answer := app.GenerateCaptcha()
	writeJSON(w, http.StatusOK, map[string]string{"question": question, "answer": answer})
}
