package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/phlox/storefront/internal/core/domain"
	"github.com/phlox/storefront/internal/core/port"
	"github.com/phlox/storefront/internal/core/service"
)

// GET v1/products (200 OK)
// GET v1/products/{id} (200 OK, 404 Not found)
// GET v1/products/popular (200 OK, registered only with analytics wired)

type CatalogHandler struct {
	viewer port.CatalogViewer
}

func RegisterCatalog(
	mux *http.ServeMux, viewer port.CatalogViewer, withPopular bool,
) {
	h := CatalogHandler{viewer}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	if withPopular {
		mux.HandleFunc("GET /v1/products/popular", h.GetPopular)
	}
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"

	ps, err := h.viewer.ListProducts(r.Context())
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toProducts(ps), op)
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	p, err := h.viewer.GetProduct(r.Context(), id)
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toProduct(p), op)
}

func (h CatalogHandler) GetPopular(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetPopular"

	ps, err := h.viewer.PopularProducts(r.Context())
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toProducts(ps), op)
}

// GET v1/cart (200 OK)
// POST v1/cart/items JSON {product_id, variant, quantity} (200 OK, 404, 422)
// PATCH v1/cart/items/{index} JSON {delta} (200 OK)
// DELETE v1/cart/items/{index} (200 OK)

type CartHandler struct {
	editor port.CartEditor
}

func RegisterCart(mux *http.ServeMux, editor port.CartEditor) {
	h := CartHandler{editor}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("PATCH /v1/cart/items/{index}", h.PatchItem)
	mux.HandleFunc("DELETE /v1/cart/items/{index}", h.DeleteItem)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"

	c, err := h.editor.ViewCart(r.Context(), sessionID(r))
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(c), op)
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	var item AddCartItem
	err := json.NewDecoder(r.Body).Decode(&item)
	if err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	c, err := h.editor.AddCartItem(
		r.Context(), sessionID(r),
		item.ProductID, item.Variant, item.Quantity,
	)
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(c), op)
}

func (h CartHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PatchItem"
	log := slog.With("op", op)

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid line index", http.StatusBadRequest)
		return
	}

	var adj AdjustQuantity
	err = json.NewDecoder(r.Body).Decode(&adj)
	if err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	c, err := h.editor.AdjustCartQuantity(
		r.Context(), sessionID(r), index, adj.Delta,
	)
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(c), op)
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItem"

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid line index", http.StatusBadRequest)
		return
	}

	c, err := h.editor.RemoveCartItem(r.Context(), sessionID(r), index)
	if err != nil {
		writeErr(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(c), op)
}

// POST v1/checkout JSON {name, phone, address, notes} (200 OK, 409, 422)

type CheckoutHandler struct {
	performer  port.CheckoutPerformer
	adminPhone string
}

func RegisterCheckout(
	mux *http.ServeMux, performer port.CheckoutPerformer, adminPhone string,
) {
	h := CheckoutHandler{performer, adminPhone}
	mux.HandleFunc("POST /v1/checkout", h.PostCheckout)
}

func (h CheckoutHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostCheckout"
	log := slog.With("op", op)

	var form CheckoutForm
	err := json.NewDecoder(r.Body).Decode(&form)
	if err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	msg, err := h.performer.Checkout(
		r.Context(), sessionID(r), h.toDomain(form),
	)
	if err != nil {
		writeErr(w, op, err)
		return
	}

	resp := CheckoutResponse{
		OrderID:     msg.OrderID,
		Message:     msg.Text,
		WhatsAppURL: h.whatsAppURL(msg.Text),
	}
	writeJSON(w, http.StatusOK, resp, op)

	log.Info("checkout handed off", "orderID", msg.OrderID)
}

func (CheckoutHandler) toDomain(form CheckoutForm) domain.CustomerForm {
	return domain.CustomerForm{
		Name:    form.Name,
		Phone:   form.Phone,
		Address: form.Address,
		Notes:   form.Notes,
	}
}

// whatsAppURL percent-encodes the message into the external link.
// Encoding for transport happens here, not in the formatter.
func (h CheckoutHandler) whatsAppURL(text string) string {
	vals := url.Values{}
	vals.Set("text", text)
	return "https://wa.me/" + h.adminPhone + "?" + vals.Encode()
}

// GET v1/feedback (200 OK)
// POST v1/feedback JSON {name, message} (201 Created, 422)

type FeedbackHandler struct {
	board port.FeedbackBoard
}

func RegisterFeedback(mux *http.ServeMux, board port.FeedbackBoard) {
	h := FeedbackHandler{board}
	mux.HandleFunc("GET /v1/feedback", h.GetFeedback)
	mux.HandleFunc("POST /v1/feedback", h.PostFeedback)
}

func (h FeedbackHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	const op = "FeedbackHandler.GetFeedback"

	fs, err := h.board.ListFeedback(r.Context())
	if err != nil {
		writeErr(w, op, err)
		return
	}

	out := make([]Feedback, 0, len(fs))
	for _, f := range fs {
		out = append(out, Feedback{
			ID:      f.ID,
			Name:    f.Name,
			Message: f.Message,
			Date:    f.Date,
		})
	}
	writeJSON(w, http.StatusOK, out, op)
}

func (h FeedbackHandler) PostFeedback(w http.ResponseWriter, r *http.Request) {
	const op = "FeedbackHandler.PostFeedback"
	log := slog.With("op", op)

	var nf NewFeedback
	err := json.NewDecoder(r.Body).Decode(&nf)
	if err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	f, err := h.board.SubmitFeedback(r.Context(), nf.Name, nf.Message)
	if err != nil {
		writeErr(w, op, err)
		return
	}

	out := Feedback{ID: f.ID, Name: f.Name, Message: f.Message, Date: f.Date}
	writeJSON(w, http.StatusCreated, out, op)
}

func toProducts(ps []domain.Product) []Product {
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProduct(p))
	}
	return out
}

func toProduct(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		UnitPrice:   p.UnitPrice,
		Description: p.Description,
		Image:       p.Image,
		Category:    p.Category,
		Variants:    p.Variants,
	}
}

func toCart(c domain.Cart) Cart {
	out := Cart{
		Lines:     make([]CartLine, 0, c.Len()),
		Subtotal:  c.Subtotal(),
		ItemCount: c.ItemCount(),
	}
	for _, l := range c.Lines {
		out.Lines = append(out.Lines, CartLine{
			ProductID:       l.ID,
			Name:            l.Name,
			SelectedVariant: l.SelectedVariant,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			Total:           l.Total(),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any, op string) {
	log := slog.With("op", op)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func writeErr(w http.ResponseWriter, op string, err error) {
	log := slog.With("op", op)

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidVariant),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrFormIncomplete),
		errors.Is(err, service.ErrEmptyFeedback):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
		log.Error("unexpected error", "err", err)
	}
}
