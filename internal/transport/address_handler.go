package transport

import (
	"encoding/json"
	"net/http"

	"grindgears/internal/addressbook"

	"github.com/go-chi/chi/v5"
)

// AddressRequest is the address form. It is checked by the address book so
// that the shopper gets the form's own message.
type AddressRequest struct {
	Type    string `json:"type"`
	Address string `json:"address"`
}

func decodeAddress(r *http.Request) (addressbook.Input, error) {
	var req AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return addressbook.Input{}, err
	}
	return addressbook.Input{Type: req.Type, Address: req.Address}, nil
}

// ListAddresses returns the stored addresses
func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.addresses.Load(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, addresses)
}

// AddAddress stores a new address
func (h *Handler) AddAddress(w http.ResponseWriter, r *http.Request) {
	in, err := decodeAddress(r)
	if err != nil {
		h.badRequest(w, err)
		return
	}

	address, err := h.addresses.Add(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, address)
}

// UpdateAddress replaces an address
func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	in, err := decodeAddress(r)
	if err != nil {
		h.badRequest(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.ensureAddress(r, id); err != nil {
		h.fail(w, r, err)
		return
	}

	address, err := h.addresses.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, address)
}

// DeleteAddress removes an address
func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.ensureAddress(r, id); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.addresses.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, h.addresses.Addresses())
}

// ensureAddress reloads the address book when id is not cached yet.
func (h *Handler) ensureAddress(r *http.Request, id string) error {
	if id == "" {
		return nil
	}
	if _, ok := h.addresses.Find(id); ok {
		return nil
	}
	_, err := h.addresses.Load(r.Context())
	return err
}
