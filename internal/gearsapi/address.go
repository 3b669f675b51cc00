package gearsapi

import (
	"net/http"

	"grindgears/internal/domain"
	"grindgears/internal/middleware"
	"grindgears/internal/wire"
)

type addressFields struct {
	Type    string `validate:"required,oneof=Home Office Default"`
	Address string `validate:"required"`
}

func (a *API) addressFrom(w http.ResponseWriter, req wire.AddressRequest) (domain.Address, bool) {
	if err := middleware.ValidateRequest(addressFields{Type: req.Type, Address: req.Address}); err != nil {
		a.message(w, http.StatusBadRequest, "Please provide address details")
		return domain.Address{}, false
	}
	return domain.Address{ID: req.ID, Type: req.Type, FullAddress: req.Address}, true
}

// ListAddresses returns every stored address
func (a *API) ListAddresses(w http.ResponseWriter, r *http.Request) {
	stored, err := a.repos.Addresses.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}

	addresses := make([]wire.Address, 0, len(stored))
	for _, addr := range stored {
		addresses = append(addresses, wire.FromAddress(*addr))
	}
	a.respond(w, http.StatusOK, addresses, "")
}

// CreateAddress stores a new address and returns it with its id
func (a *API) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var req wire.AddressRequest
	if !a.decode(w, r, &req) {
		return
	}
	address, ok := a.addressFrom(w, req)
	if !ok {
		return
	}

	if err := a.repos.Addresses.Create(r.Context(), &address); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusCreated, wire.FromAddress(address), "New address added")
}

// UpdateAddress replaces the address named by the body's id
func (a *API) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var req wire.AddressRequest
	if !a.decode(w, r, &req) {
		return
	}
	address, ok := a.addressFrom(w, req)
	if !ok {
		return
	}

	if err := a.repos.Addresses.Update(r.Context(), &address); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusOK, wire.FromAddress(address), "Address updated")
}

// DeleteAddress removes the address named by the body's id
func (a *API) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	var req wire.AddressRequest
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.repos.Addresses.Delete(r.Context(), req.ID); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusOK, nil, "Address deleted")
}
