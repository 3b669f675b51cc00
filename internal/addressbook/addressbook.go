// Package addressbook manages the shopper's shipping addresses.
package addressbook

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"grindgears/internal/domain"
	"grindgears/internal/notify"
	"grindgears/internal/remote"
	"grindgears/internal/wire"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidAddress  = errors.New("invalid address")
	ErrAddressNotFound = errors.New("address not found")
)

const (
	OpAddressAdd    = "address.add"
	OpAddressUpdate = "address.update"
	OpAddressDelete = "address.delete"
)

// Remote is the address part of the GrindGears API.
type Remote interface {
	ListAddresses(ctx context.Context) ([]wire.Address, error)
	CreateAddress(ctx context.Context, addressType, fullAddress string) (wire.Address, string, error)
	UpdateAddress(ctx context.Context, id, addressType, fullAddress string) (string, error)
	DeleteAddress(ctx context.Context, id string) (string, error)
}

// Input is an address as entered in the address form
type Input struct {
	Type    string `json:"type" validate:"required,oneof=Home Office Default"`
	Address string `json:"address" validate:"required"`
}

// Book caches the address list and applies changes optimistically.
type Book struct {
	remote   Remote
	notifier notify.Notifier
	logger   *zap.Logger
	validate *validator.Validate

	mu        sync.RWMutex
	addresses []domain.Address
}

// New creates an empty address book.
func New(r Remote, notifier notify.Notifier, logger *zap.Logger) *Book {
	return &Book{
		remote:    r,
		notifier:  notifier,
		logger:    logger.Named("addressbook"),
		validate:  validator.New(),
		addresses: []domain.Address{},
	}
}

// Load replaces the cached list with the addresses stored remotely.
func (b *Book) Load(ctx context.Context) ([]domain.Address, error) {
	raw, err := b.remote.ListAddresses(ctx)
	if err != nil {
		b.logger.Error("Error fetching addresses", zap.Error(err))
		return nil, fmt.Errorf("failed to load addresses: %w", err)
	}

	addresses := make([]domain.Address, 0, len(raw))
	for _, a := range raw {
		addresses = append(addresses, a.Domain())
	}

	b.mu.Lock()
	b.addresses = addresses
	b.mu.Unlock()

	return b.Addresses(), nil
}

func (b *Book) check(op string, in Input) error {
	if err := b.validate.Struct(in); err != nil {
		notify.Error(b.notifier, op, "Please provide address details")
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return nil
}

// Add stores a new address. The address is listed at once under a local id
// which is replaced by the id the API assigns.
func (b *Book) Add(ctx context.Context, in Input) (domain.Address, error) {
	if err := b.check(OpAddressAdd, in); err != nil {
		return domain.Address{}, err
	}

	local := domain.Address{ID: uuid.NewString(), Type: in.Type, FullAddress: in.Address}
	b.mu.Lock()
	b.addresses = append(b.addresses, local)
	b.mu.Unlock()

	created, msg, err := b.remote.CreateAddress(ctx, in.Type, in.Address)
	if err != nil {
		b.remove(local.ID)
		b.logger.Error("Error adding address", zap.Error(err))
		notify.Error(b.notifier, OpAddressAdd, remote.MessageOr(err, "Error adding address"))
		return domain.Address{}, fmt.Errorf("failed to add address: %w", err)
	}

	stored := local
	if created.ID != "" {
		stored = created.Domain()
		b.mu.Lock()
		if idx := b.index(local.ID); idx >= 0 {
			b.addresses[idx] = stored
		}
		b.mu.Unlock()
	}

	if msg == "" {
		msg = "New address added"
	}
	notify.Success(b.notifier, OpAddressAdd, msg)
	return stored, nil
}

// Update replaces the address with id.
func (b *Book) Update(ctx context.Context, id string, in Input) (domain.Address, error) {
	if err := b.check(OpAddressUpdate, in); err != nil {
		return domain.Address{}, err
	}

	updated := domain.Address{ID: id, Type: in.Type, FullAddress: in.Address}

	b.mu.Lock()
	idx := b.index(id)
	if idx < 0 {
		b.mu.Unlock()
		return domain.Address{}, ErrAddressNotFound
	}
	previous := b.addresses[idx]
	b.addresses[idx] = updated
	b.mu.Unlock()

	msg, err := b.remote.UpdateAddress(ctx, id, in.Type, in.Address)
	if err != nil {
		b.mu.Lock()
		if i := b.index(id); i >= 0 {
			b.addresses[i] = previous
		}
		b.mu.Unlock()
		b.logger.Error("Error updating address", zap.String("address_id", id), zap.Error(err))
		notify.Error(b.notifier, OpAddressUpdate, remote.MessageOr(err, "Error updating address"))
		return domain.Address{}, fmt.Errorf("failed to update address: %w", err)
	}

	if msg == "" {
		msg = "Address updated"
	}
	notify.Success(b.notifier, OpAddressUpdate, msg)
	return updated, nil
}

// Delete removes the address with id.
func (b *Book) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	idx := b.index(id)
	if idx < 0 {
		b.mu.Unlock()
		return ErrAddressNotFound
	}
	removed := b.addresses[idx]
	b.addresses = append(b.addresses[:idx], b.addresses[idx+1:]...)
	b.mu.Unlock()

	msg, err := b.remote.DeleteAddress(ctx, id)
	if err != nil {
		b.mu.Lock()
		if idx > len(b.addresses) {
			idx = len(b.addresses)
		}
		b.addresses = append(b.addresses, domain.Address{})
		copy(b.addresses[idx+1:], b.addresses[idx:])
		b.addresses[idx] = removed
		b.mu.Unlock()
		b.logger.Error("Error deleting address", zap.String("address_id", id), zap.Error(err))
		notify.Error(b.notifier, OpAddressDelete, remote.MessageOr(err, "Address delete failed"))
		return fmt.Errorf("failed to delete address: %w", err)
	}

	if msg == "" {
		msg = "Address deleted"
	}
	notify.Success(b.notifier, OpAddressDelete, msg)
	return nil
}

func (b *Book) remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if idx := b.index(id); idx >= 0 {
		b.addresses = append(b.addresses[:idx], b.addresses[idx+1:]...)
	}
}

// index must be called with mu held.
func (b *Book) index(id string) int {
	for i, a := range b.addresses {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// Addresses returns a copy of the cached list.
func (b *Book) Addresses() []domain.Address {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.Address, len(b.addresses))
	copy(out, b.addresses)
	return out
}

// Find returns the cached address with id.
func (b *Book) Find(id string) (domain.Address, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if idx := b.index(id); idx >= 0 {
		return b.addresses[idx], true
	}
	return domain.Address{}, false
}
