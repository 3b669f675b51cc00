package addressbook

import (
	"context"
	"testing"

	"grindgears/internal/domain"
	"grindgears/internal/notify"
	"grindgears/internal/remote"
	"grindgears/internal/wire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRemote struct {
	stored  []wire.Address
	nextID  string
	failing error
	calls   int
}

func (f *fakeRemote) ListAddresses(ctx context.Context) ([]wire.Address, error) {
	return f.stored, f.failing
}

func (f *fakeRemote) CreateAddress(ctx context.Context, addressType, fullAddress string) (wire.Address, string, error) {
	f.calls++
	if f.failing != nil {
		return wire.Address{}, "", f.failing
	}
	return wire.Address{ID: f.nextID, AddressType: addressType, FullAddress: fullAddress}, "New address added", nil
}

func (f *fakeRemote) UpdateAddress(ctx context.Context, id, addressType, fullAddress string) (string, error) {
	f.calls++
	return "Address updated", f.failing
}

func (f *fakeRemote) DeleteAddress(ctx context.Context, id string) (string, error) {
	f.calls++
	return "", f.failing
}

func newBook(r Remote) (*Book, *notify.Feed) {
	feed := notify.NewFeed(0)
	return New(r, feed, zap.NewNop()), feed
}

func TestLoad(t *testing.T) {
	r := &fakeRemote{stored: []wire.Address{{ID: "a1", AddressType: "Home", FullAddress: "1 Main St"}}}
	b, _ := newBook(r)

	addresses, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Address{{ID: "a1", Type: "Home", FullAddress: "1 Main St"}}, addresses)

	found, ok := b.Find("a1")
	assert.True(t, ok)
	assert.Equal(t, "1 Main St", found.FullAddress)
}

func TestAddValidatesBeforeSending(t *testing.T) {
	r := &fakeRemote{}
	b, feed := newBook(r)

	cases := []Input{
		{Type: "", Address: "1 Main St"},
		{Type: "Home", Address: ""},
		{Type: "Garage", Address: "1 Main St"},
	}
	for _, in := range cases {
		_, err := b.Add(context.Background(), in)
		assert.ErrorIs(t, err, ErrInvalidAddress)
	}

	assert.Zero(t, r.calls)
	assert.Empty(t, b.Addresses())
	notes := feed.Drain()
	require.Len(t, notes, 3)
	assert.Equal(t, "Please provide address details", notes[0].Message)
}

func TestAddUsesServerID(t *testing.T) {
	r := &fakeRemote{nextID: "srv-1"}
	b, feed := newBook(r)

	stored, err := b.Add(context.Background(), Input{Type: "Office", Address: "2 Side St"})
	require.NoError(t, err)

	assert.Equal(t, "srv-1", stored.ID)
	assert.Equal(t, []domain.Address{{ID: "srv-1", Type: "Office", FullAddress: "2 Side St"}}, b.Addresses())
	assert.Equal(t, "New address added", feed.Drain()[0].Message)
}

func TestAddKeepsLocalIDWhenServerOmitsOne(t *testing.T) {
	b, _ := newBook(&fakeRemote{})

	stored, err := b.Add(context.Background(), Input{Type: "Home", Address: "3 Elm St"})
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)

	_, ok := b.Find(stored.ID)
	assert.True(t, ok)
}

func TestAddFailureRollsBack(t *testing.T) {
	r := &fakeRemote{failing: &remote.Error{Op: "address.create", StatusCode: 500}}
	b, feed := newBook(r)

	_, err := b.Add(context.Background(), Input{Type: "Home", Address: "1 Main St"})
	require.Error(t, err)

	assert.Empty(t, b.Addresses())
	assert.Equal(t, "Error adding address", feed.Drain()[0].Message)
}

func TestUpdate(t *testing.T) {
	r := &fakeRemote{stored: []wire.Address{{ID: "a1", AddressType: "Home", FullAddress: "old"}}}
	b, _ := newBook(r)
	_, err := b.Load(context.Background())
	require.NoError(t, err)

	_, err = b.Update(context.Background(), "a1", Input{Type: "Default", Address: "new"})
	require.NoError(t, err)
	found, _ := b.Find("a1")
	assert.Equal(t, "new", found.FullAddress)

	r.failing = &remote.Error{Op: "address.update", StatusCode: 400, Message: "Address not valid"}
	_, err = b.Update(context.Background(), "a1", Input{Type: "Home", Address: "newer"})
	require.Error(t, err)
	found, _ = b.Find("a1")
	assert.Equal(t, "new", found.FullAddress)

	_, err = b.Update(context.Background(), "missing", Input{Type: "Home", Address: "x"})
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestDelete(t *testing.T) {
	r := &fakeRemote{stored: []wire.Address{
		{ID: "a1", AddressType: "Home", FullAddress: "one"},
		{ID: "a2", AddressType: "Office", FullAddress: "two"},
	}}
	b, feed := newBook(r)
	_, err := b.Load(context.Background())
	require.NoError(t, err)

	r.failing = &remote.Error{Op: "address.delete", StatusCode: 500}
	require.Error(t, b.Delete(context.Background(), "a1"))
	assert.Equal(t, "a1", b.Addresses()[0].ID)
	assert.Equal(t, "Address delete failed", feed.Drain()[0].Message)

	r.failing = nil
	require.NoError(t, b.Delete(context.Background(), "a1"))
	assert.Len(t, b.Addresses(), 1)
	assert.Equal(t, "Address deleted", feed.Drain()[0].Message)

	assert.ErrorIs(t, b.Delete(context.Background(), "a1"), ErrAddressNotFound)
}
