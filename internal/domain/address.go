package domain

// Address types accepted by the address form
const (
	AddressTypeHome    = "Home"
	AddressTypeOffice  = "Office"
	AddressTypeDefault = "Default"
)

// Address is a shipping address owned by the remote profile service
type Address struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	FullAddress string `json:"fullAddress"`
}
