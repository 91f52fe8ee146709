package cidr

import (
	"errors"
	"fmt"
)

const addressBits = 32

var ErrInvalidPrefixLength = errors.New("prefix length must be between 0 and 32")

// AddressRange is a single IPv4 CIDR range. Addr keeps the address exactly as
// it was written, host bits included; Network strips them on demand. Two
// ranges are the same set member iff their canonical text forms match, so
// 192.168.1.5/24 and 192.168.1.0/24 are distinct entries even though they
// describe the same network.
type AddressRange struct {
	Addr      uint32
	PrefixLen int
}

// New validates the prefix length and builds a range. The address value
// itself cannot be invalid; every uint32 is some IPv4 address.
func New(addr uint32, prefixLen int) (AddressRange, error) {
	if prefixLen < 0 || prefixLen > addressBits {
		return AddressRange{}, fmt.Errorf("%w: got %d", ErrInvalidPrefixLength, prefixLen)
	}
	return AddressRange{Addr: addr, PrefixLen: prefixLen}, nil
}

// Mask returns the subnet mask with the top PrefixLen bits set: 0 for /0,
// all ones for /32.
func (r AddressRange) Mask() uint32 {
	if r.PrefixLen == 0 {
		return 0
	}
	return ^uint32(0) << (addressBits - r.PrefixLen)
}

// Network returns the address with all host bits cleared.
func (r AddressRange) Network() uint32 {
	return r.Addr & r.Mask()
}

// String renders the canonical text form, e.g. "10.0.0.0/8". The stored
// address is used, not the derived network address.
func (r AddressRange) String() string {
	return fmt.Sprintf("%s/%d", FormatAddr(r.Addr), r.PrefixLen)
}

// FormatAddr renders a 32-bit address in dotted-decimal notation.
func FormatAddr(addr uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", byte(addr>>24), byte(addr>>16), byte(addr>>8), byte(addr))
}
