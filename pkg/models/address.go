package models

import (
	"fmt"
	"strings"
)

// ValidAddress reports whether s is a well-formed Ethereum address:
// optional 0x prefix followed by exactly 40 hex characters.
func ValidAddress(s string) bool {
	return validHex(s, 40)
}

// ValidTxHash reports whether s is a well-formed transaction hash:
// optional 0x prefix followed by exactly 64 hex characters.
func ValidTxHash(s string) bool {
	return validHex(s, 64)
}

func validHex(s string, length int) bool {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != length {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// NormalizeAddress trims whitespace and lowercases a hex address or tx hash
// so table lookups and comparisons are case-insensitive.
func NormalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ShortAddress formats an address for display: 0x12345678...9abcdef0
func ShortAddress(addr string, keep int) string {
	if addr == "" {
		return "N/A"
	}
	if len(addr) <= keep*2 {
		return addr
	}
	return fmt.Sprintf("%s...%s", addr[:keep], addr[len(addr)-keep:])
}

// ExplorerAddressURL returns the block-explorer page for an address.
func ExplorerAddressURL(addr, network string) string {
	switch network {
	case "bsc":
		return "https://bscscan.com/address/" + addr
	case "polygon":
		return "https://polygonscan.com/address/" + addr
	default:
		return "https://etherscan.io/address/" + addr
	}
}

// ExplorerTxURL returns the block-explorer page for a transaction.
func ExplorerTxURL(hash, network string) string {
	switch network {
	case "bsc":
		return "https://bscscan.com/tx/" + hash
	case "polygon":
		return "https://polygonscan.com/tx/" + hash
	default:
		return "https://etherscan.io/tx/" + hash
	}
}
