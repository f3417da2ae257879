package models

import (
	"math/big"
	"testing"
)

func TestValidAddress(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"0x28c6c06298d514db089934071355e5743bf21d60", true},
		{"28c6c06298d514db089934071355e5743bf21d60", true},
		{"0x28C6C06298D514DB089934071355E5743BF21D60", true},
		{"0x28c6c06298d514db089934071355e5743bf21d6", false},   // 39 chars
		{"0x28c6c06298d514db089934071355e5743bf21d601", false}, // 41 chars
		{"0xzzzzc06298d514db089934071355e5743bf21d60", false},  // non-hex
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidAddress(tc.addr); got != tc.want {
			t.Errorf("ValidAddress(%q): expected %v, got %v", tc.addr, tc.want, got)
		}
	}
}

func TestValidTxHash(t *testing.T) {
	hash := "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"
	if !ValidTxHash(hash) {
		t.Errorf("Expected %s to be a valid tx hash", hash)
	}
	if ValidTxHash("0x28c6c06298d514db089934071355e5743bf21d60") {
		t.Error("Expected a 40-char address to fail tx hash validation")
	}
}

func TestNormalizeAddress(t *testing.T) {
	got := NormalizeAddress("  0x28C6C06298D514DB089934071355E5743BF21D60 ")
	if got != "0x28c6c06298d514db089934071355e5743bf21d60" {
		t.Errorf("Expected trimmed lowercase form, got %q", got)
	}
}

func TestShortAddress(t *testing.T) {
	addr := "0x28c6c06298d514db089934071355e5743bf21d60"
	if got := ShortAddress(addr, 10); got != "0x28c6c062...743bf21d60" {
		t.Errorf("Unexpected short form: %s", got)
	}
	if got := ShortAddress("", 10); got != "N/A" {
		t.Errorf("Expected N/A for an empty address, got %s", got)
	}
	if got := ShortAddress("0xshort", 10); got != "0xshort" {
		t.Errorf("Expected short inputs returned unchanged, got %s", got)
	}
}

func TestWeiToEther(t *testing.T) {
	oneEther, _ := new(big.Int).SetString("1000000000000000000", 10)
	if got := WeiToEther(oneEther); got != 1.0 {
		t.Errorf("Expected 1.0 ether, got %f", got)
	}
	if got := WeiToEther(nil); got != 0 {
		t.Errorf("Expected nil wei to be 0, got %f", got)
	}
}

func TestExplorerURLs(t *testing.T) {
	addr := "0x28c6c06298d514db089934071355e5743bf21d60"
	if got := ExplorerAddressURL(addr, "ethereum"); got != "https://etherscan.io/address/"+addr {
		t.Errorf("Unexpected mainnet URL: %s", got)
	}
	if got := ExplorerAddressURL(addr, "bsc"); got != "https://bscscan.com/address/"+addr {
		t.Errorf("Unexpected BSC URL: %s", got)
	}
	if got := ExplorerTxURL("0xfeed", "polygon"); got != "https://polygonscan.com/tx/0xfeed" {
		t.Errorf("Unexpected polygon tx URL: %s", got)
	}
}
