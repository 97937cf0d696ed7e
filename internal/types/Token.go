/*

This is a custom type for tokens referenced by farm definitions. Addresses are
per-network because the same token config is shared between mainnet and testnet.

*/

package types

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type ChainID int

const (
	ChainMainnet ChainID = 56
	ChainTestnet ChainID = 97
)

type Token struct {
	Symbol   string                     `json:"symbol"`   // e.g., "CUB"
	Address  map[ChainID]common.Address `json:"address"`  // per-network contract address; zero address means "not deployed"
	Decimals int                        `json:"decimals"` // e.g., 18
}

// AddressOn returns the token's contract address on the given chain and whether
// it is deployed there.
func (t Token) AddressOn(chain ChainID) (common.Address, bool) {
	addr, ok := t.Address[chain]
	if !ok || addr == (common.Address{}) {
		return common.Address{}, false
	}
	return addr, true
}

// PriceKey is the lower-cased hex address used to look the token up in a
// PriceTable.
func (t Token) PriceKey(chain ChainID) (string, bool) {
	addr, ok := t.AddressOn(chain)
	if !ok {
		return "", false
	}
	return strings.ToLower(addr.Hex()), true
}
