/*

This file contains the static token table referenced by the farm registry.
Addresses are per-network; a token without a testnet deployment simply omits
the testnet entry.

*/

package config

import (
	"github.com/cubdefi/farmboard/internal/types"
	"github.com/ethereum/go-ethereum/common"
)

var (
	TokenCake = types.Token{
		Symbol: "CAKE",
		Address: map[types.ChainID]common.Address{
			types.ChainMainnet: common.HexToAddress("0x0e09fabb73bd3ade0a17ecc321fd13a19e81ce82"),
			types.ChainTestnet: common.HexToAddress("0xa35062141Fa33BCA92Ce69FeD37D0E8908868AAe"),
		},
		Decimals: 18,
	}
	TokenWbnb = types.Token{
		Symbol: "BNB",
		Address: map[types.ChainID]common.Address{
			types.ChainMainnet: common.HexToAddress("0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c"),
			types.ChainTestnet: common.HexToAddress("0xae13d989dac2f0debff460ac112a837c89baa7cd"),
		},
		Decimals: 18,
	}
	TokenBusd = types.Token{
		Symbol: "BUSD",
		Address: map[types.ChainID]common.Address{
			types.ChainMainnet: common.HexToAddress("0xe9e7cea3dedca5984780bafc599bd69add087d56"),
		},
		Decimals: 18,
	}
	TokenEth = types.Token{
		Symbol: "ETH",
		Address: map[types.ChainID]common.Address{
			types.ChainMainnet: common.HexToAddress("0x2170ed0880ac9a755fd29b2688956bd959f933f8"),
		},
		Decimals: 18,
	}
	TokenUsdc = types.Token{
		Symbol: "USDC",
		Address: map[types.ChainID]common.Address{
			types.ChainMainnet: common.HexToAddress("0x8ac76a51cc950d9822d68b83fe1ad97b32cd580d"),
		},
		Decimals: 18,
	}
	TokenDai = types.Token{
		Symbol: "DAI",
		Address: map[types.ChainID]common.Address{
			types.ChainMainnet: common.HexToAddress("0x1af3f329e8be154074d8769d1ffa4ee058b1dbc3"),
		},
		Decimals: 18,
	}
	TokenDot = types.Token{
		Symbol: "DOT",
		Address: map[types.ChainID]common.Address{
			types.ChainMainnet: common.HexToAddress("0x7083609fce4d1d8dc0c979aab8c869ea2c873402"),
			types.ChainTestnet: common.HexToAddress("0xE02dF9e3e622DeBdD69fb838bB799E3F168902c5"),
		},
		Decimals: 18,
	}
	TokenUsdt = types.Token{
		Symbol: "USDT",
		Address: map[types.ChainID]common.Address{
			types.ChainMainnet: common.HexToAddress("0x55d398326f99059ff775485246999027b3197955"),
			types.ChainTestnet: common.HexToAddress("0xE02dF9e3e622DeBdD69fb838bB799E3F168902c5"),
		},
		Decimals: 18,
	}
	TokenBtcb = types.Token{
		Symbol: "BTCB",
		Address: map[types.ChainID]common.Address{
			types.ChainMainnet: common.HexToAddress("0x7130d2a12b9bcbfae4f2634d864a1ee1ce3ead9c"),
			types.ChainTestnet: common.HexToAddress("0xE02dF9e3e622DeBdD69fb838bB799E3F168902c5"),
		},
		Decimals: 18,
	}
	TokenCub = types.Token{
		Symbol: "CUB",
		Address: map[types.ChainID]common.Address{
			types.ChainMainnet: common.HexToAddress("0x50d809c74e0b8e49e7b4c65bb3109abe3ff4c1c1"),
		},
		Decimals: 18,
	}
	TokenBleo = types.Token{
		Symbol: "bLEO",
		Address: map[types.ChainID]common.Address{
			types.ChainMainnet: common.HexToAddress("0x6421531af54c7b14ea805719035ebf1e3661c44a"),
		},
		Decimals: 18,
	}
	TokenDec = types.Token{
		Symbol: "DEC",
		Address: map[types.ChainID]common.Address{
			types.ChainMainnet: common.HexToAddress("0xe9d7023f2132d55cbd4ee1f78273cb7a3e74f10a"),
		},
		Decimals: 18,
	}
)
