package tokenmeta

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const erc20MetadataJSON = `[
{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

const (
	MethodSymbol   = "symbol"
	MethodName     = "name"
	MethodDecimals = "decimals"
)

//nolint:gochecknoglobals // parsed once
var erc20Metadata abi.ABI

func init() {
	var err error

	erc20Metadata, err = abi.JSON(strings.NewReader(erc20MetadataJSON))
	if err != nil {
		panic(err)
	}
}
