package library

type ChainType uint64

// ZeroAddress is the lower-case hex form used for default address fields
// and as the native-currency token placeholder.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

const (
	EthereumChainID  = ChainType(1)     // Ethereum Mainnet
	PolygonChainID   = ChainType(137)   // Polygon (PoS)
	BNBChainID       = ChainType(56)    // BNB Smart Chain (BSC)
	AvalancheChainID = ChainType(43114) // Avalanche C-Chain
	GnosisChainID    = ChainType(100)   // Gnosis Chain (xDai)
	ArbitrumChainID  = ChainType(42161) // Arbitrum One
	BaseChainID      = ChainType(8453)  // Base Mainnet

	// testnets
	EthereumSepoliaChainID = ChainType(11155111) // Ethereum Sepolia Testnet
	PolygonMumbaiChainID   = ChainType(80001)    // Polygon Mumbai Testnet
	PolygonAmoyChainID     = ChainType(80002)    // Polygon Amoy Testnet
	BaseSepoliaChainID     = ChainType(84532)    // Base Sepolia Testnet
	LocalDevChainID        = ChainType(31337)    // anvil / hardhat
)

func EVMChains() map[ChainType]struct{} {
	return map[ChainType]struct{}{
		EthereumChainID:        {},
		PolygonChainID:         {},
		BNBChainID:             {},
		AvalancheChainID:       {},
		GnosisChainID:          {},
		ArbitrumChainID:        {},
		BaseChainID:            {},
		EthereumSepoliaChainID: {},
		PolygonMumbaiChainID:   {},
		PolygonAmoyChainID:     {},
		BaseSepoliaChainID:     {},
		LocalDevChainID:        {},
	}
}

func IsEvmChain(chainID ChainType) bool {
	_, ok := EVMChains()[chainID]

	return ok
}
