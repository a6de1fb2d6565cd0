package assetswap

// ChainID represents a blockchain chain ID
type ChainID int64

const (
	ChainIDMainnet ChainID = 1    // Ethereum mainnet
	ChainIDGanache ChainID = 1337 // Local development chain
)

// SupportedChainIDs lists all chain IDs with default contract addresses
var SupportedChainIDs = []ChainID{ChainIDMainnet, ChainIDGanache}

// ContractAddresses holds the protocol contract addresses for a chain.
// Empty fields mean the capability is not deployed there.
type ContractAddresses struct {
	Exchange     string
	ERC20Proxy   string
	ERC721Proxy  string
	ERC1155Proxy string
	Forwarder    string
}

// DefaultContractAddresses maps chain IDs to their contract addresses
var DefaultContractAddresses = map[ChainID]ContractAddresses{
	ChainIDMainnet: {
		Exchange:     "0x61935cbdd02287b511119ddb11aeb42f1593b7ef",
		ERC20Proxy:   "0x95e6f48254609a6ee006f7d493c8e5fb97094cef",
		ERC721Proxy:  "0xefc70a1b18c432bdc64b596838b4d138f6bc6cad",
		ERC1155Proxy: "0x7eefbd48fd63d441ec7435d024ec7c5131019add",
		Forwarder:    "0x6958f5e95332d93d21af0d7b9ca85b8212fee0a5",
	},
	ChainIDGanache: {
		Exchange:     "0x48bacb9266a570d521063ef5dd96e61686dbe788",
		ERC20Proxy:   "0x1dc4c1cefef38a777b15aa20260a54e584b16c48",
		ERC721Proxy:  "0x1d7022f5b17d2f8b695918fb48fa1089c9f85401",
		ERC1155Proxy: "0x6a4a62e5a7ed13c361b176a5f62c2ee620ac0df8",
		Forwarder:    "",
	},
}
