package result

type (
	// Block is a block of the main chain. Transactions are either full
	// transactions or hashes only, depending on the request.
	Block struct {
		Number        uint32 `json:"number"`
		Hash          string `json:"hash"`
		PoW           string `json:"pow"`
		ParentHash    string `json:"parentHash"`
		Nonce         uint32 `json:"nonce"`
		BodyHash      string `json:"bodyHash"`
		AccountsHash  string `json:"accountsHash"`
		Difficulty    string `json:"difficulty"`
		Timestamp     int64  `json:"timestamp"`
		Confirmations int    `json:"confirmations"`
		// Miner is the hex-encoded miner address.
		Miner        string              `json:"miner"`
		MinerAddress string              `json:"minerAddress"`
		ExtraData    string              `json:"extraData"`
		Size         int                 `json:"size"`
		Transactions []TransactionOrHash `json:"transactions"`
	}

	// BlockTemplateHeader is the header part of BlockTemplate.
	BlockTemplateHeader struct {
		Version       int    `json:"version"`
		PrevHash      string `json:"prevHash"`
		InterlinkHash string `json:"interlinkHash"`
		AccountsHash  string `json:"accountsHash"`
		NBits         uint32 `json:"nBits"`
		Height        uint32 `json:"height"`
	}

	// BlockTemplateBody is the body part of BlockTemplate.
	BlockTemplateBody struct {
		Hash           string   `json:"hash"`
		MinerAddr      string   `json:"minerAddr"`
		ExtraData      string   `json:"extraData"`
		Transactions   []string `json:"transactions"`
		PrunedAccounts []string `json:"prunedAccounts"`
		MerkleHashes   []string `json:"merkleHashes"`
	}

	// BlockTemplate is a block to be mined, as returned by getBlockTemplate.
	BlockTemplate struct {
		Header    BlockTemplateHeader `json:"header"`
		Interlink string              `json:"interlink"`
		Body      BlockTemplateBody   `json:"body"`
		Target    uint32              `json:"target"`
	}

	// Aux types are used to avoid UnmarshalJSON recursion.
	blockAux               Block
	blockTemplateHeaderAux BlockTemplateHeader
	blockTemplateBodyAux   BlockTemplateBody
	blockTemplateAux       BlockTemplate
)

var (
	blockFields = []string{"number", "hash", "pow", "parentHash", "nonce", "bodyHash",
		"accountsHash", "difficulty", "timestamp", "confirmations", "miner", "minerAddress",
		"extraData", "size", "transactions"}
	blockTemplateHeaderFields = []string{"version", "prevHash", "interlinkHash", "accountsHash", "nBits", "height"}
	blockTemplateBodyFields   = []string{"hash", "minerAddr", "extraData", "transactions", "prunedAccounts", "merkleHashes"}
	blockTemplateFields       = []string{"header", "interlink", "body", "target"}
)

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *Block) UnmarshalJSON(data []byte) error {
	return unmarshalStrict(data, (*blockAux)(b), blockFields...)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (h *BlockTemplateHeader) UnmarshalJSON(data []byte) error {
	return unmarshalStrict(data, (*blockTemplateHeaderAux)(h), blockTemplateHeaderFields...)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *BlockTemplateBody) UnmarshalJSON(data []byte) error {
	return unmarshalStrict(data, (*blockTemplateBodyAux)(b), blockTemplateBodyFields...)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *BlockTemplate) UnmarshalJSON(data []byte) error {
	return unmarshalStrict(data, (*blockTemplateAux)(t), blockTemplateFields...)
}
