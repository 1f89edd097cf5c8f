package result

import (
	"encoding/json"
	"errors"
	"fmt"
)

type (
	// Transaction is a transaction known to the node, mined or pending.
	// Block-related fields are empty for pending transactions.
	Transaction struct {
		Hash             string `json:"hash"`
		BlockHash        string `json:"blockHash,omitempty"`
		BlockNumber      uint32 `json:"blockNumber,omitempty"`
		Timestamp        int64  `json:"timestamp,omitempty"`
		Confirmations    int    `json:"confirmations,omitempty"`
		TransactionIndex int    `json:"transactionIndex,omitempty"`
		// From is the hex-encoded sender address.
		From        string `json:"from"`
		FromAddress string `json:"fromAddress"`
		// To is the hex-encoded recipient address.
		To        string `json:"to"`
		ToAddress string `json:"toAddress"`
		Value     int64  `json:"value"`
		Fee       int64  `json:"fee"`
		Data      string `json:"data,omitempty"`
		Flags     int    `json:"flags"`
	}

	// TransactionReceipt contains inclusion details of a mined transaction.
	TransactionReceipt struct {
		TransactionHash  string `json:"transactionHash"`
		TransactionIndex int    `json:"transactionIndex"`
		BlockHash        string `json:"blockHash"`
		BlockNumber      uint32 `json:"blockNumber"`
		Confirmations    int    `json:"confirmations"`
		Timestamp        int64  `json:"timestamp"`
	}

	// OutgoingTransaction is a transaction to be created or sent by the node.
	OutgoingTransaction struct {
		// From is the sender NQ-address.
		From     string      `json:"from"`
		FromType AccountType `json:"fromType"`
		// To is the recipient NQ-address.
		To     string      `json:"to"`
		ToType AccountType `json:"toType"`
		Value  int64       `json:"value"`
		Fee    int64       `json:"fee"`
		Data   string      `json:"data,omitempty"`
	}

	// TransactionOrHash is either a full transaction or its hash only,
	// depending on what the node was asked for. Exactly one of the fields
	// is set.
	TransactionOrHash struct {
		Transaction *Transaction
		Hash        string
	}

	// transactionAux is used to avoid Transaction.UnmarshalJSON recursion.
	transactionAux Transaction

	transactionReceiptAux TransactionReceipt
)

var (
	transactionFields        = []string{"hash", "from", "fromAddress", "to", "toAddress", "value", "fee", "flags"}
	transactionReceiptFields = []string{"transactionHash", "transactionIndex", "blockHash", "blockNumber",
		"confirmations", "timestamp"}
)

// UnmarshalJSON implements the json.Unmarshaler interface.
func (r *TransactionReceipt) UnmarshalJSON(data []byte) error {
	return unmarshalStrict(data, (*transactionReceiptAux)(r), transactionReceiptFields...)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	return unmarshalStrict(data, (*transactionAux)(t), transactionFields...)
}

// GetHash returns the transaction hash regardless of the variant.
func (t *TransactionOrHash) GetHash() string {
	if t.Transaction != nil {
		return t.Transaction.Hash
	}
	return t.Hash
}

// MarshalJSON implements the json.Marshaler interface.
func (t TransactionOrHash) MarshalJSON() ([]byte, error) {
	if t.Transaction != nil {
		return json.Marshal(t.Transaction)
	}
	if t.Hash == "" {
		return nil, errors.New("empty transaction")
	}
	return json.Marshal(t.Hash)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *TransactionOrHash) UnmarshalJSON(data []byte) error {
	*t = TransactionOrHash{}
	if isNull(data) {
		return errNull
	}
	err := firstOf(data,
		func(data []byte) error {
			tx := new(Transaction)
			if err := json.Unmarshal(data, tx); err != nil {
				return err
			}
			t.Transaction = tx
			return nil
		},
		func(data []byte) error {
			return json.Unmarshal(data, &t.Hash)
		},
	)
	if err != nil {
		return fmt.Errorf("neither a transaction nor a hash: %w", err)
	}
	return nil
}
