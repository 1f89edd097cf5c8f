package result

import (
	"encoding/json"
	"errors"
	"fmt"
)

// AccountType is the type of an account as reported by the node.
type AccountType int

// Account types.
const (
	// BasicAccountType is a normal account.
	BasicAccountType AccountType = 0
	// VestingAccountType is a vesting contract.
	VestingAccountType AccountType = 1
	// HTLCAccountType is a hashed time-locked contract.
	HTLCAccountType AccountType = 2
)

// String implements the fmt.Stringer interface.
func (t AccountType) String() string {
	switch t {
	case BasicAccountType:
		return "basic"
	case VestingAccountType:
		return "vesting"
	case HTLCAccountType:
		return "htlc"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParseAccountType parses the name of an account type as printed by String.
func ParseAccountType(s string) (AccountType, error) {
	for _, t := range []AccountType{BasicAccountType, VestingAccountType, HTLCAccountType} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("invalid account type %q", s)
}

type (
	// BasicAccount contains the fields common to every account kind.
	BasicAccount struct {
		// ID is the hex-encoded 20 byte address.
		ID string `json:"id"`
		// Address is the user friendly address (NQ-address).
		Address string `json:"address"`
		// Balance in the smallest unit.
		Balance int64       `json:"balance"`
		Type    AccountType `json:"type"`
	}

	// VestingContract is a vesting contract account.
	VestingContract struct {
		BasicAccount
		Owner              string `json:"owner"`
		OwnerAddress       string `json:"ownerAddress"`
		VestingStart       uint32 `json:"vestingStart"`
		VestingStepBlocks  uint32 `json:"vestingStepBlocks"`
		VestingStepAmount  int64  `json:"vestingStepAmount"`
		VestingTotalAmount int64  `json:"vestingTotalAmount"`
	}

	// HTLC is a hashed time-locked contract account.
	HTLC struct {
		BasicAccount
		Sender           string `json:"sender"`
		SenderAddress    string `json:"senderAddress"`
		Recipient        string `json:"recipient"`
		RecipientAddress string `json:"recipientAddress"`
		HashRoot         string `json:"hashRoot"`
		HashAlgorithm    int    `json:"hashAlgorithm"`
		HashCount        int    `json:"hashCount"`
		Timeout          uint32 `json:"timeout"`
		TotalAmount      int64  `json:"totalAmount"`
	}

	// Account is one of BasicAccount, VestingContract or HTLC, exactly one
	// of the fields is set. The node doesn't tag the variant, so it's
	// detected by the set of fields present: HTLC is tried first, then
	// VestingContract and then BasicAccount. This ordering is a heuristic,
	// a future account kind sharing fields with these may be misdetected.
	Account struct {
		Basic   *BasicAccount
		Vesting *VestingContract
		HTLC    *HTLC
	}

	// Wallet is a newly created account with its keys.
	Wallet struct {
		ID         string `json:"id"`
		Address    string `json:"address"`
		PublicKey  string `json:"publicKey"`
		PrivateKey string `json:"privateKey,omitempty"`
	}

	walletAux Wallet
)

var walletFields = []string{"id", "address", "publicKey"}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (w *Wallet) UnmarshalJSON(data []byte) error {
	return unmarshalStrict(data, (*walletAux)(w), walletFields...)
}

var (
	basicAccountFields    = []string{"id", "address", "balance", "type"}
	vestingContractFields = append([]string{"owner", "ownerAddress", "vestingStart",
		"vestingStepBlocks", "vestingStepAmount", "vestingTotalAmount"}, basicAccountFields...)
	htlcFields = append([]string{"sender", "senderAddress", "recipient", "recipientAddress",
		"hashRoot", "hashAlgorithm", "hashCount", "timeout", "totalAmount"}, basicAccountFields...)
)

// UnknownAccountType is returned by Account.Kind for an empty Account.
const UnknownAccountType AccountType = -1

// Kind returns the detected variant of the account, UnknownAccountType if
// none of the variants is set.
func (a *Account) Kind() AccountType {
	switch {
	case a.HTLC != nil:
		return HTLCAccountType
	case a.Vesting != nil:
		return VestingAccountType
	case a.Basic != nil:
		return BasicAccountType
	default:
		return UnknownAccountType
	}
}

// Common returns the fields shared by all account kinds, nil for an empty
// Account.
func (a *Account) Common() *BasicAccount {
	switch {
	case a.HTLC != nil:
		return &a.HTLC.BasicAccount
	case a.Vesting != nil:
		return &a.Vesting.BasicAccount
	default:
		return a.Basic
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (a Account) MarshalJSON() ([]byte, error) {
	switch {
	case a.HTLC != nil:
		return json.Marshal(a.HTLC)
	case a.Vesting != nil:
		return json.Marshal(a.Vesting)
	case a.Basic != nil:
		return json.Marshal(a.Basic)
	default:
		return nil, errors.New("empty account")
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *Account) UnmarshalJSON(data []byte) error {
	*a = Account{}
	if isNull(data) {
		return errNull
	}
	err := firstOf(data,
		func(data []byte) error {
			h := new(HTLC)
			if err := unmarshalStrict(data, h, htlcFields...); err != nil {
				return err
			}
			a.HTLC = h
			return nil
		},
		func(data []byte) error {
			v := new(VestingContract)
			if err := unmarshalStrict(data, v, vestingContractFields...); err != nil {
				return err
			}
			a.Vesting = v
			return nil
		},
		func(data []byte) error {
			b := new(BasicAccount)
			if err := unmarshalStrict(data, b, basicAccountFields...); err != nil {
				return err
			}
			a.Basic = b
			return nil
		},
	)
	if err != nil {
		return fmt.Errorf("not an account: %w", err)
	}
	return nil
}
