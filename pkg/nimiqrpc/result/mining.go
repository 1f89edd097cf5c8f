package result

import (
	"encoding/json"
	"fmt"
)

// PoolConnectionState is the state of the connection to the mining pool.
type PoolConnectionState int

// Pool connection states.
const (
	PoolConnected  PoolConnectionState = 0
	PoolConnecting PoolConnectionState = 1
	PoolClosed     PoolConnectionState = 2
)

// WorkInstructions is the proof-of-work job for an external miner.
type WorkInstructions struct {
	// Data is the hex-encoded block header.
	Data string `json:"data"`
	// Suffix is the hex-encoded block without the header.
	Suffix    string `json:"suffix"`
	Target    uint32 `json:"target"`
	Algorithm string `json:"algorithm"`
}

type workInstructionsAux WorkInstructions

var workInstructionsFields = []string{"data", "suffix", "target", "algorithm"}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (w *WorkInstructions) UnmarshalJSON(data []byte) error {
	return unmarshalStrict(data, (*workInstructionsAux)(w), workInstructionsFields...)
}

// String implements the fmt.Stringer interface.
func (s PoolConnectionState) String() string {
	switch s {
	case PoolConnected:
		return "connected"
	case PoolConnecting:
		return "connecting"
	case PoolClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *PoolConnectionState) UnmarshalJSON(data []byte) error {
	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return err
	}
	if i < int(PoolConnected) || i > int(PoolClosed) {
		return fmt.Errorf("invalid pool connection state %d", i)
	}
	*s = PoolConnectionState(i)
	return nil
}
