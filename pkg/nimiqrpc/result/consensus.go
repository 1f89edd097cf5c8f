package result

import (
	"encoding/json"
	"fmt"
)

// ConsensusState is the consensus state of the node.
type ConsensusState string

// Consensus states.
const (
	ConsensusConnecting  ConsensusState = "connecting"
	ConsensusSyncing     ConsensusState = "syncing"
	ConsensusEstablished ConsensusState = "established"
)

// LogLevel is a verbosity level accepted by the log method.
type LogLevel string

// Log levels.
const (
	LogTrace   LogLevel = "trace"
	LogVerbose LogLevel = "verbose"
	LogDebug   LogLevel = "debug"
	LogInfo    LogLevel = "info"
	LogWarn    LogLevel = "warn"
	LogError   LogLevel = "error"
	LogAssert  LogLevel = "assert"
)

type (
	// SyncStatus is the sync progress of the node.
	SyncStatus struct {
		StartingBlock uint32 `json:"startingBlock"`
		CurrentBlock  uint32 `json:"currentBlock"`
		HighestBlock  uint32 `json:"highestBlock"`
	}

	// SyncStatusOrBool is the result of syncing: sync progress when the
	// node is syncing, false otherwise. Status is nil for the boolean case.
	SyncStatusOrBool struct {
		Status *SyncStatus
		Bool   bool
	}
)

var syncStatusFields = []string{"startingBlock", "currentBlock", "highestBlock"}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *ConsensusState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch st := ConsensusState(str); st {
	case ConsensusConnecting, ConsensusSyncing, ConsensusEstablished:
		*s = st
		return nil
	default:
		return fmt.Errorf("invalid consensus state %q", str)
	}
}

// ParseLogLevel checks the given string to be a known log level.
func ParseLogLevel(s string) (LogLevel, error) {
	switch l := LogLevel(s); l {
	case LogTrace, LogVerbose, LogDebug, LogInfo, LogWarn, LogError, LogAssert:
		return l, nil
	default:
		return "", fmt.Errorf("invalid log level %q", s)
	}
}

// IsSyncing returns true if the node reported sync progress.
func (s *SyncStatusOrBool) IsSyncing() bool {
	return s.Status != nil || s.Bool
}

// MarshalJSON implements the json.Marshaler interface.
func (s SyncStatusOrBool) MarshalJSON() ([]byte, error) {
	if s.Status != nil {
		return json.Marshal(s.Status)
	}
	return json.Marshal(s.Bool)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *SyncStatusOrBool) UnmarshalJSON(data []byte) error {
	*s = SyncStatusOrBool{}
	if isNull(data) {
		return errNull
	}
	err := firstOf(data,
		func(data []byte) error {
			st := new(SyncStatus)
			if err := unmarshalStrict(data, st, syncStatusFields...); err != nil {
				return err
			}
			s.Status = st
			return nil
		},
		func(data []byte) error {
			return json.Unmarshal(data, &s.Bool)
		},
	)
	if err != nil {
		return fmt.Errorf("neither a sync status nor a boolean: %w", err)
	}
	return nil
}
