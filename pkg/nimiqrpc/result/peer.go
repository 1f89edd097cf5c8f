package result

import "fmt"

type (
	// PeerAddressState is the state of a peer address in the address book.
	PeerAddressState int

	// PeerConnectionState is the state of the connection to a peer.
	PeerConnectionState int

	// PeerStateCommand is a command changing the state of a peer.
	PeerStateCommand string

	// Peer describes a known peer of the node. Connection-related fields are
	// only set for connected peers.
	Peer struct {
		ID              string              `json:"id"`
		Address         string              `json:"address"`
		AddressState    PeerAddressState    `json:"addressState"`
		ConnectionState PeerConnectionState `json:"connectionState,omitempty"`
		Version         int                 `json:"version,omitempty"`
		TimeOffset      int64               `json:"timeOffset,omitempty"`
		HeadHash        string              `json:"headHash,omitempty"`
		Latency         int                 `json:"latency,omitempty"`
		Rx              int64               `json:"rx,omitempty"`
		Tx              int64               `json:"tx,omitempty"`
	}

	peerAux Peer
)

var peerFields = []string{"id", "address", "addressState"}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *Peer) UnmarshalJSON(data []byte) error {
	return unmarshalStrict(data, (*peerAux)(p), peerFields...)
}

// Peer address states.
const (
	PeerAddressNew         PeerAddressState = 1
	PeerAddressEstablished PeerAddressState = 2
	PeerAddressTried       PeerAddressState = 3
	PeerAddressFailed      PeerAddressState = 4
	PeerAddressBanned      PeerAddressState = 5
)

// Peer connection states.
const (
	PeerConnectionNew         PeerConnectionState = 1
	PeerConnectionConnecting  PeerConnectionState = 2
	PeerConnectionConnected   PeerConnectionState = 3
	PeerConnectionNegotiating PeerConnectionState = 4
	PeerConnectionEstablished PeerConnectionState = 5
	PeerConnectionClosed      PeerConnectionState = 6
)

// Peer state commands.
const (
	PeerConnect    PeerStateCommand = "connect"
	PeerDisconnect PeerStateCommand = "disconnect"
	PeerBan        PeerStateCommand = "ban"
	PeerUnban      PeerStateCommand = "unban"
)

var (
	peerAddressStateNames = map[PeerAddressState]string{
		PeerAddressNew:         "new",
		PeerAddressEstablished: "established",
		PeerAddressTried:       "tried",
		PeerAddressFailed:      "failed",
		PeerAddressBanned:      "banned",
	}
	peerConnectionStateNames = map[PeerConnectionState]string{
		PeerConnectionNew:         "new",
		PeerConnectionConnecting:  "connecting",
		PeerConnectionConnected:   "connected",
		PeerConnectionNegotiating: "negotiating",
		PeerConnectionEstablished: "established",
		PeerConnectionClosed:      "closed",
	}
)

// String implements the fmt.Stringer interface.
func (s PeerAddressState) String() string {
	if n, ok := peerAddressStateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// String implements the fmt.Stringer interface. Zero value (no connection)
// is printed as "none".
func (s PeerConnectionState) String() string {
	if s == 0 {
		return "none"
	}
	if n, ok := peerConnectionStateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// ParsePeerStateCommand checks the given string to be a known peer command.
func ParsePeerStateCommand(s string) (PeerStateCommand, error) {
	switch c := PeerStateCommand(s); c {
	case PeerConnect, PeerDisconnect, PeerBan, PeerUnban:
		return c, nil
	default:
		return "", fmt.Errorf("invalid peer state command %q", s)
	}
}
