package result

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPeer_UnmarshalJSON(t *testing.T) {
	var peers []Peer
	require.NoError(t, json.Unmarshal([]byte(`[{
        "id": "b99034c552e9c0fd34eb95c1cdf17f5e",
        "address": "wss://seed1.nimiq-testnet.com:8080/b99034c552e9c0fd34eb95c1cdf17f5e",
        "addressState": 2,
        "connectionState": 5,
        "version": 2,
        "timeOffset": -188,
        "headHash": "59da8ba57c1f0ffd444201ca2d9f48cef7e661262781be7937bb6ef0bdbe0e4d",
        "latency": 532,
        "rx": 2122,
        "tx": 1265
    }, {
        "id": "e37dca72802c972d45b37735e9595cf0",
        "address": "wss://seed4.nimiq-testnet.com:8080/e37dca72802c972d45b37735e9595cf0",
        "addressState": 4
    }]`), &peers))
	require.Len(t, peers, 2)

	require.Equal(t, "b99034c552e9c0fd34eb95c1cdf17f5e", peers[0].ID)
	require.Equal(t, PeerAddressEstablished, peers[0].AddressState)
	require.Equal(t, PeerConnectionEstablished, peers[0].ConnectionState)
	require.Equal(t, int64(-188), peers[0].TimeOffset)
	require.Equal(t, "established", peers[0].ConnectionState.String())

	require.Equal(t, "wss://seed4.nimiq-testnet.com:8080/e37dca72802c972d45b37735e9595cf0", peers[1].Address)
	require.Equal(t, PeerAddressFailed, peers[1].AddressState)
	require.Equal(t, PeerConnectionState(0), peers[1].ConnectionState)
	require.Equal(t, "none", peers[1].ConnectionState.String())
	require.Equal(t, "failed", peers[1].AddressState.String())
}

func TestParsePeerStateCommand(t *testing.T) {
	for _, s := range []string{"connect", "disconnect", "ban", "unban"} {
		c, err := ParsePeerStateCommand(s)
		require.NoError(t, err)
		require.Equal(t, PeerStateCommand(s), c)
	}
	_, err := ParsePeerStateCommand("kick")
	require.Error(t, err)
	require.Equal(t, "unknown(9)", PeerAddressState(9).String())
}

func TestPeer_UnmarshalJSONMissingFields(t *testing.T) {
	require.Error(t, json.Unmarshal([]byte(`{}`), new(Peer)))
	require.Error(t, json.Unmarshal([]byte(`{"id":"e37dca72802c972d45b37735e9595cf0","address":"wss://seed4.nimiq-testnet.com:8080/e37dca72802c972d45b37735e9595cf0"}`), new(Peer)))
}
