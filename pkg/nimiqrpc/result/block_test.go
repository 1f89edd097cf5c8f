package result

import (
	"encoding/json"
	"testing"

	"github.com/nimiq-community/nimiq-go/internal/testserdes"
	"github.com/stretchr/testify/require"
)

const blockHeader = `
    "number": 11608,
    "hash": "bc3945d22c9f6441409a6e539728534a4fc97859bda87333071fad9dad942786",
    "pow": "00000000000000000000000000000000000000000000000000000000000000aa",
    "parentHash": "3f0f5a5d8d0a4a5e9e6c8d5c6a1c0a2c2d4c9a7e2f0e4b1c3d5e7f9a1b3c5d7e",
    "nonce": 9541,
    "bodyHash": "2e1f3a9b8d7c6b5a4938271605f4e3d2c1b0a9f8e7d6c5b4a3928170f6e5d4c3",
    "accountsHash": "8f6e5d4c3b2a1908f7e6d5c4b3a29180f7e6d5c4b3a2918070f6e5d4c3b2a190",
    "difficulty": "246.6012700617",
    "timestamp": 1523412456,
    "confirmations": 718846,
    "miner": "355b4fe2304a9c818b9f0c3c1aaaf4ad4f6a0279",
    "minerAddress": "NQ16 6MDL YQHG 9AE8 32UY 1GX1 MAPL MM7N L0KR",
    "extraData": "",
    "size": 612,`

func TestBlock_UnmarshalJSON(t *testing.T) {
	t.Run("hashes", func(t *testing.T) {
		var b Block
		require.NoError(t, json.Unmarshal([]byte(`{`+blockHeader+`
            "transactions": ["78957b87ab5546e11e9540ce5a37ebbf93a0ebd73c0ce05f137288f30ee9f430"]}`), &b))
		require.Equal(t, uint32(11608), b.Number)
		require.Equal(t, "246.6012700617", b.Difficulty)
		require.Equal(t, uint32(9541), b.Nonce)
		require.Len(t, b.Transactions, 1)
		require.Nil(t, b.Transactions[0].Transaction)
		require.Equal(t, "78957b87ab5546e11e9540ce5a37ebbf93a0ebd73c0ce05f137288f30ee9f430", b.Transactions[0].Hash)
		testserdes.MarshalUnmarshalJSON(t, &b, new(Block))
	})
	t.Run("transactions", func(t *testing.T) {
		var b Block
		require.NoError(t, json.Unmarshal([]byte(`{`+blockHeader+`
            "transactions": [`+transactionJSON+`]}`), &b))
		require.Len(t, b.Transactions, 1)
		require.NotNil(t, b.Transactions[0].Transaction)
		require.Equal(t, int64(2636710000), b.Transactions[0].Transaction.Value)
		testserdes.MarshalUnmarshalJSON(t, &b, new(Block))
	})
	t.Run("bad transaction", func(t *testing.T) {
		require.Error(t, json.Unmarshal([]byte(`{`+blockHeader+`"transactions": [1]}`), new(Block)))
	})
}

func TestBlockTemplate_UnmarshalJSON(t *testing.T) {
	var bt BlockTemplate
	require.NoError(t, json.Unmarshal([]byte(`{
        "header": {
            "version": 1,
            "prevHash": "b6d0644d171957dfc5e85ec36fcb4772a7783c6c47da23d0b7fe9ceb1a6dd1d7",
            "interlinkHash": "0000000000000000000000000000000000000000000000000000000000000000",
            "accountsHash": "1d1a3ad8d4d8f8e1a1f3b9c3c5b2d0e2c6f2b9a4d1a8c5f0e2b3d4c5a6b7c8d9",
            "nBits": 503371226,
            "height": 901883
        },
        "interlink": "11",
        "target": 503371226,
        "body": {
            "hash": "17e250f1977ae85bdbe09468efef83587885419ee1074ddae54d3fb5a96e1f54",
            "minerAddr": "0000000000000000000000000000000000000000",
            "extraData": "",
            "transactions": [],
            "prunedAccounts": [],
            "merkleHashes": ["0000000000000000000000000000000000000000000000000000000000000000"]
        }
    }`), &bt))
	require.Equal(t, uint32(901883), bt.Header.Height)
	require.Equal(t, uint32(503371226), bt.Target)
	require.Equal(t, "17e250f1977ae85bdbe09468efef83587885419ee1074ddae54d3fb5a96e1f54", bt.Body.Hash)
	require.Len(t, bt.Body.MerkleHashes, 1)
	testserdes.MarshalUnmarshalJSON(t, &bt, new(BlockTemplate))
}

func TestWorkInstructions_UnmarshalJSON(t *testing.T) {
	var w WorkInstructions
	require.NoError(t, json.Unmarshal([]byte(`{
        "data": "00015a7d47ddf5152a7d06a14ea291831c3fc7af20b88240c5ae839683021bcee3e279877b3de0da8ce8878bf225f6782a2663eff9a03478c15ba839fde9f1dc3dd9e5f0cd4dbc96a30130de130eb52d8160e9197e2ccf435d8d24a09b518a5e05da87a8658ed8c02531f66a7d31757b08c88d283654ed477e5e2fec21a7ca8449241e00d620000dc2fa5e763bda00000000",
        "suffix": "11fad9806b8b4167517c162fa113c09606b44d24f8020804a0f756db085546ff585adfdedad9085d36527a8485b497728446c35b9b6c3db263c07dd0a1f487b1639aa37ff60ba3cf6ed8ab5146fee50a23ebd84ea37dca8c49b31e57e05c9e6c57f09a3b282b71ec2be66c1bc8268b5326bb222b11a0d0a4acd2a93c9e8a8713fe4383e9d5df3b1bf008c535281086b2bcc20e494393aea1475a5c3f13673de2cf7314d201b7cc7f01e0e6f0e07dd9249dc598f4e5ee8801f50000000000",
        "target": 503371296,
        "algorithm": "nimiq-argon2"
    }`), &w))
	require.Equal(t, uint32(503371296), w.Target)
	require.Equal(t, "nimiq-argon2", w.Algorithm)
}

func TestPoolConnectionState(t *testing.T) {
	var s PoolConnectionState
	require.NoError(t, json.Unmarshal([]byte(`2`), &s))
	require.Equal(t, PoolClosed, s)
	require.Equal(t, "closed", s.String())
	require.Equal(t, "connected", PoolConnected.String())
	require.Error(t, json.Unmarshal([]byte(`3`), &s))
	require.Error(t, json.Unmarshal([]byte(`"closed"`), &s))
}

func TestBlock_UnmarshalJSONMissingFields(t *testing.T) {
	for _, f := range blockFields {
		var obj map[string]json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(`{`+blockHeader+`"transactions": []}`), &obj))
		delete(obj, f)
		data, err := json.Marshal(obj)
		require.NoError(t, err)
		require.Error(t, json.Unmarshal(data, new(Block)), f)
	}
	require.Error(t, json.Unmarshal([]byte(`{"unexpected":1}`), new(Block)))
}

func TestBlockTemplate_UnmarshalJSONMissingFields(t *testing.T) {
	require.Error(t, json.Unmarshal([]byte(`{}`), new(BlockTemplate)))
	require.Error(t, json.Unmarshal([]byte(`{"header":{"version":1},"interlink":"","target":3,
        "body":{"hash":"","minerAddr":"","extraData":"","transactions":[],"prunedAccounts":[],"merkleHashes":[]}}`), new(BlockTemplate)))
	require.Error(t, json.Unmarshal([]byte(`{"header":{"version":1,"prevHash":"","interlinkHash":"","accountsHash":"","nBits":1,"height":2},
        "interlink":"","target":3,"body":{"hash":""}}`), new(BlockTemplate)))
	require.Error(t, json.Unmarshal([]byte(`{"data":"","suffix":"","target":1}`), new(WorkInstructions)))
}
