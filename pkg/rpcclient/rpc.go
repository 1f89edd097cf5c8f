package rpcclient

import (
	"encoding/json"
	"fmt"

	"github.com/nimiq-community/nimiq-go/pkg/nimiqrpc"
	"github.com/nimiq-community/nimiq-go/pkg/nimiqrpc/result"
)

// DefaultTransactionsLimit is the number of transactions GetTransactionsByAddress
// returns at most when no limit is given.
const DefaultTransactionsLimit = 1000

// Accounts returns the accounts of the node wallet.
func (c *Client) Accounts() ([]result.Account, error) {
	var resp []result.Account
	if err := c.performRequest("accounts", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// BlockNumber returns the height of the most recent block.
func (c *Client) BlockNumber() (uint32, error) {
	var resp uint32
	if err := c.performRequest("blockNumber", nil, &resp); err != nil {
		return 0, err
	}
	return resp, nil
}

// Consensus returns the consensus state of the node.
func (c *Client) Consensus() (result.ConsensusState, error) {
	var resp result.ConsensusState
	if err := c.performRequest("consensus", nil, &resp); err != nil {
		return "", err
	}
	return resp, nil
}

// Constant returns the value of the given node constant.
func (c *Client) Constant(name string) (int64, error) {
	return c.constant(name)
}

// SetConstant overrides the value of the given node constant and returns
// the new value.
func (c *Client) SetConstant(name string, value int64) (int64, error) {
	return c.constant(name, value)
}

// ResetConstant restores the default value of the given node constant and
// returns it.
func (c *Client) ResetConstant(name string) (int64, error) {
	return c.constant(name, "reset")
}

func (c *Client) constant(name string, value ...interface{}) (int64, error) {
	var (
		params = append([]interface{}{name}, value...)
		resp   int64
	)
	if err := c.performRequest("constant", params, &resp); err != nil {
		return 0, err
	}
	return resp, nil
}

// CreateAccount creates a new account and stores its private key in the
// node wallet.
func (c *Client) CreateAccount() (*result.Wallet, error) {
	var resp = new(result.Wallet)
	if err := c.performRequest("createAccount", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateRawTransaction creates and signs a transaction without sending it.
// The transaction is returned in hex-encoded form.
func (c *Client) CreateRawTransaction(tx result.OutgoingTransaction) (string, error) {
	var (
		params = []interface{}{tx}
		resp   string
	)
	if err := c.performRequest("createRawTransaction", params, &resp); err != nil {
		return "", err
	}
	return resp, nil
}

// GetAccount returns the account (of any kind) for the given address.
func (c *Client) GetAccount(address string) (*result.Account, error) {
	var (
		params = []interface{}{address}
		resp   = new(result.Account)
	)
	if err := c.performRequest("getAccount", params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetBalance returns the balance of the given address in the smallest unit.
func (c *Client) GetBalance(address string) (int64, error) {
	var (
		params = []interface{}{address}
		resp   int64
	)
	if err := c.performRequest("getBalance", params, &resp); err != nil {
		return 0, err
	}
	return resp, nil
}

// GetBlockByHash returns a block by its hash, nil is returned if there is no
// such block. When fullTransactions is set, the block contains full
// transactions instead of their hashes.
func (c *Client) GetBlockByHash(hash string, fullTransactions bool) (*result.Block, error) {
	return c.getBlock("getBlockByHash", hash, fullTransactions)
}

// GetBlockByNumber returns a block by its height, nil is returned if there is
// no such block. When fullTransactions is set, the block contains full
// transactions instead of their hashes.
func (c *Client) GetBlockByNumber(height uint32, fullTransactions bool) (*result.Block, error) {
	return c.getBlock("getBlockByNumber", height, fullTransactions)
}

func (c *Client) getBlock(method string, param interface{}, fullTransactions bool) (*result.Block, error) {
	var (
		params = []interface{}{param, fullTransactions}
		resp   = new(result.Block)
	)
	found, err := c.performLookup(method, params, resp)
	if err != nil || !found {
		return nil, err
	}
	return resp, nil
}

// GetBlockTemplate returns a template to build the next block for mining. If
// address is empty, the node uses its own miner address and extra data.
func (c *Client) GetBlockTemplate(address string, extraData string) (*result.BlockTemplate, error) {
	var (
		params []interface{}
		resp   = new(result.BlockTemplate)
	)
	if address != "" {
		params = []interface{}{address, extraData}
	}
	if err := c.performRequest("getBlockTemplate", params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetBlockTransactionCountByHash returns the number of transactions in the
// block with the given hash, false is returned if there is no such block.
func (c *Client) GetBlockTransactionCountByHash(hash string) (int, bool, error) {
	return c.getCount("getBlockTransactionCountByHash", hash)
}

// GetBlockTransactionCountByNumber returns the number of transactions in the
// block at the given height, false is returned if there is no such block.
func (c *Client) GetBlockTransactionCountByNumber(height uint32) (int, bool, error) {
	return c.getCount("getBlockTransactionCountByNumber", height)
}

func (c *Client) getCount(method string, param interface{}) (int, bool, error) {
	var (
		params = []interface{}{param}
		resp   int
	)
	found, err := c.performLookup(method, params, &resp)
	if err != nil || !found {
		return 0, false, err
	}
	return resp, true, nil
}

// GetTransactionByBlockHashAndIndex returns the transaction at the given
// index of the block with the given hash or nil if there is no such
// transaction.
func (c *Client) GetTransactionByBlockHashAndIndex(hash string, index int) (*result.Transaction, error) {
	return c.getTransaction("getTransactionByBlockHashAndIndex", hash, index)
}

// GetTransactionByBlockNumberAndIndex returns the transaction at the given
// index of the block at the given height or nil if there is no such
// transaction.
func (c *Client) GetTransactionByBlockNumberAndIndex(height uint32, index int) (*result.Transaction, error) {
	return c.getTransaction("getTransactionByBlockNumberAndIndex", height, index)
}

// GetTransactionByHash returns the transaction with the given hash or nil if
// it's unknown to the node.
func (c *Client) GetTransactionByHash(hash string) (*result.Transaction, error) {
	return c.getTransaction("getTransactionByHash", hash)
}

func (c *Client) getTransaction(method string, params ...interface{}) (*result.Transaction, error) {
	var resp = new(result.Transaction)
	found, err := c.performLookup(method, params, resp)
	if err != nil || !found {
		return nil, err
	}
	return resp, nil
}

// GetTransactionReceipt returns the receipt of the transaction with the given
// hash or nil if the transaction is not mined.
func (c *Client) GetTransactionReceipt(hash string) (*result.TransactionReceipt, error) {
	var (
		params = []interface{}{hash}
		resp   = new(result.TransactionReceipt)
	)
	found, err := c.performLookup("getTransactionReceipt", params, resp)
	if err != nil || !found {
		return nil, err
	}
	return resp, nil
}

// GetTransactionsByAddress returns the latest transactions sent or received
// by the given address. Non-positive limit is not sent, the node applies
// DefaultTransactionsLimit then.
func (c *Client) GetTransactionsByAddress(address string, limit int) ([]result.Transaction, error) {
	var (
		params = []interface{}{address}
		resp   []result.Transaction
	)
	if limit > 0 {
		params = append(params, limit)
	}
	if err := c.performRequest("getTransactionsByAddress", params, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetRawTransactionInfo deserializes the given hex-encoded transaction and
// returns the node's view of it.
func (c *Client) GetRawTransactionInfo(rawTx string) (*result.Transaction, error) {
	var (
		params = []interface{}{rawTx}
		resp   = new(result.Transaction)
	)
	if err := c.performRequest("getRawTransactionInfo", params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetWork returns proof-of-work instructions for an external miner. If
// address is empty, the node uses its own miner address and extra data.
func (c *Client) GetWork(address string, extraData string) (*result.WorkInstructions, error) {
	var (
		params []interface{}
		resp   = new(result.WorkInstructions)
	)
	if address != "" {
		params = []interface{}{address, extraData}
	}
	if err := c.performRequest("getWork", params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Hashrate returns the estimated hashes per second of the local miner.
func (c *Client) Hashrate() (float64, error) {
	var resp float64
	if err := c.performRequest("hashrate", nil, &resp); err != nil {
		return 0, err
	}
	return resp, nil
}

// Log sets the log level of the node for the given tag, "*" is for all tags.
func (c *Client) Log(tag string, level result.LogLevel) (bool, error) {
	var (
		params = []interface{}{tag, level}
		resp   bool
	)
	if err := c.performRequest("log", params, &resp); err != nil {
		return false, err
	}
	return resp, nil
}

// Mempool returns the mempool summary.
func (c *Client) Mempool() (*result.MempoolInfo, error) {
	var resp = new(result.MempoolInfo)
	if err := c.performRequest("mempool", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// MempoolContent returns the transactions of the mempool, full ones if
// fullTransactions is set and only hashes otherwise.
func (c *Client) MempoolContent(fullTransactions bool) ([]result.TransactionOrHash, error) {
	var (
		params = []interface{}{fullTransactions}
		resp   []result.TransactionOrHash
	)
	if err := c.performRequest("mempoolContent", params, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// MinerAddress returns the NQ-address the node mines to.
func (c *Client) MinerAddress() (string, error) {
	var resp string
	if err := c.performRequest("minerAddress", nil, &resp); err != nil {
		return "", err
	}
	return resp, nil
}

// MinerThreads returns the number of CPU threads used by the miner.
func (c *Client) MinerThreads() (int, error) {
	return c.minerThreads()
}

// SetMinerThreads changes the number of CPU threads used by the miner and
// returns the new value.
func (c *Client) SetMinerThreads(threads int) (int, error) {
	return c.minerThreads(threads)
}

func (c *Client) minerThreads(threads ...interface{}) (int, error) {
	var resp int
	if err := c.performRequest("minerThreads", threads, &resp); err != nil {
		return 0, err
	}
	return resp, nil
}

// MinFeePerByte returns the minimum fee per byte accepted by the mempool.
func (c *Client) MinFeePerByte() (int64, error) {
	return c.minFeePerByte()
}

// SetMinFeePerByte changes the minimum fee per byte accepted by the mempool
// and returns the new value.
func (c *Client) SetMinFeePerByte(fee int64) (int64, error) {
	return c.minFeePerByte(fee)
}

func (c *Client) minFeePerByte(fee ...interface{}) (int64, error) {
	var resp int64
	if err := c.performRequest("minFeePerByte", fee, &resp); err != nil {
		return 0, err
	}
	return resp, nil
}

// Mining returns true if the node is mining.
func (c *Client) Mining() (bool, error) {
	return c.mining()
}

// SetMining starts or stops the miner and returns the new state.
func (c *Client) SetMining(enabled bool) (bool, error) {
	return c.mining(enabled)
}

func (c *Client) mining(enabled ...interface{}) (bool, error) {
	var resp bool
	if err := c.performRequest("mining", enabled, &resp); err != nil {
		return false, err
	}
	return resp, nil
}

// PeerCount returns the number of peers connected to the node.
func (c *Client) PeerCount() (int, error) {
	var resp int
	if err := c.performRequest("peerCount", nil, &resp); err != nil {
		return 0, err
	}
	return resp, nil
}

// PeerList returns all peers known to the node.
func (c *Client) PeerList() ([]result.Peer, error) {
	var resp []result.Peer
	if err := c.performRequest("peerList", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// PeerState returns the state of the peer with the given address or nil if
// the address is unknown.
func (c *Client) PeerState(address string) (*result.Peer, error) {
	return c.peerState(address)
}

// SetPeerState applies the command to the peer with the given address and
// returns its new state.
func (c *Client) SetPeerState(address string, cmd result.PeerStateCommand) (*result.Peer, error) {
	return c.peerState(address, cmd)
}

func (c *Client) peerState(params ...interface{}) (*result.Peer, error) {
	var resp = new(result.Peer)
	found, err := c.performLookup("peerState", params, resp)
	if err != nil || !found {
		return nil, err
	}
	return resp, nil
}

// Pool returns the mining pool the node is connected to, an empty string is
// returned if pool mining is disabled.
func (c *Client) Pool() (string, error) {
	return c.pool()
}

// SetPool enables pool mining with the given pool address (host:port) and
// returns the new pool.
func (c *Client) SetPool(address string) (string, error) {
	return c.pool(address)
}

// SetPoolMining enables pool mining with the previously used pool or disables
// it and returns the new pool, empty if pool mining is disabled.
func (c *Client) SetPoolMining(enabled bool) (string, error) {
	return c.pool(enabled)
}

// pool returns an empty string both for null and false results, the node
// uses either to report disabled pool mining.
func (c *Client) pool(params ...interface{}) (string, error) {
	var resp json.RawMessage
	found, err := c.performLookup("pool", params, &resp)
	if err != nil || !found {
		return "", err
	}
	var addr string
	if err := json.Unmarshal(resp, &addr); err == nil {
		return addr, nil
	}
	var enabled bool
	if err := json.Unmarshal(resp, &enabled); err != nil || enabled {
		return "", &nimiqrpc.InternalError{Err: fmt.Errorf("unexpected pool result %s", resp)}
	}
	return "", nil
}

// PoolConfirmedBalance returns the balance confirmed by the mining pool.
func (c *Client) PoolConfirmedBalance() (int64, error) {
	var resp int64
	if err := c.performRequest("poolConfirmedBalance", nil, &resp); err != nil {
		return 0, err
	}
	return resp, nil
}

// PoolConnectionState returns the state of the connection to the mining pool.
func (c *Client) PoolConnectionState() (result.PoolConnectionState, error) {
	var resp result.PoolConnectionState
	if err := c.performRequest("poolConnectionState", nil, &resp); err != nil {
		return 0, err
	}
	return resp, nil
}

// SendRawTransaction broadcasts the hex-encoded signed transaction and
// returns its hash.
func (c *Client) SendRawTransaction(rawTx string) (string, error) {
	var (
		params = []interface{}{rawTx}
		resp   string
	)
	if err := c.performRequest("sendRawTransaction", params, &resp); err != nil {
		return "", err
	}
	return resp, nil
}

// SendTransaction creates, signs and broadcasts a transaction from an account
// of the node wallet and returns its hash.
func (c *Client) SendTransaction(tx result.OutgoingTransaction) (string, error) {
	var (
		params = []interface{}{tx}
		resp   string
	)
	if err := c.performRequest("sendTransaction", params, &resp); err != nil {
		return "", err
	}
	return resp, nil
}

// SubmitBlock submits the hex-encoded mined block to the node.
func (c *Client) SubmitBlock(block string) error {
	var params = []interface{}{block}
	_, err := c.performLookup("submitBlock", params, new(interface{}))
	return err
}

// Syncing returns sync progress if the node is syncing and false otherwise.
func (c *Client) Syncing() (result.SyncStatusOrBool, error) {
	var resp result.SyncStatusOrBool
	if err := c.performRequest("syncing", nil, &resp); err != nil {
		return result.SyncStatusOrBool{}, err
	}
	return resp, nil
}
