/*
Package rpcclient implements a client for the JSON-RPC 2.0 interface of Nimiq
nodes.

Client is created with New or NewFromConfig and is safe for concurrent use.
Every method performs exactly one blocking HTTP request, there are no retries.
Errors are *nimiqrpc.ConnectionError, *nimiqrpc.InternalError or
*nimiqrpc.RemoteError, lookup methods return nil (or false) without an error
for missing objects.

Supported methods

	accounts
	blockNumber
	consensus
	constant
	createAccount
	createRawTransaction
	getAccount
	getBalance
	getBlockByHash
	getBlockByNumber
	getBlockTemplate
	getBlockTransactionCountByHash
	getBlockTransactionCountByNumber
	getRawTransactionInfo
	getTransactionByBlockHashAndIndex
	getTransactionByBlockNumberAndIndex
	getTransactionByHash
	getTransactionReceipt
	getTransactionsByAddress
	getWork
	hashrate
	log
	mempool
	mempoolContent
	minerAddress
	minerThreads
	minFeePerByte
	mining
	peerCount
	peerList
	peerState
	pool
	poolConfirmedBalance
	poolConnectionState
	sendRawTransaction
	sendTransaction
	submitBlock
	syncing

Any other method can be called with Client.Call.
*/
package rpcclient
