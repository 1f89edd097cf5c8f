package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nimiq-community/nimiq-go/cli/app"
	"github.com/nimiq-community/nimiq-go/cli/input"
	"github.com/nimiq-community/nimiq-go/pkg/config"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"golang.org/x/term"
)

const (
	testAddress1 = "NQ05 9VGU 0TYE NXBH MVLR E4JY UG6N 5701 MX9F"
	testAddress2 = "NQ87 L8PA X5U4 G4QC KCTG UGPY FLS5 D06Y 4HF1"

	testBlockHash = "bc3945d22c9f6441409a6e539728534a4fc97859bda87333071fad9dad942786"
	testTxHash    = "78957b87ab5546e11e9540ce5a37ebbf93a0ebd73c0ce05f137288f30ee9f430"

	testTransaction = `{"hash":"` + testTxHash + `","blockHash":"` + testBlockHash + `","blockNumber":11608,"timestamp":1523412456,"confirmations":715,"transactionIndex":0,` +
		`"from":"4f61c06feeb7971af6997125fe40d629c01af92f","fromAddress":"` + testAddress1 + `",` +
		`"to":"a22eaf17848130c9b370e42ff7d345680df245e1","toAddress":"` + testAddress2 + `",` +
		`"value":150000,"fee":138,"data":null,"flags":0}`
	testPendingTransaction = `{"hash":"` + testTxHash + `",` +
		`"from":"4f61c06feeb7971af6997125fe40d629c01af92f","fromAddress":"` + testAddress1 + `",` +
		`"to":"a22eaf17848130c9b370e42ff7d345680df245e1","toAddress":"` + testAddress2 + `",` +
		`"value":150000,"fee":138,"flags":0}`
	testBlock = `{"number":11608,"hash":"` + testBlockHash + `","pow":"00000000000000090e7c19e2d6a54da8f4ba9bb0ec1e13e1c3fd7b3e3e0ab1b1",` +
		`"parentHash":"be9d7d6e5a7a4eb7c5a1b3a0a1a9fcb4ca5bd4a1a3ca8f29e5e1c7a1d93ab2b4","nonce":20,` +
		`"bodyHash":"aa5d2a2a6a9b8ea0b7bc0f8bd7a4c8f8c3d9c1b0a3a2d3a3c7b1e5b0e3d3a4b5","accountsHash":"4ab29b1d2e0a1b7e9b6c9b8a8f6d9e2c5a7b2a1c4e9d2b8c5a6d1e4f7a8b9c0d",` +
		`"difficulty":"246.2500000000","timestamp":1523412456,"confirmations":715,` +
		`"miner":"4f61c06feeb7971af6997125fe40d629c01af92f","minerAddress":"` + testAddress1 + `",` +
		`"extraData":"","size":444,"transactions":["` + testTxHash + `"]}`
	testPeer = `{"id":"b99034c552e9c0fd34eb95c1cdf17f5e","address":"wss://seed1.nimiq-testnet.com:8080/b99034c552e9c0fd34eb95c1cdf17f5e",` +
		`"addressState":2,"connectionState":5,"version":2,"timeOffset":-188,"headHash":"` + testBlockHash + `","latency":532,"rx":2122,"tx":1380}`
	testPeerDisconnected = `{"id":"e37dca72802c972d45b37735e9595cf0","address":"wss://seed4.nimiq-testnet.com:8080/e37dca72802c972d45b37735e9595cf0","addressState":4}`
)

// fakeNode is a JSON-RPC server answering with canned results.
type fakeNode struct {
	*httptest.Server

	mtx     sync.Mutex
	results map[string]string
	fails   map[string]string
	params  map[string]string
	auth    string
}

func newFakeNode(t *testing.T) *fakeNode {
	n := &fakeNode{
		results: make(map[string]string),
		fails:   make(map[string]string),
		params:  make(map[string]string),
	}
	n.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var r struct {
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
			ID     json.RawMessage `json:"id"`
		}
		if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		n.mtx.Lock()
		n.params[r.Method] = string(r.Params)
		n.auth = req.Header.Get("Authorization")
		res, ok := n.results[r.Method]
		msg, failed := n.fails[r.Method]
		n.mtx.Unlock()

		var body string
		switch {
		case failed:
			body = `"error":{"code":-32603,"message":"` + msg + `"}`
		case ok:
			body = `"result":` + res
		default:
			body = `"error":{"code":-32601,"message":"Method not found"}`
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(r.ID) + `,` + body + `}`))
	}))
	t.Cleanup(n.Server.Close)
	return n
}

// Set makes the node answer the method with the given raw JSON result.
func (n *fakeNode) Set(method, result string) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.results[method] = result
}

// Fail makes the node answer the method with an error.
func (n *fakeNode) Fail(method, message string) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.fails[method] = message
}

// Auth returns the Authorization header of the last request.
func (n *fakeNode) Auth() string {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.auth
}

func (n *fakeNode) checkParams(t *testing.T, method, expected string) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	actual, ok := n.params[method]
	require.True(t, ok, "%s wasn't called", method)
	require.JSONEq(t, expected, actual)
}

func (n *fakeNode) checkNotCalled(t *testing.T, method string) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	_, ok := n.params[method]
	require.False(t, ok, "%s was called", method)
}

// executor represents context for a test instance.
// It can be safely used in multiple tests, but not in parallel.
type executor struct {
	// CLI is a cli application to test.
	CLI *cli.App
	// Node is a fake node to query.
	Node *fakeNode
	// Out contains command output.
	Out *bytes.Buffer
	// Err contains command errors.
	Err *bytes.Buffer
	// In contains command input.
	In *bytes.Buffer
}

// testVersion is the version reported by the CLI under test.
const testVersion = "0.1.0-test"

func newExecutor(t *testing.T) *executor {
	config.Version = testVersion
	e := &executor{
		CLI:  app.New(),
		Node: newFakeNode(t),
		Out:  bytes.NewBuffer(nil),
		Err:  bytes.NewBuffer(nil),
		In:   bytes.NewBuffer(nil),
	}
	e.CLI.Writer = e.Out
	e.CLI.ErrWriter = e.Err
	t.Cleanup(func() {
		input.Terminal = nil
	})
	return e
}

// URL returns the fake node endpoint.
func (e *executor) URL() string {
	return e.Node.URL
}

func (e *executor) getNextLine(t *testing.T) string {
	line, err := e.Out.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimSuffix(line, "\n")
}

func (e *executor) checkNextLine(t *testing.T, expected string) {
	line := e.getNextLine(t)
	e.checkLine(t, line, expected)
}

func (e *executor) checkLine(t *testing.T, line, expected string) {
	require.Regexp(t, expected, line)
}

func (e *executor) checkEOF(t *testing.T) {
	_, err := e.Out.ReadString('\n')
	require.True(t, errors.Is(err, io.EOF))
}

func setExitFunc() <-chan int {
	ch := make(chan int, 1)
	cli.OsExiter = func(code int) {
		ch <- code
	}
	return ch
}

func checkExit(t *testing.T, ch <-chan int, code int) {
	select {
	case c := <-ch:
		require.Equal(t, code, c)
	default:
		if code != 0 {
			require.Fail(t, "no exit was called")
		}
	}
}

// RunWithError runs command and checks that is exits with error.
func (e *executor) RunWithError(t *testing.T, args ...string) {
	ch := setExitFunc()
	require.Error(t, e.run(args...))
	checkExit(t, ch, 1)
}

// RunWithUsageError runs command and checks that it fails on arguments
// parsing, no exit happens in this case.
func (e *executor) RunWithUsageError(t *testing.T, args ...string) {
	ch := setExitFunc()
	require.Error(t, e.run(args...))
	checkExit(t, ch, 0)
}

// Run runs command and checks that there were no errors.
func (e *executor) Run(t *testing.T, args ...string) {
	ch := setExitFunc()
	require.NoError(t, e.run(args...))
	checkExit(t, ch, 0)
}

func (e *executor) run(args ...string) error {
	e.Out.Reset()
	e.Err.Reset()
	input.Terminal = term.NewTerminal(input.ReadWriter{
		Reader: e.In,
		Writer: io.Discard,
	}, "")
	err := e.CLI.Run(args)
	input.Terminal = nil
	e.In.Reset()
	return err
}
