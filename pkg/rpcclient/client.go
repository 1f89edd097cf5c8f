package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/nimiq-community/nimiq-go/pkg/config"
	"github.com/nimiq-community/nimiq-go/pkg/nimiqrpc"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const defaultPingTimeout = 4 * time.Second

// Client represents the middleman for executing JSON RPC calls
// to remote Nimiq nodes. Client is thread-safe and can be used from
// multiple goroutines.
type Client struct {
	cli      *http.Client
	endpoint *url.URL
	ctx      context.Context
	opts     Options
	log      *zap.Logger
	requestF func(*nimiqrpc.Request) (*nimiqrpc.Response, error)

	latestReqID *atomic.Uint64
	// getNextRequestID returns an ID to be used for the subsequent request creation.
	// It is defined on Client, so that our testing code can override this method
	// for the sake of more predictable request IDs generation behavior.
	getNextRequestID func() uint64
}

// Options defines options for the RPC client. All values are optional,
// zero timeouts mean that the defaults of net/http are used.
type Options struct {
	// User and Password are sent as HTTP basic authentication with every
	// request, empty credentials are sent too. If both are empty, the
	// credentials from the endpoint URL (if any) are used.
	User     string
	Password string

	DialTimeout    time.Duration
	RequestTimeout time.Duration
	// Limit total number of connections per host. No limit by default.
	MaxConnsPerHost int

	// Logger is used for request tracing at debug level, no logging happens
	// if it's nil.
	Logger *zap.Logger
}

// New returns a new Client ready to use. ctx bounds all requests made by
// the client, cancelling it aborts the calls in progress.
func New(ctx context.Context, endpoint string, opts Options) (*Client, error) {
	cl := new(Client)
	err := initClient(ctx, cl, endpoint, opts)
	if err != nil {
		return nil, err
	}
	return cl, nil
}

// NewFromConfig returns a new Client for the node described by cfg,
// cfg credentials take precedence over the ones from opts.
func NewFromConfig(ctx context.Context, cfg config.RPC, opts Options) (*Client, error) {
	if cfg.User != "" || cfg.Password != "" {
		opts.User = cfg.User
		opts.Password = cfg.Password
	}
	return New(ctx, cfg.Endpoint(), opts)
}

func initClient(ctx context.Context, cl *Client, endpoint string, opts Options) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("endpoint host is empty")
	}
	if u.User != nil {
		if opts.User == "" && opts.Password == "" {
			opts.User = u.User.Username()
			opts.Password, _ = u.User.Password()
		}
		u.User = nil
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: opts.DialTimeout,
			}).DialContext,
			MaxConnsPerHost: opts.MaxConnsPerHost,
		},
		Timeout: opts.RequestTimeout,
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	cl.ctx = ctx
	cl.cli = httpClient
	cl.endpoint = u
	cl.latestReqID = atomic.NewUint64(0)
	cl.getNextRequestID = (cl).getRequestID
	cl.opts = opts
	cl.log = opts.Logger.With(zap.String("endpoint", u.String()))
	cl.requestF = cl.makeHTTPRequest
	return nil
}

func (c *Client) getRequestID() uint64 {
	return c.latestReqID.Inc()
}

// Endpoint returns the node URL the client is bound to, without credentials.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Context returns the context the client was created with.
func (c *Client) Context() context.Context {
	return c.ctx
}

// Close closes unused underlying networks connections.
func (c *Client) Close() {
	c.cli.CloseIdleConnections()
}

// Call performs a call of an arbitrary method and returns its raw result,
// which is nil if the node returned no result.
func (c *Client) Call(method string, params ...interface{}) (json.RawMessage, error) {
	raw, err := c.call(method, params)
	if err != nil {
		return nil, err
	}
	if raw.IsNull() {
		return nil, nil
	}
	return raw.Result, nil
}

// performRequest makes a call expecting a non-null result and unmarshals it
// into v.
func (c *Client) performRequest(method string, p []interface{}, v interface{}) error {
	raw, err := c.call(method, p)
	if err != nil {
		return err
	}
	if raw.IsNull() {
		return &nimiqrpc.InternalError{Err: errors.New("no result returned")}
	}
	if err := json.Unmarshal(raw.Result, v); err != nil {
		return &nimiqrpc.InternalError{Err: err}
	}
	return nil
}

// performLookup is similar to performRequest, but a null result is a valid
// "not found" answer for it and false is returned in this case.
func (c *Client) performLookup(method string, p []interface{}, v interface{}) (bool, error) {
	raw, err := c.call(method, p)
	if err != nil {
		return false, err
	}
	if raw.IsNull() {
		return false, nil
	}
	if err := json.Unmarshal(raw.Result, v); err != nil {
		return false, &nimiqrpc.InternalError{Err: err}
	}
	return true, nil
}

func (c *Client) call(method string, p []interface{}) (*nimiqrpc.Response, error) {
	var (
		r     = nimiqrpc.NewRequest(c.getNextRequestID(), method, p)
		start = time.Now()
	)

	raw, err := c.requestF(r)
	if raw != nil && raw.Error != nil {
		err = raw.Error
	} else if err == nil && raw == nil {
		err = &nimiqrpc.InternalError{Err: errors.New("empty response")}
	}

	took := time.Since(start)
	observeRequest(method, err, took)
	if err != nil {
		c.log.Debug("RPC call failed",
			zap.String("method", method),
			zap.Uint64("id", r.ID),
			zap.Duration("took", took),
			zap.Error(err))
		return nil, err
	}
	c.log.Debug("RPC call",
		zap.String("method", method),
		zap.Uint64("id", r.ID),
		zap.Duration("took", took))
	return raw, nil
}

func (c *Client) makeHTTPRequest(r *nimiqrpc.Request) (*nimiqrpc.Response, error) {
	var (
		buf = new(bytes.Buffer)
		raw = new(nimiqrpc.Response)
	)

	if err := json.NewEncoder(buf).Encode(r); err != nil {
		return nil, &nimiqrpc.InternalError{Err: fmt.Errorf("request encoding: %w", err)}
	}

	req, err := http.NewRequestWithContext(c.ctx, http.MethodPost, c.endpoint.String(), buf)
	if err != nil {
		return nil, &nimiqrpc.InternalError{Err: err}
	}
	req.SetBasicAuth(c.opts.User, c.opts.Password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// Some nodes terminate keep-alive connections prematurely.
	req.Close = true

	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, &nimiqrpc.ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	// The node might send us a proper JSON anyway, so look there first and if
	// it parses, it has more relevant data than HTTP error code.
	err = json.NewDecoder(resp.Body).Decode(raw)
	if err != nil {
		if resp.StatusCode != http.StatusOK {
			err = fmt.Errorf("HTTP %d/%s", resp.StatusCode, http.StatusText(resp.StatusCode))
		} else {
			err = fmt.Errorf("JSON decoding: %w", err)
		}
		return nil, &nimiqrpc.InternalError{Err: err}
	}
	if raw.JSONRPC == "" || len(raw.ID) == 0 {
		if resp.StatusCode != http.StatusOK {
			err = fmt.Errorf("HTTP %d/%s", resp.StatusCode, http.StatusText(resp.StatusCode))
		} else {
			err = errors.New("malformed response: no jsonrpc version or id")
		}
		return nil, &nimiqrpc.InternalError{Err: err}
	}
	return raw, nil
}

// Ping attempts to create a connection to the endpoint
// and returns an error if there is any.
func (c *Client) Ping() error {
	timeout := c.opts.DialTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	host := c.endpoint.Host
	if c.endpoint.Port() == "" {
		port := "80"
		if c.endpoint.Scheme == "https" {
			port = "443"
		}
		host = net.JoinHostPort(c.endpoint.Hostname(), port)
	}
	conn, err := net.DialTimeout("tcp", host, timeout)
	if err != nil {
		return &nimiqrpc.ConnectionError{Err: err}
	}
	_ = conn.Close()
	return nil
}
