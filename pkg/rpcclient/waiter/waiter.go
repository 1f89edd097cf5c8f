/*
Package waiter provides a way to wait for transactions sent to the node to be
mined.
*/
package waiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimiq-community/nimiq-go/pkg/nimiqrpc/result"
)

const (
	// DefaultPollRetryCount is a threshold for a number of subsequent failed
	// attempts to get the chain height from the node. If it fails to retrieve
	// it DefaultPollRetryCount times in a row then transaction awaiting
	// attempt considered to be failed and an error is returned.
	DefaultPollRetryCount = 3
	// DefaultPollInterval is a half of the target block time.
	DefaultPollInterval = 30 * time.Second
	// DefaultValidityWindow is the number of blocks a transaction stays
	// valid for after its validity start height.
	DefaultValidityWindow = 120
)

var (
	// ErrTxNotAccepted is returned when transaction wasn't mined even after
	// the end of its validity window.
	ErrTxNotAccepted = errors.New("transaction was not accepted to chain")
	// ErrContextDone is returned when Waiter context has been done in the middle
	// of transaction awaiting process and no result was received yet.
	ErrContextDone = errors.New("waiter context done")
)

type (
	// RPCPollingBased is an interface that enables transaction awaiting
	// functionality based on periodical chain height and receipt polls.
	RPCPollingBased interface {
		// Context should return the RPC client context to be able to gracefully
		// shut down all running processes (if so).
		Context() context.Context
		BlockNumber() (uint32, error)
		GetTransactionReceipt(hash string) (*result.TransactionReceipt, error)
	}

	// PollingBased is a polling-based transaction waiter.
	PollingBased struct {
		polling RPCPollingBased
		config  PollConfig
	}

	// PollConfig is a configuration for PollingBased waiter.
	PollConfig struct {
		// PollInterval is a time interval between subsequent polls,
		// DefaultPollInterval is used if not set.
		PollInterval time.Duration
		// RetryCount is the number of retry attempts while fetching a subsequent
		// chain height before an error is returned from Wait or WaitAny.
		RetryCount int
		// ValidityWindow is the number of blocks after the current height to
		// wait for the transaction in Wait, DefaultValidityWindow is used if
		// not set.
		ValidityWindow uint32
	}
)

// New creates an instance of Waiter with default settings.
func New(waiter RPCPollingBased) *PollingBased {
	return NewCustom(waiter, PollConfig{})
}

// NewCustom creates an instance of Waiter, poll options may be specified via
// config parameter.
func NewCustom(waiter RPCPollingBased, config PollConfig) *PollingBased {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.RetryCount <= 0 {
		config.RetryCount = DefaultPollRetryCount
	}
	if config.ValidityWindow == 0 {
		config.ValidityWindow = DefaultValidityWindow
	}
	return &PollingBased{
		polling: waiter,
		config:  config,
	}
}

// Wait allows to wait until the transaction is mined. It can be used as a
// wrapper for SendTransaction or SendRawTransaction and accepts transaction
// hash and an error. It returns the transaction receipt or an error if the
// transaction wasn't mined during the validity window (counted from the
// current chain height).
func (w *PollingBased) Wait(h string, err error) (*result.TransactionReceipt, error) {
	if err != nil {
		return nil, err
	}
	height, err := w.polling.BlockNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve chain height: %w", err)
	}
	return w.WaitAny(context.TODO(), height+w.config.ValidityWindow, h)
}

// WaitAny waits until at least one of the specified transactions is mined
// until validUntil block (including). It returns the receipt of this
// transaction or an error if none of the transactions was mined. It uses
// the client context to interrupt awaiting process, but additional ctx can
// be passed as an argument for the same purpose.
func (w *PollingBased) WaitAny(ctx context.Context, validUntil uint32, hashes ...string) (*result.TransactionReceipt, error) {
	var failedAttempt int
	timer := time.NewTicker(w.config.PollInterval)
	defer timer.Stop()
	for {
		height, err := w.polling.BlockNumber()
		if err != nil {
			failedAttempt++
			if failedAttempt > w.config.RetryCount {
				return nil, fmt.Errorf("failed to retrieve chain height: %w", err)
			}
		} else {
			failedAttempt = 0
			for _, h := range hashes {
				res, err := w.polling.GetTransactionReceipt(h)
				if err == nil && res != nil {
					return res, nil
				}
			}
			if height >= validUntil {
				return nil, ErrTxNotAccepted
			}
		}
		select {
		case <-timer.C:
		case <-w.polling.Context().Done():
			return nil, fmt.Errorf("%w: %v", ErrContextDone, w.polling.Context().Err())
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
		}
	}
}
