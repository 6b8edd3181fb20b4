package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/geoassist/geoassist/pkg/logger"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 1
	retryBackoffBase   = 500 * time.Millisecond
	retryBackoffJitter = 50 * time.Millisecond
)

// Invoker wraps a Client with a per-call timeout and bounded retries on
// transient failures. Non-transient failures are returned immediately.
type Invoker struct {
	client     Client
	timeout    time.Duration
	maxRetries int
}

func NewInvoker(client Client, timeout time.Duration, maxRetries int) *Invoker {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	return &Invoker{client: client, timeout: timeout, maxRetries: maxRetries}
}

func (i *Invoker) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	backoff := retry.WithMaxRetries(
		uint64(i.maxRetries),
		retry.WithJitter(retryBackoffJitter, retry.NewExponential(retryBackoffBase)),
	)
	var response *Response
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, i.timeout)
		defer cancel()
		var callErr error
		response, callErr = i.client.GenerateContent(callCtx, req)
		if callErr != nil {
			if isTransient(callErr) {
				logger.FromContext(ctx).Warn("LLM call failed, retrying", "error", callErr)
				return retry.RetryableError(callErr)
			}
			return callErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// isTransient reports whether an error is worth one more attempt. Timeouts
// and provider-side overload responses qualify; validation and auth errors
// do not.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"timeout",
		"timed out",
		"connection refused",
		"connection reset",
		"rate limit",
		"too many requests",
		"429",
		"500",
		"502",
		"503",
		"504",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
