package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClient struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (c *countingClient) GenerateContent(context.Context, *Request) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.calls
	c.calls++
	if idx < len(c.errs) && c.errs[idx] != nil {
		return nil, c.errs[idx]
	}
	return &Response{Content: "ok"}, nil
}

func (c *countingClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestInvoker_GenerateContent(t *testing.T) {
	t.Run("ShouldPassThroughOnSuccess", func(t *testing.T) {
		client := &countingClient{}
		inv := NewInvoker(client, time.Second, 1)
		resp, err := inv.GenerateContent(context.Background(), &Request{})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Content)
		assert.Equal(t, 1, client.callCount())
	})

	t.Run("ShouldRetryOnceOnTransientFailure", func(t *testing.T) {
		client := &countingClient{errs: []error{errors.New("429 too many requests")}}
		inv := NewInvoker(client, time.Second, 1)
		resp, err := inv.GenerateContent(context.Background(), &Request{})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Content)
		assert.Equal(t, 2, client.callCount())
	})

	t.Run("ShouldGiveUpAfterOneRetry", func(t *testing.T) {
		client := &countingClient{errs: []error{
			errors.New("503 service unavailable"),
			errors.New("503 service unavailable"),
		}}
		inv := NewInvoker(client, time.Second, 1)
		_, err := inv.GenerateContent(context.Background(), &Request{})
		assert.Error(t, err)
		assert.Equal(t, 2, client.callCount())
	})

	t.Run("ShouldNotRetryPermanentFailure", func(t *testing.T) {
		client := &countingClient{errs: []error{errors.New("invalid api key")}}
		inv := NewInvoker(client, time.Second, 1)
		_, err := inv.GenerateContent(context.Background(), &Request{})
		assert.Error(t, err)
		assert.Equal(t, 1, client.callCount())
	})
}

func TestIsTransient(t *testing.T) {
	t.Run("ShouldClassifyTimeoutsAndOverloadAsTransient", func(t *testing.T) {
		for _, err := range []error{
			context.DeadlineExceeded,
			errors.New("request timed out"),
			errors.New("rate limit exceeded"),
			errors.New("upstream returned 502"),
			errors.New("connection refused"),
		} {
			assert.True(t, isTransient(err), "expected transient: %v", err)
		}
	})

	t.Run("ShouldClassifyValidationErrorsAsPermanent", func(t *testing.T) {
		for _, err := range []error{
			nil,
			errors.New("invalid api key"),
			errors.New("model not found"),
			errors.New("context length exceeded"),
		} {
			assert.False(t, isTransient(err), "expected permanent: %v", err)
		}
	})
}
