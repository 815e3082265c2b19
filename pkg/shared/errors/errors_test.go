package errors

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound, "missing")))
	assert.Equal(t, KindUnknown, KindOf(goerrors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))

	// A tagged error stays visible through further wrapping.
	wrapped := fmt.Errorf("outer: %w", New(KindRateLimited, "limit hit"))
	assert.Equal(t, KindRateLimited, KindOf(wrapped))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := goerrors.New("underlying failure")
	err := Wrap(KindServerError, cause, "request to %s failed", "github")

	assert.Equal(t, "request to github failed: underlying failure", err.Error())
	assert.True(t, goerrors.Is(err, cause))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(KindRateLimited, "")))
	assert.True(t, IsRetryable(New(KindServerError, "")))
	assert.True(t, IsRetryable(New(KindNetworkError, "")))

	assert.False(t, IsRetryable(New(KindNotFound, "")))
	assert.False(t, IsRetryable(New(KindPermissionDenied, "")))
	assert.False(t, IsRetryable(New(KindExecutionFailed, "")))
	assert.False(t, IsRetryable(goerrors.New("plain")))
}
