package poll

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	assert.Nil(t, Describe(nil))

	boom := errors.New("boom")
	info := Describe(fmt.Errorf("fetch current: %w", boom))
	require.NotNil(t, info)
	assert.Equal(t, "fetch current: boom", info.Message)
	assert.ErrorIs(t, info, boom)

	assert.Equal(t, "request timed out", Describe(context.DeadlineExceeded).Message)
	assert.Equal(t, "request cancelled", Describe(fmt.Errorf("x: %w", context.Canceled)).Message)
	assert.Equal(t, "unknown error", Describe(errors.New("  ")).Message)
}

func TestDescribeKeepsExistingInfo(t *testing.T) {
	orig := &ErrorInfo{Message: "upstream down"}
	assert.Same(t, orig, Describe(fmt.Errorf("wrapped: %w", orig)))
}

func TestErrorInfoNilSafe(t *testing.T) {
	var info *ErrorInfo
	assert.Equal(t, "", info.Error())
	assert.Nil(t, info.Unwrap())
}
