// Package errors_test provides unit tests for the AppError type, factory
// functions, and error-chain helpers defined in pkg/errors/errors.go.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/protoscribe/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.ErrCodeInternal, "unexpected failure"},
		{"protocol not found", errors.ErrCodeProtocolNotFound, "protocol proto_123 not found"},
		{"invalid param", errors.ErrCodeBadRequest, "file must not be empty"},
		{"rate limit", errors.ErrCodeTooManyRequests, "too many requests"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail, "Detail should be empty for bare New()")
			assert.Nil(t, ae.Cause, "Cause should be nil for bare New()")
		})
	}
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	result := errors.Wrap(nil, errors.ErrCodeInternal, "should not matter")
	assert.Nil(t, result)
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("connection refused")
	wrapped := errors.Wrap(root, errors.ErrCodeDatabaseError, "failed to load protocol")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.ErrCodeDatabaseError, wrapped.Code)
	assert.True(t, stderrors.Is(wrapped, root), "errors.Is should find the root cause")
}

func TestWrap_UnknownCodePreservesOriginal(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeProtocolNotFound, "missing")
	wrapped := errors.Wrap(inner, errors.CodeUnknown, "while handling request")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.ErrCodeProtocolNotFound, wrapped.Code)
}

func TestError_FormatIncludesDetail(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeNotFound, "protocol not found").WithDetail("id=proto_9")
	msg := ae.Error()

	assert.True(t, strings.Contains(msg, "COMMON_005"))
	assert.True(t, strings.Contains(msg, "protocol not found"))
	assert.True(t, strings.Contains(msg, "id=proto_9"))
}

func TestWithDetail_ReturnsCloneNotMutation(t *testing.T) {
	t.Parallel()

	orig := errors.New(errors.ErrCodeBadRequest, "bad input")
	clone := orig.WithDetail("field=filename")

	assert.Empty(t, orig.Detail)
	assert.Equal(t, "field=filename", clone.Detail)
	assert.Equal(t, orig.Code, clone.Code)
}

func TestWithDetail_NilReceiver(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("anything"))
}

func TestWithCause_AttachesCause(t *testing.T) {
	t.Parallel()

	root := fmt.Errorf("disk full")
	ae := errors.Internal("storage failure").WithCause(root)

	assert.True(t, stderrors.Is(ae, root))
}

func TestIsCode(t *testing.T) {
	t.Parallel()

	err := errors.Wrap(
		errors.New(errors.ErrCodeGuidelineParseFailed, "bad JSON"),
		errors.ErrCodeInternal, "load guidelines")

	assert.True(t, errors.IsCode(err, errors.ErrCodeGuidelineParseFailed))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
	assert.False(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeInternal))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(fmt.Errorf("plain")))
	assert.Equal(t, errors.ErrCodeAnalysisFailed,
		errors.GetCode(errors.New(errors.ErrCodeAnalysisFailed, "boom")))
}

func TestConvenienceFactories(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.ErrCodeNotFound, errors.NotFound("x").Code)
	assert.Equal(t, errors.ErrCodeBadRequest, errors.InvalidParam("x").Code)
	assert.Equal(t, errors.ErrCodeInternal, errors.Internal("x").Code)
	assert.Equal(t, errors.ErrCodeConflict, errors.Conflict("x").Code)
	assert.Equal(t, errors.ErrCodeTooManyRequests, errors.RateLimit("x").Code)
}
