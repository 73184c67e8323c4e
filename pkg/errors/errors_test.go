// Package errors_test covers the AppError type, its factories and the
// error-chain helpers.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal", errors.CodeInternal, "unexpected failure"},
		{"multi element ion", errors.ErrCodeMultiElementIon, "FeCrO4[2-] spans two elements"},
		{"invalid param", errors.CodeInvalidParam, "formula must not be empty"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)
			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
			assert.NotEmpty(t, ae.Stack)
		})
	}
}

func TestNewf_FormatsMessage(t *testing.T) {
	ae := errors.Newf(errors.ErrCodeGeometry, "domain of %s has %d vertices", "Fe(s)", 2)
	assert.Equal(t, "domain of Fe(s) has 2 vertices", ae.Message)
}

func TestError_Format(t *testing.T) {
	ae := errors.New(errors.ErrCodeInvalidWindow, "empty window")
	assert.Equal(t, "[PBX_007] empty window", ae.Error())

	withDetail := ae.WithDetail("ph_min=16 ph_max=-2")
	assert.Equal(t, "[PBX_007] empty window: ph_min=16 ph_max=-2", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")
}

func TestWithDetail_WithCause_NilSafe(t *testing.T) {
	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(stderrors.New("y")))
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	root := stderrors.New("qhull precision error")
	wrapped := errors.Wrap(root, errors.ErrCodeGeometry, "half-space intersection failed")

	require.NotNil(t, wrapped)
	assert.True(t, stderrors.Is(wrapped, root))
	assert.Equal(t, root, wrapped.Unwrap())
}

func TestWrap_UnknownCodeKeepsOriginal(t *testing.T) {
	inner := errors.New(errors.ErrCodeReactionUnbalanceable, "no balance")
	outer := errors.Wrap(inner, errors.CodeUnknown, "while generating")
	assert.Equal(t, errors.ErrCodeReactionUnbalanceable, outer.Code)
}

func TestIsCode_WalksChain(t *testing.T) {
	inner := errors.New(errors.ErrCodeNormalization, "pure H/O phase")
	mid := errors.Wrap(inner, errors.ErrCodeInvalidPhase, "bad entry")
	outer := fmt.Errorf("loading: %w", mid)

	assert.True(t, errors.IsCode(outer, errors.ErrCodeInvalidPhase))
	assert.True(t, errors.IsCode(outer, errors.ErrCodeNormalization))
	assert.False(t, errors.IsCode(outer, errors.ErrCodeGeometry))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeGeometry))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, errors.IsNotFound(errors.NotFound("entry Fe(s)")))
	assert.False(t, errors.IsNotFound(errors.Internal("boom")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeGeometry, errors.GetCode(fmt.Errorf("x: %w", errors.New(errors.ErrCodeGeometry, "y"))))
}

func TestNewValidationError(t *testing.T) {
	ae := errors.NewValidationError("diagram.ph_min", "must be below ph_max")
	assert.Equal(t, errors.ErrCodeValidation, ae.Code)
	assert.Equal(t, "field=diagram.ph_min", ae.Detail)
}

//Personal.AI order the ending
