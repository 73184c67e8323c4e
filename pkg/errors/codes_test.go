package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
	assert.Equal(t, "PBX_002", ErrCodeMultiElementIon.String())
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "reaction cannot be balanced", DefaultMessageForCode(ErrCodeReactionUnbalanceable))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("NOPE")))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "CHEM", ModuleForCode(ErrCodeFormulaInvalid))
	assert.Equal(t, "RXN", ModuleForCode(ErrCodeReactionUnbalanceable))
	assert.Equal(t, "PD", ModuleForCode(ErrCodePhaseDiagramSolver))
	assert.Equal(t, "PBX", ModuleForCode(ErrCodeGeometry))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
	assert.Equal(t, "UNKNOWN", ModuleForCode(CodeUnknown))
}

func TestIsInputError(t *testing.T) {
	assert.True(t, IsInputError(ErrCodeMultiElementIon))
	assert.True(t, IsInputError(ErrCodeFormulaInvalid))
	assert.False(t, IsInputError(ErrCodeGeometry))
	assert.False(t, IsInputError(ErrCodeInternal))
}

func TestErrorCodeFormat_Convention(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	for code := range ErrorCodeMessage {
		assert.Regexp(t, re, string(code), "code %s does not follow MODULE_NNN", code)
	}
}

//Personal.AI order the ending
