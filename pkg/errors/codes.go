package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
// Codes are "<MODULE>_<NNN>"; ModuleForCode extracts the module prefix.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal      ErrorCode = "COMMON_001"
	ErrCodeBadRequest    ErrorCode = "COMMON_002"
	ErrCodeNotFound      ErrorCode = "COMMON_005"
	ErrCodeValidation    ErrorCode = "COMMON_010"
	ErrCodeSerialization ErrorCode = "COMMON_011"
	ErrCodeCacheError    ErrorCode = "COMMON_013"
	ErrCodeIO            ErrorCode = "COMMON_017"
	ErrCodeCanceled      ErrorCode = "COMMON_018"
)

// Aliases used across the code base.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Chemistry Error Codes
const (
	ErrCodeFormulaInvalid ErrorCode = "CHEM_001"
	ErrCodeUnknownElement ErrorCode = "CHEM_002"
	ErrCodeChargeInvalid  ErrorCode = "CHEM_003"
)

// Reaction Error Codes
const (
	ErrCodeReactionUnbalanceable ErrorCode = "RXN_001"
	ErrCodeReactionInvalid       ErrorCode = "RXN_002"
)

// Phase Diagram Error Codes
const (
	ErrCodePhaseDiagramEmpty  ErrorCode = "PD_001"
	ErrCodePhaseDiagramSolver ErrorCode = "PD_002"
)

// Pourbaix Module Error Codes
const (
	ErrCodeInvalidPhase         ErrorCode = "PBX_001"
	ErrCodeMultiElementIon      ErrorCode = "PBX_002"
	ErrCodeNormalization        ErrorCode = "PBX_003"
	ErrCodeNoEntries            ErrorCode = "PBX_004"
	ErrCodeGeometry             ErrorCode = "PBX_005"
	ErrCodeNoDecomposition      ErrorCode = "PBX_006"
	ErrCodeInvalidWindow        ErrorCode = "PBX_007"
	ErrCodeVectorLengthMismatch ErrorCode = "PBX_008"
	ErrCodeEntryNotFound        ErrorCode = "PBX_009"
)

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:      "internal error",
	ErrCodeBadRequest:    "bad request",
	ErrCodeNotFound:      "resource not found",
	ErrCodeValidation:    "validation failed",
	ErrCodeSerialization: "serialization failed",
	ErrCodeCacheError:    "cache error",
	ErrCodeIO:            "i/o error",
	ErrCodeCanceled:      "operation canceled",

	ErrCodeFormulaInvalid: "invalid chemical formula",
	ErrCodeUnknownElement: "unknown element symbol",
	ErrCodeChargeInvalid:  "invalid ionic charge",

	ErrCodeReactionUnbalanceable: "reaction cannot be balanced",
	ErrCodeReactionInvalid:       "invalid reaction definition",

	ErrCodePhaseDiagramEmpty:  "phase diagram has no entries",
	ErrCodePhaseDiagramSolver: "phase diagram solver failed",

	ErrCodeInvalidPhase:         "entry phase must be Solid or Ion",
	ErrCodeMultiElementIon:      "multi-element ions are not supported",
	ErrCodeNormalization:        "entry has no atoms besides H and O",
	ErrCodeNoEntries:            "no entries supplied",
	ErrCodeGeometry:             "stability domain geometry failed",
	ErrCodeNoDecomposition:      "no decomposition products found",
	ErrCodeInvalidWindow:        "invalid pH/V window",
	ErrCodeVectorLengthMismatch: "pH and V arrays have mismatched lengths",
	ErrCodeEntryNotFound:        "entry not found",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

// IsInputError reports whether code describes bad caller input rather than an
// internal failure.
func IsInputError(code ErrorCode) bool {
	switch code {
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeNotFound,
		ErrCodeFormulaInvalid, ErrCodeUnknownElement, ErrCodeChargeInvalid,
		ErrCodeInvalidPhase, ErrCodeMultiElementIon, ErrCodeNormalization,
		ErrCodeNoEntries, ErrCodeInvalidWindow, ErrCodeVectorLengthMismatch,
		ErrCodeEntryNotFound:
		return true
	}
	return false
}

//Personal.AI order the ending
