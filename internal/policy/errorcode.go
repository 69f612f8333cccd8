package policy

// ErrorCode is the stable wire integer sent in "err NNN" / "warn NNN"
// replies and given to FreezeDuration queries. Values are grouped by range
// and match the original protocol_error_code enum exactly; the gaps are
// reserved, not renumbered.
type ErrorCode uint16

const (
	ErrNoError ErrorCode = 0

	ErrProtocol             ErrorCode = 5
	ErrMalformedHeader      ErrorCode = 6
	ErrNoName               ErrorCode = 7
	ErrActivateSecurityFail ErrorCode = 8

	ErrParser      ErrorCode = 20
	ErrParserRegex ErrorCode = 21

	ErrCmd           ErrorCode = 40
	ErrCmdNotImpl    ErrorCode = 41
	ErrCmdInvalidArg ErrorCode = 42

	ErrCmdCachedParser      ErrorCode = 60
	ErrCmdCachedParserRegex ErrorCode = 61

	ErrSecurity          ErrorCode = 80
	ErrTriggerProhibited ErrorCode = 81
)
