package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009
	TooManyRequests  Code = 100010

	// Oracle codes
	PythError        Code = 500001
	PythPriceStale   Code = 500002
	PythPriceInvalid Code = 500003
	MathOverflow     Code = 500004

	// Request codes
	ProgramPaused        Code = 500101
	InvalidCardAmount    Code = 500102
	InvalidChoice        Code = 500103
	Unauthorized         Code = 500104
	InvalidUsdtMint      Code = 500105
	InvalidTokenAccount  Code = 500106
	MissingUsdtAccounts  Code = 500107
	InvalidRequestStatus Code = 500108
	ClaimExpired         Code = 500109
	RefundNotAllowed     Code = 500110
	InvalidSlot          Code = 500111
	InvalidVrfCallback   Code = 500112
	InvalidOracleQueue   Code = 500113

	// Settlement codes
	MissingSwapAccounts      Code = 500201
	SwapFailed               Code = 500202
	SlippageExceeded         Code = 500203
	InvalidJupiterProgram    Code = 500204
	MissingExpectedOutput    Code = 500205
	JupiterSwapFailed        Code = 500206
	InvalidSwapData          Code = 500207
	InvalidRaydiumProgram    Code = 500208
	RaydiumSwapFailed        Code = 500209
	WsolWrapFailed           Code = 500210
	InsufficientVaultBalance Code = 500211
	ExcessiveSwapInput       Code = 500212

	// Prize pool codes
	MaxPrizePoolsReached  Code = 500301
	InvalidPrizePoolIndex Code = 500302
	NoPrizePoolToRemove   Code = 500303
)
