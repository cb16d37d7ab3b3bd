package agentbay

// ErrorKind classifies why an operation failed, per the taxonomy most
// library methods surface through a result envelope rather than a Go
// error.
type ErrorKind int

const (
	// ErrorKindNone means the operation succeeded.
	ErrorKindNone ErrorKind = iota
	// ErrorKindAuthentication is a missing or invalid API key.
	ErrorKindAuthentication
	// ErrorKindTransport is a network error or timeout.
	ErrorKindTransport
	// ErrorKindAPI is a well-formed response carrying success=false.
	ErrorKindAPI
	// ErrorKindTool is a dispatcher result with isError=true.
	ErrorKindTool
	// ErrorKindValidation is a client-side precondition failure.
	ErrorKindValidation
	// ErrorKindNotFound is an APIFailure with code
	// "InvalidMcpSession.NotFound", logged at info rather than error level.
	ErrorKindNotFound
	// ErrorKindTimeout is a polling loop that exhausted its retry budget.
	ErrorKindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindAuthentication:
		return "AuthenticationFailure"
	case ErrorKindTransport:
		return "TransportFailure"
	case ErrorKindAPI:
		return "APIFailure"
	case ErrorKindTool:
		return "ToolFailure"
	case ErrorKindValidation:
		return "ValidationFailure"
	case ErrorKindNotFound:
		return "NotFoundFailure"
	case ErrorKindTimeout:
		return "OperationTimeout"
	default:
		return "None"
	}
}

// Result is the envelope most library methods return instead of a Go
// error: expected failures (API, tool, validation) are reported here, not
// propagated as errors. A Go error return is reserved for programming
// errors and unexpected transport failures.
type Result struct {
	Success      bool
	RequestID    string
	ErrorMessage string
	Kind         ErrorKind
}

func okResult(requestID string) Result {
	return Result{Success: true, RequestID: requestID}
}

func failResult(kind ErrorKind, requestID, message string) Result {
	return Result{Success: false, RequestID: requestID, ErrorMessage: message, Kind: kind}
}

// ValidationError is returned (as a Go error, not a Result) by builder
// methods that reject malformed input before any RPC is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "agentbay: " + e.Field + ": " + e.Message
}
