package at

const (
	// Terminal Control
	CRLF   = "\r\n"
	Prompt = "> "
	CtrlZ  = "\x1A"

	// Response Codes
	OK         = "OK"
	ERROR      = "ERROR"
	NoCarrier  = "NO CARRIER"
	NoDialtone = "NO DIALTONE"
	Busy       = "BUSY"
	NoAnswer   = "NO ANSWER"
	CmeError   = "+CME ERROR:"
	CmsError   = "+CMS ERROR:"

	// URCs (Unsolicited Result Codes). +CREG and +CPIN are also solicited
	// response prefixes; Classify only sees the unadorned line and cannot
	// tell the two apart, so it reports both as TypeData and the engine
	// uses the in-flight command to decide whether a +CREG: line carries
	// the query form's extra mode field. See modem.dispatchDataLine.
	UrcNewMsg         = "+CMTI:"
	UrcMessageReport  = "+CDSI:"
	UrcSignalStrength = "+CSQ:"
	UrcCall           = "RING"
	UrcRegistration   = "+CREG:"
	UrcSimStatus      = "+CPIN:"

	// PrefixLen is the length of the shortest supported response prefix
	// including the trailing ": " — "+CREG: " and friends. Response
	// parsers skip exactly this many bytes when the line starts with '+'.
	PrefixLen = 7
)

type ResponseType int

const (
	TypeFinal  ResponseType = iota // OK, ERROR
	TypeURC                        // Asynchronous notifications
	TypeData                       // Intermediate command output (+CSQ: ...)
	TypePrompt                     // SMS input prompt
)
