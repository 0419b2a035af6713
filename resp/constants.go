package resp

// Reply type markers (first byte of every RESP2 reply)
const (
	TypeSimpleString = '+'
	TypeError        = '-'
	TypeBulkString   = '$'
	TypeArray        = '*'
)

const (
	CRLF      = "\r\n"
	BlankLine = "\r\n\r\n"

	// ReplyOK is the positive acknowledgement prefix.
	ReplyOK = "+OK"
)

// Commands used by the probe. Sent verbatim as a single token.
const (
	CmdAuth = "AUTH"
	CmdInfo = "INFO"
)

const (
	// MaxBulkLength mirrors the server's proto-max-bulk-len default (512MB).
	MaxBulkLength = 512 * 1024 * 1024

	// ReadChunkSize is the read size used by ReadUntilBlankLine.
	ReadChunkSize = 2048
)
