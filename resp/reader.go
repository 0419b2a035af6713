package resp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
)

var (
	crlfBytes      = []byte(CRLF)
	blankLineBytes = []byte(BlankLine)
)

// readLine reads one reply line and strips its CRLF.
// A line cut short by EOF is reported as io.ErrUnexpectedEOF.
func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		// Line exceeds buffer, fall back to ReadBytes (allocates)
		line, err = r.ReadBytes('\n')
	}
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	line = bytes.TrimSuffix(line, crlfBytes)
	line = bytes.TrimSuffix(line, []byte("\n"))
	if len(line) == 0 {
		return nil, &ParseError{Message: "empty reply line"}
	}
	return line, nil
}

// ReadSimpleReply reads a simple-string reply and returns it, type marker
// included (e.g. "+OK"). Error replies are returned as *ServerError and any
// other reply type as *ParseError.
func ReadSimpleReply(r *bufio.Reader) (string, error) {
	line, err := readLine(r)
	if err != nil {
		return "", err
	}

	switch line[0] {
	case TypeSimpleString:
		return string(line), nil
	case TypeError:
		return "", &ServerError{Message: string(line[1:])}
	default:
		return "", &ParseError{Message: "unexpected reply type " + strconv.QuoteRune(rune(line[0]))}
	}
}

// ReadBulkString reads a bulk-string reply: $<len>\r\n<payload>\r\n.
// Exactly len payload bytes are returned, so the result never includes
// bytes belonging to a following reply.
//
// Returns *ServerError for error replies and *ParseError for a nil bulk
// string, a malformed header or a bad terminator.
func ReadBulkString(r *bufio.Reader) ([]byte, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}

	switch line[0] {
	case TypeBulkString:
	case TypeError:
		return nil, &ServerError{Message: string(line[1:])}
	default:
		return nil, &ParseError{Message: "unexpected reply type " + strconv.QuoteRune(rune(line[0]))}
	}

	size, err := strconv.Atoi(string(line[1:]))
	if err != nil {
		return nil, &ParseError{Message: "invalid bulk length", Err: err}
	}
	if size == -1 {
		return nil, &ParseError{Message: "nil bulk string"}
	}
	if size < 0 || size > MaxBulkLength {
		return nil, &ParseError{Message: "bulk length out of bounds: " + strconv.Itoa(size)}
	}

	// Read payload + CRLF together in single read
	data := make([]byte, size+2)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, &ParseError{Message: "failed to read bulk payload", Err: err}
	}

	if !bytes.HasSuffix(data, crlfBytes) {
		return nil, &ParseError{Message: "invalid bulk terminator"}
	}

	return data[:size], nil
}

// ReadUntilBlankLine accumulates reads from r until the buffer contains a
// blank line (CRLF CRLF) or the peer closes the stream, whichever comes
// first. Everything read so far is returned, the bulk header included.
//
// A closed stream is not an error. Any other read error is returned along
// with the bytes accumulated before it.
func ReadUntilBlankLine(r io.Reader) ([]byte, error) {
	buf := make([]byte, 0, ReadChunkSize)
	chunk := make([]byte, ReadChunkSize)

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			// Only the new bytes and the 3 before them can complete a terminator
			from := max(len(buf)-len(blankLineBytes)+1, 0)
			buf = append(buf, chunk[:n]...)
			if bytes.Contains(buf[from:], blankLineBytes) {
				return buf, nil
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return buf, nil
			}
			return buf, err
		}
	}
}
