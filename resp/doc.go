// Package resp implements the small slice of the Redis serialization
// protocol (RESP2) needed by a memory probe.
//
// It is deliberately not a general client. It knows how to frame a command
// as an array of bulk strings, how to read a one-line simple reply (as sent
// for AUTH), and how to read the bulk-string reply of INFO.
//
// # Serialization
//
//	err := resp.WriteCommand(conn, "AUTH", "s3cret")
//
// produces
//
//	*2\r\n$4\r\nAUTH\r\n$6\r\ns3cret\r\n
//
// # Replies
//
// ReadSimpleReply returns the first reply line without its CRLF. Error
// replies ("-ERR ...") are returned as *ServerError.
//
// ReadBulkString reads a "$<len>\r\n<payload>\r\n" reply and returns exactly
// len payload bytes.
//
// ReadUntilBlankLine is the older terminator heuristic: it accumulates reads
// until a blank line (CRLF CRLF) appears or the peer closes the stream. It
// can stop early or read past the payload when the server output does not
// follow that pattern, so ReadBulkString is preferred.
package resp
