package resp

import (
	"bufio"
	"errors"
	"io"
	"strconv"
)

var errNoArguments = errors.New("resp: command has no arguments")

// AppendCommand appends the wire form of args to dst.
// Format: *<argc>\r\n followed by $<len>\r\n<arg>\r\n for each argument.
func AppendCommand(dst []byte, args ...string) []byte {
	dst = append(dst, TypeArray)
	dst = strconv.AppendInt(dst, int64(len(args)), 10)
	dst = append(dst, CRLF...)
	for _, arg := range args {
		dst = append(dst, TypeBulkString)
		dst = strconv.AppendInt(dst, int64(len(arg)), 10)
		dst = append(dst, CRLF...)
		dst = append(dst, arg...)
		dst = append(dst, CRLF...)
	}
	return dst
}

// WriteCommand serializes args as an array of bulk strings and writes it to w.
// A *bufio.Writer is flushed before returning.
func WriteCommand(w io.Writer, args ...string) error {
	if len(args) == 0 {
		return errNoArguments
	}

	if bw, ok := w.(*bufio.Writer); ok {
		if _, err := bw.Write(AppendCommand(nil, args...)); err != nil {
			return err
		}
		return bw.Flush()
	}

	_, err := w.Write(AppendCommand(nil, args...))
	return err
}

// AuthCommand returns the arguments of an AUTH command.
// The username form is only used when username is not empty.
func AuthCommand(username, password string) []string {
	if username == "" {
		return []string{CmdAuth, password}
	}
	return []string{CmdAuth, username, password}
}
