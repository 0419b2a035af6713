package resp

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestReadSimpleReply(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantError error
	}{
		{name: "ok", input: "+OK\r\n", want: "+OK"},
		{name: "other status", input: "+QUEUED\r\n", want: "+QUEUED"},
		{name: "bare newline", input: "+OK\n", want: "+OK"},
		{name: "wrong password", input: "-WRONGPASS invalid username-password pair\r\n", wantError: &ServerError{}},
		{name: "no auth configured", input: "-ERR AUTH <password> called without any password configured\r\n", wantError: &ServerError{}},
		{name: "empty line", input: "\r\n", wantError: &ParseError{}},
		{name: "integer reply", input: ":1\r\n", wantError: &ParseError{}},
		{name: "bulk reply", input: "$2\r\nOK\r\n", wantError: &ParseError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadSimpleReply(newReader(tt.input))
			if tt.wantError != nil {
				require.IsType(t, tt.wantError, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadSimpleReplyServerMessage(t *testing.T) {
	_, err := ReadSimpleReply(newReader("-WRONGPASS invalid username-password pair\r\n"))

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "WRONGPASS invalid username-password pair", serverErr.Message)
}

func TestReadSimpleReplyTruncated(t *testing.T) {
	_, err := ReadSimpleReply(newReader("+O"))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = ReadSimpleReply(newReader(""))
	require.ErrorIs(t, err, io.EOF)
}

func TestReadBulkString(t *testing.T) {
	payload := "# Memory\r\nused_memory:1024\r\nmaxmemory:0\r\n"
	input := "$" + strconv.Itoa(len(payload)) + "\r\n" + payload + "\r\n"

	got, err := ReadBulkString(newReader(input))
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))
}

func TestReadBulkStringStopsAtLength(t *testing.T) {
	r := newReader("$5\r\nhello\r\n+OK\r\n")

	got, err := ReadBulkString(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	next, err := ReadSimpleReply(r)
	require.NoError(t, err)
	assert.Equal(t, "+OK", next)
}

func TestReadBulkStringPayloadWithBlankLines(t *testing.T) {
	payload := "a:1\r\n\r\n\r\nb:2\r\n"
	input := "$" + strconv.Itoa(len(payload)) + "\r\n" + payload + "\r\n"

	got, err := ReadBulkString(newReader(input))
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))
}

func TestReadBulkStringEmpty(t *testing.T) {
	got, err := ReadBulkString(newReader("$0\r\n\r\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadBulkStringErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError error
	}{
		{name: "error reply", input: "-NOAUTH Authentication required.\r\n", wantError: &ServerError{}},
		{name: "nil bulk", input: "$-1\r\n", wantError: &ParseError{}},
		{name: "negative length", input: "$-5\r\n", wantError: &ParseError{}},
		{name: "too large", input: "$999999999999\r\n", wantError: &ParseError{}},
		{name: "not a number", input: "$abc\r\n", wantError: &ParseError{}},
		{name: "simple string", input: "+OK\r\n", wantError: &ParseError{}},
		{name: "short payload", input: "$10\r\nhello\r\n", wantError: &ParseError{}},
		{name: "bad terminator", input: "$5\r\nhelloXX", wantError: &ParseError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBulkString(newReader(tt.input))
			require.IsType(t, tt.wantError, err)
		})
	}
}

func TestReadBulkStringShortPayloadUnwraps(t *testing.T) {
	_, err := ReadBulkString(newReader("$10\r\nhello"))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadUntilBlankLine(t *testing.T) {
	input := "# Server\r\nredis_version:7.2.4\r\n\r\n# Clients\r\n"

	got, err := ReadUntilBlankLine(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, input, string(got), "a single read returns everything it received")
}

func TestReadUntilBlankLineSplitTerminator(t *testing.T) {
	// One byte per read: the terminator straddles many reads
	input := "a:1\r\n\r\nb:2\r\n"

	got, err := ReadUntilBlankLine(iotest.OneByteReader(strings.NewReader(input)))
	require.NoError(t, err)
	assert.Equal(t, "a:1\r\n\r\n", string(got))
}

func TestReadUntilBlankLinePeerClose(t *testing.T) {
	input := "a:1\r\nb:2\r\n"

	got, err := ReadUntilBlankLine(iotest.OneByteReader(strings.NewReader(input)))
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestReadUntilBlankLineReadError(t *testing.T) {
	boom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("a:1\r\n"), iotest.ErrReader(boom))

	got, err := ReadUntilBlankLine(r)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "a:1\r\n", string(got))
}
