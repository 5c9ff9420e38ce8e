package domain

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

const maxLabelLength = 40

var errLabel = errors.New("missing field label")

// FieldReader tokenizes machine records and interactive entries. The first failed
// read puts the reader in a failed state that sticks until Clear is called; while
// failed, every read fails without consuming input.
type FieldReader struct {
	r   *bufio.Reader
	err error
	bol bool
}

func NewFieldReader(r io.Reader) *FieldReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &FieldReader{r: br, bol: true}
}

// Err returns the error that failed the reader, if any.
func (f *FieldReader) Err() error {
	return f.err
}

func (f *FieldReader) Failed() bool {
	return f.err != nil
}

// Fail puts the reader in the failed state. The first error is kept.
func (f *FieldReader) Fail(err error) {
	if f.err == nil && err != nil {
		f.err = err
	}
}

// Clear drops the failed state so reading can resume.
func (f *FieldReader) Clear() {
	f.err = nil
}

// SkipLine discards the rest of the current line. It does nothing when the reader
// already stands at the start of a line.
func (f *FieldReader) SkipLine() error {
	if f.bol {
		return nil
	}
	_, err := f.r.ReadString('\n')
	f.bol = true
	return err
}

// AtEOF reports whether the input is exhausted.
func (f *FieldReader) AtEOF() bool {
	_, err := f.r.Peek(1)
	return err != nil
}

func (f *FieldReader) peek() (byte, bool) {
	b, err := f.r.Peek(1)
	if err != nil {
		return 0, false
	}
	return b[0], true
}

func (f *FieldReader) next() (byte, bool) {
	b, err := f.r.ReadByte()
	if err != nil {
		return 0, false
	}
	f.bol = b == '\n'
	return b, true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\v' || b == '\f'
}

func (f *FieldReader) skipSpace() {
	for {
		b, ok := f.peek()
		if !ok || !isSpace(b) {
			return
		}
		f.next()
	}
}

// readUntil consumes input up to and including the first byte in stops. The
// returned stop byte is 0 when input ran out first.
func (f *FieldReader) readUntil(stops string) (string, byte) {
	var sb strings.Builder
	for {
		b, ok := f.next()
		if !ok {
			return sb.String(), 0
		}
		if strings.IndexByte(stops, b) >= 0 {
			return sb.String(), b
		}
		sb.WriteByte(b)
	}
}

// readInt skips leading white space and reads an optionally signed decimal integer.
func (f *FieldReader) readInt() (int, bool) {
	if f.Failed() {
		return 0, false
	}
	f.skipSpace()

	var sb strings.Builder
	if b, ok := f.peek(); ok && (b == '+' || b == '-') {
		f.next()
		sb.WriteByte(b)
	}
	digits := 0
	for {
		b, ok := f.peek()
		if !ok || b < '0' || b > '9' {
			break
		}
		f.next()
		sb.WriteByte(b)
		digits++
	}
	if digits == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(sb.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

// readChar skips leading white space and reads one byte.
func (f *FieldReader) readChar() (byte, bool) {
	if f.Failed() {
		return 0, false
	}
	f.skipSpace()
	return f.next()
}

// skipLabel discards an interactive "Label:" prefix.
func (f *FieldReader) skipLabel() bool {
	if f.Failed() {
		return false
	}
	for n := 0; n < maxLabelLength; n++ {
		b, ok := f.next()
		if !ok {
			break
		}
		if b == ':' {
			return true
		}
	}
	f.Fail(errLabel)
	return false
}

// readToken skips leading white space and reads up to the next white space or ';'.
func (f *FieldReader) readToken() (string, bool) {
	if f.Failed() {
		return "", false
	}
	f.skipSpace()

	var sb strings.Builder
	for {
		b, ok := f.peek()
		if !ok || isSpace(b) || b == ';' {
			break
		}
		f.next()
		sb.WriteByte(b)
	}
	return sb.String(), sb.Len() > 0
}

// labelled discards a label and returns the value token that follows it.
func (f *FieldReader) labelled() (string, bool) {
	if !f.skipLabel() {
		return "", false
	}
	return f.readToken()
}

// skipLineEnd consumes an optional line terminator.
func (f *FieldReader) skipLineEnd() {
	if b, ok := f.peek(); ok && b == '\r' {
		f.next()
	}
	if b, ok := f.peek(); ok && b == '\n' {
		f.next()
	}
}

// endOfRecord consumes trailing blanks and the line terminator, failing on any other
// input.
func (f *FieldReader) endOfRecord() bool {
	for {
		b, ok := f.peek()
		if !ok {
			return true
		}
		switch b {
		case ' ', '\t', '\r':
			f.next()
		case '\n':
			f.next()
			return true
		default:
			return false
		}
	}
}
