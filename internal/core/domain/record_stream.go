package domain

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Rejection is a record line that could not be decoded.
type Rejection struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (r Rejection) String() string {
	return fmt.Sprintf("line %d: %s", r.Line, r.Reason)
}

// MaxRecordLine is the longest record line DecodeRecords accepts, in bytes.
const MaxRecordLine = 64 << 10

// DecodeRecords reads one machine record per line. Blank lines are skipped.
// Lines that do not decode, or are longer than MaxRecordLine, are returned as
// rejections; the error is only set when r itself fails.
func DecodeRecords(r io.Reader) ([]Item, []Rejection, error) {
	var (
		items    []Item
		rejected []Rejection
	)

	br := bufio.NewReader(r)
	line := 0
	for {
		raw, tooLong, err := readRecordLine(br)
		if err != nil && err != io.EOF {
			return items, rejected, fmt.Errorf("read records: %w", err)
		}
		if err == io.EOF && len(raw) == 0 && !tooLong {
			break
		}
		line++

		switch text := string(raw); {
		case tooLong:
			rejected = append(rejected, Rejection{Line: line, Reason: fmt.Sprintf("line longer than %d bytes", MaxRecordLine)})
		case strings.TrimSpace(text) == "":
		default:
			item, uerr := UnmarshalRecord(text)
			if uerr != nil {
				rejected = append(rejected, Rejection{Line: line, Reason: uerr.Error()})
				break
			}
			items = append(items, item)
		}

		if err == io.EOF {
			break
		}
	}

	return items, rejected, nil
}

// readRecordLine returns the next line without its line ending. The content of
// a line over MaxRecordLine is dropped and tooLong is set.
func readRecordLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		frag, isPrefix, rerr := br.ReadLine()
		if rerr != nil {
			return line, tooLong, rerr
		}
		if !tooLong {
			if len(line)+len(frag) > MaxRecordLine {
				tooLong = true
				line = nil
			} else {
				line = append(line, frag...)
			}
		}
		if !isPrefix {
			return line, tooLong, nil
		}
	}
}

// EncodeRecords writes each item as a record line.
func EncodeRecords(w io.Writer, items []Item) error {
	bw := bufio.NewWriter(w)
	for _, item := range items {
		if err := item.Store(bw, true); err != nil {
			return fmt.Errorf("store %q: %w", item.SKU(), err)
		}
	}
	return bw.Flush()
}
