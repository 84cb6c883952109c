package codec

import (
	"bytes"
	"fmt"
	"iter"
	"os"

	"github.com/leandrodaf/midiutil/sdk/contracts"
)

// SysExFrames yields the F0 ... F7 frames of buf from left to right.
//
// Each frame starts at the next 0xF0 and ends at the first 0xF7 after it; scanning resumes
// one past that 0xF7. A 0xF7 with no 0xF0 before it is skipped. Scanning stops at the
// first missing delimiter, so an unterminated trailing frame is never yielded.
func SysExFrames(buf []byte) iter.Seq[contracts.SysExFrame] {
	return func(yield func(contracts.SysExFrame) bool) {
		pos := 0
		for pos < len(buf) {
			start := bytes.IndexByte(buf[pos:], contracts.SysExStart)
			if start < 0 {
				return
			}
			start += pos
			end := bytes.IndexByte(buf[start+1:], contracts.SysExEnd)
			if end < 0 {
				return
			}
			end += start + 1
			if !yield(contracts.SysExFrame{Start: start, End: end}) {
				return
			}
			pos = end + 1
		}
	}
}

// ReadSysExFile loads a SysEx dump into memory.
func ReadSysExFile(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrFileNotFound, err)
	}
	return buf, nil
}
