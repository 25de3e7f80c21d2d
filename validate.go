package mdhtml

import (
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput returns an error if the input is not valid UTF-8 or appears binary.
func ValidateInput(src []byte) error {
	if !utf8.Valid(src) {
		return ErrInvalidUTF8
	}
	var v validator
	return v.addLine(string(src))
}

// validator applies the ValidateInput checks incrementally, one line at a
// time, keeping the control-character ratio over everything seen so far.
type validator struct {
	total   int
	control int
}

func (v *validator) addLine(line string) error {
	if !utf8.ValidString(line) {
		return ErrInvalidUTF8
	}
	for i := 0; i < len(line); i++ {
		b := line[i]
		v.total++
		if b == 0x00 {
			return ErrBinaryInput
		}
		if isControlByte(b) {
			v.control++
		}
	}
	if v.total >= minBinarySample && v.control*100 >= v.total*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

func isControlByte(b byte) bool {
	if b < 0x09 {
		return true
	}
	if b > 0x0D && b < 0x20 {
		return true
	}
	return b == 0x7F
}
