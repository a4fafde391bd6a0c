package loader

// stream.go provides the reader wrappers applied to uploaded bytes before
// parsing:
//
//   - BOMSkippingReader: drops a leading UTF-8 BOM written by Windows tools
//   - UTF8Validator: fails on the first invalid UTF-8 sequence
//   - LimitReader: fails once more than a fixed number of bytes was read

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	br      *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		if head, err := r.br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			if _, err := r.br.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return r.br.Read(p)
}

// EncodingError reports an invalid UTF-8 sequence in delimited input.
type EncodingError struct {
	Offset int64
	Byte   byte
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("invalid UTF-8 byte 0x%02x at offset %d", e.Byte, e.Offset)
}

// UTF8Validator passes bytes through unchanged and fails with an
// *EncodingError at the first invalid sequence. Multi-byte runes split across
// reads are carried over to the next call.
type UTF8Validator struct {
	reader  io.Reader
	pending []byte
	ready   []byte
	offset  int64
	err     error
}

// NewUTF8Validator creates a validating reader.
func NewUTF8Validator(r io.Reader) *UTF8Validator {
	return &UTF8Validator{
		reader:  r,
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Read implements io.Reader.
func (v *UTF8Validator) Read(p []byte) (int, error) {
	if len(v.ready) > 0 {
		n := copy(p, v.ready)
		v.ready = v.ready[n:]
		return n, nil
	}
	if v.err != nil {
		return 0, v.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if len(p) < utf8.UTFMax {
		// Too small to hold a whole rune; validate into scratch space.
		var scratch [utf8.UTFMax]byte
		n, err := v.Read(scratch[:])
		c := copy(p, scratch[:n])
		v.ready = append(v.ready[:0], scratch[c:n]...)
		if len(v.ready) > 0 && err == io.EOF {
			err = nil
			v.err = io.EOF
		}
		return c, err
	}

	off := copy(p, v.pending)
	v.pending = v.pending[:0]

	n, err := v.reader.Read(p[off:])
	n += off
	atEOF := err == io.EOF

	data := p[:n]
	valid := 0
	for valid < len(data) {
		if data[valid] < utf8.RuneSelf {
			valid++
			continue
		}
		if !atEOF && !utf8.FullRune(data[valid:]) {
			break
		}
		r, size := utf8.DecodeRune(data[valid:])
		if r == utf8.RuneError && size == 1 {
			v.err = &EncodingError{Offset: v.offset + int64(valid), Byte: data[valid]}
			if valid > 0 {
				// Deliver the valid prefix; the error follows on the next call.
				v.offset += int64(valid)
				return valid, nil
			}
			return 0, v.err
		}
		valid += size
	}

	v.pending = append(v.pending, data[valid:]...)
	v.offset += int64(valid)
	return valid, err
}

// LimitReader fails with ErrFileTooLarge once more than Max bytes are read.
type LimitReader struct {
	reader    io.Reader
	Max       int64
	BytesRead int64
}

// NewLimitReader wraps r with a byte limit.
func NewLimitReader(r io.Reader, max int64) *LimitReader {
	return &LimitReader{reader: r, Max: max}
}

// Read implements io.Reader.
func (r *LimitReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Exceeded() {
		return 0, r.Err()
	}
	return n, err
}

// Exceeded reports whether more than Max bytes have been read.
func (r *LimitReader) Exceeded() bool {
	return r.BytesRead > r.Max
}

// Err returns the error reported once the limit is exceeded.
func (r *LimitReader) Err() error {
	if r.Max >= 1024*1024 {
		return fmt.Errorf("%w: exceeds %dMB limit", ErrFileTooLarge, r.Max/(1024*1024))
	}
	return fmt.Errorf("%w: exceeds %d byte limit", ErrFileTooLarge, r.Max)
}

// wrapDelimited applies BOM skipping then UTF-8 validation.
func wrapDelimited(r io.Reader) io.Reader {
	return NewUTF8Validator(NewBOMSkippingReader(r))
}
