package loader

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestBOMSkippingReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"with BOM", "\xEF\xBB\xBFa,b\n", "a,b\n"},
		{"without BOM", "a,b\n", "a,b\n"},
		{"BOM only", "\xEF\xBB\xBF", ""},
		{"short input", "a", "a"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(NewBOMSkippingReader(strings.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUTF8Validator_Valid(t *testing.T) {
	input := "naïve,日本,emoji 😀\n"

	// One byte at a time forces multi-byte runes to span reads.
	got, err := io.ReadAll(NewUTF8Validator(iotest.OneByteReader(strings.NewReader(input))))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != input {
		t.Errorf("got %q, want %q", got, input)
	}
}

func TestUTF8Validator_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantPrefix string
		wantOffset int64
		wantByte   byte
	}{
		{"latin1 byte", "ok,caf\xe9\n", "ok,caf", 6, 0xe9},
		{"leading invalid", "\xffabc", "", 0, 0xff},
		{"truncated at EOF", "abc\xe6\x97", "abc", 3, 0xe6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(NewUTF8Validator(strings.NewReader(tt.input)))

			var encErr *EncodingError
			if !errors.As(err, &encErr) {
				t.Fatalf("expected *EncodingError, got %v", err)
			}
			if encErr.Offset != tt.wantOffset || encErr.Byte != tt.wantByte {
				t.Errorf("error = %+v, want offset %d byte 0x%02x", encErr, tt.wantOffset, tt.wantByte)
			}
			if string(got) != tt.wantPrefix {
				t.Errorf("valid prefix = %q, want %q", got, tt.wantPrefix)
			}
		})
	}
}

func TestUTF8Validator_SmallBuffer(t *testing.T) {
	input := "a日本😀z"
	v := NewUTF8Validator(strings.NewReader(input))

	var got []byte
	buf := make([]byte, 2)
	for {
		n, err := v.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
	}
	if string(got) != input {
		t.Errorf("got %q, want %q", got, input)
	}
}

func TestLimitReader(t *testing.T) {
	lr := NewLimitReader(strings.NewReader("0123456789"), 10)
	if _, err := io.ReadAll(lr); err != nil {
		t.Fatalf("reading exactly Max bytes: %v", err)
	}

	lr = NewLimitReader(strings.NewReader("0123456789"), 9)
	_, err := io.ReadAll(lr)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if !lr.Exceeded() {
		t.Error("Exceeded() = false after overflow")
	}
	if !strings.Contains(err.Error(), "9 byte limit") {
		t.Errorf("error = %q", err)
	}

	big := NewLimitReader(strings.NewReader(""), 5*1024*1024)
	if got := big.Err().Error(); !strings.Contains(got, "5MB limit") {
		t.Errorf("Err() = %q, want MB limit", got)
	}
}
