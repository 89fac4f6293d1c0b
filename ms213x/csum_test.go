package ms213x

import (
	"bytes"
	"testing"
)

func TestHeaderChecksum(t *testing.T) {
	seq := make([]byte, CodeOffset)
	for i := range seq {
		seq[i] = byte(i)
	}

	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{
			name:     "empty",
			data:     nil,
			expected: 0,
		},
		{
			name:     "flash type is not summed",
			data:     []byte{0x5a, 0xa5},
			expected: 0,
		},
		{
			name:     "short header",
			data:     []byte{0x5a, 0xa5, 0x01, 0x02},
			expected: 0x03,
		},
		{
			name:     "reserved bytes skipped",
			data:     append(make([]byte, 0x0c), 0xff, 0xff, 0xff, 0xff),
			expected: 0,
		},
		{
			/* 2..47 minus 12..15 */
			name:     "sequence",
			data:     seq,
			expected: 1127 - (12 + 13 + 14 + 15),
		},
		{
			name:     "all ones",
			data:     bytes.Repeat([]byte{0xff}, CodeOffset),
			expected: 42 * 0xff,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HeaderChecksum(tt.data)
			if result != tt.expected {
				t.Errorf("HeaderChecksum() = 0x%04X, want 0x%04X", result, tt.expected)
			}
		})
	}
}

func TestCodeChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{
			name:     "empty",
			data:     []byte{},
			expected: 0,
		},
		{
			name:     "multiple bytes",
			data:     []byte{0x01, 0x02, 0x03, 0x04},
			expected: 0x0a,
		},
		{
			name:     "known build sum",
			data:     append(bytes.Repeat([]byte{0xff}, 9), 0xe4),
			expected: MS2130CodeChecksum,
		},
		{
			/* 257 * 255 = 65535 */
			name:     "just below wrap",
			data:     bytes.Repeat([]byte{0xff}, 257),
			expected: 0xffff,
		},
		{
			/* 258 * 255 = 65790 = 0x100fe */
			name:     "wraps at 16 bits",
			data:     bytes.Repeat([]byte{0xff}, 258),
			expected: 0x00fe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CodeChecksum(tt.data)
			if result != tt.expected {
				t.Errorf("CodeChecksum() = 0x%04X, want 0x%04X", result, tt.expected)
			}
		})
	}
}

func TestChecksumsDeterministic(t *testing.T) {
	f := testImage()
	img, err := ParseImage(f)
	if err != nil {
		t.Fatal(err)
	}

	before := append([]byte(nil), f...)
	h1, c1 := img.HeaderChecksum(), img.CodeChecksum()
	h2, c2 := img.HeaderChecksum(), img.CodeChecksum()
	if h1 != h2 || c1 != c2 {
		t.Errorf("checksums differ between runs: %04x/%04x vs %04x/%04x", h1, c1, h2, c2)
	}
	if !bytes.Equal(before, f) {
		t.Error("computing checksums modified the image")
	}
}
