package ms213x

import (
	"encoding/binary"
	"fmt"
)

const (
	// CodeOffset is where the code region starts in a flash image.
	CodeOffset = 0x30

	trailerLen = 4
)

var knownFlashTypes = []uint16{0x5aa5, 0x6996, 0x3cc3}

// Image is a firmware image held in memory. It takes ownership of the buffer
// passed to ParseImage, all modifications happen in place.
type Image struct {
	f       []byte
	codeLen int
}

// ParseImage reads the code length from the header and checks that the code
// region and both trailing checksums fit in f.
func ParseImage(f []byte) (*Image, error) {
	if len(f) < CodeOffset+trailerLen {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrorImageTooShort, len(f), CodeOffset+trailerLen)
	}

	codeLen := int(binary.BigEndian.Uint16(f[2:]))
	if end := CodeOffset + codeLen + trailerLen; len(f) < end {
		return nil, fmt.Errorf("%w: %d bytes, code length %d needs %d", ErrorImageTooShort, len(f), codeLen, end)
	}

	return &Image{
		f:       f,
		codeLen: codeLen,
	}, nil
}

func (i *Image) Len() int {
	return len(i.f)
}

func (i *Image) CodeLen() int {
	return i.codeLen
}

// Bytes returns the whole backing buffer.
func (i *Image) Bytes() []byte {
	return i.f
}

func (i *Image) Header() []byte {
	return i.f[:CodeOffset]
}

// Code returns the code region. The slice aliases the image.
func (i *Image) Code() []byte {
	return i.f[CodeOffset:i.codeEnd()]
}

// Trailer returns the two stored checksums.
func (i *Image) Trailer() []byte {
	return i.f[i.codeEnd() : i.codeEnd()+trailerLen]
}

func (i *Image) codeEnd() int {
	return CodeOffset + i.codeLen
}

// FlashType is the first header word, which tells the boot ROM what kind of
// flash the image was made for.
func (i *Image) FlashType() uint16 {
	return binary.BigEndian.Uint16(i.f)
}

func (i *Image) FlashTypeKnown() bool {
	t := i.FlashType()
	for _, m := range knownFlashTypes {
		if m == t {
			return true
		}
	}
	return false
}

func (i *Image) StoredHeaderChecksum() uint16 {
	return binary.BigEndian.Uint16(i.f[i.codeEnd():])
}

func (i *Image) StoredCodeChecksum() uint16 {
	return binary.BigEndian.Uint16(i.f[i.codeEnd()+2:])
}

func (i *Image) HeaderChecksum() uint16 {
	return HeaderChecksum(i.Header())
}

func (i *Image) CodeChecksum() uint16 {
	return CodeChecksum(i.Code())
}

// UpdateCodeChecksum recomputes the code checksum and stores it. The header
// checksum field is not touched.
func (i *Image) UpdateCodeChecksum() uint16 {
	csum := i.CodeChecksum()
	binary.BigEndian.PutUint16(i.f[i.codeEnd()+2:], csum)
	return csum
}

func (i *Image) UpdateHeaderChecksum() uint16 {
	csum := i.HeaderChecksum()
	binary.BigEndian.PutUint16(i.f[i.codeEnd():], csum)
	return csum
}

// Verify compares both stored checksums against the image contents.
func (i *Image) Verify() error {
	if hdrSum, hdrImg := i.HeaderChecksum(), i.StoredHeaderChecksum(); hdrSum != hdrImg {
		return &ChecksumMismatchError{Field: "header", Stored: hdrImg, Computed: hdrSum}
	}
	if codeSum, codeImg := i.CodeChecksum(), i.StoredCodeChecksum(); codeSum != codeImg {
		return &ChecksumMismatchError{Field: "code", Stored: codeImg, Computed: codeSum}
	}
	return nil
}

// CheckImage parses f and verifies both checksums.
func CheckImage(f []byte) error {
	img, err := ParseImage(f)
	if err != nil {
		return err
	}
	return img.Verify()
}

// FixImage rewrites both stored checksums of f.
func FixImage(f []byte) error {
	img, err := ParseImage(f)
	if err != nil {
		return err
	}
	img.UpdateHeaderChecksum()
	img.UpdateCodeChecksum()
	return nil
}
