package ms213x

import (
	"bytes"
	"fmt"
)

// PatchEdit overwrites Data at Offset in the code region. When Expect is set
// the original bytes must match it.
type PatchEdit struct {
	Offset      int
	Data        []byte
	Expect      []byte
	Description string
}

// PatchSet is an ordered list of edits made against one firmware build,
// identified by the checksum of its code region.
type PatchSet struct {
	Name         string
	Description  string
	CodeChecksum uint16
	Edits        []PatchEdit
}

// Validate checks that every edit fits in a code region of codeLen bytes.
func (s *PatchSet) Validate(codeLen int) error {
	if len(s.Edits) == 0 {
		return fmt.Errorf("%w: %q has no edits", ErrorInvalidPatchSet, s.Name)
	}
	for n, e := range s.Edits {
		if len(e.Data) == 0 {
			return fmt.Errorf("%w: edit %d at %04x is empty", ErrorInvalidPatchSet, n, e.Offset)
		}
		if e.Expect != nil && len(e.Expect) != len(e.Data) {
			return fmt.Errorf("%w: edit %d at %04x expects %d bytes, writes %d", ErrorInvalidPatchSet, n, e.Offset, len(e.Expect), len(e.Data))
		}
		if e.Offset < 0 || len(e.Data) > codeLen || e.Offset > codeLen-len(e.Data) {
			return fmt.Errorf("%w: edit %d at %04x+%d, code length %d", ErrorPatchOutOfRange, n, e.Offset, len(e.Data), codeLen)
		}
	}
	return nil
}

// Check reports whether the set can be applied to code without writing
// anything.
func (s *PatchSet) Check(code []byte) error {
	if csum := CodeChecksum(code); csum != s.CodeChecksum {
		return &UnsupportedBuildError{Expected: s.CodeChecksum, Actual: csum}
	}
	if err := s.Validate(len(code)); err != nil {
		return err
	}
	for n, e := range s.Edits {
		if e.Expect == nil {
			continue
		}
		if orig := code[e.Offset : e.Offset+len(e.Data)]; !bytes.Equal(orig, e.Expect) {
			return fmt.Errorf("%w: edit %d at %04x is %x, expected %x", ErrorPatchMismatch, n, e.Offset, orig, e.Expect)
		}
	}
	return nil
}

// Apply overwrites every edit in order. Nothing is written unless the code
// checksum matches the set and all edits pass Check.
func (s *PatchSet) Apply(code []byte) error {
	if err := s.Check(code); err != nil {
		return err
	}
	for _, e := range s.Edits {
		copy(code[e.Offset:], e.Data)
	}
	return nil
}

// Len is the number of bytes the set writes.
func (s *PatchSet) Len() int {
	total := 0
	for _, e := range s.Edits {
		total += len(e.Data)
	}
	return total
}
