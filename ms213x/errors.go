package ms213x

import (
	"errors"
	"fmt"
)

var (
	ErrorImageTooShort    = errors.New("Image is too short")
	ErrorChecksumMismatch = errors.New("Checksum mismatch")
	ErrorUnsupportedBuild = errors.New("Firmware build is not supported")
	ErrorPatchOutOfRange  = errors.New("Patch does not fit in code region")
	ErrorPatchMismatch    = errors.New("Original bytes do not match patch")
	ErrorInvalidPatchSet  = errors.New("Invalid patch set")
)

// ChecksumMismatchError reports a stored checksum that differs from the one
// computed over the image.
type ChecksumMismatchError struct {
	Field    string
	Stored   uint16
	Computed uint16
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("%s checksum mismatch: %04x != %04x", e.Field, e.Stored, e.Computed)
}

func (e *ChecksumMismatchError) Is(target error) bool {
	return target == ErrorChecksumMismatch
}

// UnsupportedBuildError is returned when the code checksum does not identify
// the build a patch set was made for.
type UnsupportedBuildError struct {
	Expected uint16
	Actual   uint16
}

func (e *UnsupportedBuildError) Error() string {
	return fmt.Sprintf("code checksum %04x does not match the supported build %04x, patch not applied", e.Actual, e.Expected)
}

func (e *UnsupportedBuildError) Is(target error) bool {
	return target == ErrorUnsupportedBuild
}

// FileError wraps a failure to read or write an image file. Op is "read" or
// "write".
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
