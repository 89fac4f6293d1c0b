package main

import (
	"errors"

	"github.com/BertoldVdb/ms213x-fwpatch/ms213x"
)

const (
	exitOK               = 0
	exitError            = 1
	exitReadError        = 2
	exitBadImage         = 3
	exitUnsupportedBuild = 4
	exitWriteError       = 5
	exitChecksumMismatch = 6
)

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var fe *ms213x.FileError
	if errors.As(err, &fe) {
		if fe.Op == "write" {
			return exitWriteError
		}
		return exitReadError
	}

	switch {
	case errors.Is(err, ms213x.ErrorUnsupportedBuild):
		return exitUnsupportedBuild
	case errors.Is(err, ms213x.ErrorImageTooShort),
		errors.Is(err, ms213x.ErrorInvalidPatchSet),
		errors.Is(err, ms213x.ErrorPatchOutOfRange),
		errors.Is(err, ms213x.ErrorPatchMismatch):
		return exitBadImage
	case errors.Is(err, ms213x.ErrorChecksumMismatch):
		return exitChecksumMismatch
	}
	return exitError
}
