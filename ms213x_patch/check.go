package main

import (
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/BertoldVdb/ms213x-fwpatch/ms213x"
	"github.com/fatih/color"
)

func readFile(path string) ([]byte, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, &ms213x.FileError{Op: "read", Path: path, Err: err}
	}
	return f, nil
}

func checkMark(ok bool) string {
	if ok {
		return color.GreenString("OK")
	}
	return color.RedString("MISMATCH")
}

type CheckCmd struct {
	Filename string `arg help:"Firmware image to check."`
}

func (l *CheckCmd) Run(c *Context) error {
	f, err := readFile(l.Filename)
	if err != nil {
		return err
	}

	img, err := ms213x.ParseImage(f)
	if err != nil {
		return err
	}

	flashType := fmt.Sprintf("%04x", img.FlashType())
	if !img.FlashTypeKnown() {
		flashType += color.YellowString(" (unknown)")
	}

	fmt.Printf("Length of file:  %d\n", img.Len())
	fmt.Printf("Flash type:      %s\n", flashType)
	fmt.Printf("Code length:     %d (%04x-%04x)\n", img.CodeLen(), ms213x.CodeOffset, ms213x.CodeOffset+img.CodeLen())
	fmt.Printf("Header checksum: stored %04x, computed %04x %s\n", img.StoredHeaderChecksum(), img.HeaderChecksum(), checkMark(img.StoredHeaderChecksum() == img.HeaderChecksum()))
	fmt.Printf("Code checksum:   stored %04x, computed %04x %s\n", img.StoredCodeChecksum(), img.CodeChecksum(), checkMark(img.StoredCodeChecksum() == img.CodeChecksum()))
	fmt.Printf("Code SHA-256:    %x\n", sha256.Sum256(img.Code()))
	if extra := img.Len() - ms213x.CodeOffset - img.CodeLen() - 4; extra > 0 {
		fmt.Printf("Trailing data:   %d bytes\n", extra)
	}

	supported := false
	for _, name := range ms213x.BuiltinPatchSets() {
		set, _ := ms213x.BuiltinPatchSet(name)
		if set.CodeChecksum == img.CodeChecksum() && set.Validate(img.CodeLen()) == nil {
			fmt.Printf("Patch table:     %s\n", name)
			supported = true
		}
	}
	if !supported {
		fmt.Printf("Patch table:     %s\n", color.YellowString("none for this build"))
	}

	return img.Verify()
}
