package main

import (
	"github.com/BertoldVdb/ms213x-fwpatch/ms213x"
)

type FixCmd struct {
	Input  string `arg help:"Firmware image with wrong checksums."`
	Output string `arg help:"Where to write the fixed image."`
}

func (w *FixCmd) Run(c *Context) error {
	f, err := readFile(w.Input)
	if err != nil {
		return err
	}

	img, err := ms213x.ParseImage(f)
	if err != nil {
		return err
	}

	c.log(0, "Header checksum: %04x -> %04x", img.StoredHeaderChecksum(), img.HeaderChecksum())
	c.log(0, "Code checksum: %04x -> %04x", img.StoredCodeChecksum(), img.CodeChecksum())
	if err := ms213x.FixImage(f); err != nil {
		return err
	}

	if err := ms213x.WriteFileAtomic(w.Output, f); err != nil {
		return err
	}
	c.log(0, "Fixed image written to %s", w.Output)
	return nil
}
