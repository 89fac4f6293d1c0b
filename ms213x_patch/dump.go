package main

import (
	"errors"
	"fmt"

	"github.com/BertoldVdb/ms213x-fwpatch/ms213x"
)

type DumpCmd struct {
	Filename string `arg help:"Firmware image to dump."`
	Region   string `optional help:"Part of the image: header, code, trailer or all." enum:"header,code,trailer,all" default:"all"`
	Offset   int    `optional help:"Offset into the region, in hex." type:"hex"`
	Amount   int    `optional help:"Number of bytes to show in hex, omit for the rest of the region." type:"hex"`
}

func (d *DumpCmd) region(img *ms213x.Image) (int, []byte) {
	switch d.Region {
	case "header":
		return 0, img.Header()
	case "code":
		return ms213x.CodeOffset, img.Code()
	case "trailer":
		return ms213x.CodeOffset + img.CodeLen(), img.Trailer()
	}
	return 0, img.Bytes()
}

func (d *DumpCmd) Run(c *Context) error {
	f, err := readFile(d.Filename)
	if err != nil {
		return err
	}

	img, err := ms213x.ParseImage(f)
	if err != nil {
		return err
	}

	base, data := d.region(img)
	if d.Offset < 0 || d.Offset > len(data) {
		return errors.New("Offset out of range")
	}
	data = data[d.Offset:]
	if d.Amount > 0 && d.Amount < len(data) {
		data = data[:d.Amount]
	}

	fmt.Print(hexdump(base+d.Offset, data, nil, false))
	return nil
}
