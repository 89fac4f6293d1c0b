package main

import (
	"fmt"
	"io"

	"github.com/BertoldVdb/ms213x-fwpatch/ms213x"
	"github.com/fatih/color"
)

type DiffCmd struct {
	Original string `arg help:"Original image."`
	Modified string `arg help:"Modified image."`
}

func (d *DiffCmd) Run(c *Context) error {
	a, err := readFile(d.Original)
	if err != nil {
		return err
	}
	b, err := readFile(d.Modified)
	if err != nil {
		return err
	}

	if len(a) != len(b) {
		color.Yellow("Length differs: %d != %d, comparing first %d bytes", len(a), len(b), min(len(a), len(b)))
	}

	mark, count := diffMarks(a, b)
	fmt.Print(hexdump(0, b[:len(mark)], mark, true))
	fmt.Printf("%d bytes differ\n", count)
	return nil
}

func printEdits(w io.Writer, edits []ms213x.AppliedEdit) {
	for _, e := range edits {
		fmt.Fprintf(w, "%08x  %s -> %s  %s\n", e.Offset,
			color.RedString("%x", e.Before), color.GreenString("%x", e.After), e.Description)
	}
}
