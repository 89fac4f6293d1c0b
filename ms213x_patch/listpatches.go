package main

import (
	"fmt"
	"os"

	"github.com/BertoldVdb/ms213x-fwpatch/ms213x"
)

type ListPatchesCmd struct {
	YAML bool `optional name:"yaml" help:"Print the tables as patch files."`
}

func (l *ListPatchesCmd) Run(c *Context) error {
	for _, name := range ms213x.BuiltinPatchSets() {
		set, _ := ms213x.BuiltinPatchSet(name)

		if l.YAML {
			out, err := ms213x.MarshalPatchSet(set)
			if err != nil {
				return err
			}
			fmt.Println("---")
			os.Stdout.Write(out)
			continue
		}

		fmt.Printf("%s: %s\n", set.Name, set.Description)
		fmt.Printf("  code checksum %04x, %d edits, %d bytes\n", set.CodeChecksum, len(set.Edits), set.Len())
		for _, e := range set.Edits {
			fmt.Printf("  %04x  %-8x  %s\n", e.Offset, e.Data, e.Description)
		}
	}
	return nil
}
