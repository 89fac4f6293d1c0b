package main

import (
	"fmt"
	"os"

	"github.com/BertoldVdb/ms213x-fwpatch/ms213x"
	"github.com/fatih/color"
)

type PatchCmd struct {
	Input     string `optional help:"Firmware image to patch." default:"./4k2.bin"`
	Output    string `optional help:"Where to write the patched image." default:"./patched.bin"`
	PatchSet  string `optional help:"Builtin patch table to apply." default:"ms2130-disable-scaler"`
	PatchFile string `optional help:"Load the patch table from a YAML file instead."`
	FixHeader bool   `optional help:"Also rewrite the header checksum."`
	DryRun    bool   `optional help:"Verify and patch in memory, do not write the output."`
	ShowDiff  bool   `optional help:"Show the bytes each edit changes."`
}

func (p *PatchCmd) patchSet() (ms213x.PatchSet, error) {
	if p.PatchFile != "" {
		return ms213x.LoadPatchSetFile(p.PatchFile)
	}
	set, ok := ms213x.BuiltinPatchSet(p.PatchSet)
	if !ok {
		return ms213x.PatchSet{}, fmt.Errorf("%w: no builtin patch table %q", ms213x.ErrorInvalidPatchSet, p.PatchSet)
	}
	return set, nil
}

func (p *PatchCmd) Run(c *Context) error {
	set, err := p.patchSet()
	if err != nil {
		return err
	}
	c.log(1, "Using patch table %s (%d edits, code checksum %04x)", set.Name, len(set.Edits), set.CodeChecksum)

	r, err := ms213x.PatchFile(p.Input, p.Output, ms213x.Config{
		Patches:           &set,
		FixHeaderChecksum: p.FixHeader,
		DryRun:            p.DryRun,
		LogFunc:           c.log,
	})

	if r.Reached >= ms213x.StageCodeVerified {
		yellow := color.New(color.FgYellow)
		if !r.HeaderChecksumOK() {
			yellow.Println("Warning: stored header checksum is wrong")
		}
		if !r.CodeChecksumOK() {
			yellow.Println("Warning: stored code checksum is wrong")
		}
	}
	if err != nil {
		return err
	}

	if p.ShowDiff {
		printEdits(os.Stdout, r.Edits)
	}

	green := color.New(color.FgGreen)
	if p.DryRun {
		green.Printf("Patch can be applied, %d bytes changed\n", len(r.Changed))
	} else {
		green.Printf("Patch applied, %d bytes changed\n", len(r.Changed))
	}
	return nil
}
