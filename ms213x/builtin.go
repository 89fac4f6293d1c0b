package ms213x

import "sort"

// MS2130CodeChecksum identifies the 4K firmware build the builtin patches
// were made against.
const MS2130CodeChecksum = 0x09db

/* Disable the scaler, sharpening etc. on MS2130, also see
 * https://github.com/steve-m/hsdaoh/blob/21a4b470b4c079792034258304f6044bddc8abad/src/libhsdaoh.c#L205 */
var MS2130DisableScaler = PatchSet{
	Name:         "ms2130-disable-scaler",
	Description:  "Disable sharpening and scaling on the MS2130 4K firmware",
	CodeChecksum: MS2130CodeChecksum,
	Edits: []PatchEdit{
		{
			Offset:      0x9604,
			Data:        []byte{0xbf, 0x44},
			Description: "clear_extmem_mask() -> set_extmem_mask(0xf6be, 0x11)",
		},
		{
			Offset:      0x960d,
			Data:        []byte{0xbf, 0x44},
			Description: "clear_extmem_mask() -> set_extmem_mask(0xf6bf, 0x11)",
		},
		{
			Offset:      0xbe90,
			Data:        []byte{0x00, 0x06},
			Description: "FUN_CODE_b8ad() -> clear_extmem_mask(0xf6b0, 0x01), clears bit 0",
		},
		{
			Offset:      0xbee8,
			Data:        []byte{0x80},
			Description: "set_extmem_mask(0xf600, 0x80), sets bit 7",
		},
		{
			Offset:      0x937e,
			Data:        []byte{0x00, 0x7e, 0x10}, /* NOP; MOV R6, #0x10 */
			Description: "horizontal scaler: skip calculation, force scaling off",
		},
		{
			Offset:      0x9399,
			Data:        []byte{0x00, 0x7e, 0x10}, /* NOP; MOV R6, #0x10 */
			Description: "vertical scaler: skip calculation, force scaling off",
		},
	},
}

var builtinPatchSets = map[string]*PatchSet{
	MS2130DisableScaler.Name: &MS2130DisableScaler,
}

// BuiltinPatchSet returns a copy of the named builtin set.
func BuiltinPatchSet(name string) (PatchSet, bool) {
	s, ok := builtinPatchSets[name]
	if !ok {
		return PatchSet{}, false
	}
	return s.clone(), true
}

// BuiltinPatchSets lists the names of all builtin sets, sorted.
func BuiltinPatchSets() []string {
	var names []string
	for name := range builtinPatchSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *PatchSet) clone() PatchSet {
	c := *s
	c.Edits = make([]PatchEdit, len(s.Edits))
	for n, e := range s.Edits {
		c.Edits[n] = PatchEdit{
			Offset:      e.Offset,
			Data:        append([]byte(nil), e.Data...),
			Description: e.Description,
		}
		if e.Expect != nil {
			c.Edits[n].Expect = append([]byte(nil), e.Expect...)
		}
	}
	return c
}
