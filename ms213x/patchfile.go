package ms213x

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

/* Patch files look like this:
 *
 *   name: ms2130-disable-scaler
 *   codeChecksum: 0x09db
 *   edits:
 *     - offset: 0x9604
 *       bytes: bf 44
 *       description: ...
 */

type yamlHex int

func (h yamlHex) MarshalYAML() (interface{}, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!int",
		Value: fmt.Sprintf("0x%04x", int(h)),
	}, nil
}

func (h *yamlHex) UnmarshalYAML(value *yaml.Node) error {
	var v int
	if err := value.Decode(&v); err != nil {
		return err
	}
	*h = yamlHex(v)
	return nil
}

type yamlEdit struct {
	Offset      yamlHex `yaml:"offset"`
	Bytes       string  `yaml:"bytes"`
	Expect      string  `yaml:"expect,omitempty"`
	Description string  `yaml:"description,omitempty"`
}

type yamlPatchSet struct {
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description,omitempty"`
	CodeChecksum yamlHex    `yaml:"codeChecksum"`
	Edits        []yamlEdit `yaml:"edits"`
}

func decodeHexBytes(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	return hex.DecodeString(s)
}

func encodeHexBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, m := range b {
		parts[i] = fmt.Sprintf("%02x", m)
	}
	return strings.Join(parts, " ")
}

// LoadPatchSet decodes a YAML patch file. Unknown keys are an error.
func LoadPatchSet(r io.Reader) (PatchSet, error) {
	var y yamlPatchSet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&y); err != nil {
		return PatchSet{}, fmt.Errorf("%w: %v", ErrorInvalidPatchSet, err)
	}

	if y.Name == "" {
		return PatchSet{}, fmt.Errorf("%w: missing name", ErrorInvalidPatchSet)
	}
	if y.CodeChecksum < 0 || y.CodeChecksum > 0xffff {
		return PatchSet{}, fmt.Errorf("%w: code checksum %x does not fit in 16 bits", ErrorInvalidPatchSet, int(y.CodeChecksum))
	}

	s := PatchSet{
		Name:         y.Name,
		Description:  y.Description,
		CodeChecksum: uint16(y.CodeChecksum),
	}
	for n, e := range y.Edits {
		if e.Offset < 0 || e.Offset > 0xffff {
			return PatchSet{}, fmt.Errorf("%w: edit %d offset %x does not fit in 16 bits", ErrorPatchOutOfRange, n, int(e.Offset))
		}
		data, err := decodeHexBytes(e.Bytes)
		if err != nil {
			return PatchSet{}, fmt.Errorf("%w: edit %d: %v", ErrorInvalidPatchSet, n, err)
		}
		edit := PatchEdit{
			Offset:      int(e.Offset),
			Data:        data,
			Description: e.Description,
		}
		if e.Expect != "" {
			if edit.Expect, err = decodeHexBytes(e.Expect); err != nil {
				return PatchSet{}, fmt.Errorf("%w: edit %d expect: %v", ErrorInvalidPatchSet, n, err)
			}
		}
		s.Edits = append(s.Edits, edit)
	}

	/* The code length is only known once an image is loaded, so only check
	 * what doesn't depend on it */
	if err := s.Validate(0x10000); err != nil {
		return PatchSet{}, err
	}
	return s, nil
}

func LoadPatchSetFile(path string) (PatchSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return PatchSet{}, &FileError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()
	return LoadPatchSet(f)
}

// MarshalPatchSet encodes s in the format read by LoadPatchSet.
func MarshalPatchSet(s PatchSet) ([]byte, error) {
	y := yamlPatchSet{
		Name:         s.Name,
		Description:  s.Description,
		CodeChecksum: yamlHex(s.CodeChecksum),
	}
	for _, e := range s.Edits {
		edit := yamlEdit{
			Offset:      yamlHex(e.Offset),
			Bytes:       encodeHexBytes(e.Data),
			Description: e.Description,
		}
		if e.Expect != nil {
			edit.Expect = encodeHexBytes(e.Expect)
		}
		y.Edits = append(y.Edits, edit)
	}
	return yaml.Marshal(&y)
}
