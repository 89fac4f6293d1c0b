package ms213x

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func testCode() []byte {
	f := testImage()
	return f[CodeOffset : CodeOffset+testCodeLen]
}

func TestBuiltinPatchApply(t *testing.T) {
	code := testCode()
	set, ok := BuiltinPatchSet("ms2130-disable-scaler")
	if !ok {
		t.Fatal("builtin patch set not found")
	}

	if err := set.Apply(code); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := map[int]byte{
		0x9604: 0xbf, 0x9605: 0x44,
		0x960d: 0xbf, 0x960e: 0x44,
		0xbe90: 0x00, 0xbe91: 0x06,
		0xbee8: 0x80,
		0x937e: 0x00, 0x937f: 0x7e, 0x9380: 0x10,
		0x9399: 0x00, 0x939a: 0x7e, 0x939b: 0x10,
	}
	for offset, value := range want {
		if code[offset] != value {
			t.Errorf("code[%04x] = %02x, want %02x", offset, code[offset], value)
		}
	}

	if got := CodeChecksum(code); got != 0x0d83 {
		t.Errorf("CodeChecksum() after patch = %04x, want 0d83", got)
	}
}

func TestPatchGate(t *testing.T) {
	code := testCode()
	code[9]++
	before := append([]byte(nil), code...)

	err := MS2130DisableScaler.Apply(code)
	var unsupported *UnsupportedBuildError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Apply() error = %v, want UnsupportedBuildError", err)
	}
	if unsupported.Actual != 0x09dc || unsupported.Expected != MS2130CodeChecksum {
		t.Errorf("UnsupportedBuildError = %+v, want actual 09dc expected 09db", *unsupported)
	}
	if !errors.Is(err, ErrorUnsupportedBuild) {
		t.Errorf("errors.Is(err, ErrorUnsupportedBuild) = false")
	}
	if !bytes.Equal(code, before) {
		t.Error("code modified although gate failed")
	}
}

func TestPatchSetAllOrNothing(t *testing.T) {
	tests := []struct {
		name  string
		edits []PatchEdit
		want  error
	}{
		{
			name: "last edit out of range",
			edits: []PatchEdit{
				{Offset: 0x100, Data: []byte{0x01}},
				{Offset: testCodeLen - 1, Data: []byte{0x01, 0x02}},
			},
			want: ErrorPatchOutOfRange,
		},
		{
			name: "offset sum overflows",
			edits: []PatchEdit{
				{Offset: math.MaxInt, Data: []byte{0xaa}},
			},
			want: ErrorPatchOutOfRange,
		},
		{
			name: "data longer than code",
			edits: []PatchEdit{
				{Offset: 0, Data: make([]byte, testCodeLen+1)},
			},
			want: ErrorPatchOutOfRange,
		},
		{
			name: "negative offset",
			edits: []PatchEdit{
				{Offset: -1, Data: []byte{0x01}},
			},
			want: ErrorPatchOutOfRange,
		},
		{
			name: "expected bytes differ",
			edits: []PatchEdit{
				{Offset: 0x100, Data: []byte{0x01}},
				{Offset: 0x200, Data: []byte{0x01, 0x02}, Expect: []byte{0x00, 0x01}},
			},
			want: ErrorPatchMismatch,
		},
		{
			name: "expect length differs",
			edits: []PatchEdit{
				{Offset: 0x200, Data: []byte{0x01, 0x02}, Expect: []byte{0x00}},
			},
			want: ErrorInvalidPatchSet,
		},
		{
			name: "empty edit",
			edits: []PatchEdit{
				{Offset: 0x200},
			},
			want: ErrorInvalidPatchSet,
		},
		{
			name: "no edits",
			want: ErrorInvalidPatchSet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := testCode()
			before := append([]byte(nil), code...)
			set := PatchSet{
				Name:         tt.name,
				CodeChecksum: MS2130CodeChecksum,
				Edits:        tt.edits,
			}

			err := set.Apply(code)
			if !errors.Is(err, tt.want) {
				t.Errorf("Apply() error = %v, want %v", err, tt.want)
			}
			if !bytes.Equal(code, before) {
				t.Error("code modified although Apply() failed")
			}
		})
	}
}

func TestPatchSetExpectMatches(t *testing.T) {
	code := testCode()
	set := PatchSet{
		Name:         "expect",
		CodeChecksum: MS2130CodeChecksum,
		Edits: []PatchEdit{
			{Offset: 0x08, Data: []byte{0x00, 0x00}, Expect: []byte{0xff, 0xe4}},
		},
	}

	if err := set.Apply(code); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if code[0x08] != 0 || code[0x09] != 0 {
		t.Errorf("code[8:10] = %x, want 0000", code[0x08:0x0a])
	}
}

func TestPatchSetLaterEditWins(t *testing.T) {
	code := testCode()
	set := PatchSet{
		Name:         "overlap",
		CodeChecksum: MS2130CodeChecksum,
		Edits: []PatchEdit{
			{Offset: 0x300, Data: []byte{0x11, 0x22}},
			{Offset: 0x301, Data: []byte{0x33}},
		},
	}

	if err := set.Apply(code); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !bytes.Equal(code[0x300:0x302], []byte{0x11, 0x33}) {
		t.Errorf("code[300:302] = %x, want 1133", code[0x300:0x302])
	}
}

func TestBuiltinPatchSetIsCopy(t *testing.T) {
	a, _ := BuiltinPatchSet(MS2130DisableScaler.Name)
	a.Edits[0].Data[0] = 0x00

	if MS2130DisableScaler.Edits[0].Data[0] != 0xbf {
		t.Error("modifying a returned set changed the builtin table")
	}
	if names := BuiltinPatchSets(); len(names) != 1 || names[0] != MS2130DisableScaler.Name {
		t.Errorf("BuiltinPatchSets() = %v", names)
	}
	if _, ok := BuiltinPatchSet("nope"); ok {
		t.Error("BuiltinPatchSet(\"nope\") found a set")
	}
}

func TestBuiltinPatchSetFitsBuild(t *testing.T) {
	/* The largest offset written is 0xbee8 */
	if err := MS2130DisableScaler.Validate(0xbee9); err != nil {
		t.Errorf("Validate(0xbee9) error = %v", err)
	}
	if err := MS2130DisableScaler.Validate(0xbee8); !errors.Is(err, ErrorPatchOutOfRange) {
		t.Errorf("Validate(0xbee8) error = %v, want ErrorPatchOutOfRange", err)
	}
	if n := MS2130DisableScaler.Len(); n != 13 {
		t.Errorf("Len() = %d, want 13", n)
	}
}
