package ms213x

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

type Stage int

const (
	StageLoaded Stage = iota
	StageHeaderVerified
	StageCodeVerified
	StagePatchGateChecked
	StagePatched
	StageRechecksummed
	StageWritten
	StageFailed
)

var stageNames = [...]string{
	StageLoaded:           "loaded",
	StageHeaderVerified:   "header-verified",
	StageCodeVerified:     "code-verified",
	StagePatchGateChecked: "patch-gate-checked",
	StagePatched:          "patched",
	StageRechecksummed:    "rechecksummed",
	StageWritten:          "written",
	StageFailed:           "failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

type LogFunc func(level int, format string, param ...interface{})

type Config struct {
	// Patches defaults to MS2130DisableScaler.
	Patches *PatchSet

	// FixHeaderChecksum also rewrites the header checksum after patching.
	FixHeaderChecksum bool

	// DryRun stops before anything is written.
	DryRun bool

	LogFunc LogFunc
}

func (c *Config) log(level int, format string, param ...interface{}) {
	if c.LogFunc != nil {
		c.LogFunc(level, format, param...)
	}
}

func (c *Config) patches() *PatchSet {
	if c.Patches != nil {
		return c.Patches
	}
	return &MS2130DisableScaler
}

// Report describes what a pipeline run found and did.
type Report struct {
	Stage Stage

	// Reached is the last stage completed, it is kept when Stage becomes
	// StageFailed.
	Reached Stage

	FileLength int
	CodeLength int
	FlashType  uint16
	CodeSHA256 string

	StoredHeaderChecksum   uint16
	ComputedHeaderChecksum uint16
	StoredCodeChecksum     uint16
	ComputedCodeChecksum   uint16
	PatchedCodeChecksum    uint16

	// Edits lists what each edit overwrote, offsets are into the image.
	Edits []AppliedEdit

	// Changed holds the image offsets whose value differs after patching.
	Changed []int
}

type AppliedEdit struct {
	Offset      int
	Before      []byte
	After       []byte
	Description string
}

func (r *Report) HeaderChecksumOK() bool {
	return r.StoredHeaderChecksum == r.ComputedHeaderChecksum
}

func (r *Report) CodeChecksumOK() bool {
	return r.StoredCodeChecksum == r.ComputedCodeChecksum
}

func (r *Report) advance(s Stage) {
	r.Stage = s
	r.Reached = s
}

func (r *Report) fail(err error) (*Report, error) {
	r.Stage = StageFailed
	return r, err
}

// PatchImage runs the verify, patch and re-checksum stages on f in place.
// f is left untouched when an error is returned. The returned report is never
// nil.
func PatchImage(f []byte, cfg Config) (*Report, error) {
	r := &Report{
		Stage:      StageLoaded,
		FileLength: len(f),
	}
	cfg.log(0, "Length of file: %d", len(f))

	img, err := ParseImage(f)
	if err != nil {
		return r.fail(err)
	}
	r.CodeLength = img.CodeLen()
	r.FlashType = img.FlashType()
	hash := sha256.Sum256(img.Code())
	r.CodeSHA256 = hex.EncodeToString(hash[:])
	cfg.log(0, "Code length: %d", r.CodeLength)
	if !img.FlashTypeKnown() {
		cfg.log(0, "Unknown flash type: %04x", r.FlashType)
	}
	cfg.log(1, "Code SHA-256: %s", r.CodeSHA256)

	r.StoredHeaderChecksum = img.StoredHeaderChecksum()
	r.ComputedHeaderChecksum = img.HeaderChecksum()
	if !r.HeaderChecksumOK() {
		cfg.log(0, "Original header checksum mismatch: %04x != %04x", r.StoredHeaderChecksum, r.ComputedHeaderChecksum)
	} else {
		cfg.log(0, "Original header checksum matches: %04x", r.StoredHeaderChecksum)
	}
	r.advance(StageHeaderVerified)

	r.StoredCodeChecksum = img.StoredCodeChecksum()
	r.ComputedCodeChecksum = img.CodeChecksum()
	if !r.CodeChecksumOK() {
		cfg.log(0, "Original code checksum mismatch: %04x != %04x", r.StoredCodeChecksum, r.ComputedCodeChecksum)
	} else {
		cfg.log(0, "Original code checksum matches: %04x", r.StoredCodeChecksum)
	}
	r.advance(StageCodeVerified)

	set := cfg.patches()
	code := img.Code()
	if err := set.Check(code); err != nil {
		return r.fail(err)
	}
	r.advance(StagePatchGateChecked)

	orig := append([]byte(nil), code...)
	for _, e := range set.Edits {
		before := append([]byte(nil), code[e.Offset:e.Offset+len(e.Data)]...)
		cfg.log(1, "Patching %04x: %s", e.Offset, e.Description)
		cfg.log(2, "  %x -> %x", before, e.Data)
		r.Edits = append(r.Edits, AppliedEdit{
			Offset:      CodeOffset + e.Offset,
			Before:      before,
			After:       e.Data,
			Description: e.Description,
		})
	}
	if err := set.Apply(code); err != nil {
		return r.fail(err)
	}
	for n := range code {
		if code[n] != orig[n] {
			r.Changed = append(r.Changed, CodeOffset+n)
		}
	}
	r.advance(StagePatched)

	r.PatchedCodeChecksum = img.UpdateCodeChecksum()
	cfg.log(0, "New code checksum: %04x", r.PatchedCodeChecksum)
	if cfg.FixHeaderChecksum {
		cfg.log(0, "New header checksum: %04x", img.UpdateHeaderChecksum())
	}
	r.advance(StageRechecksummed)

	return r, nil
}

// PatchFile reads input, patches it and writes the result to output. No
// output file exists after an error.
func PatchFile(input, output string, cfg Config) (*Report, error) {
	f, err := os.ReadFile(input)
	if err != nil {
		r := &Report{Stage: StageFailed}
		return r, &FileError{Op: "read", Path: input, Err: err}
	}

	r, err := PatchImage(f, cfg)
	if err != nil {
		cfg.log(0, "Failed: %v", err)
		return r, err
	}
	if cfg.DryRun {
		cfg.log(0, "Dry run, not writing %s", output)
		return r, nil
	}

	if err := WriteFileAtomic(output, f); err != nil {
		return r.fail(err)
	}
	r.advance(StageWritten)
	cfg.log(0, "Patched image written to %s", output)
	return r, nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place. On error the temporary file is removed. A new file gets mode
// 0644 minus the umask, an existing file keeps its mode.
func WriteFileAtomic(path string, data []byte) (err error) {
	name := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	os.Remove(name)

	tmp, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return &FileError{Op: "write", Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(name)
			err = &FileError{Op: "write", Path: path, Err: err}
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if info, statErr := os.Stat(path); statErr == nil {
		if err = tmp.Chmod(info.Mode().Perm()); err != nil {
			return err
		}
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(name, path)
}
