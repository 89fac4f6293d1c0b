package main

import (
	"fmt"
	"log"
	"os"

	"github.com/BertoldVdb/ms213x-fwpatch/ms213x"
	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Context struct {
	log ms213x.LogFunc
}

var CLI struct {
	LogLevel int    `optional help:"Higher values give more output."`
	LogFile  string `optional help:"Also write diagnostics to this file, rotated when it grows."`
	NoColor  bool   `optional help:"Do not color the output."`

	Patch       PatchCmd       `cmd help:"Verify and patch a firmware image."`
	Check       CheckCmd       `cmd help:"Show the layout and checksums of a firmware image."`
	Fix         FixCmd         `cmd help:"Recompute both checksums of a firmware image."`
	Dump        DumpCmd        `cmd help:"Hexdump part of a firmware image."`
	Diff        DiffCmd        `cmd help:"Show the bytes that differ between two images."`
	ListPatches ListPatchesCmd `cmd help:"Show the builtin patch tables."`
}

func newLogFunc(level int, file *log.Logger) ms213x.LogFunc {
	return func(l int, format string, param ...interface{}) {
		if l > level {
			return
		}
		str := fmt.Sprintf(format, param...)
		fmt.Println(str)
		if file != nil {
			file.Println(str)
		}
	}
}

func run() int {
	k, err := kong.New(&CLI,
		kong.Name("ms213x_patch"),
		kong.Description("Patch MS2130 firmware images to disable sharpening and scaling."),
		kong.NamedMapper("hex", intMapper{base: 16}))
	if err != nil {
		fmt.Println(err)
		return exitError
	}

	ctx, err := k.Parse(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		return exitError
	}

	if CLI.NoColor {
		color.NoColor = true
	}

	var fileLog *log.Logger
	if CLI.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   CLI.LogFile,
			MaxSize:    1,
			MaxBackups: 5,
			MaxAge:     30,
		}
		defer lj.Close()
		fileLog = log.New(lj, "", log.LstdFlags)
	}

	c := &Context{
		log: newLogFunc(CLI.LogLevel, fileLog),
	}

	if err := ctx.Run(c); err != nil {
		color.New(color.FgRed).Println(err)
		if fileLog != nil {
			fileLog.Println(err)
		}
		return exitCode(err)
	}
	return exitOK
}

func main() {
	os.Exit(run())
}
