package main

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
)

// intMapper parses integers in a fixed base. In base 16 a 0x prefix is
// allowed.
type intMapper struct {
	base int
}

func (h intMapper) parse(value string) (int64, error) {
	if h.base == 16 {
		value = strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	}
	return strconv.ParseInt(value, h.base, 64)
}

func (h intMapper) Decode(ctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	err := ctx.Scan.PopValueInto("hex", &value)
	if err != nil {
		return err
	}
	i, err := h.parse(value)
	if err != nil {
		return err
	}
	target.SetInt(i)
	return nil
}
