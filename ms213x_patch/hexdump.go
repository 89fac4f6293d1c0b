package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const hexdumpWidth = 16

// hexdump formats data starting at offset. Bytes with mark set are shown in
// red. With changedOnly, rows without any marked byte are left out.
func hexdump(offset int, data []byte, mark []bool, changedOnly bool) string {
	var result strings.Builder
	red := color.New(color.FgRed)

	for len(data) > 0 {
		l := len(data)
		if l > hexdumpWidth {
			l = hexdumpWidth
		}
		work := data[:l]
		data = data[l:]
		var workMark []bool
		if mark != nil {
			workMark = mark[:l]
			mark = mark[l:]
		}

		rowMarked := false
		for _, m := range workMark {
			rowMarked = rowMarked || m
		}
		if changedOnly && !rowMarked {
			offset += l
			continue
		}

		var workHex, workASCII strings.Builder
		for i := 0; i < hexdumpWidth; i++ {
			if i >= len(work) {
				workHex.WriteString("   ")
				workASCII.WriteByte(' ')
			} else {
				m := work[i]
				c := m
				if c < 32 || c > 126 {
					c = '.'
				}
				if workMark != nil && workMark[i] {
					workHex.WriteString(red.Sprintf("%02x ", m))
					workASCII.WriteString(red.Sprintf("%c", c))
				} else {
					fmt.Fprintf(&workHex, "%02x ", m)
					workASCII.WriteByte(c)
				}
			}
			if i%8 == 7 {
				workHex.WriteByte(' ')
			}
		}

		fmt.Fprintf(&result, "%08x  %s|%s|\n", offset, workHex.String(), workASCII.String())
		offset += l
	}

	return result.String()
}

// diffMarks compares a and b up to the shorter length.
func diffMarks(a, b []byte) ([]bool, int) {
	l := len(a)
	if len(b) < l {
		l = len(b)
	}
	mark := make([]bool, l)
	count := 0
	for i := 0; i < l; i++ {
		if a[i] != b[i] {
			mark[i] = true
			count++
		}
	}
	return mark, count
}
