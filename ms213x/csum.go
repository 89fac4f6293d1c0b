package ms213x

const (
	headerSumStart     = 0x02
	headerReservedFrom = 0x0c
	headerReservedTo   = 0x10
)

func calcSum(f []byte) uint16 {
	var csum uint16
	for _, m := range f {
		csum += uint16(m)
	}
	return csum
}

// HeaderChecksum sums the header from offset 2 onwards, leaving out the
// reserved bytes 0x0c-0x0f. The result wraps at 16 bits like the boot ROM.
func HeaderChecksum(header []byte) uint16 {
	if len(header) <= headerSumStart {
		return 0
	}
	if len(header) <= headerReservedFrom {
		return calcSum(header[headerSumStart:])
	}

	csum := calcSum(header[headerSumStart:headerReservedFrom])
	if len(header) > headerReservedTo {
		csum += calcSum(header[headerReservedTo:])
	}
	return csum
}

// CodeChecksum sums every byte of the code region, wrapping at 16 bits.
func CodeChecksum(code []byte) uint16 {
	return calcSum(code)
}
