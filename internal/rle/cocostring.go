package rle

// EncodeCOCOString compresses column-major run counts into COCO's printable
// ASCII form. From the third run onward (index > 2) the delta against the
// count two positions back is stored instead of the raw value. Each value is
// emitted in 5-bit groups, least significant first; bit 4 of a group doubles
// as the sign bit, so continuation stops once the remaining shifted value is
// 0 (bit 4 clear) or -1 (bit 4 set). Groups carry 0x20 as a continuation
// marker and are offset by '0' into the printable range.
//
// The procedure matches pycocotools' rleToString byte for byte; see the
// round-trip tests against DecodeCOCOString.
func EncodeCOCOString(counts []int) string {
	buf := make([]byte, 0, len(counts)*2)
	for i, c := range counts {
		x := c
		if i > 2 {
			x -= counts[i-2]
		}
		for more := true; more; {
			group := byte(x & 0x1f)
			x >>= 5
			if group&0x10 != 0 {
				more = x != -1
			} else {
				more = x != 0
			}
			if more {
				group |= 0x20
			}
			buf = append(buf, group+48)
		}
	}
	return string(buf)
}

// DecodeCOCOString is the inverse of EncodeCOCOString, expanding a COCO
// compressed string back into column-major run counts.
func DecodeCOCOString(s string) []int {
	counts := []int{}
	for p := 0; p < len(s); {
		x := 0
		k := 0
		more := true
		var group int
		for more && p < len(s) {
			group = int(s[p]) - 48
			x |= (group & 0x1f) << (5 * k)
			more = group&0x20 != 0
			p++
			k++
		}
		// Sign-extend when the final group had bit 4 set.
		if group&0x10 != 0 {
			x |= -1 << (5 * k)
		}
		if len(counts) > 2 {
			x += counts[len(counts)-2]
		}
		counts = append(counts, x)
	}
	return counts
}
