// Package rle implements the platform's native run-length mask encoding and
// the conversion to COCO's compressed string form.
//
// The native convention is row-major: counts alternate between background and
// foreground runs, always starting with background. COCO instead stores
// column-major runs compressed into a printable ASCII string; ToCOCOString
// performs the full conversion and is byte-compatible with pycocotools.
package rle

// Mask is a run-length encoded binary mask as stored in annotation records.
// Size is [height, width].
type Mask struct {
	Counts []int  `json:"counts"`
	Size   [2]int `json:"size"`
}

// Height returns the encoded mask height, 0 when unset.
func (m Mask) Height() int { return m.Size[0] }

// Width returns the encoded mask width, 0 when unset.
func (m Mask) Width() int { return m.Size[1] }

// Decode expands row-major alternating run counts into a flat binary mask of
// width*height bytes (0 background, 1 foreground). Runs extending past the
// pixel total are clipped silently.
func Decode(counts []int, width, height int) []byte {
	total := width * height
	if total < 0 {
		total = 0
	}
	mask := make([]byte, total)
	pos := 0
	value := byte(0)
	for _, n := range counts {
		for i := 0; i < n && pos < total; i++ {
			mask[pos] = value
			pos++
		}
		value ^= 1
	}
	return mask
}

// Encode converts a flat row-major binary mask back into alternating run
// counts starting with background. The inverse of Decode modulo clipping.
func Encode(mask []byte) []int {
	counts := []int{}
	current := byte(0)
	run := 0
	for _, v := range mask {
		if v == current {
			run++
			continue
		}
		counts = append(counts, run)
		current = v
		run = 1
	}
	counts = append(counts, run)
	return counts
}

// BBox returns the tight (x, y, width, height) box around foreground pixels of
// a decoded mask. An all-background mask yields all zeros.
func BBox(mask []byte, width, height int) [4]int {
	minX, minY := width, height
	maxX, maxY := -1, -1
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask[y*width+x] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return [4]int{0, 0, 0, 0}
	}
	return [4]int{minX, minY, maxX - minX + 1, maxY - minY + 1}
}

// Area counts foreground pixels of a decoded mask.
func Area(mask []byte) int {
	n := 0
	for _, v := range mask {
		if v != 0 {
			n++
		}
	}
	return n
}

// ColumnMajorCounts re-reads a flat row-major mask in column-major order
// (column first, row second) and returns its alternating run counts, starting
// with background. This is the run layout COCO's compressed form is built on.
func ColumnMajorCounts(mask []byte, width, height int) []int {
	counts := []int{}
	current := byte(0)
	run := 0
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			v := mask[y*width+x]
			if v == current {
				run++
				continue
			}
			counts = append(counts, run)
			current = v
			run = 1
		}
	}
	counts = append(counts, run)
	return counts
}

// ToCOCOString converts a native row-major mask to COCO's compressed
// column-major string form.
func ToCOCOString(m Mask, width, height int) string {
	decoded := Decode(m.Counts, width, height)
	return EncodeCOCOString(ColumnMajorCounts(decoded, width, height))
}
