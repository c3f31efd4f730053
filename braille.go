package img2braille

const (
	// BrailleBlank is U+2800, the pattern with no dots.
	BrailleBlank rune = 0x2800
	// BrailleFull is U+28FF, the pattern with all eight dots.
	BrailleFull rune = 0x28FF
	// brailleSpacer is U+2804, dot 3 alone, emitted for empty cells under
	// monospace correction.
	brailleSpacer rune = 0x2804

	// CellWidth and CellHeight are the pixel dimensions of one glyph.
	CellWidth  = 2
	CellHeight = 4
)

// dotBits maps a (row, column) position inside a cell to its bit, following
// the standard braille dot numbering:
//
//	1 4      bit0 bit3
//	2 5  ->  bit1 bit4
//	3 6      bit2 bit5
//	7 8      bit6 bit7
var dotBits = [CellHeight][CellWidth]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// EncodeCell packs the 2x4 block of mask whose top-left pixel is
// (CellWidth*col, CellHeight*row) into a braille rune.
func EncodeCell(mask [][]bool, row, col int) rune {
	var bits uint8
	y0, x0 := row*CellHeight, col*CellWidth
	for dy := 0; dy < CellHeight; dy++ {
		for dx := 0; dx < CellWidth; dx++ {
			if mask[y0+dy][x0+dx] {
				bits |= dotBits[dy][dx]
			}
		}
	}
	return BrailleBlank + rune(bits)
}

// Encode converts a mask whose dimensions are multiples of the cell size
// into rows of braille runes. With monospaceCorrection, empty cells become
// a single low dot instead of the blank pattern.
func Encode(mask [][]bool, monospaceCorrection bool) [][]rune {
	if len(mask) == 0 {
		return nil
	}
	rows, cols := len(mask)/CellHeight, len(mask[0])/CellWidth
	cells := make([][]rune, rows)
	for r := 0; r < rows; r++ {
		cells[r] = make([]rune, cols)
		for c := 0; c < cols; c++ {
			ch := EncodeCell(mask, r, c)
			if monospaceCorrection && ch == BrailleBlank {
				ch = brailleSpacer
			}
			cells[r][c] = ch
		}
	}
	return cells
}

// IsBraille reports whether r is a braille pattern.
func IsBraille(r rune) bool {
	return r >= BrailleBlank && r <= BrailleFull
}

// DotAt reports whether the braille rune r has a dot at the given row
// (0-3) and column (0-1). Non-braille runes have no dots.
func DotAt(r rune, row, col int) bool {
	if !IsBraille(r) || row < 0 || row >= CellHeight || col < 0 || col >= CellWidth {
		return false
	}
	return uint8(r-BrailleBlank)&dotBits[row][col] != 0
}
