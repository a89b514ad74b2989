package driver

// numGlyphs is the fixed 11-glyph table (digits 0-9 and colon) used by the
// fallback NUM primitive (§4.1): each glyph is 4 rows of 3 columns of
// ASCII. Index 10 is the colon.
var numGlyphs = [11][4]string{
	{" # ", "# #", "# #", " # "}, // 0
	{" # ", " ##", " # ", " # "}, // 1
	{"## ", "  #", " # ", "###"}, // 2
	{"## ", " ##", "  #", "## "}, // 3
	{"# #", "# #", "###", "  #"}, // 4
	{"###", "#  ", " ##", "## "}, // 5
	{" # ", "#  ", "###", " # "}, // 6
	{"###", "  #", " # ", " # "}, // 7
	{" # ", "# #", " # ", "# #"}, // 8
	{" # ", "# #", " ##", "  #"}, // 9
	{"   ", " # ", "   ", " # "}, // :
}

// NumGlyph returns the 4-row glyph for digit (0-9), or the colon glyph
// for digit == 10.
func NumGlyph(digit int) [4]string {
	if digit < 0 || digit > 10 {
		digit = 0
	}
	return numGlyphs[digit]
}
