package render

type RGB struct {
	R, G, B int
}

// Style holds the page and typography rules applied to every document.
type Style struct {
	PageSize     string
	MarginInches float64

	FontFamily   string
	MonoFamily   string
	BodySize     float64
	HeadingSizes [6]float64
	LineSpacing  float64

	TextColor        RGB
	HeadingColor     RGB
	RuleColor        RGB
	TableBorderColor RGB
	TableHeaderFill  RGB
	CodeFill         RGB
	TablePadding     float64
}

// PolicyStyle is the only style documents are rendered with.
var PolicyStyle = Style{
	PageSize:     "A4",
	MarginInches: 0.5,

	FontFamily:   "Helvetica",
	MonoFamily:   "Courier",
	BodySize:     11,
	HeadingSizes: [6]float64{20, 16, 13.5, 12, 11, 11},
	LineSpacing:  1.4,

	TextColor:        RGB{0, 0, 0},
	HeadingColor:     RGB{0x33, 0x33, 0x33},
	RuleColor:        RGB{0xcc, 0xcc, 0xcc},
	TableBorderColor: RGB{0xdd, 0xdd, 0xdd},
	TableHeaderFill:  RGB{0xf2, 0xf2, 0xf2},
	CodeFill:         RGB{0xf6, 0xf6, 0xf6},
	TablePadding:     2,
}

func (s Style) MarginMM() float64 {
	return s.MarginInches * 25.4
}

func (s Style) headingSize(level int) float64 {
	if level < 1 {
		level = 1
	}
	if level > len(s.HeadingSizes) {
		level = len(s.HeadingSizes)
	}
	return s.HeadingSizes[level-1]
}
