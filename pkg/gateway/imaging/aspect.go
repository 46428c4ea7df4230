package imaging

import "strings"

type Dimensions struct {
	Width  int
	Height int
}

// DefaultDimensions is used for absent or unrecognized ratio tags.
var DefaultDimensions = Dimensions{Width: 800, Height: 600}

var aspectRatioProfile = map[string]Dimensions{
	"1:1":  {Width: 768, Height: 768},
	"16:9": {Width: 1024, Height: 576},
	"9:16": {Width: 576, Height: 1024},
	"4:3":  {Width: 1024, Height: 768},
	"3:4":  {Width: 768, Height: 1024},
}

// Resolve maps a ratio tag to pixel dimensions. It never fails: unknown tags
// resolve to DefaultDimensions.
func Resolve(tag string) Dimensions {
	if dims, ok := aspectRatioProfile[strings.TrimSpace(tag)]; ok {
		return dims
	}
	return DefaultDimensions
}

// Tags lists the recognized ratio tags.
func Tags() []string {
	return []string{"1:1", "16:9", "9:16", "4:3", "3:4"}
}
