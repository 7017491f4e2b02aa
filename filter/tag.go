package filter

import (
	"fmt"
	"strings"
)

// Tag identifies one adjustment. The set is closed; the constant order is
// the order in which filters are rendered.
type Tag uint8

const (
	Exposition Tag = iota
	Sharpening
	WhiteBalance
	Contrast
	Saturation
	GaussianBlur
	BoxBlur

	numTags
)

var tagNames = [numTags]string{
	Exposition:   "exposition",
	Sharpening:   "sharpening",
	WhiteBalance: "whitebalance",
	Contrast:     "contrast",
	Saturation:   "saturation",
	GaussianBlur: "gaussianblur",
	BoxBlur:      "boxblur",
}

// Parameter counts per tag:
//
//	Exposition    [ev]
//	Sharpening    [amount, radius]
//	WhiteBalance  [temperature, tint]
//	Contrast      [amount]
//	Saturation    [amount]
//	GaussianBlur  [sigma, kernelSize]
//	BoxBlur       [radius]
var tagArity = [numTags]int{
	Exposition:   1,
	Sharpening:   2,
	WhiteBalance: 2,
	Contrast:     1,
	Saturation:   1,
	GaussianBlur: 2,
	BoxBlur:      1,
}

// Tags returns every tag in render order.
func Tags() []Tag {
	tags := make([]Tag, numTags)
	for i := range tags {
		tags[i] = Tag(i)
	}
	return tags
}

// Valid reports whether t is one of the defined tags.
func (t Tag) Valid() bool {
	return t < numTags
}

// Arity returns the number of parameters t takes, or 0 for an invalid tag.
func (t Tag) Arity() int {
	if !t.Valid() {
		return 0
	}
	return tagArity[t]
}

// Additive reports whether t's leading parameter accumulates across edits.
// White balance is an absolute target and is the only non-additive tag.
func (t Tag) Additive() bool {
	return t.Valid() && t != WhiteBalance
}

// String returns the lowercase tag name.
func (t Tag) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
	return tagNames[t]
}

// ParseTag returns the tag named s, ignoring case.
func ParseTag(s string) (Tag, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range tagNames {
		if n == name {
			return Tag(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTag, s)
}
