package domain

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf16"
)

var colorThemes = []string{
	"red",
	"blue",
	"green",
	"yellow",
	"purple",
	"pink",
	"indigo",
	"teal",
}

var avatarGlyphs = []string{
	"🦊", "🐼", "🐙", "🦉", "🐢", "🦄", "🐝", "🐬",
	"🦁", "🐸", "🦋", "🐧", "🦔", "🐳", "🦜", "🐨",
}

const glyphSeed int64 = 7919

// nameHash folds the UTF-16 units of name into c + (h<<5) - h, starting
// from seed. Only the shifted operand wraps to 32 bits; the running sum does
// not, so long names keep the same colour a browser computes for them.
func nameHash(name string, seed int64) int64 {
	h := seed
	for _, c := range utf16.Encode([]rune(name)) {
		h = int64(c) + int64(int32(h)<<5) - h
	}
	return h
}

func pick(palette []string, h int64) string {
	if h < 0 {
		h = -h
	}
	return palette[h%int64(len(palette))]
}

// ColorFor maps a display name onto the colour palette. Equal names share a colour.
func ColorFor(name string) string {
	return pick(colorThemes, nameHash(name, 0))
}

// AvatarFor maps a display name onto the glyph palette.
func AvatarFor(name string) string {
	return pick(avatarGlyphs, nameHash(name, glyphSeed))
}

// Initials returns up to two upper-cased leading letters of the words in name.
func Initials(name string) string {
	var sb strings.Builder
	count := 0
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		sb.WriteRune(unicode.ToUpper(r))
		count++
		if count == 2 {
			break
		}
	}
	return sb.String()
}

func anonymousName() string {
	return fmt.Sprintf("Anonymous_%d", rand.IntN(1000))
}
