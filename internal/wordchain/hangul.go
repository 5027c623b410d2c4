package wordchain

import "unicode/utf8"

const (
	syllableFirst = 0xAC00 // 가
	syllableLast  = 0xD7A3 // 힣

	medialCount = 21
	finalCount  = 28
	blockSize   = medialCount * finalCount

	initialNieun = 2  // ㄴ
	initialRieul = 5  // ㄹ
	initialIeung = 11 // ㅇ
)

// Medial vowel indices used by the dueum rules.
const (
	medialA   = 0  // ㅏ
	medialAe  = 1  // ㅐ
	medialYa  = 2  // ㅑ
	medialYeo = 6  // ㅕ
	medialYe  = 7  // ㅖ
	medialO   = 8  // ㅗ
	medialOe  = 11 // ㅚ
	medialYo  = 12 // ㅛ
	medialU   = 13 // ㅜ
	medialYu  = 17 // ㅠ
	medialEu  = 18 // ㅡ
	medialI   = 20 // ㅣ
)

// dueum maps a word-initial consonant to the replacement initial for each
// medial vowel that triggers the 두음법칙.
var dueum = map[int]map[int]int{
	initialRieul: {
		medialYa: initialIeung, medialYeo: initialIeung, medialYe: initialIeung,
		medialYo: initialIeung, medialYu: initialIeung, medialI: initialIeung,
		medialA: initialNieun, medialAe: initialNieun, medialO: initialNieun,
		medialOe: initialNieun, medialU: initialNieun, medialEu: initialNieun,
	},
	initialNieun: {
		medialYeo: initialIeung, medialYe: initialIeung, medialYo: initialIeung,
		medialYu: initialIeung, medialI: initialIeung,
	},
}

// IsSyllable reports whether r is a precomposed Hangul syllable.
func IsSyllable(r rune) bool {
	return r >= syllableFirst && r <= syllableLast
}

// NormalizeHead returns the dueum-law form of a syllable (리→이, 라→나, 녀→여,
// 력→역). Syllables outside the rule, and non-Hangul runes, come back unchanged.
func NormalizeHead(r rune) rune {
	if !IsSyllable(r) {
		return r
	}
	offset := int(r - syllableFirst)
	initial := offset / blockSize
	medial := (offset % blockSize) / finalCount
	final := offset % finalCount

	byMedial, ok := dueum[initial]
	if !ok {
		return r
	}
	replacement, ok := byMedial[medial]
	if !ok {
		return r
	}
	return rune(syllableFirst + replacement*blockSize + medial*finalCount + final)
}

// LastRune returns the final rune of word, or utf8.RuneError when word is empty.
func LastRune(word string) rune {
	r, _ := utf8.DecodeLastRuneInString(word)
	return r
}

// FirstRune returns the first rune of word, or utf8.RuneError when word is empty.
func FirstRune(word string) rune {
	r, _ := utf8.DecodeRuneInString(word)
	return r
}

// AcceptedHeads lists the characters a word chained after previous may start
// with: the literal last syllable and, when it differs, its dueum form.
func AcceptedHeads(previous string) []rune {
	last := LastRune(previous)
	if normalized := NormalizeHead(last); normalized != last {
		return []rune{last, normalized}
	}
	return []rune{last}
}
