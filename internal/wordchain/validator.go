package wordchain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// SurrenderToken is the literal the opponent answers with to concede.
const SurrenderToken = "패배"

const minWordLength = 2

// Kind classifies a rejected word.
type Kind string

const (
	KindInvalidFormat Kind = "invalid_format"
	KindDuplicateWord Kind = "duplicate_word"
	KindChainMismatch Kind = "chain_mismatch"
	KindNotARealWord  Kind = "not_a_real_word"
	KindSurrendered   Kind = "surrendered"
)

// ValidationError reports the first rule a candidate word broke.
type ValidationError struct {
	Kind Kind
	Word string
	// Expected holds the accepted heads for KindChainMismatch.
	Expected []rune
	// Reason is the dictionary explanation for KindNotARealWord.
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("wordchain: %s (%q)", e.Kind, e.Word)
}

// Message renders the rejection for the player.
func (e *ValidationError) Message() string {
	switch e.Kind {
	case KindInvalidFormat:
		return "올바른 한글 단어를 입력하세요 (2글자 이상)"
	case KindDuplicateWord:
		return fmt.Sprintf("'%s'은(는) 이미 사용된 단어입니다!", e.Word)
	case KindChainMismatch:
		return fmt.Sprintf("%s(으)로 시작하는 단어를 입력하세요!", quoteHeads(e.Expected))
	case KindNotARealWord:
		if e.Reason == "" {
			return fmt.Sprintf("'%s'은(는) 사전에 없는 단어입니다!", e.Word)
		}
		return fmt.Sprintf("'%s'은(는) 사전에 없는 단어입니다: %s", e.Word, e.Reason)
	case KindSurrendered:
		return "단어를 찾지 못해 항복했습니다!"
	default:
		return string(e.Kind)
	}
}

func quoteHeads(heads []rune) string {
	parts := make([]string, 0, len(heads))
	for _, h := range heads {
		parts = append(parts, "'"+string(h)+"'")
	}
	return strings.Join(parts, " 또는 ")
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// DictionaryChecker decides whether a word is a real Korean word.
type DictionaryChecker interface {
	CheckWord(ctx context.Context, word string) (valid bool, reason string, err error)
}

// Validator applies the chaining rules to candidate words. A nil dictionary
// disables the dictionary check.
type Validator struct {
	dict DictionaryChecker
}

// NewValidator returns a Validator using dict for human moves; dict may be nil.
func NewValidator(dict DictionaryChecker) *Validator {
	return &Validator{dict: dict}
}

// ValidateHuman checks a human move. Rule violations come back as
// *ValidationError; any other error means the dictionary could not be consulted.
func (v *Validator) ValidateHuman(ctx context.Context, candidate string, usedWords []string, previous string) error {
	if err := checkRules(candidate, usedWords, previous); err != nil {
		return err
	}
	if v == nil || v.dict == nil {
		return nil
	}
	valid, reason, err := v.dict.CheckWord(ctx, candidate)
	if err != nil {
		return fmt.Errorf("wordchain: dictionary check: %w", err)
	}
	if !valid {
		return &ValidationError{Kind: KindNotARealWord, Word: candidate, Reason: strings.TrimSpace(reason)}
	}
	return nil
}

// ValidateOpponent checks an opponent move chained after previous. The
// surrender token short-circuits every other check.
func (v *Validator) ValidateOpponent(candidate string, usedWords []string, previous string) error {
	if candidate == SurrenderToken {
		return &ValidationError{Kind: KindSurrendered, Word: candidate}
	}
	return checkRules(candidate, usedWords, previous)
}

// checkRules runs format, uniqueness and chaining in that order.
func checkRules(candidate string, usedWords []string, previous string) error {
	if !IsWord(candidate) {
		return &ValidationError{Kind: KindInvalidFormat, Word: candidate}
	}
	if slices.Contains(usedWords, candidate) {
		return &ValidationError{Kind: KindDuplicateWord, Word: candidate}
	}
	if previous == "" {
		return nil
	}
	heads := AcceptedHeads(previous)
	if !slices.Contains(heads, FirstRune(candidate)) {
		return &ValidationError{Kind: KindChainMismatch, Word: candidate, Expected: heads}
	}
	return nil
}

// IsWord reports whether s has at least two runes, all Hangul syllables.
func IsWord(s string) bool {
	if utf8.RuneCountInString(s) < minWordLength {
		return false
	}
	for _, r := range s {
		if !IsSyllable(r) {
			return false
		}
	}
	return true
}
