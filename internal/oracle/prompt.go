package oracle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"wordchain/internal/domain"
	"wordchain/internal/wordchain"
)

var personas = map[int]string{
	1: strings.Join([]string{
		"You are playing a Korean word chain game (끝말잇기) on VERY EASY mode.",
		"You are playing against a beginner, so you should:",
		"- Use only very simple, common words (2-3 syllables)",
		"- Use words that children would know (초등학교 수준)",
		"- Avoid difficult or uncommon words",
		"- Sometimes pretend you can't find a word and say \"패배\" (about 30% chance when words get hard)",
		"",
		"Examples of easy words: 사과, 바나나, 학교, 가방, 나무, 구름, 토끼",
	}, "\n"),
	2: strings.Join([]string{
		"You are playing a Korean word chain game (끝말잇기) on EASY mode.",
		"You should:",
		"- Use simple, common words (2-4 syllables)",
		"- Use words that middle schoolers would know",
		"- Avoid very difficult or technical words",
		"- Sometimes give up when it gets hard and say \"패배\" (about 20% chance)",
		"",
		"Examples: 사과, 과학, 학생, 생일, 일기",
	}, "\n"),
	3: strings.Join([]string{
		"You are playing a Korean word chain game (끝말잇기) on NORMAL mode.",
		"You should:",
		"- Use common Korean nouns",
		"- Balance between easy and moderately difficult words",
		"- Use a mix of 2-4 syllable words",
		"- Give up only when truly stuck and say \"패배\"",
		"",
		"Play fairly and competitively.",
	}, "\n"),
	4: strings.Join([]string{
		"You are playing a Korean word chain game (끝말잇기) on HARD mode.",
		"You should:",
		"- Use more advanced vocabulary",
		"- Try to end words with difficult characters (like ㄹ받침)",
		"- Use 3-4 syllable words more often",
		"- Use words that are valid but less commonly used",
		"- Rarely give up - try very hard to find words",
		"",
		"Examples: 철학자, 자동차, 차별화, 화학식",
	}, "\n"),
	5: strings.Join([]string{
		"You are playing a Korean word chain game (끝말잇기) on EXPERT mode.",
		"You are an expert player trying to WIN. You should:",
		"- Use the most difficult words possible",
		"- Strategically use words ending in hard characters (륨, 늄, 즘 등)",
		"- Use technical, academic, or rare words",
		"- Try to trap the player with difficult endings",
		"- NEVER give up - always find a word",
		"",
		"Your goal is to make the player unable to respond.",
	}, "\n"),
}

func gameRules() string {
	return strings.Join([]string{
		"Rules:",
		"1) The user says a Korean word.",
		"2) Respond with a Korean word that starts with the required character given in the request.",
		"3) Words cannot be repeated (check the used words list).",
		"4) Only use Korean nouns (no proper nouns, no single characters).",
		"5) If you cannot find a valid word, respond with exactly: " + wordchain.SurrenderToken,
		"",
		"IMPORTANT: Respond ONLY with a single Korean word. No explanations, no punctuation, no extra text.",
	}, "\n")
}

// systemPrompt returns the persona for difficulty followed by the game rules.
func systemPrompt(difficulty int) string {
	return personas[domain.ClampDifficulty(difficulty)] + "\n\n" + gameRules()
}

func moveMessages(usedWords []string, heads []rune, difficulty int) []domain.ChatMessage {
	used := "(없음)"
	if len(usedWords) > 0 {
		used = strings.Join(usedWords, ", ")
	}
	quoted := make([]string, 0, len(heads))
	for _, h := range heads {
		quoted = append(quoted, "'"+string(h)+"'")
	}
	user := strings.Join([]string{
		"끝말잇기 게임입니다.",
		"사용된 단어들: " + used,
		strings.Join(quoted, " 또는 ") + "(으)로 시작하는 한국어 단어를 하나만 말하세요.",
		"위에 나온 단어는 사용할 수 없습니다.",
		"단어만 출력하세요.",
	}, "\n")
	return []domain.ChatMessage{
		{Role: "system", Content: systemPrompt(difficulty)},
		{Role: "user", Content: user},
	}
}

// temperature grows with difficulty: 0.8 at level 1 up to 1.2 at level 5.
func temperature(difficulty int) float64 {
	return 0.7 + float64(domain.ClampDifficulty(difficulty))*0.1
}

// cleanReply strips the punctuation and quoting models tend to add around a
// single-word answer.
func cleanReply(raw string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?', '"', '\'', '`', '“', '”', '‘', '’':
			return -1
		}
		return r
	}, raw))
}

const verifySchema = `{
	"type":"object",
	"additionalProperties":false,
	"properties":{
		"valid":{"type":"boolean"},
		"reason":{"type":"string"}
	},
	"required":["valid","reason"]
}`

func verifyMessages(word string) []domain.ChatMessage {
	policy := strings.Join([]string{
		"Role:",
		"You are a strict Korean dictionary referee for a word chain game (끝말잇기).",
		"",
		"Task:",
		"Decide whether the given word is a real Korean common noun listed in a standard Korean dictionary.",
		"Proper nouns, slang, made-up words, and verb or adjective forms are not accepted.",
		"",
		"Output Contract:",
		"Return JSON only with keys valid (boolean) and reason (string).",
		"If the word is accepted, return valid=true and reason=\"\".",
		"If not, return valid=false and a short reason in Korean.",
	}, "\n")
	return []domain.ChatMessage{
		{Role: "system", Content: policy},
		{Role: "user", Content: word},
	}
}

type verifyResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

func parseVerdict(raw string) (domain.Verdict, error) {
	var out verifyResponse
	dec := json.NewDecoder(bytes.NewBufferString(strings.TrimSpace(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return domain.Verdict{}, fmt.Errorf("oracle: decode verdict: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return domain.Verdict{}, errors.New("oracle: decode verdict: multiple JSON values")
		}
		return domain.Verdict{}, fmt.Errorf("oracle: decode verdict trailing data: %w", err)
	}
	return domain.Verdict{Valid: out.Valid, Reason: strings.TrimSpace(out.Reason)}, nil
}
