package domain

// ProposalKind tags what the opponent answered with.
type ProposalKind string

const (
	ProposalWord      ProposalKind = "word"
	ProposalSurrender ProposalKind = "surrender"
)

// Proposal is the opponent's answer to a turn.
type Proposal struct {
	Kind ProposalKind
	Word string
}

// Verdict is the dictionary oracle's judgement of a word.
type Verdict struct {
	Valid  bool
	Reason string
}
