package structure

// MinBracketSize is the smallest playoffs bracket the engine produces.
const MinBracketSize = 4

// BracketPlan describes the elimination bracket fed by the group stage.
type BracketPlan struct {
	BaseQualified int `json:"baseQualified"`
	BracketSize   int `json:"bracketSize"`
	Wildcards     int `json:"wildcards"`
}

// Rounds returns the number of elimination rounds in the bracket.
func (b BracketPlan) Rounds() int {
	rounds := 0
	for n := b.BracketSize; n > 1; n >>= 1 {
		rounds++
	}
	return rounds
}

// SizeBracket fills the automatic qualifiers of groupCount groups up to the next
// power of two with wildcard slots. Negative inputs are treated as zero and
// the qualifier count saturates at MaxPowerOfTwo.
func SizeBracket(groupCount, baseAdvance int) BracketPlan {
	groupCount, baseAdvance = atLeast(groupCount, 0), atLeast(baseAdvance, 0)
	qualified := MaxPowerOfTwo
	if baseAdvance == 0 || groupCount <= MaxPowerOfTwo/baseAdvance {
		qualified = groupCount * baseAdvance
	}
	size := NextPowerOfTwo(atLeast(qualified, MinBracketSize))
	return BracketPlan{
		BaseQualified: qualified,
		BracketSize:   size,
		Wildcards:     size - qualified,
	}
}

// knockoutBracket is the bracket of a pure elimination format: every team seeded, no wildcards.
func knockoutBracket(teamCount int) BracketPlan {
	return BracketPlan{BaseQualified: teamCount, BracketSize: teamCount, Wildcards: 0}
}
