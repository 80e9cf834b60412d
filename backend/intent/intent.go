// Package intent turns free-text messages into structured intents. Tier 1 is
// a deterministic rule table; tier 2 delegates to a language-model fallback
// supplied by the caller.
package intent

type Type string

const (
	AddActivity         Type = "ADD_ACTIVITY"
	RemoveActivity      Type = "REMOVE_ACTIVITY"
	ReplaceActivity     Type = "REPLACE_ACTIVITY"
	MoveActivity        Type = "MOVE_ACTIVITY"
	SwapActivities      Type = "SWAP_ACTIVITIES"
	Prioritize          Type = "PRIORITIZE"
	Deprioritize        Type = "DEPRIORITIZE"
	SuggestAlternatives Type = "SUGGEST_ALTERNATIVES"
	SuggestFromPool     Type = "SUGGEST_FROM_REPLACEMENT_POOL"
	OptimizeRoute       Type = "OPTIMIZE_ROUTE"
	OptimizeClusters    Type = "OPTIMIZE_CLUSTERS"
	BalancePacing       Type = "BALANCE_PACING"
	Undo                Type = "UNDO"
	Redo                Type = "REDO"
	AskQuestion         Type = "ASK_QUESTION"

	// Quick actions triggerable from the UI vocabulary.
	LockSlot   Type = "LOCK_SLOT"
	UnlockSlot Type = "UNLOCK_SLOT"
)

// Types lists every recognized intent type. The language-model fallback is
// constrained to this vocabulary; anything outside it is a parse failure.
func Types() []Type {
	return []Type{
		AddActivity, RemoveActivity, ReplaceActivity, MoveActivity,
		SwapActivities, Prioritize, Deprioritize, SuggestAlternatives,
		SuggestFromPool, OptimizeRoute, OptimizeClusters, BalancePacing,
		Undo, Redo, AskQuestion, LockSlot, UnlockSlot,
	}
}

// Known reports whether t is part of the closed enum.
func Known(t Type) bool {
	for _, known := range Types() {
		if t == known {
			return true
		}
	}
	return false
}

// Params carries the type-dependent arguments of an intent.
type Params struct {
	ActivityName   string   `json:"activityName,omitempty"`
	SecondActivity string   `json:"secondActivity,omitempty"`
	DayNumber      int      `json:"dayNumber,omitempty"`
	ToDay          int      `json:"toDay,omitempty"`
	ToSlot         string   `json:"toSlot,omitempty"`
	SlotID         string   `json:"slotId,omitempty"`
	Preferences    []string `json:"preferences,omitempty"`
	Query          string   `json:"query,omitempty"`
}

// Method identifies which tier produced an intent.
type Method string

const (
	MethodRules Method = "rules"
	MethodModel Method = "model"
)

type Intent struct {
	Type        Type    `json:"type"`
	Params      Params  `json:"params"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation,omitempty"`
	Method      Method  `json:"method,omitempty"`
}

// Turn is one prior exchange of the conversation handed to the fallback.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Clarification asks the user to disambiguate instead of guessing.
type Clarification struct {
	Question string                `json:"question"`
	Options  []ClarificationOption `json:"options"`
}

type ClarificationOption struct {
	Label string `json:"label"`
	Value Type   `json:"value"`
}

// Result is either a parsed intent or a clarification request, never both.
type Result struct {
	Intent        *Intent
	Clarification *Clarification
}
