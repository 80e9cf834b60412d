package intent

import "regexp"

// rule binds a set of patterns to an intent type with an integer priority.
// Priority 1 is the strongest signal (explicit verbs), 5 the weakest
// (trailing question mark). When several rules match, the lowest priority
// integer wins; equal priorities resolve to declaration order in this table,
// which is therefore part of the package contract.
type rule struct {
	patterns []*regexp.Regexp
	intent   Type
	priority int
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}

// rules is evaluated against the lowercased message.
var rules = []rule{
	{compile(`\bundo\b`, `\brevert\b`, `\bgo back\b`), Undo, 1},
	{compile(`\bredo\b`), Redo, 1},
	{compile(`\bmove\b`, `\breschedule\b`, `\bshift\b`), MoveActivity, 1},
	{compile(`\bswap\b`, `\bexchange\b`, `\btrade\b`), SwapActivities, 1},

	{compile(`\breplace\b`, `\bsubstitute\b`, `\binstead of\b`), ReplaceActivity, 2},
	{compile(`\bremove\b`, `\bdelete\b`, `\bdrop\b`, `\bcancel\b`, `\bskip\b`), RemoveActivity, 2},
	{compile(`\badd\b`, `\binclude\b`, `\bsqueeze in\b`, `\bfit in\b`), AddActivity, 2},
	{compile(`\bunlock\b`, `\bunpin\b`), UnlockSlot, 2},
	{compile(`\block\b`, `\bpin\b`, `\bprioriti[sz]e\b`, `\bmust[ -]do\b`, `\bdon'?t move\b`), Prioritize, 2},
	{compile(`\bdeprioriti[sz]e\b`, `\boptional\b`, `\bnice[ -]to[ -]have\b`), Deprioritize, 2},
	{compile(`optimi[sz]e.*\b(route|day|travel)\b`, `\bshortest route\b`, `\b(less|reduce) (travel|commut\w+)\b`), OptimizeRoute, 2},
	{compile(`\bcluster\b`, `\bgroup\b.*\b(nearby|together|close)\b`, `\bnear each other\b`), OptimizeClusters, 2},
	{compile(`\bpacing\b`, `\btoo (packed|busy|rushed|much)\b`, `\bslow(er)? down\b`, `\bmore relaxed\b`, `\bbalance\b`), BalancePacing, 2},

	{compile(`\balternatives?\b`, `\bother options?\b`, `\bsomething else\b`, `\bsuggest\b`), SuggestAlternatives, 3},
	{compile(`\breplacement pool\b`, `\bfrom the pool\b`), SuggestFromPool, 3},

	{compile(`\?\s*$`, `^(what|when|where|why|how|who|which|is|are|can|could|does|do|should)\b`), AskQuestion, 5},
}

// matchRules returns the winning intent type for a lowercased message.
func matchRules(lower string) (Type, bool) {
	best := -1
	var bestType Type
	for _, r := range rules {
		for _, p := range r.patterns {
			if p.MatchString(lower) {
				if best == -1 || r.priority < best {
					best = r.priority
					bestType = r.intent
				}
				break
			}
		}
	}
	if best == -1 {
		return "", false
	}
	return bestType, true
}
