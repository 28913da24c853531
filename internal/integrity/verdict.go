package integrity

// Rule identifies which check decided a verdict.
type Rule string

// Verdict rules, in evaluation order.
const (
	RuleNone           Rule = ""
	RuleWorldRecord    Rule = "world_record"
	RuleSustainedSpeed Rule = "sustained_speed"
	RulePerfectSpeed   Rule = "perfect_speed"
	RuleCopyPaste      Rule = "copy_paste"
	RuleSuspicious     Rule = "suspicious"
)

// Reason returns the human-readable explanation for the rule.
func (r Rule) Reason() string {
	switch r {
	case RuleWorldRecord:
		return "WPM exceeds human world record"
	case RuleSustainedSpeed:
		return "unrealistic sustained speed"
	case RulePerfectSpeed:
		return "unrealistic speed with perfect accuracy"
	case RuleCopyPaste:
		return "copy-paste detected"
	case RuleSuspicious:
		return "suspicious typing patterns detected"
	default:
		return "valid result"
	}
}

// Verdict is the outcome of validating a completed test.
type Verdict struct {
	Valid  bool   `json:"valid"`
	Rule   Rule   `json:"rule,omitempty"`
	Reason string `json:"reason"`
	Score  int    `json:"score"`
}

func invalid(rule Rule, score int) Verdict {
	return Verdict{Valid: false, Rule: rule, Reason: rule.Reason(), Score: score}
}
