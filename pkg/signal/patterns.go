package signal

import "regexp"

// Pattern tables for the detector. Evaluation order is a contract:
// first match wins, both across tables and within each table.

// explicitPattern directly states a new intent, tagged with the intent type
// it creates.
type explicitPattern struct {
	re         *regexp.Regexp
	intentType string
}

// Explicit patterns, tried in order. The capture group is the label/goal.
var explicitPatterns = []explicitPattern{
	{regexp.MustCompile(`(?i)\bi'?m trying to (.+)`), "task"},
	{regexp.MustCompile(`(?i)\bhelp me (?:with |to )?(.+)`), "task"},
	{regexp.MustCompile(`(?i)\bi need to (.+)`), "task"},
	{regexp.MustCompile(`(?i)\bmy goal is to (.+)`), "goal"},
	{regexp.MustCompile(`(?i)\bi'?m working towards? (.+)`), "goal"},
	{regexp.MustCompile(`(?i)\bi want to achieve (.+)`), "goal"},
	{regexp.MustCompile(`(?i)\bi'?m curious about (.+)`), "exploration"},
	{regexp.MustCompile(`(?i)\bi(?:'ve| have) been wondering (?:about )?(.+)`), "exploration"},
	{regexp.MustCompile(`(?i)\bi want to learn (?:about )?(.+)`), "exploration"},
	{regexp.MustCompile(`(?i)\bi'?m feeling (.+)`), "companion"},
	{regexp.MustCompile(`(?i)\bi feel really (.+)`), "companion"},
}

// Implicit signal kinds
const (
	kindContinuation = "continuation"
	kindFrustration  = "frustration"
	kindProgress     = "progress"
	kindBlocker      = "blocker"
	kindSwitch       = "switch"
	kindResolve      = "resolve"
)

// implicitPattern infers an update to an existing intent. The capture group,
// when present, extracts a candidate label or free-text update.
type implicitPattern struct {
	re   *regexp.Regexp
	kind string
}

var implicitPatterns = []implicitPattern{
	{regexp.MustCompile(`(?i)\bback to (?:the |that |my )?(.+)`), kindContinuation},
	{regexp.MustCompile(`(?i)\blet'?s continue (?:with |on )?(.+)`), kindContinuation},
	{regexp.MustCompile(`(?i)\bpicking up (?:the |that )?(.+)`), kindContinuation},
	{regexp.MustCompile(`(?i)\bstill working on (?:the |that |my )?(.+)`), kindContinuation},
	{regexp.MustCompile(`(?i)\b(?:this is|that'?s) (?:so |really )?frustrating(?:\s|$)`), kindFrustration},
	{regexp.MustCompile(`(?i)\bi'?m (?:so |getting )?frustrated(?: (?:with|by) (.+))?`), kindFrustration},
	{regexp.MustCompile(`(?i)\bi'?m stuck(?: on (.+))?`), kindFrustration},
	{regexp.MustCompile(`(?i)\b(?:it'?s )?still not working`), kindFrustration},
	{regexp.MustCompile(`(?i)\bmaking (?:some |good )?progress(?: (?:on|with) (.+))?`), kindProgress},
	{regexp.MustCompile(`(?i)\bthat (?:actually )?worked`), kindProgress},
	{regexp.MustCompile(`(?i)\bgetting (?:somewhere|closer) (?:with|on) (.+)`), kindProgress},
	{regexp.MustCompile(`(?i)\bi'?m blocked (?:on|by) (.+)`), kindBlocker},
	{regexp.MustCompile(`(?i)\bthe problem is (?:that )?(.+)`), kindBlocker},
	{regexp.MustCompile(`(?i)\bcan'?t get past (.+)`), kindBlocker},
	{regexp.MustCompile(`(?i)\blet'?s (?:switch|move on) to something else`), kindSwitch},
	{regexp.MustCompile(`(?i)\bforget (?:about )?(?:this|that) for now`), kindSwitch},
	{regexp.MustCompile(`(?i)\bput (?:this|that|it) on hold`), kindSwitch},
	{regexp.MustCompile(`(?i)\b(?:i|we) (?:finally )?(?:fixed|solved|resolved|finished|completed) (?:the |that )?(.+)`), kindResolve},
	{regexp.MustCompile(`(?i)\bthat'?s (?:done|sorted|finished)(?:\s|!|\.|$)`), kindResolve},
	{regexp.MustCompile(`(?i)\bit works now`), kindResolve},
	{regexp.MustCompile(`(?i)\bproblem solved`), kindResolve},
}

// Approach-change patterns. A second, independent family: a match appends to
// the active intent's tried approaches without producing a generic signal.
var approachPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\blet'?s try (.+)`),
	regexp.MustCompile(`(?i)\bwhat if we (.+)`),
	regexp.MustCompile(`(?i)\binstead,? let'?s (.+)`),
	regexp.MustCompile(`(?i)\banother approach:? (.+)`),
	regexp.MustCompile(`(?i)\bmaybe we (?:should|could) (.+)`),
}
