package policy

// promptRules flag prompt text that looks like injection, safety-bypass
// requests, or fishing for secrets. Matches are advisory: they are
// logged for review, never blocked, so the verdict stays Neutral.
var promptRules = RuleSet{
	mustRule(`ignore\s+(previous|all)\s+instructions`, "possible prompt injection"),
	mustRule(`forget\s+(everything|all)`, "possible prompt injection"),
	mustRule(`you\s+are\s+now\s+a`, "possible role hijacking"),
	mustRule(`act\s+as\s+if\s+you\s+are`, "possible role hijacking"),
	mustRule(`pretend\s+you\s+are`, "possible role hijacking"),
	mustRule(`(disable|ignore|bypass|override)\s+(safety|security)`, "request to defeat safety controls"),
	mustRule(`delete\s+everything`, "request for destructive operations"),
	mustRule(`(destroy|wipe)\s+(all|everything)`, "request for destructive operations"),
	mustRule(`(show|give)\s+me\s+(the\s+)?(passwords|keys|secrets)`, "request for sensitive information"),
	mustRule(`what\s+are\s+the\s+(passwords|keys|secrets)`, "request for sensitive information"),
}

// ScreenPrompt returns the descriptions of every suspicious pattern the
// prompt matches, in rule order. An empty result means nothing stood out.
func ScreenPrompt(prompt string) []string {
	return promptRules.MatchAll(prompt)
}
