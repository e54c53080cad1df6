package policy

// Verdict is the gate's answer for one operation.
type Verdict int

const (
	Neutral Verdict = iota // no opinion, caller proceeds under default policy
	Approve
	Block
)

func (v Verdict) String() string {
	switch v {
	case Approve:
		return "approve"
	case Block:
		return "block"
	}
	return "neutral"
}

// Decision is the result of evaluating one Operation against the rule
// sets. Warnings carry advisory matches that do not change the verdict.
type Decision struct {
	Verdict  Verdict
	Reason   string
	Warnings []string
}

const (
	blockPrefix = "SAFETY BLOCK: "
	blockSuffix = "\n\nThis operation requires manual execution for safety."

	boundaryPrefix = "PROJECT BOUNDARY: "
	boundarySuffix = "\n\nOperations must stay within the project directory for safety."
)

// Blocked builds a Block decision with the fixed manual-execution prefix.
func Blocked(message string) Decision {
	return Decision{Verdict: Block, Reason: blockPrefix + message + blockSuffix}
}

// BoundaryBlocked builds a Block decision for boundary violations.
func BoundaryBlocked(message string) Decision {
	return Decision{Verdict: Block, Reason: boundaryPrefix + message + boundarySuffix}
}

// Approved builds an Approve decision.
func Approved(reason string) Decision {
	return Decision{Verdict: Approve, Reason: reason}
}

// NoOpinion is the neutral decision.
func NoOpinion() Decision {
	return Decision{Verdict: Neutral}
}
