package auth

import "fmt"

type ruleKind int

const (
	ruleAny ruleKind = iota + 1
	ruleRegistered
	ruleAdmin
	ruleSelfOrAdmin
	ruleOwnerOrAdmin
	ruleBatchMember
)

// Rule is the authorization requirement of an operation.
type Rule struct {
	kind   ruleKind
	target string
}

// Set of rules that take no target.
var (
	RuleAny        = Rule{kind: ruleAny}
	RuleRegistered = Rule{kind: ruleRegistered}
	RuleAdmin      = Rule{kind: ruleAdmin}
)

// RuleSelfOrAdmin allows the user at the target address or an admin.
func RuleSelfOrAdmin(address string) Rule {
	return Rule{kind: ruleSelfOrAdmin, target: address}
}

// RuleOwnerOrAdmin allows the owner of the build or an admin.
func RuleOwnerOrAdmin(buildID string) Rule {
	return Rule{kind: ruleOwnerOrAdmin, target: buildID}
}

// RuleBatchMember allows members of the batch.
func RuleBatchMember(batchID string) Rule {
	return Rule{kind: ruleBatchMember, target: batchID}
}

// String implements the fmt.Stringer interface for logging.
func (r Rule) String() string {
	switch r.kind {
	case ruleAny:
		return "any"
	case ruleRegistered:
		return "registered"
	case ruleAdmin:
		return "admin"
	case ruleSelfOrAdmin:
		return fmt.Sprintf("self-or-admin:%s", r.target)
	case ruleOwnerOrAdmin:
		return fmt.Sprintf("owner-or-admin:%s", r.target)
	case ruleBatchMember:
		return fmt.Sprintf("batch-member:%s", r.target)
	}
	return "none"
}
