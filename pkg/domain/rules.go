package domain

import "context"

// RuleView provides read-only access to the live collections for rule evaluation.
type RuleView interface {
	FindUser(id string) (User, bool)
	FindProperty(id string) (Property, bool)
	FindApplication(id string) (Application, bool)
	FindComplaint(id string) (Complaint, bool)
	FindPayment(id string) (Payment, bool)
	FindAgreement(id string) (LeaseAgreement, bool)
	ListAgreements() []LeaseAgreement
}

// Rule defines an evaluation executed before a workflow writes its changes.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rules in evaluation order.
func (e *RulesEngine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, changes)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
