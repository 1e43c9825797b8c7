package core

import (
	"context"
	"fmt"

	"rentalcore/pkg/domain"
)

// LifecycleTransitionRule blocks illegal state transitions on stateful entities.
func LifecycleTransitionRule() domain.Rule {
	return lifecycleTransitionRule{}
}

type lifecycleTransitionRule struct{}

type lifecycleMachine struct {
	entity   domain.EntityType
	label    string
	initial  string
	terminal map[string]struct{}
	valid    map[string]struct{}
	// rank orders states for machines that may only move forward; nil allows any order.
	rank      func(state string) int
	extractor func(payload domain.ChangePayload) (id string, state string, ok bool)
}

var lifecycleMachines = map[domain.EntityType]lifecycleMachine{
	domain.EntityApplication: {
		entity:   domain.EntityApplication,
		label:    "application",
		initial:  string(domain.ApplicationPending),
		terminal: toSet(string(domain.ApplicationApproved), string(domain.ApplicationRejected)),
		valid: toSet(
			string(domain.ApplicationPending),
			string(domain.ApplicationApproved),
			string(domain.ApplicationRejected),
		),
		extractor: func(payload domain.ChangePayload) (string, string, bool) {
			app, ok := domain.DecodeChangePayload[domain.Application](payload)
			if !ok {
				return "", "", false
			}
			return app.ID, string(app.Status), true
		},
	},
	domain.EntityComplaint: {
		entity:   domain.EntityComplaint,
		label:    "complaint",
		initial:  string(domain.ComplaintOpen),
		terminal: toSet(string(domain.ComplaintResolved)),
		valid: toSet(
			string(domain.ComplaintOpen),
			string(domain.ComplaintInProgress),
			string(domain.ComplaintResolved),
		),
		rank: func(state string) int { return domain.ComplaintStatus(state).Rank() },
		extractor: func(payload domain.ChangePayload) (string, string, bool) {
			complaint, ok := domain.DecodeChangePayload[domain.Complaint](payload)
			if !ok {
				return "", "", false
			}
			return complaint.ID, string(complaint.Status), true
		},
	},
	domain.EntityPayment: {
		entity:   domain.EntityPayment,
		label:    "payment",
		initial:  string(domain.PaymentPending),
		terminal: toSet(string(domain.PaymentCompleted), string(domain.PaymentFailed)),
		valid: toSet(
			string(domain.PaymentPending),
			string(domain.PaymentCompleted),
			string(domain.PaymentFailed),
		),
		extractor: func(payload domain.ChangePayload) (string, string, bool) {
			payment, ok := domain.DecodeChangePayload[domain.Payment](payload)
			if !ok {
				return "", "", false
			}
			return payment.ID, string(payment.Status), true
		},
	},
	domain.EntityAgreement: {
		entity:   domain.EntityAgreement,
		label:    "agreement",
		initial:  string(domain.AgreementActive),
		terminal: toSet(string(domain.AgreementExpired), string(domain.AgreementTerminated)),
		valid: toSet(
			string(domain.AgreementActive),
			string(domain.AgreementExpired),
			string(domain.AgreementTerminated),
		),
		extractor: func(payload domain.ChangePayload) (string, string, bool) {
			agreement, ok := domain.DecodeChangePayload[domain.LeaseAgreement](payload)
			if !ok {
				return "", "", false
			}
			return agreement.ID, string(agreement.Status), true
		},
	},
}

func (lifecycleTransitionRule) Name() string { return "lifecycle_transition" }

func (lifecycleTransitionRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		machine, ok := lifecycleMachines[change.Entity]
		if !ok {
			continue
		}

		afterID, afterState, hasAfter := machine.extractor(change.After)
		if hasAfter {
			if _, valid := machine.valid[afterState]; !valid {
				res.Violations = append(res.Violations, lifecycleViolation(machine, afterID,
					fmt.Sprintf("%s %s is set to invalid state %s", machine.label, afterID, afterState)))
				continue
			}
		}

		beforeID, beforeState, hasBefore := machine.extractor(change.Before)
		if !hasBefore {
			if hasAfter && change.Action == domain.ActionCreate && afterState != machine.initial {
				res.Violations = append(res.Violations, lifecycleViolation(machine, afterID,
					fmt.Sprintf("%s %s must be created as %s, not %s", machine.label, afterID, machine.initial, afterState)))
			}
			continue
		}
		if !hasAfter || afterState == beforeState {
			continue
		}
		if _, terminal := machine.terminal[beforeState]; terminal {
			res.Violations = append(res.Violations, lifecycleViolation(machine, afterID,
				fmt.Sprintf("cannot move %s %s from terminal state %s to %s", machine.label, beforeID, beforeState, afterState)))
			continue
		}
		if machine.rank != nil && machine.rank(afterState) != machine.rank(beforeState)+1 {
			res.Violations = append(res.Violations, lifecycleViolation(machine, afterID,
				fmt.Sprintf("%s %s must advance one step at a time, not %s to %s", machine.label, beforeID, beforeState, afterState)))
		}
	}
	return res, nil
}

func lifecycleViolation(machine lifecycleMachine, id, message string) domain.Violation {
	return domain.Violation{
		Rule:     "lifecycle_transition",
		Severity: domain.SeverityBlock,
		Message:  message,
		Entity:   machine.entity,
		EntityID: id,
	}
}

func toSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
