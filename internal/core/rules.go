package core

import (
	"context"

	"rentalcore/internal/repo"
	"rentalcore/pkg/domain"
)

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(LifecycleTransitionRule())
	engine.Register(ReferentialIntegrityRule())
	return engine
}

// repoView exposes the live repositories to rules. Every lookup re-reads the
// store so rules observe the state the workflow is about to change.
type repoView struct {
	ctx   context.Context
	repos *repo.Repositories
}

func newRepoView(ctx context.Context, repos *repo.Repositories) domain.RuleView {
	return repoView{ctx: ctx, repos: repos}
}

func (v repoView) FindUser(id string) (domain.User, bool) {
	return v.repos.Users.FindByID(v.ctx, id)
}

func (v repoView) FindProperty(id string) (domain.Property, bool) {
	return v.repos.Properties.FindByID(v.ctx, id)
}

func (v repoView) FindApplication(id string) (domain.Application, bool) {
	return v.repos.Applications.FindByID(v.ctx, id)
}

func (v repoView) FindComplaint(id string) (domain.Complaint, bool) {
	return v.repos.Complaints.FindByID(v.ctx, id)
}

func (v repoView) FindPayment(id string) (domain.Payment, bool) {
	return v.repos.Payments.FindByID(v.ctx, id)
}

func (v repoView) FindAgreement(id string) (domain.LeaseAgreement, bool) {
	return v.repos.Agreements.FindByID(v.ctx, id)
}

func (v repoView) ListAgreements() []domain.LeaseAgreement {
	return v.repos.Agreements.All(v.ctx)
}
