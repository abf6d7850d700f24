package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"bookie/domain"
	"bookie/domain/entities"
	"bookie/domain/events"
	"bookie/domain/interfaces"
	"bookie/domain/utils"
)

type creditService struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewCreditService creates a new credit workflow service
func NewCreditService(uowFactory interfaces.UnitOfWorkFactory) interfaces.CreditService {
	return &creditService{
		uowFactory: uowFactory,
	}
}

func (s *creditService) RequestCredit(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*entities.CreditGrant, error) {
	var grant *entities.CreditGrant
	err := withConcurrencyRetry(ctx, func() error {
		var err error
		grant, err = s.requestOnce(ctx, fromID, toID, amount, description)
		return err
	})
	return grant, err
}

func (s *creditService) requestOnce(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*entities.CreditGrant, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// A request only inserts a pending grant, but it reuses the full
	// transfer validation so an unauthorized or banned flow is rejected at
	// request time rather than surfacing later at approval.
	_, _, err := loadTransferAccounts(ctx, uow.Accounts(), fromID, toID, amount)
	if err != nil {
		return nil, err
	}

	grant := &entities.CreditGrant{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		Status:        entities.CreditGrantStatusPending,
		Description:   description,
	}
	if err := uow.CreditGrants().Create(ctx, grant); err != nil {
		return nil, fmt.Errorf("failed to create credit grant: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"grantID": grant.ID,
		"from":    fromID,
		"to":      toID,
		"amount":  amount.String(),
	}).Info("Credit grant requested")

	return grant, nil
}

func (s *creditService) ApproveCredit(ctx context.Context, grantID int64, approverID string) (*entities.CreditGrant, error) {
	var grant *entities.CreditGrant
	err := withConcurrencyRetry(ctx, func() error {
		var err error
		grant, err = s.approveOnce(ctx, grantID, approverID)
		return err
	})
	return grant, err
}

func (s *creditService) approveOnce(ctx context.Context, grantID int64, approverID string) (*entities.CreditGrant, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	grant, target, err := s.loadGrantForDecision(ctx, uow, grantID, approverID, true)
	if err != nil {
		return nil, err
	}
	if target.IsBanned {
		return nil, domain.NewError(domain.ErrKindBannedAccount, "account %s is banned", target.ID)
	}

	now := time.Now().UTC()
	paid, err := uow.CreditGrants().MarkPaid(ctx, grantID, approverID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to mark grant paid: %w", err)
	}
	if !paid {
		return nil, domain.NewError(domain.ErrKindAlreadySettled, "credit grant %d is no longer pending", grantID)
	}

	updated, err := uow.Accounts().ApplyDelta(ctx, target.ID, grant.Amount, grant.Amount, false)
	if err != nil {
		return nil, fmt.Errorf("failed to apply credit grant: %w", err)
	}

	transaction := &entities.Transaction{
		AccountID:      target.ID,
		RelatedAgentID: relatedAgentFor(target),
		Kind:           entities.TransactionKindCreditAdd,
		Amount:         grant.Amount,
		Description:    grant.Description,
	}
	if err := utils.RecordTransaction(ctx, uow.Ledger(), uow.EventBus(), transaction, updated.Balance); err != nil {
		return nil, err
	}

	if err := uow.EventBus().Publish(events.CreditGrantApprovedEvent{
		GrantID:     grantID,
		ToAccountID: target.ID,
		Amount:      grant.Amount,
		ApprovedBy:  approverID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish credit grant approved event")
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	grant.Status = entities.CreditGrantStatusPaid
	grant.ApprovedBy = &approverID
	grant.ApprovedAt = &now
	return grant, nil
}

func (s *creditService) CancelCredit(ctx context.Context, grantID int64, actorID string) (*entities.CreditGrant, error) {
	var grant *entities.CreditGrant
	err := withConcurrencyRetry(ctx, func() error {
		var err error
		grant, err = s.cancelOnce(ctx, grantID, actorID)
		return err
	})
	return grant, err
}

func (s *creditService) cancelOnce(ctx context.Context, grantID int64, actorID string) (*entities.CreditGrant, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	grant, _, err := s.loadGrantForDecision(ctx, uow, grantID, actorID, false)
	if err != nil {
		return nil, err
	}

	cancelled, err := uow.CreditGrants().MarkCancelled(ctx, grantID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark grant cancelled: %w", err)
	}
	if !cancelled {
		return nil, domain.NewError(domain.ErrKindAlreadySettled, "credit grant %d is no longer pending", grantID)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	grant.Status = entities.CreditGrantStatusCancelled
	return grant, nil
}

// loadGrantForDecision fetches a pending grant and checks the actor's
// authority over its target: super admins decide any grant, agents only
// grants targeting their own players. With lockTarget the target row is
// locked because an approval is about to mutate it.
func (s *creditService) loadGrantForDecision(ctx context.Context, uow interfaces.UnitOfWork, grantID int64, actorID string, lockTarget bool) (*entities.CreditGrant, *entities.Account, error) {
	grant, err := uow.CreditGrants().GetByID(ctx, grantID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get credit grant: %w", err)
	}
	if grant == nil {
		return nil, nil, domain.NewError(domain.ErrKindNotFound, "credit grant %d not found", grantID)
	}
	if grant.IsTerminal() {
		return nil, nil, domain.NewError(domain.ErrKindAlreadySettled, "credit grant %d is already %s", grantID, grant.Status)
	}

	actor, err := uow.Accounts().GetByID(ctx, actorID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get actor account: %w", err)
	}
	if actor == nil {
		return nil, nil, domain.NewError(domain.ErrKindNotFound, "account %s not found", actorID)
	}

	var target *entities.Account
	if lockTarget {
		target, err = uow.Accounts().GetForUpdate(ctx, grant.ToAccountID)
	} else {
		target, err = uow.Accounts().GetByID(ctx, grant.ToAccountID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get target account: %w", err)
	}
	if target == nil {
		return nil, nil, domain.NewError(domain.ErrKindNotFound, "account %s not found", grant.ToAccountID)
	}

	switch actor.Role {
	case entities.RoleSuperAdmin:
	case entities.RoleAgent:
		if !target.IsDirectChildOf(actor) {
			return nil, nil, domain.NewError(domain.ErrKindUnauthorized, "agent %s may only decide grants for its own players", actorID)
		}
	default:
		return nil, nil, domain.NewError(domain.ErrKindUnauthorized, "%s %s may not decide credit grants", actor.Role, actorID)
	}

	return grant, target, nil
}

func (s *creditService) RemoveCredit(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*entities.Account, error) {
	var account *entities.Account
	err := withConcurrencyRetry(ctx, func() error {
		var err error
		account, err = s.removeOnce(ctx, fromID, toID, amount, description)
		return err
	})
	return account, err
}

func (s *creditService) removeOnce(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*entities.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	_, to, err := loadTransferAccounts(ctx, uow.Accounts(), fromID, toID, amount)
	if err != nil {
		return nil, err
	}

	if !to.HasSufficientCredit(amount) {
		return nil, domain.NewError(domain.ErrKindInsufficientCredit, "account %s has credit %s, need %s", to.ID, to.Credit, amount)
	}

	// The balance is floored at zero; the ledger records the balance
	// reduction actually applied so the reconciliation invariant holds even
	// when the floor engages.
	balanceReduction := decimal.Min(amount, to.Balance)

	updated, err := uow.Accounts().ApplyDelta(ctx, to.ID, amount.Neg(), amount.Neg(), true)
	if err != nil {
		return nil, fmt.Errorf("failed to apply credit removal: %w", err)
	}

	if balanceReduction.IsPositive() {
		transaction := &entities.Transaction{
			AccountID:      to.ID,
			RelatedAgentID: relatedAgentFor(to),
			Kind:           entities.TransactionKindCreditRemove,
			Amount:         balanceReduction.Neg(),
			Description:    description,
		}
		if err := utils.RecordTransaction(ctx, uow.Ledger(), uow.EventBus(), transaction, updated.Balance); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, nil
}

func (s *creditService) GetPendingGrants(ctx context.Context, accountID string) ([]*entities.CreditGrant, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	grants, err := uow.CreditGrants().GetPendingByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending grants: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return grants, nil
}
