package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"starbook/internal/domain/entity"
	"starbook/pkg/pagination"
)

// RecordInput carries the caller-settable fields of a record. AccountID,
// CreateUserID and CreatedAt are stamped by the engine and immutable.
type RecordInput struct {
	Name   string
	Type   int
	Date   time.Time
	Amount decimal.Decimal
}

// CreateRecord adds a record to an account the caller holds at least
// Member on, stamping both user fields with the acting user.
func (s *Service) CreateRecord(ctx context.Context, actorID, accountID int64, in RecordInput) error {
	u, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	ok, err := s.HasRole(ctx, u.ID, accountID, entity.RoleMember)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	rec := &entity.Record{
		Name:               in.Name,
		Type:               in.Type,
		Date:               in.Date,
		Amount:             in.Amount,
		AccountID:          accountID,
		CreateUserID:       u.ID,
		LastModifiedUserID: u.ID,
	}
	return s.Store.Records().Create(ctx, rec)
}

// DeleteRecord removes a record. Requires at least Member on the record's
// account.
func (s *Service) DeleteRecord(ctx context.Context, actorID, id int64) error {
	rec, err := s.Store.Records().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrNotFound
	}
	ok, err := s.roleOn(ctx, actorID, rec.AccountID, entity.RoleMember)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	deleted, err := s.Store.Records().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// UpdateRecord rewrites the caller-settable fields in place and re-stamps
// LastModifiedUserID. CreateUserID, AccountID and CreatedAt never change.
func (s *Service) UpdateRecord(ctx context.Context, actorID, id int64, in RecordInput) error {
	rec, err := s.Store.Records().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrNotFound
	}
	u, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	ok, err := s.HasRole(ctx, u.ID, rec.AccountID, entity.RoleMember)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	rec.Name = in.Name
	rec.Type = in.Type
	rec.Date = in.Date
	rec.Amount = in.Amount
	rec.LastModifiedUserID = u.ID
	return s.Store.Records().Update(ctx, rec)
}

// GetRecordsByAccount pages through an account's records, id ascending.
// Degrades to empty without at least Member.
func (s *Service) GetRecordsByAccount(ctx context.Context, actorID, accountID int64, pageSize, pageID int) ([]entity.Record, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}
	ok, err := s.HasRole(ctx, actorID, accountID, entity.RoleMember)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []entity.Record{}, nil
	}
	records, err := s.Store.Records().ListByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return pagination.Page(records, pageSize, pageID), nil
}

func (s *Service) CountRecordsByAccount(ctx context.Context, actorID, accountID int64) (int64, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return 0, err
	}
	ok, err := s.HasRole(ctx, actorID, accountID, entity.RoleMember)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return s.Store.Records().CountByAccountID(ctx, accountID)
}

// SumAmountByAccount returns the decimal-exact sum of an account's record
// amounts, zero when the caller lacks Member.
func (s *Service) SumAmountByAccount(ctx context.Context, actorID, accountID int64) (decimal.Decimal, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return decimal.Zero, err
	}
	ok, err := s.HasRole(ctx, actorID, accountID, entity.RoleMember)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, nil
	}
	return s.Store.Records().SumAmountByAccountID(ctx, accountID)
}
