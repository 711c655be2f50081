package wire

import (
	"time"

	"starbook/internal/domain/entity"
	"starbook/pkg/money"
)

func ToUserPayload(u *entity.User) UserPayload {
	return UserPayload{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		CreateTime: u.CreatedAt.Unix(),
	}
}

func UserFromPayload(p UserPayload) entity.User {
	return entity.User{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		CreatedAt: time.Unix(p.CreateTime, 0),
	}
}

func ToAccountPayload(a *entity.Account) AccountPayload {
	return AccountPayload{ID: a.ID, Name: a.Name, CreateTime: a.CreatedAt.Unix()}
}

func AccountFromPayload(p AccountPayload) entity.Account {
	return entity.Account{ID: p.ID, Name: p.Name, CreatedAt: time.Unix(p.CreateTime, 0)}
}

func ToRecordPayload(r *entity.Record) RecordPayload {
	return RecordPayload{
		ID:                 r.ID,
		Name:               r.Name,
		Type:               r.Type,
		Date:               r.Date.Unix(),
		Amount:             money.Format(r.Amount),
		AccountID:          r.AccountID,
		CreateUserID:       r.CreateUserID,
		LastModifiedUserID: r.LastModifiedUserID,
		CreateTime:         r.CreatedAt.Unix(),
	}
}

// RecordFromPayload trusts the wire amount; the sender formatted it with
// money.Format so parsing cannot fail on a round trip.
func RecordFromPayload(p RecordPayload) (entity.Record, error) {
	amount, err := money.Parse(p.Amount)
	if err != nil {
		return entity.Record{}, err
	}
	return entity.Record{
		ID:                 p.ID,
		Name:               p.Name,
		Type:               p.Type,
		Date:               time.Unix(p.Date, 0),
		Amount:             amount,
		AccountID:          p.AccountID,
		CreateUserID:       p.CreateUserID,
		LastModifiedUserID: p.LastModifiedUserID,
		CreatedAt:          time.Unix(p.CreateTime, 0),
	}, nil
}
