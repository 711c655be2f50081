package application

import (
	"context"

	"starbook/internal/domain/entity"
)

// HasRole reports whether the user holds at least the required role on the
// account. No rule means no: the engine never defaults to permissive. When
// duplicate rules govern the same (user, account) pair the highest role
// wins, which keeps the answer independent of store iteration order.
//
// The check re-scans the rule set every time; no caching.
func (s *Service) HasRole(ctx context.Context, userID, accountID int64, required entity.Role) (bool, error) {
	rules, err := s.Store.AccessRules().ListByAccountID(ctx, accountID)
	if err != nil {
		return false, err
	}
	var best entity.Role
	for _, rule := range rules {
		if rule.UserID == userID && rule.Role > best {
			best = rule.Role
		}
	}
	if best == 0 {
		return false, nil
	}
	return best.Satisfies(required), nil
}

// roleOn is HasRole plus the unauthenticated guard, shared by the gated
// operations. Unauthenticated callers read as "no role", not as an error,
// so probes behave uniformly.
func (s *Service) roleOn(ctx context.Context, actorID, accountID int64, required entity.Role) (bool, error) {
	if actorID == 0 {
		return false, nil
	}
	return s.HasRole(ctx, actorID, accountID, required)
}
