package achievement

import (
	"context"
	"fmt"
)

// IDGenerator produces unique identifiers for new badge rows.
type IDGenerator func() string

// Engine evaluates the badge rules for one account and grants whatever
// is newly earned. It is stateless: the caller passes the stats source
// and badge repository per invocation so the evaluation can run inside
// the same transaction as the ledger write that triggered it.
type Engine struct {
	rules []Rule
	newID IDGenerator
}

// NewEngine creates an achievement engine with the standard rule table.
func NewEngine(newID IDGenerator) *Engine {
	return &Engine{
		rules: Rules(),
		newID: newID,
	}
}

// Evaluate reads the account's aggregates, compares them against the
// rule table in order, and grants every matched badge the account does
// not yet hold. Re-evaluating with unchanged aggregates grants nothing.
func (e *Engine) Evaluate(ctx context.Context, accountID string, stats StatsSource, badges Repository) ([]Badge, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}

	agg, err := stats.Aggregates(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("achievement: failed to read aggregates: %w", err)
	}

	held, err := badges.HeldNames(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("achievement: failed to read held badges: %w", err)
	}

	var granted []Badge
	for _, rule := range e.rules {
		if !rule.Met(agg) || held[rule.Name] {
			continue
		}

		badge, err := NewBadge(e.newID(), accountID, rule.Name, rule.Description)
		if err != nil {
			return granted, err
		}

		if err := badges.Grant(ctx, badge); err != nil {
			return granted, fmt.Errorf("achievement: failed to grant %q: %w", rule.Name, err)
		}

		held[rule.Name] = true
		granted = append(granted, *badge)
	}

	return granted, nil
}

// StarterBadge builds the unconditional badge seeded at registration.
func StarterBadge(id, accountID string) (*Badge, error) {
	return NewBadge(id, accountID, BadgeStarter, StarterBadgeDescription)
}
