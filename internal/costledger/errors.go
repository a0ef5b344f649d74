package costledger

import "errors"

var (
	// ErrBudgetNotFound indicates no budget exists with the given ID.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrModelNotFound indicates no pricing entry exists for the given model.
	ErrModelNotFound = errors.New("model not found in pricing table")

	// ErrBudgetExceeded indicates a trackUsage call pushed a budget's
	// currentCost to or past its maxCost. The usage is still recorded.
	ErrBudgetExceeded = errors.New("budget exceeded")

	// ErrNoViableModel indicates routeRequest found no model whose
	// projected cost fits the budget's remaining capacity.
	ErrNoViableModel = errors.New("no viable model for request")
)
