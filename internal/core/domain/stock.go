package domain

import (
	"fmt"
	"strings"
)

type StockAction string

const (
	StockIncrement StockAction = "increment"
	StockDecrement StockAction = "decrement"
	StockSet       StockAction = "set"
)

// StockAdjustment describes a single stock change. Quantity is only read for
// StockSet.
type StockAdjustment struct {
	Action   StockAction
	Quantity int
}

func Increment() StockAdjustment { return StockAdjustment{Action: StockIncrement} }

func Decrement() StockAdjustment { return StockAdjustment{Action: StockDecrement} }

func SetTo(n int) StockAdjustment { return StockAdjustment{Action: StockSet, Quantity: n} }

// Apply returns the quantity that results from applying the adjustment to
// current. The result is never negative.
func (a StockAdjustment) Apply(current int) int {
	var next int
	switch a.Action {
	case StockIncrement:
		next = current + 1
	case StockDecrement:
		next = current - 1
	case StockSet:
		next = a.Quantity
	default:
		next = current
	}
	if next < 0 {
		return 0
	}
	return next
}

func (a StockAdjustment) String() string {
	if a.Action == StockSet {
		return fmt.Sprintf("set(%d)", a.Quantity)
	}
	return string(a.Action)
}

type BackendMode string

const (
	BackendRemote BackendMode = "remote"
	BackendLocal  BackendMode = "local"
)

func ParseBackendMode(s string) (BackendMode, error) {
	switch BackendMode(strings.ToLower(strings.TrimSpace(s))) {
	case BackendRemote:
		return BackendRemote, nil
	case BackendLocal:
		return BackendLocal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBackendMode, s)
}
