package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Transaction runs operations in order; when one fails, the
// compensations registered for the operations before it run in reverse.
type Transaction struct {
	operations    []Operation
	compensations []Compensation
	logger        *zap.Logger
}

type Operation struct {
	Name string
	Fn   func(context.Context) error
}

type Compensation struct {
	Name string
	Fn   func(context.Context) error
}

func NewTransaction(logger *zap.Logger) *Transaction {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transaction{
		operations:    []Operation{},
		compensations: []Compensation{},
		logger:        logger,
	}
}

func (t *Transaction) AddOperation(name string, fn func(context.Context) error) {
	t.operations = append(t.operations, Operation{name, fn})
}

// AddCompensation registers the undo step for the operation at the same
// index.
func (t *Transaction) AddCompensation(name string, fn func(context.Context) error) {
	t.compensations = append(t.compensations, Compensation{name, fn})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", op.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) {
	for i := failedAtIndex - 1; i >= 0; i-- {
		if i < len(t.compensations) {
			comp := t.compensations[i]
			if err := comp.Fn(ctx); err != nil {
				t.logger.Error("compensation failed, state may be inconsistent",
					zap.String("compensation", comp.Name), zap.Error(err))
			}
		}
	}
}
