package repositories

import "context"

// TxFn runs inside a transaction. The ctx it receives carries the transaction.
type TxFn func(ctx context.Context) error

// TransactionManager runs functions atomically.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
