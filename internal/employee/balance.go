package employee

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/alechulkin/modfac/internal/domain"
	leaveerrors "github.com/alechulkin/modfac/internal/leave/errors"
)

// LeaveBalances maps each leave type to the remaining day balance.
// All mutations go through Debit or ZeroBalances so the map can never
// hold a negative value.
type LeaveBalances map[domain.LeaveType]int

// ZeroBalances returns a balance map with every enumerated leave type
// set to zero. Used only on true creation, never on rejoin.
func ZeroBalances() LeaveBalances {
	balances := make(LeaveBalances, len(domain.AllLeaveTypes()))
	for _, t := range domain.AllLeaveTypes() {
		balances[t] = 0
	}
	return balances
}

// BalanceFor returns the remaining balance for a leave type. Types not
// present in the map count as zero.
func (b LeaveBalances) BalanceFor(t domain.LeaveType) int {
	return b[t]
}

// Debit returns a copy with days subtracted from the given type. It is
// the single mutation path for captures and refuses to go negative.
func (b LeaveBalances) Debit(t domain.LeaveType, days int) (LeaveBalances, error) {
	balance := b.BalanceFor(t)
	if days > balance {
		return nil, leaveerrors.ErrInsufficientBalance
	}

	next := make(LeaveBalances, len(b))
	for k, v := range b {
		next[k] = v
	}
	next[t] = balance - days
	return next, nil
}

// Value implements driver.Valuer so the map persists as jsonb.
func (b LeaveBalances) Value() (driver.Value, error) {
	if b == nil {
		b = LeaveBalances{}
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner.
func (b *LeaveBalances) Scan(value interface{}) error {
	if value == nil {
		*b = LeaveBalances{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported leave balances column type %T", value)
	}

	return json.Unmarshal(raw, b)
}
