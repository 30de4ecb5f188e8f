// Package repository provides the GORM-backed stores of the matching core.
//
// Every store failure is wrapped with svcErr.Unavailable so callers can match
// errors.Is(err, svcErr.ErrDataUnavailable) while the driver cause stays
// reachable. Missing users surface as svcErr.ErrUserNotFound.
package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// batchSize bounds IN (...) lists.
const batchSize = 500

// forUpdate applies SELECT ... FOR UPDATE where the dialect supports row locks.
// SQLite serializes writers on its own and rejects the clause.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func chunks(ids []uint64, size int) [][]uint64 {
	var out [][]uint64
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
