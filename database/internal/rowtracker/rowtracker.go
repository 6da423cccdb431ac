// Package rowtracker defers execution tracking of a single-row query until the
// row is consumed, since database/sql reports QueryRow errors only on Scan.
package rowtracker

import (
	"sync"

	"github.com/digit-health/dtoquery/database/types"
)

// Wrap returns a row that reports the first Scan result, or the first non-nil
// Err result, to finish. finish runs at most once. A nil row or finish returns row unchanged.
func Wrap(row types.Row, finish func(error)) types.Row {
	if row == nil || finish == nil {
		return row
	}
	return &trackedRow{row: row, finish: finish}
}

type trackedRow struct {
	row    types.Row
	finish func(error)
	once   sync.Once
}

func (tr *trackedRow) Scan(dest ...any) error {
	err := tr.row.Scan(dest...)
	tr.done(err)
	return err
}

// Err reports only failures; a nil result leaves tracking to the following Scan.
func (tr *trackedRow) Err() error {
	err := tr.row.Err()
	if err != nil {
		tr.done(err)
	}
	return err
}

func (tr *trackedRow) done(err error) {
	tr.once.Do(func() {
		tr.finish(err)
	})
}
