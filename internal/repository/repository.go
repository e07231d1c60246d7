package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrDuplicate is returned when a write violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolation = "23505"

// QueryObserver receives the duration of every repository query.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveDBQuery(string, time.Duration) {}

func observe(o QueryObserver, label string, start time.Time) {
	o.ObserveDBQuery(label, time.Since(start))
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// validID reports whether id can match a UUID primary key. Postgres rejects
// malformed UUID literals, so those lookups are answered as not found.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
