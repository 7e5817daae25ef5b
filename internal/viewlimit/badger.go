package viewlimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "view:"

// BadgerLimiter stores one key per counted visit with a TTL equal to the
// cooldown, so windows survive restarts and badger expires old keys itself.
type BadgerLimiter struct {
	db       *badger.DB
	cooldown time.Duration
}

// OpenBadger opens (or creates) a badger database at path.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for view limiter: %w", err)
	}
	return db, nil
}

// NewBadgerLimiter creates a BadgerLimiter on an open database.
func NewBadgerLimiter(db *badger.DB, cooldown time.Duration) *BadgerLimiter {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &BadgerLimiter{db: db, cooldown: cooldown}
}

func (l *BadgerLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	k := []byte(badgerKeyPrefix + key)
	allowed := false
	err := l.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(k)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		allowed = true
		return txn.SetEntry(badger.NewEntry(k, []byte{1}).WithTTL(l.cooldown))
	})
	if errors.Is(err, badger.ErrConflict) {
		// 同じキーへの同時書き込みは一方だけを数える
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("view limiter: %w", err)
	}
	return allowed, nil
}
