// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-support/internal/platform/postgres"
)

// fakeTx records how the transaction ended. Methods not overridden are never called.
type fakeTx struct {
	pgx.Tx
	committed, rolledBack bool
	commitErr             error
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return tx.commitErr
}

func (tx *fakeTx) Rollback(context.Context) error {
	tx.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func TestWithTx_Commits(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}

	err := postgres.WithTx(context.Background(), db, func(pgx.Tx) error { return nil })

	require.NoError(t, err)
	assert.True(t, db.tx.committed)
	assert.False(t, db.tx.rolledBack)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}
	boom := errors.New("delete replies failed")

	err := postgres.WithTx(context.Background(), db, func(pgx.Tx) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.True(t, db.tx.rolledBack)
	assert.False(t, db.tx.committed)
}

func TestWithTx_BeginAndCommitFailures(t *testing.T) {
	called := false
	err := postgres.WithTx(context.Background(), &fakeBeginner{beginErr: errors.New("pool closed")}, func(pgx.Tx) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)

	db := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization failure")}}
	err = postgres.WithTx(context.Background(), db, func(pgx.Tx) error { return nil })
	assert.ErrorContains(t, err, "commit failed")
}
