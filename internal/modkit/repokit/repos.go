// Package repokit provides the seams repos bind to
package repokit

import "trustrank/internal/platform/store"

// Queryer is the read and write surface a bound repo runs statements on
type Queryer = store.RowQuerier

// TxRunner can execute a function inside a transaction
type TxRunner = store.TxRunner
