// Package domain defines the core domain types and interfaces.
//
// This package contains concept-oriented files (bet.go, wager.go, sentiment.go,
// round.go, errors.go) with shared types and cross-cutting contracts. No
// implementation code lives here. Keeping the types on their own prevents
// circular imports between the odds, ledger, and game packages.
package domain
