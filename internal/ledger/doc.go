// Package ledger holds the pure bookkeeping rules of the expense engine:
// how a creation request expands into stored rows, how much a mutation moves
// an account balance or card limit, and which month a row belongs to.
// Nothing in this package touches the database.
package ledger
