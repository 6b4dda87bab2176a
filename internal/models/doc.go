// Package models defines the core domain models for settleup.
//
// A Group is a shared ledger. Members are the people expenses are split
// between; a member may be linked to a registered User or be a plain name
// (someone without an account). Expenses record who paid and how the amount
// is divided among members through Splits.
//
// Amounts are stored as int64 minor units (cents). Timestamps are Unix seconds.
// Relationships use ID strings instead of pointers.
package models
