// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
//
// Every method runs in its own short-lived transaction that is committed on
// success and rolled back on any failure, so no connection outlives the call.
package repository
