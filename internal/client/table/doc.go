// Package table projects fetched profiles and matches into display rows and
// keeps the view state of a listing: free-text and status filters, a single
// sort column, and pagination. Row actions resolve a row back to the entity
// it was projected from through an id index rebuilt on every SetData.
package table
