// Package models contains database model definitions.
package models

// Setting is a named JSON blob, used for per user integration state such as calendar connections.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"uniqueIndex;size:191"`
	Value []byte
}
