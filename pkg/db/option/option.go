// Package option provides composable gorm query modifiers for the generic
// repository store.
package option

import "gorm.io/gorm"

type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type orderBy struct {
	clause string
}

func (o orderBy) Apply(db *gorm.DB) *gorm.DB { return db.Order(o.clause) }

func WithOrderBy(clause string) QueryOption { return orderBy{clause: clause} }

type limit struct {
	n int
}

func (l limit) Apply(db *gorm.DB) *gorm.DB { return db.Limit(l.n) }

func WithLimit(n int) QueryOption { return limit{n: n} }

type offset struct {
	n int
}

func (o offset) Apply(db *gorm.DB) *gorm.DB { return db.Offset(o.n) }

func WithOffset(n int) QueryOption { return offset{n: n} }
