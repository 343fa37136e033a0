package database

import (
	"gorm.io/gorm"
)

// OrderBy sorts ascending on columns, with the primary key breaking ties
func OrderBy(columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, column := range columns {
			db = db.Order(column)
		}
		return db.Order("id")
	}
}

// WhereEq filters on column = value
func WhereEq(column string, value interface{}) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}
