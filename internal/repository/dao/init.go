package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Character{},
		&Event{},
		&Attendance{},
		&Item{},
		&Wish{},
	)
}
