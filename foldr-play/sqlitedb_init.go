package main

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"foldr-lang-go/model"
)

var DB *gorm.DB = nil

func migrate() error {
	return DB.AutoMigrate(&model.RunEntry{})
}

func OpenDb(dbPath string) (err error) {
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return err
	}
	err = migrate()
	return
}

func CloseDb() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
