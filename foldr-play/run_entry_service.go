package main

import (
	"time"

	"foldr-lang-go/model"
)

func SaveRunEntry(entry *model.RunEntry) error {
	return DB.Create(entry).Error
}

// FindRecentRuns returns up to limit live runs, newest first.
func FindRecentRuns(limit int) ([]*model.RunEntry, error) {
	var items []*model.RunEntry
	if err := DB.Model(&model.RunEntry{}).Order("id desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func FindExpiredRunsWithLimit(retention time.Duration, limit int) ([]*model.RunEntry, error) {
	var expired []*model.RunEntry
	before := time.Now().Add(-retention).Unix()
	if err := DB.Model(&model.RunEntry{}).Where("`created_at` < ?", before).
		Limit(limit).Find(&expired).Error; err != nil {
		return nil, err
	}
	return expired, nil
}

// DeleteRuns soft-deletes the given runs.
func DeleteRuns(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return DB.Delete(&model.RunEntry{}, ids).Error
}
