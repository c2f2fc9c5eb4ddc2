package service

import (
	"time"

	"house-panel/database"
	"house-panel/database/model"
	"house-panel/util/common"
)

type BudgetService struct{}

// CategoryTotal is one row of the per-category summary.
type CategoryTotal struct {
	Category   string `json:"category"`
	TotalCents int64  `json:"totalCents"`
}

func (s *BudgetService) AddEntry(entry *model.BudgetEntry) error {
	if entry.Semester == "" {
		return common.NewError("semester can not be empty")
	}
	if entry.Category == "" {
		return common.NewError("category can not be empty")
	}
	if entry.AmountCents == 0 {
		return common.NewError("amount can not be zero")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	db := database.GetDB()
	return db.Create(entry).Error
}

func (s *BudgetService) DeleteEntry(id int) error {
	db := database.GetDB()
	return db.Where("id = ?", id).Delete(&model.BudgetEntry{}).Error
}

func (s *BudgetService) GetEntries(semester string) ([]*model.BudgetEntry, error) {
	db := database.GetDB()
	entries := make([]*model.BudgetEntry, 0)
	err := db.Model(model.BudgetEntry{}).
		Where("semester = ?", semester).
		Order("created_at desc").
		Find(&entries).
		Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetBalance sums a semester's ledger. Debits are negative entries, so the
// sum is the balance.
func (s *BudgetService) GetBalance(semester string) (int64, error) {
	db := database.GetDB()
	var balance *int64
	err := db.Model(model.BudgetEntry{}).
		Where("semester = ?", semester).
		Select("SUM(amount_cents)").
		Scan(&balance).
		Error
	if err != nil {
		return 0, err
	}
	if balance == nil {
		return 0, nil
	}
	return *balance, nil
}

func (s *BudgetService) GetCategorySummary(semester string) ([]CategoryTotal, error) {
	db := database.GetDB()
	totals := make([]CategoryTotal, 0)
	err := db.Model(model.BudgetEntry{}).
		Where("semester = ?", semester).
		Select("category, SUM(amount_cents) as total_cents").
		Group("category").
		Order("category").
		Scan(&totals).
		Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// GetSemesters lists semesters that have at least one entry, newest first.
func (s *BudgetService) GetSemesters() ([]string, error) {
	db := database.GetDB()
	var semesters []string
	err := db.Model(model.BudgetEntry{}).
		Distinct("semester").
		Order("semester desc").
		Pluck("semester", &semesters).
		Error
	if err != nil {
		return nil, err
	}
	return semesters, nil
}
