package database

import (
	"log"

	"backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedUsers inserts one development account per ADFD role when the users
// table is empty. Passwords default to "password123" unless overridden.
func SeedUsers(db *gorm.DB, defaultPassword string) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if defaultPassword == "" {
		defaultPassword = "password123"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []model.User{
		{
			Name:              "Archive Team Member",
			Email:             "archive@adfd.ae",
			Role:              model.RoleArchiveTeam,
			Department:        "Archive",
			CanCreateRequests: true,
		},
		{
			Name:             "Operations Reviewer",
			Email:            "operations@adfd.ae",
			Role:             model.RoleOperationsTeam,
			Department:       "Operations",
			CanApproveReject: true,
		},
		{
			Name:        "Core Banking Officer",
			Email:       "corebanking@adfd.ae",
			Role:        model.RoleCoreBankingTeam,
			Department:  "Core Banking",
			CanDisburse: true,
		},
		{
			Name:       "Loan Administrator",
			Email:      "loanadmin@adfd.ae",
			Role:       model.RoleLoanAdmin,
			Department: "Loan Administration",
		},
		{
			Name:              "System Administrator",
			Email:             "admin@adfd.ae",
			Role:              model.RoleAdmin,
			Department:        "IT",
			CanCreateRequests: true,
			CanApproveReject:  true,
			CanDisburse:       true,
		},
		{
			Name:           "Observer",
			Email:          "observer@adfd.ae",
			Role:           model.RoleObserver,
			Department:     "Audit",
			ViewOnlyAccess: true,
		},
	}

	for i := range users {
		users[i].Password = string(hashed)
		users[i].IsActive = true
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d development users", len(users))
	return nil
}
