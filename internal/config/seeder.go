package config

import (
	"errors"
	"fmt"
	"log"

	"coderr-backend/internal/adapters/persistence/models"
	"coderr-backend/internal/core/domain"
	"coderr-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedStaffUser(); err != nil {
		log.Printf("⚠️ Staff seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedStaffUser creates the staff account named by ADMIN_* settings
func (s *Seeder) seedStaffUser() error {
	admin := s.cfg.Admin
	if admin.Username == "" || admin.Email == "" || admin.Password == "" {
		return errors.New("ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD are not all set")
	}

	_, created, err := EnsureStaffUser(s.db, admin.Username, admin.Email, admin.Password, domain.RoleCustomer)
	if err != nil {
		return err
	}
	if created {
		log.Printf("✅ Staff user created: %s", admin.Email)
	}
	return nil
}

// EnsureStaffUser creates a staff account, or flags the existing account
// with that email as staff. The password of an existing account is kept.
func EnsureStaffUser(db *gorm.DB, username, email, plain string, role domain.Role) (*models.User, bool, error) {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if !user.IsStaff {
			if err := db.Model(&user).Update("is_staff", true).Error; err != nil {
				return nil, false, err
			}
			user.IsStaff = true
		}
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	user = models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Type:     role,
		IsStaff:  true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, false, err
	}
	return &user, true, nil
}
