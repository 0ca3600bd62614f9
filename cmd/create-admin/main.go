// Command create-admin creates a staff account, or marks an existing
// account as staff.
//
//	go run ./cmd/create-admin -username admin -email admin@example.com -password secret
package main

import (
	"flag"
	"log"

	"coderr-backend/internal/adapters/persistence/models"
	"coderr-backend/internal/config"
	"coderr-backend/internal/core/domain"
)

func main() {
	username := flag.String("username", "", "username of the staff account")
	email := flag.String("email", "", "email of the staff account")
	pass := flag.String("password", "", "password of the staff account")
	accountType := flag.String("type", string(domain.RoleCustomer), "account type: business or customer")
	flag.Parse()

	if *username == "" || *email == "" || *pass == "" {
		flag.Usage()
		log.Fatal("❌ -username, -email and -password are required")
	}

	role, err := domain.ParseRole(*accountType)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}

	user, created, err := config.EnsureStaffUser(db, *username, *email, *pass, role)
	if err != nil {
		log.Fatalf("❌ Failed to create staff user: %v", err)
	}

	if created {
		log.Printf("✅ Staff user created: %s (id %d)", user.Email, user.ID)
	} else {
		log.Printf("✅ Existing user %s (id %d) is now staff", user.Email, user.ID)
	}
}
