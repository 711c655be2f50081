package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"starbook/config"
	"starbook/internal/domain/entity"
	pginfra "starbook/internal/infrastructure/postgres"
	"starbook/pkg/helpers"
)

// Seeds the demo dataset into postgres: three users sharing one busy
// account plus two single-owner accounts. Matches the dataset the local
// backend starts with, so the two modes are comparable out of the box.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	store := pginfra.NewStore(pool)

	userIDs := make([]int64, 0, 3)
	for i := 1; i <= 3; i++ {
		email := fmt.Sprintf("test%d@star.com", i)
		existing, err := store.Users().GetByEmail(ctx, email)
		if err != nil {
			log.Fatalf("failed to look up %s: %v", email, err)
		}
		if existing != nil {
			log.Printf("user %s already present, skipping", email)
			userIDs = append(userIDs, existing.ID)
			continue
		}
		hash, err := helpers.HashPassword(fmt.Sprintf("testpassword%d", i))
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		u := &entity.User{
			Name:         fmt.Sprintf("testUser%d", i),
			Email:        email,
			PasswordHash: hash,
		}
		if err := store.Users().Create(ctx, u); err != nil {
			log.Fatalf("failed to seed user %s: %v", email, err)
		}
		userIDs = append(userIDs, u.ID)
		log.Printf("seeded user id=%d email=%s", u.ID, email)
	}

	accountIDs := make([]int64, 0, 3)
	for i := 1; i <= 3; i++ {
		a := &entity.Account{Name: fmt.Sprintf("testAccount%d", i)}
		rule := &entity.AccessRule{UserID: userIDs[0], Role: entity.RoleOwner}
		if err := store.Accounts().Create(ctx, a, rule); err != nil {
			log.Fatalf("failed to seed account: %v", err)
		}
		accountIDs = append(accountIDs, a.ID)
		log.Printf("seeded account id=%d owner=%d", a.ID, userIDs[0])
	}

	for _, uid := range userIDs[1:] {
		rule := &entity.AccessRule{UserID: uid, AccountID: accountIDs[0], Role: entity.RoleMember}
		if err := store.AccessRules().Create(ctx, rule); err != nil {
			log.Fatalf("failed to seed access rule: %v", err)
		}
	}

	amount := decimal.RequireFromString("9.9")
	creators := []int64{userIDs[0], userIDs[1], userIDs[2], userIDs[0], userIDs[0], userIDs[0], userIDs[0]}
	now := time.Now()
	for i, uid := range creators {
		rec := &entity.Record{
			Name:               fmt.Sprintf("test%d", i+1),
			Type:               i + 1,
			Date:               now,
			Amount:             amount,
			AccountID:          accountIDs[0],
			CreateUserID:       uid,
			LastModifiedUserID: uid,
		}
		if err := store.Records().Create(ctx, rec); err != nil {
			log.Fatalf("failed to seed record: %v", err)
		}
	}
	log.Printf("seeded %d records on account %d", len(creators), accountIDs[0])
}
