package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"bizdir/internal/adapters/observability"
	"bizdir/internal/app"
	"bizdir/internal/shared"
	mysqlrepo "bizdir/internal/storage/mysql"
)

var categories = []string{"Food", "Retail", "Services", "Entertainment"}

var businessNames = []string{
	"Joe's Pizza", "Tech Gadgets", "Quick Clean", "Movie Theater",
	"Burger Joint", "Fashion Boutique", "Auto Repair", "Bowling Alley",
}

// Seeds a demo user, a handful of businesses, three reviews each, and a
// deal for every second business.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Int("workers", cfg.SeedWorkers).Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	if err := repo.Initialize(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema initialization failed")
	}

	// no cache here: the seeder writes straight through
	svc := app.NewDirectoryService(repo, nil)

	user, err := svc.CreateUser(ctx, "Demo User", "demo@example.com")
	if err != nil {
		log.Fatal().Err(err).Msg("create demo user failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for i, name := range businessNames {
		i, name := i, name

		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			if err := seedBusiness(ctx, svc, user.ID, i, name); err != nil {
				log.Warn().Str("name", name).Err(err).Msg("seed failed")
				return
			}
			log.Info().Str("name", name).Msg("seed ok")
		}()
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}

func seedBusiness(ctx context.Context, svc *app.DirectoryService, userID string, i int, name string) error {
	category := categories[i%len(categories)]
	website := strings.ToLower(strings.ReplaceAll(name, " ", "")) + ".com"

	b, err := svc.CreateBusiness(ctx, name, category,
		fmt.Sprintf("A great %s business in town", strings.ToLower(category)),
		fmt.Sprintf("123 %s St", strings.ToLower(strings.ReplaceAll(name, " ", "-"))),
		fmt.Sprintf("555-%04d", 1000+i),
		&website)
	if err != nil {
		return err
	}

	for rating := 3; rating <= 5; rating++ {
		comment := fmt.Sprintf("Great %s business! %d stars!", strings.ToLower(category), rating)
		if _, err := svc.CreateReview(ctx, b.ID, userID, rating, comment); err != nil {
			return err
		}
	}

	if i%2 == 0 {
		code := fmt.Sprintf("DEAL%d", i)
		start := time.Now().UTC()
		end := start.Add(30 * 24 * time.Hour)
		if _, err := svc.CreateDeal(ctx, b.ID,
			fmt.Sprintf("%s Special Deal", name),
			fmt.Sprintf("Get 20%% off at %s!", name),
			&code,
			start.Format(time.RFC3339), end.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}
