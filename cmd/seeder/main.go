package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/trio-tracker/internal/clock"
	"github.com/mauv0809/trio-tracker/internal/club"
	"github.com/mauv0809/trio-tracker/internal/config"
	"github.com/mauv0809/trio-tracker/internal/database"
)

var demoPlayers = []string{"Ann", "Ben", "Cat", "Dan", "Eve", "Finn"}

func main() {
	snapshotPath := flag.String("snapshot", "", "Restore players and matches from a msgpack snapshot instead of seeding demo data")
	numMatches := flag.Int("matches", 200, "Number of demo matches to generate")
	days := flag.Int("days", 60, "Spread demo matches over this many past days")
	flag.Parse()

	log.Info("Starting database seeder...")
	cfg := config.Load()

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	if *snapshotPath != "" {
		if err := restore(ctx, club.New(db, clock.New(), cfg.Location), *snapshotPath); err != nil {
			log.Fatalf("Failed to restore snapshot: %s", err)
		}
		return
	}

	clk := clock.NewMock(time.Now().AddDate(0, 0, -*days))
	store := club.New(db, clk, cfg.Location)
	if err := seed(ctx, store, clk, *numMatches, *days); err != nil {
		log.Fatalf("Failed to seed demo data: %s", err)
	}
}

func restore(ctx context.Context, store club.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	snapshot, err := club.DecodeSnapshot(f)
	if err != nil {
		return err
	}
	if err := store.Restore(ctx, snapshot); err != nil {
		return err
	}
	log.Info("Snapshot restored", "path", path, "players", len(snapshot.Players), "matches", len(snapshot.Matches))
	return nil
}

// seed adds the demo players and records random two- and three-player
// matches spread over the past days, oldest first.
func seed(ctx context.Context, store club.Store, clk *clock.Mock, numMatches, days int) error {
	startTime := time.Now()

	ids := make([]int64, 0, len(demoPlayers))
	for _, name := range demoPlayers {
		p, err := store.AddPlayer(ctx, name)
		if err != nil {
			return err
		}
		ids = append(ids, p.ID)
	}
	log.Info("Added demo players", "count", len(ids))

	if numMatches <= 0 {
		return nil
	}
	step := time.Duration(days) * 24 * time.Hour / time.Duration(numMatches)
	for i := 0; i < numMatches; i++ {
		clk.Advance(step)

		size := 2 + rand.Intn(2)
		perm := rand.Perm(len(ids))[:size]
		participants := make([]int64, 0, size)
		for _, idx := range perm {
			participants = append(participants, ids[idx])
		}
		winner := participants[rand.Intn(size)]

		if _, err := store.RecordMatch(ctx, winner, participants); err != nil {
			return err
		}
		if (i+1)%50 == 0 {
			log.Info("Recorded matches", "completed", i+1, "total", numMatches)
		}
	}

	log.Info("Successfully seeded demo data", "matches", numMatches, "duration", time.Since(startTime))
	return nil
}
