package main

import (
	"context"
	"flag"
	"log"

	"ai-context-be/internal/bootstrap"
	"ai-context-be/internal/config"
	"ai-context-be/pkg/database"

	"github.com/google/uuid"
)

// Maintenance sweep entry point. Run on a schedule (cron):
//
//	maintenance                       full sweep: decay, summary refresh, metadata cleanup
//	maintenance -rebuild-index <user> wipe and regenerate one user's search index
func main() {
	rebuildUser := flag.String("rebuild-index", "", "rebuild the search index for the given user id")
	flag.Parse()

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	ctx := context.Background()

	if *rebuildUser != "" {
		userId, err := uuid.Parse(*rebuildUser)
		if err != nil {
			log.Fatalf("Error: invalid user id %q", *rebuildUser)
		}
		if err := container.MaintenanceService.RebuildIndex(ctx, userId); err != nil {
			log.Fatalf("Error: index rebuild failed: %v", err)
		}
		log.Println("Success: search index rebuilt.")
		return
	}

	if err := container.MaintenanceService.Run(ctx); err != nil {
		log.Fatalf("Error: maintenance sweep failed: %v", err)
	}
	log.Println("Success: maintenance sweep completed.")
}
