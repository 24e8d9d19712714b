// Command seed applies the schema and creates the demo listing and applicant.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/forward-rent/prequal/internal/applicant"
	"github.com/forward-rent/prequal/internal/config"
	"github.com/forward-rent/prequal/internal/infra"
	"github.com/forward-rent/prequal/internal/listing"
	"github.com/forward-rent/prequal/internal/logging"
	"github.com/forward-rent/prequal/internal/routes"
	"github.com/forward-rent/prequal/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.ForService(logging.New(cfg.LogLevel), cfg.AppName+"-seed", cfg.AppEnv)
	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL must be set to seed")
		os.Exit(1)
	}
	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	applied, err := infra.ApplyMigrations(ctx, db, migrations.Files)
	if err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}
	logger.Info("schema ready", "migrations", applied)

	svc, err := routes.NewServices(routes.Deps{Cfg: cfg, DB: db, Logger: logger})
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}

	lst, err := svc.Listings.Create(ctx, demoListing())
	if err != nil {
		logger.Error("seed listing", "error", err)
		os.Exit(1)
	}
	app, err := svc.Applicants.Register(ctx, demoApplicant())
	if err != nil {
		logger.Error("seed applicant", "error", err)
		os.Exit(1)
	}

	logger.Info("seeded demo data", "listing_id", lst.ID, "applicant_id", app.ID)
	fmt.Printf("listing_id=%s\napplicant_id=%s\n", lst.ID, app.ID)
}

func demoListing() listing.CreateInput {
	return listing.CreateInput{
		LandlordName:  "Demo Landlord",
		LandlordEmail: "landlord@example.com",
		Address:       "456 Demo St, San Francisco, CA",
		Policy: listing.Policy{
			BaseRent:           2800,
			MinDeposit:         1400,
			MaxDeposit:         5600,
			MinTermMonths:      3,
			MaxTermMonths:      12,
			AutopayDiscountMax: 50,
		},
	}
}

// demoApplicant matches the bureau sandbox test identity.
func demoApplicant() applicant.RegisterInput {
	return applicant.RegisterInput{
		FirstName:      "Kylia",
		LastName:       "Paolimelli",
		BirthDate:      "1990-01-15",
		IdentityNumber: "666001234",
		Address: applicant.Address{
			Line1:      "123 Test Ave",
			City:       "San Francisco",
			State:      "CA",
			PostalCode: "94102",
		},
	}
}
