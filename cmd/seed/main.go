// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"cuentas/internal/domain/auth"
	"cuentas/internal/domain/catalogs/counterparty"
	"cuentas/internal/domain/catalogs/currency"
	"cuentas/internal/domain/catalogs/payment_method"
	"cuentas/internal/infrastructure/storage/postgres"
	"cuentas/internal/infrastructure/storage/postgres/auth_repo"
	"cuentas/internal/infrastructure/storage/postgres/catalog_repo"
	"cuentas/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	if err := seedAdminUser(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}
	if err := seedCurrencies(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed currencies", "error", err)
	}
	if err := seedPaymentMethods(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed payment methods", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoCounterparties(ctx, txManager, log); err != nil {
			log.Fatalw("failed to seed demo counterparties", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@cuentas.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	repo := auth_repo.NewUserRepo(txManager)

	exists, err := repo.Exists(ctx, adminEmail)
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if exists {
		log.Infow("admin user already exists", "email", adminEmail)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	user := auth.NewUser(adminEmail, string(hash))
	user.FullName = "Administrator"
	user.IsAdmin = true

	if err := repo.Create(ctx, user); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail)
	return nil
}

// seedCurrencies installs the base currency and two common foreign ones.
// USD is the pivot: each stored rate is the number of units of that
// currency equal to one base unit.
func seedCurrencies(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	repo := catalog_repo.NewCurrencyRepo(txManager)

	type seedCurrency struct {
		code       string
		name       string
		isoCode    string
		symbol     string
		places     int
		rateToBase string
		isBase     bool
	}

	seeds := []seedCurrency{
		{"USD", "US Dollar", "USD", "$", 2, "1", true},
		{"VES", "Venezuelan Bolivar", "VES", "Bs.", 2, "36.50", false},
		{"EUR", "Euro", "EUR", "€", 2, "0.92", false},
	}

	for _, s := range seeds {
		exists, err := repo.ExistsByCode(ctx, s.code)
		if err != nil {
			return fmt.Errorf("check currency %s: %w", s.code, err)
		}
		if exists {
			continue
		}

		cur := currency.New(s.code, s.name, s.isoCode)
		cur.Symbol = &s.symbol
		cur.DecimalPlaces = s.places
		cur.RateToBase = decimal.RequireFromString(s.rateToBase)
		cur.IsBase = s.isBase

		if err := repo.Create(ctx, cur); err != nil {
			return fmt.Errorf("create currency %s: %w", s.code, err)
		}
		log.Infow("currency created", "code", s.code, "rate_to_base", s.rateToBase)
	}

	return nil
}

func seedPaymentMethods(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	repo := catalog_repo.NewPaymentMethodRepo(txManager)

	type seedMethod struct {
		code        string
		name        string
		requiresRef bool
	}

	seeds := []seedMethod{
		{"CASH", "Cash", false},
		{"TRANSFER", "Bank Transfer", true},
		{"CARD", "Card", true},
	}

	for _, s := range seeds {
		exists, err := repo.ExistsByCode(ctx, s.code)
		if err != nil {
			return fmt.Errorf("check payment method %s: %w", s.code, err)
		}
		if exists {
			continue
		}

		pm := payment_method.New(s.code, s.name)
		pm.RequiresReference = s.requiresRef

		if err := repo.Create(ctx, pm); err != nil {
			return fmt.Errorf("create payment method %s: %w", s.code, err)
		}
		log.Infow("payment method created", "code", s.code)
	}

	return nil
}

// seedDemoCounterparties loads the demo counterparties in one COPY
// instead of row-by-row inserts.
func seedDemoCounterparties(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	repo := catalog_repo.NewCounterpartyRepo(txManager)

	type seedParty struct {
		code  string
		name  string
		role  counterparty.Role
		taxID string
	}

	seeds := []seedParty{
		{"CLI-00001", "Distribuidora Andina C.A.", counterparty.RoleClient, "J-30123456-7"},
		{"CLI-00002", "Comercial El Puerto", counterparty.RoleClient, "J-40987654-3"},
		{"CLI-00003", "Inversiones Caribe 2000", counterparty.RoleClient, "J-31222333-1"},
		{"SUP-00001", "Importadora Global S.A.", counterparty.RoleSupplier, "J-29555111-0"},
		{"SUP-00002", "Suministros Orinoco C.A.", counterparty.RoleSupplier, "J-50412876-9"},
	}

	columns := postgres.ExtractDBColumns[counterparty.Counterparty]()
	var rows [][]any

	for _, s := range seeds {
		exists, err := repo.ExistsByCode(ctx, s.code)
		if err != nil {
			return fmt.Errorf("check counterparty %s: %w", s.code, err)
		}
		if exists {
			continue
		}

		cp := counterparty.New(s.code, s.name, s.role)
		taxID := s.taxID
		cp.TaxID = &taxID

		values := postgres.StructToMap(cp)
		row := make([]any, len(columns))
		for i, col := range columns {
			row[i] = values[col]
		}
		rows = append(rows, row)
		log.Infow("counterparty staged", "code", s.code, "role", s.role)
	}

	if len(rows) == 0 {
		return nil
	}

	inserter := postgres.NewBatchInserter(txManager)
	err := txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := inserter.CopyFromSlice(ctx, "cat_counterparties", columns, rows)
		if err != nil {
			return fmt.Errorf("copy counterparties: %w", err)
		}
		log.Infow("counterparties copied", "count", n)
		return nil
	})
	if err != nil {
		return err
	}

	log.Infow("demo data seeded", "at", time.Now().UTC().Format(time.RFC3339))
	return nil
}
