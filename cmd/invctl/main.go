package main

import (
	"fmt"
	"log"
	"os"

	"go-retail-pos/internal/events"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"
	"go-retail-pos/pkg/config"
	"go-retail-pos/pkg/database"
	applog "go-retail-pos/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env holds the shared dependencies every subcommand needs.
type env struct {
	logger *zap.Logger
	db     *gorm.DB
}

func setup() (*env, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := applog.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	if err := repository.AutoMigrate(db); err != nil {
		return nil, errors.Wrap(err, "migrate schema")
	}
	return &env{logger: logger, db: db}, nil
}

func main() {
	app := &cli.App{
		Name:  "invctl",
		Usage: "administer the retail POS database",
		Commands: []*cli.Command{
			{
				Name:  "reset-password",
				Usage: "set a user's password and revoke their sessions",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
				},
				Action: resetPassword,
			},
			{
				Name:  "create-user",
				Usage: "create an admin or employee account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
					&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Value: string(model.RoleEmployee)},
				},
				Action: createUser,
			},
			{
				Name:   "reconcile",
				Usage:  "compare every product's on-hand quantity with its ledger",
				Action: reconcile,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func resetPassword(c *cli.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	users := service.NewUserService(repository.NewUserRepo(e.db), e.logger)
	if err := users.SetPassword(c.String("username"), c.String("password")); err != nil {
		return err
	}
	fmt.Printf("Password for %q updated\n", c.String("username"))
	return nil
}

func createUser(c *cli.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	repo := repository.NewUserRepo(e.db)
	users := service.NewUserService(repo, e.logger)
	// The CLI runs with database access, so it acts as a system admin.
	system := model.Identity{Username: "invctl", Role: model.RoleAdmin}
	user, err := users.CreateUser(system, &service.CreateUserRequest{
		Username: c.String("username"),
		Email:    c.String("email"),
		Password: c.String("password"),
		Role:     model.Role(c.String("role")),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created %s %q (%s)\n", user.Role, user.Username, user.ID)
	return nil
}

func reconcile(c *cli.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	ledger := service.NewLedgerService(
		repository.NewProductRepo(e.db),
		repository.NewStockAdditionRepo(e.db),
		repository.NewSaleRepo(e.db),
		repository.NewUserRepo(e.db),
		e.db,
		events.Nop{},
		e.logger,
	)
	positions, err := ledger.ReconcileAll()
	if err != nil {
		return err
	}

	drifted := 0
	fmt.Printf("%-12s %-30s %8s %8s %8s %8s\n", "SKU", "PRODUCT", "ADDED", "SOLD", "LEDGER", "ON HAND")
	for _, p := range positions {
		mark := ""
		if !p.Reconciled() {
			mark = "  MISMATCH"
			drifted++
		}
		fmt.Printf("%-12s %-30s %8d %8d %8d %8d%s\n", p.SKU, p.ProductName, p.TotalAdded, p.TotalSold, p.CurrentBalance, p.OnHand, mark)
	}
	if drifted > 0 {
		return cli.Exit(fmt.Sprintf("%d product(s) out of balance", drifted), 1)
	}
	fmt.Printf("%d product(s) balanced\n", len(positions))
	return nil
}
