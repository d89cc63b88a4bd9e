package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/leandrowaltz/provavida/internal/adapter/database"
	"github.com/leandrowaltz/provavida/pkg/config"
	"github.com/leandrowaltz/provavida/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	var (
		action     string
		name       string
		configPath string
		driver     string
		dsn        string
		dialect    string
	)

	flag.StringVar(&action, "action", "migrate", "Ação (migrate, status, create)")
	flag.StringVar(&name, "name", "", "Nome da migração (apenas para action=create)")
	flag.StringVar(&configPath, "config", "./config", "Diretório do config.yaml")
	flag.StringVar(&driver, "driver", "", "Sobrescreve o driver de banco de dados (sqlite, mysql, postgres)")
	flag.StringVar(&dsn, "dsn", "", "Sobrescreve o DSN do banco de dados")
	flag.StringVar(&dialect, "dialect", "", "Restringe o novo script a um driver (apenas para action=create)")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}
	if driver != "" {
		cfg.Database.Driver = driver
	}
	if dsn != "" {
		cfg.Database.DSN = dsn
	}

	// Inicializar logger
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dbConfig := database.ConfigFromSettings(cfg.Database)
	dbConfig.LogLevel = database.ParseLogLevel("info")

	ctx := context.Background()

	switch action {
	case "migrate":
		dbConfig.SkipMigrations = false
		db, err := database.NewDatabase(ctx, dbConfig, logger)
		if err != nil {
			logger.Fatal("Falha ao inicializar banco de dados", zap.Error(err))
		}
		defer db.Close()

		logger.Info("Migrações aplicadas com sucesso", zap.String("driver", dbConfig.Driver))

	case "status":
		dbConfig.SkipMigrations = true
		db, err := database.NewDatabase(ctx, dbConfig, logger)
		if err != nil {
			logger.Fatal("Falha ao inicializar banco de dados", zap.Error(err))
		}
		defer db.Close()

		status, err := db.MigrationStatus(ctx)
		if err != nil {
			logger.Fatal("Falha ao consultar migrações", zap.Error(err))
		}
		for _, s := range status {
			state := "pendente"
			if s.Applied {
				state = "aplicada em " + s.AppliedAt.Format(time.RFC3339)
			}
			if s.Modified {
				state += " (arquivo alterado)"
			}
			fmt.Printf("%d\t%s\t%s\n", s.Version, s.Name, state)
		}

	case "create":
		if name == "" {
			logger.Fatal("Nome da migração é obrigatório para action=create")
		}

		dbConfig.SkipMigrations = true
		db, err := database.NewDatabase(ctx, dbConfig, logger)
		if err != nil {
			logger.Fatal("Falha ao inicializar banco de dados", zap.Error(err))
		}
		defer db.Close()

		path, err := db.CreateMigration(name, dialect)
		if err != nil {
			logger.Fatal("Falha ao criar migração", zap.Error(err))
		}

		logger.Info("Migração criada", zap.String("path", path))

	default:
		logger.Fatal("Ação desconhecida", zap.String("action", action))
	}
}
