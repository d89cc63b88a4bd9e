package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/leandrowaltz/provavida/internal/adapter/database"
	"github.com/leandrowaltz/provavida/internal/app/auth"
	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/internal/domain/repository"
	"github.com/leandrowaltz/provavida/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	var (
		configPath  string
		username    string
		password    string
		permissions string
		update      bool
		verbose     bool
	)

	flag.StringVar(&configPath, "config", "./config", "Diretório do config.yaml")
	flag.StringVar(&username, "username", "", "Nome do utilizador")
	flag.StringVar(&password, "password", "", "Senha do utilizador")
	flag.StringVar(&permissions, "permissions", "consulta", "Permissões separadas por vírgula, ou \"all\"")
	flag.BoolVar(&update, "update", false, "Atualiza senha e permissões se o utilizador já existir")
	flag.BoolVar(&verbose, "verbose", false, "Mostrar logs detalhados")
	flag.Parse()

	if username == "" || password == "" {
		fmt.Println("Erro: username e password não podem ser vazios.")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	// Só erros, a menos que -verbose
	zapConfig := zap.NewProductionConfig()
	if !verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
		zapConfig.OutputPaths = []string{"stderr"}
	}
	logger, err := zapConfig.Build()
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, database.ConfigFromSettings(cfg.Database), logger)
	if err != nil {
		fmt.Printf("Erro ao conectar ao banco de dados: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordMode)
	if err != nil {
		fmt.Printf("Erro: %v\n", err)
		os.Exit(1)
	}

	users := database.NewUserRepository(db.DB(), logger)
	admin := auth.BootstrapAdmin{Username: cfg.Auth.AdminUsername, Password: cfg.Auth.AdminPassword}
	service := auth.NewService(users, hasher, admin, logger)
	perms := parsePermissions(permissions)

	user, err := service.CreateUser(ctx, username, password, perms)
	if err == nil {
		fmt.Printf("Utilizador %s criado (id %d)\n", user.Username, user.ID)
		return
	}
	if !errors.Is(err, repository.ErrUserExists) || !update {
		fmt.Printf("Erro ao criar utilizador: %v\n", err)
		os.Exit(1)
	}

	existing, err := users.GetByUsername(ctx, username)
	if err != nil {
		fmt.Printf("Erro ao buscar utilizador: %v\n", err)
		os.Exit(1)
	}
	if err := service.ResetPassword(ctx, existing.ID, password); err != nil {
		fmt.Printf("Erro ao redefinir senha: %v\n", err)
		os.Exit(1)
	}
	if _, err := service.UpdatePermissions(ctx, existing.ID, perms); err != nil {
		fmt.Printf("Erro ao atualizar permissões: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Utilizador %s atualizado (id %d)\n", existing.Username, existing.ID)
}

func parsePermissions(list string) model.Permissions {
	if strings.TrimSpace(list) == "all" {
		return model.AllPermissions()
	}

	perms := model.Permissions{}
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			perms[name] = true
		}
	}
	return perms
}
