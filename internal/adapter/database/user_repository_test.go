package database_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leandrowaltz/provavida/internal/adapter/database"
	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/internal/domain/repository"
	"github.com/leandrowaltz/provavida/internal/testutils"
	apperrors "github.com/leandrowaltz/provavida/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := testutils.NewTestDatabase(t)
	repo := database.NewUserRepository(db.DB(), testutils.TestLogger(t))
	ctx := context.Background()

	user := &model.UserEntity{
		Username:    "joana",
		Password:    "segredo",
		Permissions: model.Permissions{model.PermissionCadastro: true},
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	t.Run("nome duplicado", func(t *testing.T) {
		err := repo.Create(ctx, &model.UserEntity{Username: "joana", Password: "x"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, repository.ErrUserExists))
		assert.Equal(t, 409, apperrors.StatusCode(err))
		assert.Equal(t, "Utilizador já existe", apperrors.Message(err))
	})

	t.Run("busca por nome", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "joana")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.True(t, got.Permissions[model.PermissionCadastro])
	})

	t.Run("atualiza senha e permissões", func(t *testing.T) {
		require.NoError(t, repo.UpdatePassword(ctx, user.ID, "nova"))
		require.NoError(t, repo.UpdatePermissions(ctx, user.ID, model.Permissions{model.PermissionAudit: true}))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "nova", got.Password)
		assert.Equal(t, model.Permissions{model.PermissionAudit: true}, got.Permissions)
	})

	t.Run("lista e remove", func(t *testing.T) {
		users, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)

		require.NoError(t, repo.Delete(ctx, user.ID))

		_, err = repo.GetByID(ctx, user.ID)
		assert.True(t, errors.Is(err, repository.ErrUserNotFound))

		err = repo.Delete(ctx, user.ID)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})
}

func TestMigrationManager(t *testing.T) {
	db := testutils.NewTestDatabase(t)
	dir := t.TempDir()
	ctx := context.Background()

	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	write("20250101000000_teste.sql", `-- índice de teste
CREATE INDEX IF NOT EXISTS idx_teste_nome ON cadastros (nome);
`)
	write("20250102000000_observacao.sqlite.sql", `/* ponto e vírgula dentro de literal */
UPDATE cadastros SET obs = 'a;b' WHERE cpf = '000.000.000-00';
CREATE INDEX IF NOT EXISTS idx_teste_obs ON cadastros (obs);`)
	write("20250103000000_so_postgres.postgres.sql", "CREATE EXTENSION unaccent;")
	write("leiame.txt", "ignorado")

	manager := database.NewMigrationManager(db.DB(), testutils.TestLogger(t), dir)
	require.NoError(t, manager.ApplyMigrations(ctx))
	// Segunda execução não reaplica
	require.NoError(t, manager.ApplyMigrations(ctx))

	var count int64
	require.NoError(t, db.DB().Model(&database.Migration{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	t.Run("status e checksum", func(t *testing.T) {
		status, err := manager.Status(ctx)
		require.NoError(t, err)
		require.Len(t, status, 2)
		assert.Equal(t, "teste", status[0].Name)
		assert.Equal(t, "sqlite", status[1].Dialect)
		for _, s := range status {
			assert.True(t, s.Applied)
			assert.False(t, s.Modified)
			assert.Len(t, s.Checksum, 64)
		}

		write("20250101000000_teste.sql", "CREATE INDEX IF NOT EXISTS idx_outro ON cadastros (telefone);")
		status, err = manager.Status(ctx)
		require.NoError(t, err)
		assert.True(t, status[0].Modified)
	})

	t.Run("script com erro não é registrado", func(t *testing.T) {
		write("20250104000000_quebrada.sql", "CREATE TABLE ok_parcial (id INTEGER);\nSELEC quebrado;")
		err := manager.ApplyMigrations(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "20250104000000_quebrada")

		var n int64
		require.NoError(t, db.DB().Model(&database.Migration{}).Where("version = ?", 20250104000000).Count(&n).Error)
		assert.Zero(t, n)
		require.NoError(t, os.Remove(filepath.Join(dir, "20250104000000_quebrada.sql")))
	})

	t.Run("versão repetida", func(t *testing.T) {
		other := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(other, "1_a.sql"), []byte("SELECT 1;"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(other, "1_b.sql"), []byte("SELECT 1;"), 0o600))
		dup := database.NewMigrationManager(db.DB(), testutils.TestLogger(t), other)
		assert.Error(t, dup.ApplyMigrations(ctx))
	})

	t.Run("diretório inexistente", func(t *testing.T) {
		missing := database.NewMigrationManager(db.DB(), testutils.TestLogger(t), filepath.Join(dir, "nao-existe"))
		assert.NoError(t, missing.ApplyMigrations(ctx))
	})

	t.Run("cria arquivo de migração", func(t *testing.T) {
		path, err := manager.CreateMigration("Nova Tabela!", "")
		require.NoError(t, err)
		assert.FileExists(t, path)
		assert.Equal(t, dir, filepath.Dir(path))
		assert.True(t, strings.HasSuffix(path, "_nova_tabela.sql"))

		path, err = manager.CreateMigration("índice", "mysql")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, ".mysql.sql"))

		_, err = manager.CreateMigration("x", "oracle")
		assert.Error(t, err)
		_, err = manager.CreateMigration("!!!", "")
		assert.Error(t, err)
	})
}

func TestDatabase_StatsAndDialect(t *testing.T) {
	db := testutils.NewTestDatabase(t)
	assert.Equal(t, "sqlite", db.Dialect())
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)

	status, err := db.MigrationStatus(context.Background())
	require.NoError(t, err)
	assert.Empty(t, status)
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := database.NewDatabase(context.Background(), database.Config{Driver: "oracle"}, testutils.TestLogger(t))
	assert.Error(t, err)
}
