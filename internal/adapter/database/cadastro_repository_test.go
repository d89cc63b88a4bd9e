package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leandrowaltz/provavida/internal/adapter/database"
	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/internal/domain/repository"
	"github.com/leandrowaltz/provavida/internal/testutils"
	apperrors "github.com/leandrowaltz/provavida/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novoCadastro(cpf, nome string, dia model.Date) *model.Cadastro {
	return &model.Cadastro{
		CPF:              cpf,
		Nome:             nome,
		Telefone:         "82999990000",
		Qualidade:        "Aposentado",
		DataAtendimento:  dia,
		AtendenteCriacao: "ana",
	}
}

func setupCadastroRepository(t *testing.T) (*database.CadastroRepository, *database.AuditRepository) {
	db := testutils.NewTestDatabase(t)
	logger := testutils.TestLogger(t)
	return database.NewCadastroRepository(db.DB(), logger), database.NewAuditRepository(db.DB(), logger)
}

func TestCadastroRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupCadastroRepository(t)
	ctx := context.Background()

	cadastro := novoCadastro("111.111.111-11", "Maria", model.NewDate(2025, 3, 1))
	cadastro.DocumentoPDF = []byte("%PDF-1.4")
	cadastro.NomeDocumento = model.Ptr("rg.pdf")
	require.NoError(t, repo.Create(ctx, cadastro))

	got, err := repo.Get(ctx, "111.111.111-11")
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Nome)
	assert.Equal(t, "2025-03-01", got.DataAtendimento.String())
	assert.True(t, got.HasDocument)
	assert.False(t, got.HasPhoto)
	assert.Empty(t, got.DocumentoPDF, "binários não devem ser carregados")

	exists, err := repo.Exists(ctx, "111.111.111-11")
	require.NoError(t, err)
	assert.True(t, exists)

	name, content, err := repo.GetDocument(ctx, "111.111.111-11")
	require.NoError(t, err)
	assert.Equal(t, "rg.pdf", name)
	assert.Equal(t, []byte("%PDF-1.4"), content)
}

func TestCadastroRepository_CreateDuplicate(t *testing.T) {
	repo, _ := setupCadastroRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, novoCadastro("111.111.111-11", "Maria", model.NewDate(2025, 3, 1))))

	err := repo.Create(ctx, novoCadastro("111.111.111-11", "Outra", model.NewDate(2025, 3, 2)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.True(t, errors.Is(err, repository.ErrCadastroExists))
}

func TestCadastroRepository_GetNotFound(t *testing.T) {
	repo, _ := setupCadastroRepository(t)

	_, err := repo.Get(context.Background(), "000.000.000-00")
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrCadastroNotFound))
	assert.Equal(t, 404, apperrors.StatusCode(err))
	assert.Equal(t, "Cadastro não encontrado", apperrors.Message(err))
}

func TestCadastroRepository_ListFilterAndOrder(t *testing.T) {
	repo, _ := setupCadastroRepository(t)
	ctx := context.Background()
	dia := model.NewDate(2025, 3, 1)

	require.NoError(t, repo.Create(ctx, novoCadastro("222.222.222-22", "Zélia", dia)))
	require.NoError(t, repo.Create(ctx, novoCadastro("111.111.111-11", "Bruno", dia)))
	require.NoError(t, repo.Create(ctx, novoCadastro("123.456.789-00", "Amanda", dia)))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Amanda", all[0].Nome)
	assert.Equal(t, "Bruno", all[1].Nome)
	assert.Equal(t, "Zélia", all[2].Nome)

	filtered, err := repo.List(ctx, "111")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "111.111.111-11", filtered[0].CPF)
}

func TestCadastroRepository_VisitsAndWhatsApp(t *testing.T) {
	repo, _ := setupCadastroRepository(t)
	ctx := context.Background()
	dia := model.NewDate(2025, 3, 1)

	pendente := novoCadastro("111.111.111-11", "Ana", dia)
	pendente.NecessitaVisitaSocial = true
	pendente.StatusVisita = model.Ptr(model.StatusVisitaPendente)
	pendente.IsWhatsapp = true

	semVisita := novoCadastro("222.222.222-22", "Beto", dia)
	semVisita.StatusVisita = model.Ptr(model.StatusVisitaPendente)

	require.NoError(t, repo.Create(ctx, pendente))
	require.NoError(t, repo.Create(ctx, semVisita))

	visitas, err := repo.ListByVisitStatus(ctx, model.StatusVisitaPendente)
	require.NoError(t, err)
	require.Len(t, visitas, 1)
	assert.Equal(t, "Ana", visitas[0].Nome)

	require.NoError(t, repo.SetVisitStatus(ctx, "111.111.111-11", model.StatusVisitaRealizada))

	visitas, err = repo.ListByVisitStatus(ctx, model.StatusVisitaPendente)
	require.NoError(t, err)
	assert.Empty(t, visitas)

	realizadas, err := repo.ListByVisitStatus(ctx, model.StatusVisitaRealizada)
	require.NoError(t, err)
	assert.Len(t, realizadas, 1)

	contatos, err := repo.ListWhatsApp(ctx)
	require.NoError(t, err)
	require.Len(t, contatos, 1)
	assert.Equal(t, "Ana", contatos[0].Nome)
}

func TestCadastroRepository_Photo(t *testing.T) {
	repo, _ := setupCadastroRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, novoCadastro("111.111.111-11", "Ana", model.NewDate(2025, 3, 1))))
	require.NoError(t, repo.UpdatePhoto(ctx, "111.111.111-11", []byte{0xff, 0xd8, 0xff}))

	photo, err := repo.GetPhoto(ctx, "111.111.111-11")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, photo)

	withPhoto, err := repo.GetWithPhoto(ctx, "111.111.111-11")
	require.NoError(t, err)
	assert.True(t, withPhoto.HasPhoto)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, withPhoto.FotoSegurado)
}

func TestCadastroRepository_ApplyEdit(t *testing.T) {
	repo, audit := setupCadastroRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, novoCadastro("111.111.111-11", "Ana", model.NewDate(2025, 3, 1))))

	t.Run("grava alterações e auditoria", func(t *testing.T) {
		updated, entries, err := repo.ApplyEdit(ctx, "111.111.111-11", "carlos", func(current *model.Cadastro) ([]model.FieldChange, error) {
			assert.Equal(t, "Ana", current.Nome)
			return []model.FieldChange{
				{Field: "nome", OldValue: "Ana", NewValue: "Ana Maria", Value: "Ana Maria"},
				{Field: "email", OldValue: "", NewValue: "ana@exemplo.com", Value: model.Ptr("ana@exemplo.com")},
			}, nil
		})
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, "Ana Maria", updated.Nome)
		assert.Equal(t, "ana@exemplo.com", model.Deref(updated.Email))
		assert.Equal(t, "carlos", model.Deref(updated.AtendenteModificacao))
		require.NotNil(t, updated.DataModificacao)

		logs, err := audit.List(ctx, "111")
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "email", logs[0].CampoAlterado)
		assert.Equal(t, "nome", logs[1].CampoAlterado)
		assert.Equal(t, "carlos", logs[1].Atendente)
		assert.Equal(t, "Ana", model.Deref(logs[1].ValorAntigo))
	})

	t.Run("sem alterações ainda registra o atendente", func(t *testing.T) {
		updated, entries, err := repo.ApplyEdit(ctx, "111.111.111-11", "diana", func(*model.Cadastro) ([]model.FieldChange, error) {
			return nil, nil
		})
		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.Equal(t, "diana", model.Deref(updated.AtendenteModificacao))
	})

	t.Run("erro do planejamento não altera nada", func(t *testing.T) {
		_, _, err := repo.ApplyEdit(ctx, "111.111.111-11", "eva", func(*model.Cadastro) ([]model.FieldChange, error) {
			return nil, apperrors.Validation("data inválida", nil)
		})
		require.Error(t, err)
		assert.Equal(t, 400, apperrors.StatusCode(err))

		got, err := repo.Get(ctx, "111.111.111-11")
		require.NoError(t, err)
		assert.Equal(t, "diana", model.Deref(got.AtendenteModificacao))

		logs, err := audit.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, logs, 2)
	})

	t.Run("cadastro inexistente", func(t *testing.T) {
		_, _, err := repo.ApplyEdit(ctx, "999.999.999-99", "eva", func(*model.Cadastro) ([]model.FieldChange, error) {
			t.Fatal("planejamento não deve ser chamado")
			return nil, nil
		})
		assert.True(t, errors.Is(err, repository.ErrCadastroNotFound))
	})
}

func TestCadastroRepository_Snapshot(t *testing.T) {
	repo, _ := setupCadastroRepository(t)
	ctx := context.Background()

	hoje := model.NewDate(2025, 3, 10)

	a := novoCadastro("111.111.111-11", "Ana", hoje)
	a.IsWhatsapp = true
	a.Email = model.Ptr("ana@exemplo.com")
	a.NecessitaVisitaSocial = true
	a.StatusVisita = model.Ptr(model.StatusVisitaPendente)

	b := novoCadastro("222.222.222-22", "Beto", hoje.AddDays(-2))
	b.Qualidade = "Pensionista"
	b.Email = model.Ptr("")
	b.NecessitaVisitaSocial = true
	b.StatusVisita = model.Ptr(model.StatusVisitaRealizada)

	c := novoCadastro("333.333.333-33", "Caio", hoje.AddDays(-30))

	for _, cadastro := range []*model.Cadastro{a, b, c} {
		require.NoError(t, repo.Create(ctx, cadastro))
	}

	snapshot, err := repo.Snapshot(ctx, hoje.AddDays(-6), hoje)
	require.NoError(t, err)

	assert.Equal(t, int64(3), snapshot.Total)
	assert.Equal(t, int64(1), snapshot.VisitasPendentes)
	assert.Equal(t, int64(1), snapshot.VisitasRealizadas)
	assert.Equal(t, int64(1), snapshot.ComWhatsApp)
	assert.Equal(t, int64(1), snapshot.ComEmail)
	assert.Equal(t, int64(2), snapshot.PorQualidade["Aposentado"])
	assert.Equal(t, int64(1), snapshot.PorQualidade["Pensionista"])
	assert.Equal(t, map[string]int64{"2025-03-10": 1, "2025-03-08": 1}, snapshot.PorDia)
}

func TestCadastroRepository_ContextCancelled(t *testing.T) {
	repo, _ := setupCadastroRepository(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := repo.List(ctx, "")
	assert.Error(t, err)
}
