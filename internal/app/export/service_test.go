package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"testing"
	"time"

	"github.com/leandrowaltz/provavida/internal/adapter/database"
	"github.com/leandrowaltz/provavida/internal/app/export"
	"github.com/leandrowaltz/provavida/internal/app/statistics"
	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/internal/testutils"
	apperrors "github.com/leandrowaltz/provavida/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC)

type fixture struct {
	service *export.Service
	repo    *database.CadastroRepository
	tempDir string
}

func setup(t *testing.T) *fixture {
	db := testutils.NewTestDatabase(t)
	logger := testutils.TestLogger(t)
	repo := database.NewCadastroRepository(db.DB(), logger)

	location, err := time.LoadLocation("America/Maceio")
	require.NoError(t, err)

	stats := statistics.NewService(repo, location, logger).WithClock(func() time.Time { return fixedNow })
	tempDir := t.TempDir()

	service := export.NewService(repo, stats, export.Options{
		TempDir:  tempDir,
		LogoPath: "",
		City:     "Maceió",
		Location: location,
	}, nil, logger).WithClock(func() time.Time { return fixedNow })

	return &fixture{service: service, repo: repo, tempDir: tempDir}
}

func (f *fixture) add(t *testing.T, c *model.Cadastro) {
	require.NoError(t, f.repo.Create(context.Background(), c))
}

func segurado(cpf, nome string) *model.Cadastro {
	return &model.Cadastro{
		CPF:              cpf,
		Nome:             nome,
		Telefone:         "82999990000",
		Qualidade:        "Aposentado",
		DataAtendimento:  model.NewDate(2025, 3, 1),
		AtendenteCriacao: "ana",
	}
}

func comVisita(c *model.Cadastro, status string) *model.Cadastro {
	c.NecessitaVisitaSocial = true
	c.StatusVisita = model.Ptr(status)
	c.Endereco = model.Ptr("Rua do Sol, 10")
	c.AssuntoVisita = model.Ptr("Acamado")
	c.Processo = model.Ptr("E:01/2025")
	return c
}

func readCSV(t *testing.T, data []byte) [][]string {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func jpegBytes(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func requireEmptyDir(t *testing.T, dir string) {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "arquivos temporários devem ser removidos")
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Março", export.MonthName(3, "pt"))
	assert.Equal(t, "March", export.MonthName(3, "en"))
	assert.Equal(t, "Dezembro", export.MonthName(12, "xx"))
	assert.Equal(t, "", export.MonthName(0, "pt"))
	assert.Equal(t, "", export.MonthName(13, "pt"))
}

func TestLatin1(t *testing.T) {
	assert.Equal(t, "Macei\xf3", export.Latin1("Maceió"))
	assert.Equal(t, "a?b", export.Latin1("a☃b"))
}

func TestDeclarationText(t *testing.T) {
	c := segurado("111.111.111-11", "Maria")
	assert.Contains(t, export.DeclarationText(c), "compareceu nesta Unidade Gestora")

	c.TemCurador = true
	c.CuradorNome = model.Ptr("João")
	c.CuradorCPF = model.Ptr("222.222.222-22")
	text := export.DeclarationText(c)
	assert.Contains(t, text, "por seu(sua) curador(a), João, inscrito(a) no CPF sob o número 222.222.222-22")

	assert.Equal(t, "Maceió, 5 de Março de 2025.", export.DeclarationDate("Maceió", fixedNow))
}

func TestService_AllCSV(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.AllCSV(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNoData)
	assert.Equal(t, "Nenhum cadastro para exportar", apperrors.Message(err))

	criacao := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	modificacao := time.Date(2025, 3, 4, 9, 15, 45, 0, time.UTC)

	zeca := comVisita(segurado("222.222.222-22", "Zeca"), model.StatusVisitaPendente)
	zeca.Matricula = model.Ptr("M-77")
	zeca.Email = model.Ptr("zeca@exemplo.com")
	zeca.IsWhatsapp = true
	zeca.Informacao = model.Ptr("Prova de vida, com \"aspas\"")
	zeca.Obs = model.Ptr("linha 1\nlinha 2")
	zeca.DataCriacao = criacao
	zeca.AtendenteModificacao = model.Ptr("bia")
	zeca.DataModificacao = &modificacao
	zeca.TemProcurador = true
	zeca.ProcuradorNome = model.Ptr("Rita")
	zeca.ProcuradorCPF = model.Ptr("333.333.333-33")
	zeca.TemCurador = true
	zeca.CuradorNome = model.Ptr("Caio")
	zeca.CuradorCPF = model.Ptr("444.444.444-44")
	zeca.FotoSegurado = jpegBytes(t)
	zeca.DocumentoPDF = []byte("%PDF-1.4")
	f.add(t, zeca)

	ana := segurado("111.111.111-11", "Ana")
	ana.DataCriacao = criacao
	f.add(t, ana)

	doc, err := f.service.AllCSV(ctx)
	require.NoError(t, err)
	assert.Equal(t, "export_total_20250305.csv", doc.Filename)
	assert.Equal(t, export.ContentTypeCSV, doc.ContentType)

	records := readCSV(t, doc.Data)
	require.Len(t, records, 3)
	assert.Equal(t, export.ColumnNames(), records[0])
	assert.NotContains(t, records[0], "foto_segurado")
	assert.NotContains(t, records[0], "documento_pdf")

	// ordenado por nome; nulos vazios, booleanos True/False, datas em UTC
	assert.Equal(t, []string{
		"111.111.111-11", "", "Ana", "82999990000", "", "False", "Aposentado", "2025-03-01",
		"", "", "ana", "2025-03-01 12:30:00", "", "",
		"False", "", "", "", "",
		"False", "", "", "False", "", "",
	}, records[1])
	assert.Equal(t, []string{
		"222.222.222-22", "M-77", "Zeca", "82999990000", "zeca@exemplo.com", "True", "Aposentado", "2025-03-01",
		"Prova de vida, com \"aspas\"", "linha 1\nlinha 2", "ana", "2025-03-01 12:30:00", "bia", "2025-03-04 09:15:45",
		"True", model.StatusVisitaPendente, "E:01/2025", "Rua do Sol, 10", "Acamado",
		"True", "Rita", "333.333.333-33", "True", "Caio", "444.444.444-44",
	}, records[2])
}

func TestService_AllXLSX(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.add(t, segurado("111.111.111-11", "Ana"))

	doc, err := f.service.AllXLSX(ctx)
	require.NoError(t, err)
	assert.Equal(t, "export_total_20250305.xlsx", doc.Filename)

	book, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Cadastros")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "cpf", rows[0][0])
	assert.Equal(t, "111.111.111-11", rows[1][0])
}

func TestService_WhatsAppCSV(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.add(t, segurado("111.111.111-11", "Ana"))
	_, err := f.service.WhatsAppCSV(ctx)
	assert.Equal(t, "Nenhum cadastro com WhatsApp para exportar", apperrors.Message(err))

	zeca := segurado("222.222.222-22", "Zeca")
	zeca.IsWhatsapp = true
	f.add(t, zeca)

	doc, err := f.service.WhatsAppCSV(ctx)
	require.NoError(t, err)
	assert.Equal(t, "contatos_whatsapp_20250305.csv", doc.Filename)
	assert.Equal(t, [][]string{{"Nome", "Telefone"}, {"Zeca", "82999990000"}}, readCSV(t, doc.Data))
}

func TestService_Visits(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.add(t, comVisita(segurado("111.111.111-11", "Ana"), model.StatusVisitaPendente))

	t.Run("status inválido", func(t *testing.T) {
		_, err := f.service.Visits(ctx, "todas", "csv")
		assert.Equal(t, 400, apperrors.StatusCode(err))
		assert.Equal(t, "Status inválido", apperrors.Message(err))
	})

	t.Run("formato inválido", func(t *testing.T) {
		_, err := f.service.Visits(ctx, "pendentes", "docx")
		assert.Equal(t, "Formato inválido", apperrors.Message(err))
	})

	t.Run("sem visitas", func(t *testing.T) {
		_, err := f.service.Visits(ctx, "realizadas", "csv")
		assert.ErrorIs(t, err, apperrors.ErrNoData)
		assert.Equal(t, "Nenhuma visita realizadas para exportar", apperrors.Message(err))
	})

	t.Run("csv", func(t *testing.T) {
		doc, err := f.service.Visits(ctx, "pendentes", "csv")
		require.NoError(t, err)
		assert.Equal(t, "visitas_pendentes.csv", doc.Filename)
		assert.Equal(t, [][]string{
			{"CPF", "Nome", "Telefone", "Endereço", "Assunto", "Processo"},
			{"111.111.111-11", "Ana", "82999990000", "Rua do Sol, 10", "Acamado", "E:01/2025"},
		}, readCSV(t, doc.Data))
	})

	t.Run("pdf", func(t *testing.T) {
		doc, err := f.service.Visits(ctx, "pendentes", "PDF")
		require.NoError(t, err)
		assert.Equal(t, "visitas_pendentes.pdf", doc.Filename)
		assert.Equal(t, export.ContentTypePDF, doc.ContentType)
		assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
	})
}

func TestService_Declaration(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Declaration(ctx, "999.999.999-99")
	assert.Equal(t, 404, apperrors.StatusCode(err))
	assert.Equal(t, "Cadastro não encontrado", apperrors.Message(err))

	c := segurado("111.111.111-11", "Ana")
	c.TemProcurador = true
	c.ProcuradorNome = model.Ptr("Pedro")
	c.ProcuradorCPF = model.Ptr("333.333.333-33")
	f.add(t, c)

	doc, err := f.service.Declaration(ctx, "111.111.111-11")
	require.NoError(t, err)
	assert.Equal(t, "declaracao_111.111.111-11.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
}

func TestService_CadastroSheet(t *testing.T) {
	ctx := context.Background()

	t.Run("sem foto", func(t *testing.T) {
		f := setup(t)
		f.add(t, comVisita(segurado("111.111.111-11", "Ana"), model.StatusVisitaRealizada))

		doc, err := f.service.CadastroSheet(ctx, "111.111.111-11")
		require.NoError(t, err)
		assert.Equal(t, "cadastro_111.111.111-11.pdf", doc.Filename)
		assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
	})

	t.Run("com foto", func(t *testing.T) {
		f := setup(t)
		c := segurado("111.111.111-11", "Ana")
		c.FotoSegurado = jpegBytes(t)
		f.add(t, c)

		doc, err := f.service.CadastroSheet(ctx, "111.111.111-11")
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
		requireEmptyDir(t, f.tempDir)
	})

	t.Run("foto ilegível remove o temporário", func(t *testing.T) {
		f := setup(t)
		c := segurado("111.111.111-11", "Ana")
		c.FotoSegurado = []byte("isto não é uma imagem")
		f.add(t, c)

		_, err := f.service.CadastroSheet(ctx, "111.111.111-11")
		assert.Equal(t, 500, apperrors.StatusCode(err))
		requireEmptyDir(t, f.tempDir)
	})

	t.Run("inexistente", func(t *testing.T) {
		f := setup(t)
		_, err := f.service.CadastroSheet(ctx, "999.999.999-99")
		assert.Equal(t, 404, apperrors.StatusCode(err))
	})
}

func sheetField(t *testing.T, sections []export.SheetSection, title, label string) string {
	t.Helper()
	for _, s := range sections {
		if s.Title != title {
			continue
		}
		for _, f := range s.Fields {
			if f.Label == label {
				return f.Value
			}
		}
	}
	t.Fatalf("campo %s %s ausente", title, label)
	return ""
}

func sheetTitles(sections []export.SheetSection) []string {
	titles := make([]string, 0, len(sections))
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	return titles
}

func TestCadastroSheetSections(t *testing.T) {
	t.Run("opcionais vazios como N/A", func(t *testing.T) {
		sections := export.CadastroSheetSections(segurado("111.111.111-11", "Ana"))
		assert.Equal(t, []string{"Dados do Segurado"}, sheetTitles(sections))
		assert.Equal(t, "N/A", sheetField(t, sections, "Dados do Segurado", "Informação:"))
		assert.Equal(t, "N/A", sheetField(t, sections, "Dados do Segurado", "Observação:"))
		assert.Equal(t, "N/A", sheetField(t, sections, "Dados do Segurado", "Email:"))
		assert.Equal(t, "01/03/2025", sheetField(t, sections, "Dados do Segurado", "Data Atendimento:"))
	})

	t.Run("procurador marcado sem nome", func(t *testing.T) {
		c := segurado("111.111.111-11", "Ana")
		c.TemProcurador = true
		c.TemCurador = true
		c.CuradorNome = model.Ptr("João")

		sections := export.CadastroSheetSections(c)
		assert.Equal(t, []string{"Dados do Segurado", "Dados do Procurador"}, sheetTitles(sections))
		assert.Equal(t, "N/A", sheetField(t, sections, "Dados do Procurador", "Nome:"))
		assert.Equal(t, "N/A", sheetField(t, sections, "Dados do Procurador", "CPF:"))
	})

	t.Run("curador e visita", func(t *testing.T) {
		c := comVisita(segurado("111.111.111-11", "Ana"), model.StatusVisitaPendente)
		c.TemCurador = true
		c.CuradorNome = model.Ptr("João")
		c.Informacao = model.Ptr("Recadastramento")

		sections := export.CadastroSheetSections(c)
		assert.Equal(t, []string{"Dados do Segurado", "Dados do Curador", "Dados da Visita Social"}, sheetTitles(sections))
		assert.Equal(t, "João", sheetField(t, sections, "Dados do Curador", "Nome:"))
		assert.Equal(t, "Recadastramento", sheetField(t, sections, "Dados do Segurado", "Informação:"))
		assert.Equal(t, "Rua do Sol, 10", sheetField(t, sections, "Dados da Visita Social", "Endereço:"))
	})
}

func TestService_StatisticsReport(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.add(t, comVisita(segurado("111.111.111-11", "Ana"), model.StatusVisitaPendente))

	doc, err := f.service.StatisticsReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "relatorio_estatisticas.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
}
