package export

import (
	"context"
	"strings"
	"time"

	"github.com/leandrowaltz/provavida/internal/app/cadastro"
	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/internal/domain/repository"
	"github.com/leandrowaltz/provavida/internal/infra/metrics"
	apperrors "github.com/leandrowaltz/provavida/pkg/errors"
	"github.com/leandrowaltz/provavida/pkg/logging"
	"go.uber.org/zap"
)

// Formatos aceitos na exportação de visitas
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// StatisticsSource fornece o resumo usado no relatório de estatísticas
type StatisticsSource interface {
	Compute(ctx context.Context) (*model.Statistics, error)
}

// Options contém as configurações dos arquivos gerados
type Options struct {
	// TempDir recebe as fotos gravadas durante a geração da ficha. Vazio usa o padrão do sistema.
	TempDir  string
	LogoPath string
	City     string
	Location *time.Location
}

// Service gera as exportações e os documentos impressos
type Service struct {
	repo    repository.CadastroRepository
	stats   StatisticsSource
	opts    Options
	metrics *metrics.APIMetrics
	logger  *logging.ContextLogger
	now     func() time.Time
}

// NewService cria o serviço de exportação
func NewService(repo repository.CadastroRepository, stats StatisticsSource, opts Options, m *metrics.APIMetrics, logger *zap.Logger) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		repo:    repo,
		stats:   stats,
		opts:    opts,
		metrics: m,
		logger:  logging.NewContextLogger(logger.With(zap.String("service", "export"))),
		now:     time.Now,
	}
}

// WithClock substitui o relógio usado nas datas dos arquivos
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) today() time.Time {
	return s.now().In(s.opts.Location)
}

// AllCSV exporta todos os cadastros em CSV
func (s *Service) AllCSV(ctx context.Context) (*Document, error) {
	cadastros, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(cadastros) == 0 {
		return nil, apperrors.NoData("Nenhum cadastro para exportar")
	}

	rows := make([][]string, len(cadastros))
	for i, c := range cadastros {
		rows[i] = cadastroRow(c)
	}

	data, err := encodeCSV(ColumnNames(), rows)
	if err != nil {
		return nil, apperrors.InternalServer("", err)
	}

	s.generated(ctx, "all", FormatCSV, len(cadastros))
	return csvDocument("export_total_"+stamp(s.today())+".csv", data), nil
}

// AllXLSX exporta todos os cadastros em planilha
func (s *Service) AllXLSX(ctx context.Context) (*Document, error) {
	cadastros, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(cadastros) == 0 {
		return nil, apperrors.NoData("Nenhum cadastro para exportar")
	}

	data, err := encodeXLSX(cadastros)
	if err != nil {
		return nil, apperrors.InternalServer("", err)
	}

	s.generated(ctx, "all", "xlsx", len(cadastros))
	return &Document{
		Filename:    "export_total_" + stamp(s.today()) + ".xlsx",
		ContentType: ContentTypeXLSX,
		Data:        data,
	}, nil
}

// WhatsAppCSV exporta nome e telefone dos cadastros com WhatsApp
func (s *Service) WhatsAppCSV(ctx context.Context) (*Document, error) {
	cadastros, err := s.repo.ListWhatsApp(ctx)
	if err != nil {
		return nil, err
	}
	if len(cadastros) == 0 {
		return nil, apperrors.NoData("Nenhum cadastro com WhatsApp para exportar")
	}

	rows := make([][]string, len(cadastros))
	for i, c := range cadastros {
		rows[i] = []string{c.Nome, c.Telefone}
	}

	data, err := encodeCSV([]string{"Nome", "Telefone"}, rows)
	if err != nil {
		return nil, apperrors.InternalServer("", err)
	}

	s.generated(ctx, "whatsapp", FormatCSV, len(cadastros))
	return csvDocument("contatos_whatsapp_"+stamp(s.today())+".csv", data), nil
}

// Visits exporta as visitas com o status do segmento (pendentes, realizadas)
// em CSV ou PDF
func (s *Service) Visits(ctx context.Context, slug, format string) (*Document, error) {
	status, err := cadastro.VisitStatus(slug)
	if err != nil {
		return nil, err
	}

	format = strings.ToLower(format)
	if format != FormatCSV && format != FormatPDF {
		return nil, apperrors.Validation("Formato inválido", nil)
	}

	cadastros, err := s.repo.ListByVisitStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	if len(cadastros) == 0 {
		return nil, apperrors.NoData("Nenhuma visita " + slug + " para exportar")
	}

	if format == FormatPDF {
		data, err := renderVisitas(cadastros, slug, s.opts.LogoPath)
		if err != nil {
			return nil, apperrors.InternalServer("", err)
		}
		s.generated(ctx, "visitas", FormatPDF, len(cadastros))
		return pdfDocument("visitas_"+slug+".pdf", data), nil
	}

	rows := make([][]string, len(cadastros))
	for i, c := range cadastros {
		rows[i] = []string{
			c.CPF,
			c.Nome,
			c.Telefone,
			model.Deref(c.Endereco),
			model.Deref(c.AssuntoVisita),
			model.Deref(c.Processo),
		}
	}

	data, err := encodeCSV([]string{"CPF", "Nome", "Telefone", "Endereço", "Assunto", "Processo"}, rows)
	if err != nil {
		return nil, apperrors.InternalServer("", err)
	}

	s.generated(ctx, "visitas", FormatCSV, len(cadastros))
	return csvDocument("visitas_"+slug+".csv", data), nil
}

// Declaration gera a declaração de comparecimento do segurado
func (s *Service) Declaration(ctx context.Context, cpf string) (*Document, error) {
	c, err := s.repo.Get(ctx, cpf)
	if err != nil {
		return nil, err
	}

	data, err := renderDeclaracao(c, s.opts.LogoPath, s.opts.City, s.today())
	if err != nil {
		return nil, apperrors.InternalServer("", err)
	}

	s.generated(ctx, "declaracao", FormatPDF, 1)
	return pdfDocument("declaracao_"+c.CPF+".pdf", data), nil
}

// CadastroSheet gera a ficha de cadastro com a foto do segurado, quando houver.
// A foto passa por um arquivo temporário removido ao final da geração.
func (s *Service) CadastroSheet(ctx context.Context, cpf string) (*Document, error) {
	c, err := s.repo.GetWithPhoto(ctx, cpf)
	if err != nil {
		return nil, err
	}

	var data []byte
	if len(c.FotoSegurado) == 0 {
		data, err = renderCadastro(c, s.opts.LogoPath, "", "")
	} else {
		err = withTempFile(s.opts.TempDir, "foto-*", c.FotoSegurado, func(path string) error {
			var renderErr error
			data, renderErr = renderCadastro(c, s.opts.LogoPath, path, photoImageType(c.FotoSegurado))
			return renderErr
		})
	}
	if err != nil {
		s.logger.ErrorCtx(ctx, "Falha ao gerar ficha de cadastro", logging.CPF(c.CPF), zap.Error(err))
		return nil, apperrors.InternalServer("", err)
	}

	s.generated(ctx, "cadastro", FormatPDF, 1)
	return pdfDocument("cadastro_"+c.CPF+".pdf", data), nil
}

// StatisticsReport gera o relatório de estatísticas em PDF
func (s *Service) StatisticsReport(ctx context.Context) (*Document, error) {
	stats, err := s.stats.Compute(ctx)
	if err != nil {
		return nil, err
	}

	data, err := renderStatistics(stats, s.opts.LogoPath)
	if err != nil {
		return nil, apperrors.InternalServer("", err)
	}

	s.generated(ctx, "estatisticas", FormatPDF, 1)
	return pdfDocument("relatorio_estatisticas.pdf", data), nil
}

func (s *Service) generated(ctx context.Context, kind, format string, rows int) {
	s.metrics.ExportGenerated(kind, format)
	s.logger.InfoCtx(ctx, "Exportação gerada",
		zap.String("kind", kind),
		zap.String("format", format),
		zap.Int("rows", rows),
	)
}
