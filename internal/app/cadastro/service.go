package cadastro

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/internal/domain/repository"
	"github.com/leandrowaltz/provavida/internal/infra/metrics"
	apperrors "github.com/leandrowaltz/provavida/pkg/errors"
	"github.com/leandrowaltz/provavida/pkg/logging"
	"go.uber.org/zap"
)

var cpfPattern = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)

// Segmentos de URL aceitos para o status da visita
const (
	VisitasPendentes  = "pendentes"
	VisitasRealizadas = "realizadas"
)

// Attachment é o documento enviado junto com o cadastro
type Attachment struct {
	Filename string
	Content  []byte
}

// CreateInput contém os campos do formulário de cadastro, ainda em texto
type CreateInput struct {
	CPF             string
	Nome            string
	Telefone        string
	Email           string
	Matricula       string
	IsWhatsapp      string
	Qualidade       string
	DataAtendimento string
	Informacao      string
	Obs             string
	Atendente       string

	// Tokens de checkbox ("on")
	NecessitaVisitaSocial string
	TemProcurador         string
	TemCurador            string

	Processo       string
	Endereco       string
	AssuntoVisita  string
	ProcuradorNome string
	ProcuradorCPF  string
	CuradorNome    string
	CuradorCPF     string

	FotoBase64 string
	Documento  *Attachment
}

// Service implementa as operações sobre cadastros
type Service struct {
	repo    repository.CadastroRepository
	logger  *logging.ContextLogger
	metrics *metrics.APIMetrics
}

// NewService cria um novo serviço de cadastros
func NewService(repo repository.CadastroRepository, logger *zap.Logger, m *metrics.APIMetrics) *Service {
	return &Service{
		repo:    repo,
		logger:  logging.NewContextLogger(logger.With(zap.String("service", "cadastro"))),
		metrics: m,
	}
}

// VisitStatus traduz o segmento da URL (pendentes, realizadas) para o status gravado
func VisitStatus(slug string) (string, error) {
	switch slug {
	case VisitasPendentes:
		return model.StatusVisitaPendente, nil
	case VisitasRealizadas:
		return model.StatusVisitaRealizada, nil
	default:
		return "", apperrors.Validation("Status inválido", nil)
	}
}

// Create valida o formulário e grava um novo cadastro
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Cadastro, error) {
	if missing := missingFields(in); len(missing) > 0 {
		return nil, apperrors.Validation("Campos obrigatórios ausentes: "+strings.Join(missing, ", "), nil).
			WithDetails(map[string]interface{}{"campos": missing})
	}

	cpf := strings.TrimSpace(in.CPF)
	if !cpfPattern.MatchString(cpf) {
		return nil, apperrors.Validation("CPF inválido, use o formato 000.000.000-00", nil)
	}

	dataAtendimento, err := model.ParseDate(in.DataAtendimento)
	if err != nil {
		return nil, apperrors.Validation("Data de atendimento inválida, use o formato AAAA-MM-DD", err)
	}

	exists, err := s.repo.Exists(ctx, cpf)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("CPF já cadastrado", repository.ErrCadastroExists)
	}

	cadastro := &model.Cadastro{
		CPF:                   cpf,
		Nome:                  in.Nome,
		Telefone:              in.Telefone,
		Email:                 optionalValue(in.Email),
		Matricula:             optionalValue(in.Matricula),
		IsWhatsapp:            model.ParseSimNao(in.IsWhatsapp),
		Qualidade:             in.Qualidade,
		DataAtendimento:       dataAtendimento,
		Informacao:            optionalValue(in.Informacao),
		Obs:                   optionalValue(in.Obs),
		AtendenteCriacao:      in.Atendente,
		NecessitaVisitaSocial: model.ParseCheckbox(in.NecessitaVisitaSocial),
		TemProcurador:         model.ParseCheckbox(in.TemProcurador),
		ProcuradorNome:        optionalValue(in.ProcuradorNome),
		ProcuradorCPF:         optionalValue(in.ProcuradorCPF),
		TemCurador:            model.ParseCheckbox(in.TemCurador),
		CuradorNome:           optionalValue(in.CuradorNome),
		CuradorCPF:            optionalValue(in.CuradorCPF),
	}

	if in.FotoBase64 != "" {
		photo, err := DecodePhoto(in.FotoBase64)
		if err != nil {
			s.logger.WarnCtx(ctx, "Erro ao decodificar imagem", logging.CPF(cpf), zap.Error(err))
			return nil, apperrors.Validation("Formato de imagem inválido. Não foi possível processar a foto.", err)
		}
		cadastro.FotoSegurado = photo
	}

	if cadastro.NecessitaVisitaSocial {
		cadastro.StatusVisita = model.Ptr(model.StatusVisitaPendente)
		cadastro.Processo = optionalValue(in.Processo)
		cadastro.Endereco = optionalValue(in.Endereco)
		cadastro.AssuntoVisita = optionalValue(in.AssuntoVisita)
	}

	if in.Documento != nil && in.Documento.Filename != "" {
		cadastro.NomeDocumento = model.Ptr(in.Documento.Filename)
		cadastro.DocumentoPDF = in.Documento.Content
	}

	if err := s.repo.Create(ctx, cadastro); err != nil {
		return nil, err
	}

	s.metrics.CadastroCreated()
	s.logger.InfoCtx(ctx, "Cadastro criado",
		logging.CPF(cpf),
		zap.String("atendente", in.Atendente),
		zap.Bool("visita_social", cadastro.NecessitaVisitaSocial))

	// A resposta não carrega os binários
	cadastro.HasDocument = len(cadastro.DocumentoPDF) > 0
	cadastro.HasPhoto = len(cadastro.FotoSegurado) > 0
	cadastro.DocumentoPDF = nil
	cadastro.FotoSegurado = nil

	return cadastro, nil
}

// List retorna os cadastros ordenados por nome
func (s *Service) List(ctx context.Context, cpfFilter string) ([]*model.Cadastro, error) {
	return s.repo.List(ctx, strings.TrimSpace(cpfFilter))
}

// Get obtém um cadastro sem os binários
func (s *Service) Get(ctx context.Context, cpf string) (*model.Cadastro, error) {
	return s.repo.Get(ctx, cpf)
}

// UpdatePhoto substitui a foto a partir de uma imagem em base64
func (s *Service) UpdatePhoto(ctx context.Context, cpf, fotoBase64 string) error {
	if _, err := s.repo.Get(ctx, cpf); err != nil {
		return err
	}

	if fotoBase64 == "" {
		return apperrors.Validation("Dados da foto (base64) não fornecidos", nil)
	}

	photo, err := DecodePhoto(fotoBase64)
	if err != nil {
		s.logger.WarnCtx(ctx, "Erro ao decodificar imagem", logging.CPF(cpf), zap.Error(err))
		return apperrors.Validation("Formato de imagem inválido.", err)
	}

	if err := s.repo.UpdatePhoto(ctx, cpf, photo); err != nil {
		return err
	}

	s.logger.InfoCtx(ctx, "Foto atualizada", logging.CPF(cpf), zap.Int("bytes", len(photo)))
	return nil
}

// Document devolve o documento anexado e o nome do arquivo
func (s *Service) Document(ctx context.Context, cpf string) (string, []byte, error) {
	name, content, err := s.repo.GetDocument(ctx, cpf)
	if err != nil && !errors.Is(err, repository.ErrCadastroNotFound) {
		return "", nil, err
	}
	if err != nil || len(content) == 0 {
		return "", nil, apperrors.NotFound("Documento não encontrado", repository.ErrCadastroNotFound)
	}
	if name == "" {
		name = "documento.pdf"
	}
	return name, content, nil
}

// Photo devolve a foto do segurado
func (s *Service) Photo(ctx context.Context, cpf string) ([]byte, error) {
	photo, err := s.repo.GetPhoto(ctx, cpf)
	if err != nil && !errors.Is(err, repository.ErrCadastroNotFound) {
		return nil, err
	}
	if err != nil || len(photo) == 0 {
		return nil, apperrors.NotFound("Foto não encontrada", repository.ErrCadastroNotFound)
	}
	return photo, nil
}

// Visits lista os cadastros pelo status da visita (pendentes, realizadas)
func (s *Service) Visits(ctx context.Context, slug string) ([]*model.Cadastro, error) {
	status, err := VisitStatus(slug)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByVisitStatus(ctx, status)
}

// CompleteVisit marca a visita social como realizada
func (s *Service) CompleteVisit(ctx context.Context, cpf string) error {
	cadastro, err := s.repo.Get(ctx, cpf)
	if err != nil {
		return err
	}

	if !cadastro.NecessitaVisitaSocial {
		return apperrors.Validation("Cadastro não necessita de visita social", nil)
	}

	if err := s.repo.SetVisitStatus(ctx, cpf, model.StatusVisitaRealizada); err != nil {
		return err
	}

	s.logger.InfoCtx(ctx, "Visita marcada como realizada", logging.CPF(cpf))
	return nil
}

// Edit aplica uma edição parcial, registrando na auditoria cada campo alterado
func (s *Service) Edit(ctx context.Context, cpf, atendente string, input map[string]interface{}) (*model.Cadastro, error) {
	atendente = strings.TrimSpace(atendente)

	// O cadastro é carregado antes: CPF inexistente responde 404 mesmo sem atendente
	updated, entries, err := s.repo.ApplyEdit(ctx, cpf, atendente, func(current *model.Cadastro) ([]model.FieldChange, error) {
		if atendente == "" {
			return nil, apperrors.Validation("Nome do atendente é obrigatório para editar", nil)
		}
		return PlanEdit(current, input)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AuditEntriesWritten(len(entries))

	fields := make([]string, len(entries))
	for i, entry := range entries {
		fields[i] = entry.CampoAlterado
	}
	s.logger.InfoCtx(ctx, "Cadastro editado",
		logging.CPF(cpf),
		zap.String("atendente", atendente),
		zap.Strings("campos", fields))

	return updated, nil
}

func missingFields(in CreateInput) []string {
	required := []struct {
		name  string
		value string
	}{
		{"cpf", in.CPF},
		{"nome", in.Nome},
		{"telefone", in.Telefone},
		{"is_whatsapp", in.IsWhatsapp},
		{"qualidade", in.Qualidade},
		{"data_atendimento", in.DataAtendimento},
		{"atendente", in.Atendente},
	}

	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

func optionalValue(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
