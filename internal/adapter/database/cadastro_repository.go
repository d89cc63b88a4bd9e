package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/internal/domain/repository"
	apperrors "github.com/leandrowaltz/provavida/pkg/errors"
	"github.com/leandrowaltz/provavida/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// summaryColumns lista as colunas lidas nas consultas que não precisam dos binários
var summaryColumns = []string{
	"cpf", "matricula", "nome", "telefone", "email", "is_whatsapp", "qualidade",
	"data_atendimento", "informacao", "obs", "atendente_criacao", "data_criacao",
	"atendente_modificacao", "data_modificacao", "necessita_visita_social",
	"status_visita", "processo", "endereco", "assunto_visita", "tem_procurador",
	"procurador_nome", "procurador_cpf", "tem_curador", "curador_nome",
	"curador_cpf", "nome_documento",
	"documento_pdf IS NOT NULL AS has_document",
	"foto_segurado IS NOT NULL AS has_photo",
}

// CadastroRepository implementa repository.CadastroRepository
type CadastroRepository struct {
	db     *gorm.DB
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewCadastroRepository cria um novo repositório de cadastros
func NewCadastroRepository(db *gorm.DB, logger *zap.Logger) *CadastroRepository {
	return &CadastroRepository{
		db:     db,
		logger: logger,
		tracer: otel.GetTracerProvider().Tracer("provavida.repository.cadastro"),
		now:    time.Now,
	}
}

// summary prepara uma consulta sem os conteúdos binários
func (r *CadastroRepository) summary(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Cadastro{}).Select(summaryColumns)
}

// Create insere um novo cadastro
func (r *CadastroRepository) Create(ctx context.Context, cadastro *model.Cadastro) error {
	if err := r.db.WithContext(ctx).Create(cadastro).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("CPF já cadastrado", repository.ErrCadastroExists)
		}
		r.logger.Error("falha ao criar cadastro", logging.CPF(cadastro.CPF), zap.Error(err))
		return fmt.Errorf("falha ao criar cadastro: %w", err)
	}
	return nil
}

// Exists informa se já existe cadastro com o CPF
func (r *CadastroRepository) Exists(ctx context.Context, cpf string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Cadastro{}).Where("cpf = ?", cpf).Count(&count).Error; err != nil {
		return false, fmt.Errorf("falha ao verificar cadastro: %w", err)
	}
	return count > 0, nil
}

// Get obtém um cadastro sem os conteúdos binários
func (r *CadastroRepository) Get(ctx context.Context, cpf string) (*model.Cadastro, error) {
	var cadastro model.Cadastro
	if err := r.summary(ctx).Where("cpf = ?", cpf).Take(&cadastro).Error; err != nil {
		return nil, notFoundOr(err, "falha ao buscar cadastro")
	}
	return &cadastro, nil
}

// GetWithPhoto obtém um cadastro incluindo a foto
func (r *CadastroRepository) GetWithPhoto(ctx context.Context, cpf string) (*model.Cadastro, error) {
	var cadastro model.Cadastro
	columns := append(append([]string{}, summaryColumns...), "foto_segurado")
	if err := r.db.WithContext(ctx).Model(&model.Cadastro{}).Select(columns).Where("cpf = ?", cpf).Take(&cadastro).Error; err != nil {
		return nil, notFoundOr(err, "falha ao buscar cadastro")
	}
	return &cadastro, nil
}

// List retorna os cadastros ordenados por nome, filtrando pelo trecho do CPF
func (r *CadastroRepository) List(ctx context.Context, cpfFilter string) ([]*model.Cadastro, error) {
	query := r.summary(ctx)
	if cpfFilter != "" {
		query = query.Where("cpf LIKE ?", "%"+cpfFilter+"%")
	}

	var cadastros []*model.Cadastro
	if err := query.Order("nome").Order("cpf").Find(&cadastros).Error; err != nil {
		r.logger.Error("falha ao listar cadastros", zap.Error(err))
		return nil, fmt.Errorf("falha ao listar cadastros: %w", err)
	}
	return cadastros, nil
}

// ListWhatsApp retorna os cadastros com WhatsApp
func (r *CadastroRepository) ListWhatsApp(ctx context.Context) ([]*model.Cadastro, error) {
	var cadastros []*model.Cadastro
	if err := r.summary(ctx).Where("is_whatsapp = ?", true).Order("nome").Find(&cadastros).Error; err != nil {
		return nil, fmt.Errorf("falha ao listar contatos de WhatsApp: %w", err)
	}
	return cadastros, nil
}

// ListByVisitStatus retorna os cadastros que necessitam visita com o status informado
func (r *CadastroRepository) ListByVisitStatus(ctx context.Context, status string) ([]*model.Cadastro, error) {
	var cadastros []*model.Cadastro
	err := r.summary(ctx).
		Where("necessita_visita_social = ? AND status_visita = ?", true, status).
		Order("nome").
		Find(&cadastros).Error
	if err != nil {
		return nil, fmt.Errorf("falha ao listar visitas: %w", err)
	}
	return cadastros, nil
}

// GetDocument devolve o nome e o conteúdo do documento anexado
func (r *CadastroRepository) GetDocument(ctx context.Context, cpf string) (string, []byte, error) {
	var row struct {
		NomeDocumento *string
		DocumentoPDF  []byte
	}
	err := r.db.WithContext(ctx).Model(&model.Cadastro{}).
		Select("nome_documento", "documento_pdf").
		Where("cpf = ?", cpf).
		Take(&row).Error
	if err != nil {
		return "", nil, notFoundOr(err, "falha ao buscar documento")
	}
	return model.Deref(row.NomeDocumento), row.DocumentoPDF, nil
}

// GetPhoto devolve a foto do segurado
func (r *CadastroRepository) GetPhoto(ctx context.Context, cpf string) ([]byte, error) {
	var row struct {
		FotoSegurado []byte
	}
	err := r.db.WithContext(ctx).Model(&model.Cadastro{}).
		Select("foto_segurado").
		Where("cpf = ?", cpf).
		Take(&row).Error
	if err != nil {
		return nil, notFoundOr(err, "falha ao buscar foto")
	}
	return row.FotoSegurado, nil
}

// UpdatePhoto substitui a foto do segurado
func (r *CadastroRepository) UpdatePhoto(ctx context.Context, cpf string, photo []byte) error {
	result := r.db.WithContext(ctx).Model(&model.Cadastro{}).Where("cpf = ?", cpf).Update("foto_segurado", photo)
	if result.Error != nil {
		return fmt.Errorf("falha ao atualizar foto: %w", result.Error)
	}
	return nil
}

// SetVisitStatus altera o status da visita social
func (r *CadastroRepository) SetVisitStatus(ctx context.Context, cpf, status string) error {
	result := r.db.WithContext(ctx).Model(&model.Cadastro{}).Where("cpf = ?", cpf).Update("status_visita", status)
	if result.Error != nil {
		return fmt.Errorf("falha ao atualizar status da visita: %w", result.Error)
	}
	return nil
}

// ApplyEdit grava atomicamente as alterações planejadas e seus registros de auditoria
func (r *CadastroRepository) ApplyEdit(ctx context.Context, cpf, atendente string, plan repository.EditPlanner) (*model.Cadastro, []model.AuditoriaAlteracao, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"CadastroRepository.ApplyEdit",
		trace.WithAttributes(
			attribute.String("db.operation", "update"),
			attribute.String("db.table", "cadastros"),
		),
	)
	defer span.End()

	var (
		updated model.Cadastro
		entries []model.AuditoriaAlteracao
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Cadastro
		if err := tx.Model(&model.Cadastro{}).Select(summaryColumns).Where("cpf = ?", cpf).Take(&current).Error; err != nil {
			return notFoundOr(err, "falha ao buscar cadastro")
		}

		changes, err := plan(&current)
		if err != nil {
			return err
		}

		now := r.now().UTC()
		updates := map[string]interface{}{
			"atendente_modificacao": atendente,
			"data_modificacao":      now,
		}

		entries = make([]model.AuditoriaAlteracao, 0, len(changes))
		for _, change := range changes {
			entries = append(entries, model.AuditoriaAlteracao{
				CadastroCPF:   cpf,
				Atendente:     atendente,
				DataAlteracao: now,
				CampoAlterado: change.Field,
				ValorAntigo:   model.Ptr(change.OldValue),
				ValorNovo:     model.Ptr(change.NewValue),
			})
			updates[change.Field] = change.Value
		}

		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return fmt.Errorf("falha ao registrar auditoria: %w", err)
			}
		}

		if err := tx.Model(&model.Cadastro{}).Where("cpf = ?", cpf).Updates(updates).Error; err != nil {
			return fmt.Errorf("falha ao atualizar cadastro: %w", err)
		}

		return tx.Model(&model.Cadastro{}).Select(summaryColumns).Where("cpf = ?", cpf).Take(&updated).Error
	})
	if err != nil {
		span.SetStatus(codes.Error, "edit failed")
		span.SetAttributes(
			attribute.Bool("error", true),
			attribute.String("error.message", err.Error()),
		)
		return nil, nil, err
	}

	span.SetAttributes(attribute.Int("audit.entries", len(entries)))
	return &updated, entries, nil
}

// Snapshot lê todas as contagens das estatísticas numa única transação
func (r *CadastroRepository) Snapshot(ctx context.Context, from, to model.Date) (*model.StatisticsSnapshot, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"CadastroRepository.Snapshot",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "cadastros"),
			attribute.String("window.from", from.String()),
			attribute.String("window.to", to.String()),
		),
	)
	defer span.End()

	snapshot := &model.StatisticsSnapshot{
		PorQualidade: make(map[string]int64),
		PorDia:       make(map[string]int64),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := func() *gorm.DB { return tx.Model(&model.Cadastro{}) }

		if err := base().Count(&snapshot.Total).Error; err != nil {
			return err
		}
		if err := base().Where("necessita_visita_social = ? AND status_visita = ?", true, model.StatusVisitaPendente).
			Count(&snapshot.VisitasPendentes).Error; err != nil {
			return err
		}
		if err := base().Where("necessita_visita_social = ? AND status_visita = ?", true, model.StatusVisitaRealizada).
			Count(&snapshot.VisitasRealizadas).Error; err != nil {
			return err
		}
		if err := base().Where("is_whatsapp = ?", true).Count(&snapshot.ComWhatsApp).Error; err != nil {
			return err
		}
		if err := base().Where("email IS NOT NULL AND email <> ?", "").Count(&snapshot.ComEmail).Error; err != nil {
			return err
		}

		var porQualidade []struct {
			Qualidade string
			Total     int64
		}
		if err := base().Select("qualidade, COUNT(*) AS total").Group("qualidade").Scan(&porQualidade).Error; err != nil {
			return err
		}
		for _, row := range porQualidade {
			snapshot.PorQualidade[row.Qualidade] = row.Total
		}

		var porDia []struct {
			DataAtendimento model.Date
			Total           int64
		}
		if err := base().
			Select("data_atendimento, COUNT(*) AS total").
			Where("data_atendimento >= ? AND data_atendimento <= ?", from, to).
			Group("data_atendimento").
			Scan(&porDia).Error; err != nil {
			return err
		}
		for _, row := range porDia {
			snapshot.PorDia[row.DataAtendimento.String()] += row.Total
		}

		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, "database error")
		span.SetAttributes(attribute.Bool("error", true))
		r.logger.Error("falha ao calcular estatísticas", zap.Error(err))
		return nil, fmt.Errorf("falha ao calcular estatísticas: %w", err)
	}

	return snapshot, nil
}

// notFoundOr traduz registro inexistente para o erro de domínio
func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("Cadastro não encontrado", repository.ErrCadastroNotFound)
	}
	return fmt.Errorf("%s: %w", message, err)
}
