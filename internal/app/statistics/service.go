package statistics

import (
	"context"
	"sort"
	"time"

	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/leandrowaltz/provavida/internal/domain/repository"
	"go.uber.org/zap"
)

// DailyWindow é o número de dias da série diária, incluindo hoje
const DailyWindow = 7

// Service calcula o resumo exibido no painel
type Service struct {
	repo     repository.CadastroRepository
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewService cria o serviço de estatísticas no fuso informado
func NewService(repo repository.CadastroRepository, location *time.Location, logger *zap.Logger) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:     repo,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock substitui o relógio usado para determinar o dia de hoje
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Today devolve a data de hoje no fuso do serviço
func (s *Service) Today() model.Date {
	return model.DateOf(s.now().In(s.location))
}

// Compute lê as contagens e monta as distribuições
func (s *Service) Compute(ctx context.Context) (*model.Statistics, error) {
	today := s.Today()
	from := today.AddDays(-(DailyWindow - 1))

	snapshot, err := s.repo.Snapshot(ctx, from, today)
	if err != nil {
		return nil, err
	}

	stats := &model.Statistics{
		TotalCadastros:    snapshot.Total,
		VisitasPendentes:  snapshot.VisitasPendentes,
		VisitasRealizadas: snapshot.VisitasRealizadas,
		QualidadeData:     qualidadeBreakdown(snapshot.PorQualidade),
		DailyData:         dailyBreakdown(snapshot.PorDia, from),
		WhatsappData: model.Breakdown{
			{Key: model.ComWhatsApp, Count: snapshot.ComWhatsApp},
			{Key: model.SemWhatsApp, Count: snapshot.Total - snapshot.ComWhatsApp},
		},
		EmailData: model.Breakdown{
			{Key: model.ComEmail, Count: snapshot.ComEmail},
			{Key: model.SemEmail, Count: snapshot.Total - snapshot.ComEmail},
		},
	}

	s.logger.Debug("Estatísticas calculadas",
		zap.Int64("total", stats.TotalCadastros),
		zap.String("hoje", today.String()))

	return stats, nil
}

func qualidadeBreakdown(counts map[string]int64) model.Breakdown {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	breakdown := make(model.Breakdown, 0, len(keys))
	for _, key := range keys {
		breakdown = append(breakdown, model.KeyCount{Key: key, Count: counts[key]})
	}
	return breakdown
}

// dailyBreakdown preenche com zero os dias sem cadastros, do mais antigo para hoje
func dailyBreakdown(counts map[string]int64, from model.Date) model.Breakdown {
	breakdown := make(model.Breakdown, 0, DailyWindow)
	for i := 0; i < DailyWindow; i++ {
		day := from.AddDays(i)
		breakdown = append(breakdown, model.KeyCount{
			Key:   day.Format("02/01"),
			Count: counts[day.String()],
		})
	}
	return breakdown
}
