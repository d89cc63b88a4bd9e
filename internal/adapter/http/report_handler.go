package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leandrowaltz/provavida/internal/app/audit"
	"github.com/leandrowaltz/provavida/internal/app/export"
	"github.com/leandrowaltz/provavida/internal/app/statistics"
	"go.uber.org/zap"
)

// ReportHandler implementa auditoria, estatísticas e exportações
type ReportHandler struct {
	audit  *audit.Service
	stats  *statistics.Service
	export *export.Service
	logger *zap.Logger
}

// NewReportHandler cria um novo handler de relatórios
func NewReportHandler(auditService *audit.Service, stats *statistics.Service, exportService *export.Service, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		audit:  auditService,
		stats:  stats,
		export: exportService,
		logger: logger,
	}
}

// AuditLogs lista a trilha de auditoria, mais recentes primeiro
func (h *ReportHandler) AuditLogs(c *gin.Context) {
	logs, err := h.audit.List(c.Request.Context(), c.Query("cpf"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// Statistics devolve os números do painel
func (h *ReportHandler) Statistics(c *gin.Context) {
	stats, err := h.stats.Compute(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// StatisticsPDF exporta o relatório de estatísticas
func (h *ReportHandler) StatisticsPDF(c *gin.Context) {
	doc, err := h.export.StatisticsReport(c.Request.Context())
	h.document(c, doc, err)
}

// ExportAll exporta todos os cadastros em CSV
func (h *ReportHandler) ExportAll(c *gin.Context) {
	doc, err := h.export.AllCSV(c.Request.Context())
	h.document(c, doc, err)
}

// ExportAllXLSX exporta todos os cadastros em planilha
func (h *ReportHandler) ExportAllXLSX(c *gin.Context) {
	doc, err := h.export.AllXLSX(c.Request.Context())
	h.document(c, doc, err)
}

// ExportWhatsApp exporta os contatos com WhatsApp
func (h *ReportHandler) ExportWhatsApp(c *gin.Context) {
	doc, err := h.export.WhatsAppCSV(c.Request.Context())
	h.document(c, doc, err)
}

// ExportVisits exporta as visitas pelo status, em CSV ou PDF
func (h *ReportHandler) ExportVisits(c *gin.Context) {
	doc, err := h.export.Visits(c.Request.Context(), c.Param("status"), c.Param("format"))
	h.document(c, doc, err)
}

// Declaration gera a declaração de comparecimento
func (h *ReportHandler) Declaration(c *gin.Context) {
	doc, err := h.export.Declaration(c.Request.Context(), c.Param("cpf"))
	h.document(c, doc, err)
}

// CadastroPDF gera a ficha de cadastro
func (h *ReportHandler) CadastroPDF(c *gin.Context) {
	doc, err := h.export.CadastroSheet(c.Request.Context(), c.Param("cpf"))
	h.document(c, doc, err)
}

func (h *ReportHandler) document(c *gin.Context, doc *export.Document, err error) {
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	sendDocument(c, doc)
}
