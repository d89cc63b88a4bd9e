package export

import (
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/leandrowaltz/provavida/internal/domain/model"
)

func renderStatistics(stats *model.Statistics, logoPath string) ([]byte, error) {
	r := newReport(fpdf.OrientationPortrait, logoPath, nil)
	r.pdf.AddPage()

	r.centeredTitle(16, "Relatório de Estatísticas", 10)

	r.kpi("Total de Cadastros", stats.TotalCadastros)
	r.kpi("Visitas Sociais Pendentes", stats.VisitasPendentes)
	r.kpi("Visitas Sociais Realizadas", stats.VisitasRealizadas)
	r.pdf.Ln(10)

	r.dataTable("Distribuição por Qualidade", stats.QualidadeData)
	r.dataTable("Uso de WhatsApp", stats.WhatsappData)
	r.dataTable("Uso de Email", stats.EmailData)

	return r.bytes()
}

func (r *report) kpi(title string, value int64) {
	r.pdf.SetFont("Arial", "", 12)
	r.cell(90, 10, title+":", "", 0, "R")
	r.pdf.SetFont("Arial", "B", 12)
	r.cell(20, 10, strconv.FormatInt(value, 10), "", 1, "L")
}

func (r *report) dataTable(title string, data model.Breakdown) {
	r.pdf.SetFont("Arial", "B", 12)
	r.cell(0, 15, title, "", 1, "L")

	r.pdf.SetFont("Arial", "", 10)
	for _, kc := range data {
		r.cell(50, 8, kc.Key, "1", 0, "L")
		r.cell(50, 8, strconv.FormatInt(kc.Count, 10), "1", 1, "L")
	}
	r.pdf.Ln(5)
}
