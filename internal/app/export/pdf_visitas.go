package export

import (
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/leandrowaltz/provavida/internal/domain/model"
)

var (
	visitColumns = []string{"CPF", "Nome", "Endereço", "Assunto"}
	visitWidths  = []float64{30, 50, 80, 30}
)

const visitLineHeight = 5

func renderVisitas(cadastros []*model.Cadastro, slug, logoPath string) ([]byte, error) {
	r := newReport(fpdf.OrientationLandscape, logoPath, func(r *report) {
		r.centeredTitle(14, "Relatório de Visitas Sociais", 5)
	})
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 12)
	r.cell(0, 10, "Relatório de Visitas "+capitalize(slug), "", 1, "L")
	r.pdf.Ln(4)

	r.visitHeader()
	r.pdf.SetFont("Arial", "", 8)
	for _, c := range cadastros {
		r.visitRow([]string{c.CPF, c.Nome, orNA(c.Endereco), orNA(c.AssuntoVisita)})
	}

	return r.bytes()
}

func (r *report) visitHeader() {
	r.pdf.SetFont("Arial", "B", 9)
	for i, title := range visitColumns {
		r.cell(visitWidths[i], 8, title, "1", 0, "C")
	}
	r.pdf.Ln(8)
}

// visitRow desenha uma linha com quebra de texto em cada coluna. A altura
// da linha é a da coluna mais alta.
func (r *report) visitRow(values []string) {
	height := float64(visitLineHeight)
	for i, value := range values {
		lines := len(r.pdf.SplitText(Latin1(value), visitWidths[i]))
		if h := float64(lines * visitLineHeight); h > height {
			height = h
		}
	}

	_, pageHeight := r.pdf.GetPageSize()
	_, bottom := r.pdf.GetAutoPageBreak()
	if r.pdf.GetY()+height > pageHeight-bottom {
		r.pdf.AddPage()
		r.visitHeader()
		r.pdf.SetFont("Arial", "", 8)
	}

	x, y := r.pdf.GetXY()
	offset := x
	for i, value := range values {
		r.pdf.SetXY(offset, y)
		r.multiCell(visitWidths[i], visitLineHeight, value, "", "L")
		offset += visitWidths[i]
	}

	r.pdf.SetXY(x, y)
	for _, w := range visitWidths {
		r.pdf.CellFormat(w, height, "", "1", 0, "", false, 0, "")
	}
	r.pdf.Ln(height)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
