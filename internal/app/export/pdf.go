package export

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
)

var letterheadLines = []string{
	"ESTADO DE ALAGOAS",
	"SECRETARIA DE ESTADO DO PLANEJAMENTO, GESTÃO E PATRIMÔNIO",
	"ALAGOAS PREVIDÊNCIA",
}

var footerLines = []string{
	"Avenida da Paz, 1864, Empresarial Terra Brasilis - Térreo, 13º, 14º e 15º andares, Centro, Maceió-AL. CEP 57020-440",
	"CNPJ 23.658.211/0001-11 - Telefones - Geral: (82) 3315-1831 / Call Center: (82) 3315-5707",
}

// report é um documento A4 com o timbre institucional no cabeçalho e o
// endereço no rodapé de cada página
type report struct {
	pdf  *fpdf.Fpdf
	logo string
}

// newReport cria o documento. extra desenha o restante do cabeçalho de cada página.
func newReport(orientation, logoPath string, extra func(r *report)) *report {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 30)

	r := &report{pdf: pdf}
	r.registerLogo(logoPath)

	pdf.SetHeaderFunc(func() {
		r.letterhead()
		if extra != nil {
			extra(r)
		}
	})
	pdf.SetFooterFunc(r.footer)

	return r
}

// registerLogo carrega o logotipo uma única vez. Um arquivo ausente ou
// ilegível apenas omite o logotipo.
func (r *report) registerLogo(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	r.pdf.RegisterImageOptions(path, fpdf.ImageOptions{ReadDpi: true})
	if r.pdf.Err() {
		r.pdf.ClearError()
		return
	}
	r.logo = path
}

func (r *report) letterhead() {
	if r.logo != "" {
		r.pdf.ImageOptions(r.logo, 10, 8, 33, 0, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
	}

	r.pdf.SetFont("Arial", "B", 10)
	r.pdf.SetXY(50, 15)
	for _, line := range letterheadLines {
		// ln=2 mantém o x e desce uma linha
		r.pdf.CellFormat(0, 5, Latin1(line), "", 2, "L", false, 0, "")
	}

	width, _ := r.pdf.GetPageSize()
	r.pdf.SetLineWidth(0.5)
	r.pdf.Line(10, 45, width-10, 45)
	r.pdf.SetLineWidth(0.2)
	r.pdf.SetXY(10, 45)
	r.pdf.Ln(20)
}

func (r *report) footer() {
	r.pdf.SetY(-25)
	r.pdf.SetFont("Arial", "I", 8)

	width, _ := r.pdf.GetPageSize()
	x, y := r.pdf.GetXY()
	r.pdf.Line(x, y, x+width-20, y)
	r.pdf.Ln(2)

	for _, line := range footerLines {
		r.pdf.CellFormat(0, 4, Latin1(line), "", 1, "C", false, 0, "")
	}
}

// cell escreve texto já convertido para as fontes padrão
func (r *report) cell(w, h float64, text, border string, ln int, align string) {
	r.pdf.CellFormat(w, h, Latin1(text), border, ln, align, false, 0, "")
}

func (r *report) multiCell(w, h float64, text, border, align string) {
	r.pdf.MultiCell(w, h, Latin1(text), border, align, false)
}

// centeredTitle escreve um título centralizado seguido de espaço vertical
func (r *report) centeredTitle(size float64, text string, after float64) {
	r.pdf.SetFont("Arial", "B", size)
	r.cell(0, 10, text, "", 1, "C")
	r.pdf.Ln(after)
}

func (r *report) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("falha ao gerar PDF: %w", err)
	}
	return buf.Bytes(), nil
}
