package export

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/leandrowaltz/provavida/internal/domain/model"
)

// DeclarationText monta o corpo da declaração de comparecimento
func DeclarationText(c *model.Cadastro) string {
	if nome, cpf, papel, ok := c.Representante(); ok {
		papelTexto := "procurador(a)"
		if papel == "Curador(a)" {
			papelTexto = "curador(a)"
		}
		return fmt.Sprintf("Declaro que o Sr(a). %s, inscrito no CPF sob o número %s, neste ato devidamente "+
			"representado(a) por seu(sua) %s, %s, inscrito(a) no CPF sob o número %s, solicitou suporte nesta "+
			"Unidade Gestora na presente data para realizar a prova de vida.",
			c.Nome, c.CPF, papelTexto, nome, cpf)
	}

	return fmt.Sprintf("Declaro que o Sr(a). %s, inscrito no CPF sob o número %s, compareceu nesta Unidade "+
		"Gestora na presente data, solicitando suporte para realizar a prova de vida digital pelo sistema E-GOV, "+
		"a mesma apresentou a documentação pessoal, bem como realizou captura fotográfica.",
		c.Nome, c.CPF)
}

// DeclarationDate formata a linha de local e data da assinatura
func DeclarationDate(city string, t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d.", city, t.Day(), MonthName(int(t.Month()), "pt"), t.Year())
}

func renderDeclaracao(c *model.Cadastro, logoPath, city string, now time.Time) ([]byte, error) {
	r := newReport(fpdf.OrientationPortrait, logoPath, func(r *report) {
		r.centeredTitle(16, "DECLARAÇÃO DE COMPARECIMENTO - PROVA DE VIDA", 15)
	})
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "", 12)
	r.multiCell(0, 8, DeclarationText(c), "", "J")
	r.pdf.Ln(20)

	r.pdf.SetFont("Arial", "", 10)
	r.cell(0, 10, DeclarationDate(city, now), "", 1, "C")
	r.pdf.Ln(15)
	r.pdf.Ln(15)

	if nome, cpf, papel, ok := c.Representante(); ok {
		r.signature(nome, "CPF: "+cpf, papel)
	} else {
		r.signature(c.Nome, "CPF: "+c.CPF, c.Qualidade)
	}

	r.pdf.Ln(15)
	r.pdf.Ln(15)
	r.signature(c.AtendenteCriacao, "Atendente")

	return r.bytes()
}

// signature escreve um bloco de assinatura centralizado
func (r *report) signature(lines ...string) {
	for _, line := range lines {
		r.cell(0, 5, line, "", 1, "C")
	}
}
