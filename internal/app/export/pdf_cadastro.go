package export

import (
	"net/http"

	"github.com/go-pdf/fpdf"
	"github.com/leandrowaltz/provavida/internal/domain/model"
)

// SheetField é uma linha "rótulo: valor" da ficha de cadastro
type SheetField struct {
	Label string
	Value string
}

// SheetSection agrupa as linhas sob um título da ficha
type SheetSection struct {
	Title  string
	Fields []SheetField
}

// CadastroSheetSections monta o conteúdo da ficha. Opcionais vazios saem como N/A.
func CadastroSheetSections(c *model.Cadastro) []SheetSection {
	sections := []SheetSection{{
		Title: "Dados do Segurado",
		Fields: []SheetField{
			{"Nome:", c.Nome},
			{"CPF:", c.CPF},
			{"Matrícula:", orNA(c.Matricula)},
			{"Telefone:", c.Telefone},
			{"Email:", orNA(c.Email)},
			{"WhatsApp:", simNao(c.IsWhatsapp)},
			{"Qualidade:", c.Qualidade},
			{"Data Atendimento:", c.DataAtendimento.Format("02/01/2006")},
			{"Atendente:", c.AtendenteCriacao},
			{"Informação:", orNA(c.Informacao)},
			{"Observação:", orNA(c.Obs)},
		},
	}}

	if papel, nome, cpf, ok := c.Representacao(); ok {
		sections = append(sections, SheetSection{
			Title:  "Dados do " + papel,
			Fields: []SheetField{{"Nome:", orNA(nome)}, {"CPF:", orNA(cpf)}},
		})
	}

	if c.NecessitaVisitaSocial {
		sections = append(sections, SheetSection{
			Title: "Dados da Visita Social",
			Fields: []SheetField{
				{"Status:", model.Deref(c.StatusVisita)},
				{"Processo:", orNA(c.Processo)},
				{"Assunto:", orNA(c.AssuntoVisita)},
				{"Endereço:", orNA(c.Endereco)},
			},
		})
	}
	return sections
}

// renderCadastro gera a ficha de cadastro. photoPath, quando não vazio,
// aponta para a foto do segurado gravada em arquivo temporário.
func renderCadastro(c *model.Cadastro, logoPath, photoPath, photoType string) ([]byte, error) {
	r := newReport(fpdf.OrientationPortrait, logoPath, func(r *report) {
		if photoPath != "" {
			r.pdf.ImageOptions(photoPath, 160, 40, 40, 40, false, fpdf.ImageOptions{ImageType: photoType}, 0, "")
		}
		r.centeredTitle(14, "Ficha de Cadastro", 5)
	})
	r.pdf.AddPage()

	for _, section := range CadastroSheetSections(c) {
		r.section(section.Title)
		for _, f := range section.Fields {
			r.field(f.Label, f.Value)
		}
	}

	return r.bytes()
}

func (r *report) section(title string) {
	r.pdf.Ln(5)
	r.pdf.SetFont("Arial", "B", 12)
	r.cell(0, 10, title, "B", 1, "L")
	r.pdf.Ln(2)
}

func (r *report) field(title, content string) {
	r.pdf.SetFont("Arial", "B", 10)
	r.cell(40, 7, title, "", 0, "L")
	r.pdf.SetFont("Arial", "", 10)
	r.multiCell(110, 7, content, "", "L")
}

func simNao(v bool) string {
	if v {
		return "Sim"
	}
	return "Não"
}

// photoImageType identifica o formato da foto pelo conteúdo
func photoImageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	default:
		return "JPG"
	}
}
