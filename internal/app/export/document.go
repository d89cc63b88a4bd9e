package export

import "time"

// Tipos de conteúdo dos arquivos gerados
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Document é um arquivo pronto para download
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

func csvDocument(filename string, data []byte) *Document {
	return &Document{Filename: filename, ContentType: ContentTypeCSV, Data: data}
}

func pdfDocument(filename string, data []byte) *Document {
	return &Document{Filename: filename, ContentType: ContentTypePDF, Data: data}
}

// stamp formata a data usada nos nomes dos arquivos de exportação
func stamp(t time.Time) string {
	return t.Format("20060102")
}
