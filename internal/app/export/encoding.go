package export

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Latin1 converte o texto para a codificação das fontes padrão do PDF
// (Windows-1252). Caracteres sem representação viram '?'.
func Latin1(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}
