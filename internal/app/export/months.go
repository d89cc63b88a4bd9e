package export

var monthNames = map[string][12]string{
	"pt": {
		"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
		"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
	},
	"en": {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	"es": {
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	},
}

// MonthName devolve o nome do mês (1 a 12) no idioma pedido.
// Idiomas desconhecidos usam português; índices fora do intervalo devolvem "".
func MonthName(index int, lang string) string {
	if index < 1 || index > 12 {
		return ""
	}
	names, ok := monthNames[lang]
	if !ok {
		names = monthNames["pt"]
	}
	return names[index-1]
}
