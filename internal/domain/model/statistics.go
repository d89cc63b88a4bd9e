package model

import (
	"bytes"
	"encoding/json"
)

// KeyCount é uma entrada de uma distribuição
type KeyCount struct {
	Key   string
	Count int64
}

// Breakdown é uma distribuição serializada como objeto JSON na ordem das entradas
type Breakdown []KeyCount

// Get devolve a contagem de uma chave
func (b Breakdown) Get(key string) int64 {
	for _, kc := range b {
		if kc.Key == key {
			return kc.Count
		}
	}
	return 0
}

// Total soma todas as contagens
func (b Breakdown) Total() int64 {
	var total int64
	for _, kc := range b {
		total += kc.Count
	}
	return total
}

// MarshalJSON preserva a ordem das chaves
func (b Breakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kc := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kc.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		count, err := json.Marshal(kc.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Chaves das distribuições de contato
const (
	ComWhatsApp = "Com WhatsApp"
	SemWhatsApp = "Sem WhatsApp"
	ComEmail    = "Com Email"
	SemEmail    = "Sem Email"
)

// Statistics é o resumo exibido no painel e no relatório de estatísticas
type Statistics struct {
	TotalCadastros    int64     `json:"total_cadastros"`
	VisitasPendentes  int64     `json:"visitas_pendentes"`
	VisitasRealizadas int64     `json:"visitas_realizadas"`
	QualidadeData     Breakdown `json:"qualidade_data"`
	DailyData         Breakdown `json:"daily_data"`
	WhatsappData      Breakdown `json:"whatsapp_data"`
	EmailData         Breakdown `json:"email_data"`
}

// StatisticsSnapshot são as contagens brutas lidas do banco numa única leitura
type StatisticsSnapshot struct {
	Total             int64
	VisitasPendentes  int64
	VisitasRealizadas int64
	ComWhatsApp       int64
	ComEmail          int64
	PorQualidade      map[string]int64
	// PorDia conta cadastros por data de atendimento dentro da janela consultada
	PorDia map[string]int64
}
