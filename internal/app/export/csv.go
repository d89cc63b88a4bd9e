package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// encodeCSV grava o cabeçalho e as linhas em CSV UTF-8
func encodeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("falha ao gravar cabeçalho CSV: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("falha ao gravar linhas CSV: %w", err)
	}

	return buf.Bytes(), nil
}
