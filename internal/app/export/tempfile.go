package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// withTempFile grava data num arquivo temporário exclusivo, chama fn com o
// caminho e remove o arquivo em qualquer saída, inclusive em pânico.
func withTempFile(dir, pattern string, data []byte, fn func(path string) error) (err error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("falha ao criar arquivo temporário: %w", err)
	}
	path := f.Name()

	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
			err = fmt.Errorf("falha ao remover arquivo temporário: %w", rmErr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("falha ao gravar arquivo temporário: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("falha ao fechar arquivo temporário: %w", err)
	}

	return fn(path)
}
