package cadastro

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidImage indica uma foto que não pôde ser decodificada
var ErrInvalidImage = errors.New("imagem em base64 inválida")

// DecodePhoto decodifica uma foto em base64. Aceita o prefixo de data URL
// ("data:image/jpeg;base64,") e completa o padding ausente.
func DecodePhoto(data string) ([]byte, error) {
	if i := strings.IndexByte(data, ','); i >= 0 {
		data = data[i+1:]
	}
	data = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, data)

	if pad := len(data) % 4; pad != 0 {
		data += strings.Repeat("=", 4-pad)
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errors.Join(ErrInvalidImage, err)
	}
	return decoded, nil
}
