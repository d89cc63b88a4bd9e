package auth

import (
	"crypto/subtle"

	"github.com/leandrowaltz/provavida/internal/domain/model"
)

// BootstrapAdmin é a conta administrativa criada na inicialização.
// As rotas administrativas aceitam apenas este par de credenciais.
type BootstrapAdmin struct {
	Username string
	Password string
}

// Matches informa se as credenciais são as do administrador inicial
func (a BootstrapAdmin) Matches(username, password string) bool {
	if a.Username == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.Password)) == 1
	return userOK && passOK
}

// Owns informa se o usuário armazenado é a conta do administrador inicial
func (a BootstrapAdmin) Owns(user *model.UserEntity) bool {
	if user == nil {
		return false
	}
	return user.Bootstrap || (a.Username != "" && user.Username == a.Username)
}
