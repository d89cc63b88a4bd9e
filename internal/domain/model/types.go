package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// DateLayout é o formato aceito para datas de atendimento
const DateLayout = "2006-01-02"

// Date representa uma data de calendário sem horário
type Date struct {
	time.Time
}

// NewDate cria uma data em UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf descarta o horário de t mantendo o dia no fuso de t
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate interpreta uma data no formato YYYY-MM-DD
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("data inválida %q: esperado AAAA-MM-DD", value)
	}
	return Date{Time: t}, nil
}

// String formata a data como YYYY-MM-DD
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// AddDays desloca a data em n dias
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Value implementa driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implementa sql.Scanner
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("tipo não suportado para data: %T", value)
	}
}

func (d *Date) scanString(v string) error {
	if len(v) < len(DateLayout) {
		return fmt.Errorf("data inválida no banco: %q", v)
	}
	parsed, err := ParseDate(v[:len(DateLayout)])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GormDataType define o tipo da coluna
func (Date) GormDataType() string {
	return "date"
}

// MarshalJSON serializa como "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON aceita "YYYY-MM-DD" ou null
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Permissions mapeia funcionalidade para acesso concedido
type Permissions map[string]bool

// Value implementa driver.Valuer
func (p Permissions) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implementa sql.Scanner
func (p *Permissions) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*p = Permissions{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return errors.New("tipo não suportado para permissões")
	}

	if len(raw) == 0 {
		*p = Permissions{}
		return nil
	}

	perms := Permissions{}
	if err := json.Unmarshal(raw, &perms); err != nil {
		return fmt.Errorf("permissões inválidas: %w", err)
	}
	*p = perms
	return nil
}

// GormDataType define o tipo genérico da coluna
func (Permissions) GormDataType() string {
	return "json"
}

// GormDBDataType define o tipo da coluna por dialeto
func (Permissions) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "jsonb"
	case "mysql":
		return "json"
	default:
		return "text"
	}
}

// ParseSimNao é verdadeiro apenas para o texto "sim", sem diferenciar maiúsculas.
// Qualquer outro valor, inclusive o booleano JSON true, conta como não.
func ParseSimNao(value interface{}) bool {
	v, ok := value.(string)
	return ok && strings.EqualFold(v, "sim")
}

// ParseCheckbox interpreta o valor de um checkbox HTML
func ParseCheckbox(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "sim":
		return true
	default:
		return false
	}
}

// SimNao formata um booleano para exibição e auditoria
func SimNao(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}
