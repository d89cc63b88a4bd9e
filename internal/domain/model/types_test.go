package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/leandrowaltz/provavida/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimNao(t *testing.T) {
	assert.True(t, model.ParseSimNao("sim"))
	assert.True(t, model.ParseSimNao("SIM"))
	assert.False(t, model.ParseSimNao(true), "só o texto sim é aceito")
	assert.False(t, model.ParseSimNao(" sim "))
	assert.False(t, model.ParseSimNao("não"))
	assert.False(t, model.ParseSimNao("nao"))
	assert.False(t, model.ParseSimNao(""))
	assert.False(t, model.ParseSimNao(nil))
	assert.False(t, model.ParseSimNao(1))
}

func TestParseCheckbox(t *testing.T) {
	assert.True(t, model.ParseCheckbox("on"))
	assert.True(t, model.ParseCheckbox("true"))
	assert.False(t, model.ParseCheckbox(""))
	assert.False(t, model.ParseCheckbox("off"))
}

func TestParseDate(t *testing.T) {
	d, err := model.ParseDate("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", d.String())

	_, err = model.ParseDate("05/03/2024")
	assert.Error(t, err)

	_, err = model.ParseDate("2024-02-30")
	assert.Error(t, err)
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"time", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "2024-03-05"},
		{"string", "2024-03-05", "2024-03-05"},
		{"string com horário", "2024-03-05 00:00:00+00:00", "2024-03-05"},
		{"bytes", []byte("2024-03-05"), "2024-03-05"},
		{"nulo", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d model.Date
			require.NoError(t, d.Scan(tt.input))
			assert.Equal(t, tt.want, d.String())
		})
	}

	var d model.Date
	assert.Error(t, d.Scan(42))
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(model.NewDate(2024, time.March, 5))
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05"`, string(b))

	var d model.Date
	require.NoError(t, json.Unmarshal([]byte(`"2023-12-31"`), &d))
	assert.Equal(t, "2023-12-31", d.String())
}

func TestPermissions_ScanValue(t *testing.T) {
	perms := model.Permissions{"cadastro": true, "audit": false}
	v, err := perms.Value()
	require.NoError(t, err)

	var scanned model.Permissions
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, perms, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)
}

func TestBreakdown_MarshalKeepsOrder(t *testing.T) {
	b := model.Breakdown{{Key: "30/12", Count: 1}, {Key: "31/12", Count: 0}, {Key: "01/01", Count: 2}}

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, `{"30/12":1,"31/12":0,"01/01":2}`, string(out))
	assert.Equal(t, int64(3), b.Total())
	assert.Equal(t, int64(2), b.Get("01/01"))
}

func TestCadastro_MarshalJSON(t *testing.T) {
	c := model.Cadastro{
		CPF:                   "123.456.789-00",
		Nome:                  "Maria",
		DataAtendimento:       model.NewDate(2024, time.March, 5),
		NecessitaVisitaSocial: false,
		StatusVisita:          model.Ptr(model.StatusVisitaPendente),
		FotoSegurado:          []byte{0xff, 0xd8},
	}

	b, err := json.Marshal(c)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Nil(t, out["status_visita"])
	assert.Equal(t, true, out["has_photo"])
	assert.Equal(t, false, out["has_document"])
	assert.Equal(t, "2024-03-05", out["data_atendimento"])
	assert.NotContains(t, out, "foto_segurado")
	assert.NotContains(t, out, "documento_pdf")
}

func TestCadastro_Representante(t *testing.T) {
	c := model.Cadastro{
		TemProcurador:  true,
		ProcuradorNome: model.Ptr("João"),
		TemCurador:     true,
		CuradorNome:    model.Ptr("Ana"),
	}
	nome, _, papel, ok := c.Representante()
	require.True(t, ok)
	assert.Equal(t, "João", nome)
	assert.Equal(t, "Procurador(a)", papel)

	c.TemProcurador = false
	nome, _, papel, ok = c.Representante()
	require.True(t, ok)
	assert.Equal(t, "Ana", nome)
	assert.Equal(t, "Curador(a)", papel)

	c.TemCurador = false
	_, _, _, ok = c.Representante()
	assert.False(t, ok)
}

func TestCadastro_Representacao(t *testing.T) {
	c := model.Cadastro{TemProcurador: true, TemCurador: true, CuradorNome: model.Ptr("Ana")}
	papel, nome, cpf, ok := c.Representacao()
	require.True(t, ok)
	assert.Equal(t, "Procurador", papel)
	assert.Nil(t, nome)
	assert.Nil(t, cpf)

	// a declaração continua exigindo o nome
	_, _, declPapel, declOK := c.Representante()
	assert.True(t, declOK)
	assert.Equal(t, "Curador(a)", declPapel)

	c.TemProcurador = false
	papel, nome, _, ok = c.Representacao()
	require.True(t, ok)
	assert.Equal(t, "Curador", papel)
	assert.Equal(t, "Ana", model.Deref(nome))

	c.TemCurador = false
	_, _, _, ok = c.Representacao()
	assert.False(t, ok)
}
