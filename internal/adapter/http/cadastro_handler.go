package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leandrowaltz/provavida/internal/app/cadastro"
	apperrors "github.com/leandrowaltz/provavida/pkg/errors"
	"go.uber.org/zap"
)

// CadastroHandler implementa os handlers de cadastros e visitas sociais
type CadastroHandler struct {
	service *cadastro.Service
	logger  *zap.Logger
}

// NewCadastroHandler cria um novo handler de cadastros
func NewCadastroHandler(service *cadastro.Service, logger *zap.Logger) *CadastroHandler {
	return &CadastroHandler{
		service: service,
		logger:  logger,
	}
}

// List lista os cadastros, com filtro opcional por trecho do CPF
func (h *CadastroHandler) List(c *gin.Context) {
	cadastros, err := h.service.List(c.Request.Context(), c.Query("cpf"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cadastros)
}

// multipartMemory é quanto do formulário fica em memória; o resto vai para disco
const multipartMemory = 8 << 20

// Create grava um cadastro enviado como formulário, com documento e foto opcionais
func (h *CadastroHandler) Create(c *gin.Context) {
	// Corpo acima do limite de MaxBodySize responde 413, não "campos ausentes"
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, h.logger, apperrors.TooLarge("", err))
			return
		}
	}

	in := cadastro.CreateInput{
		CPF:                   c.PostForm("cpf"),
		Nome:                  c.PostForm("nome"),
		Telefone:              c.PostForm("telefone"),
		Email:                 c.PostForm("email"),
		Matricula:             c.PostForm("matricula"),
		IsWhatsapp:            c.PostForm("is_whatsapp"),
		Qualidade:             c.PostForm("qualidade"),
		DataAtendimento:       c.PostForm("data_atendimento"),
		Informacao:            c.PostForm("informacao"),
		Obs:                   c.PostForm("obs"),
		Atendente:             c.PostForm("atendente"),
		NecessitaVisitaSocial: c.PostForm("necessita_visita_social"),
		TemProcurador:         c.PostForm("tem_procurador"),
		TemCurador:            c.PostForm("tem_curador"),
		Processo:              c.PostForm("processo"),
		Endereco:              c.PostForm("endereco"),
		AssuntoVisita:         c.PostForm("assunto_visita"),
		ProcuradorNome:        c.PostForm("procurador_nome"),
		ProcuradorCPF:         c.PostForm("procurador_cpf"),
		CuradorNome:           c.PostForm("curador_nome"),
		CuradorCPF:            c.PostForm("curador_cpf"),
		FotoBase64:            c.PostForm("foto_segurado"),
	}

	if header, err := c.FormFile("documento"); err == nil && header.Filename != "" {
		file, err := header.Open()
		if err != nil {
			respondError(c, h.logger, apperrors.InternalServer("", err))
			return
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			respondError(c, h.logger, apperrors.Validation("Documento inválido", err))
			return
		}
		in.Documento = &cadastro.Attachment{Filename: header.Filename, Content: content}
	}

	created, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

type photoRequest struct {
	FotoBase64 *string `json:"foto_base64"`
}

// UpdatePhoto substitui a foto do segurado
func (h *CadastroHandler) UpdatePhoto(c *gin.Context) {
	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.FotoBase64 = nil
	}

	var foto string
	if req.FotoBase64 != nil {
		foto = *req.FotoBase64
	}

	if err := h.service.UpdatePhoto(c.Request.Context(), c.Param("cpf"), foto); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, "Foto atualizada com sucesso!")
}

// Edit aplica uma edição parcial com registro na auditoria
func (h *CadastroHandler) Edit(c *gin.Context) {
	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil || input == nil {
		respondError(c, h.logger, apperrors.Validation("Dados inválidos", err))
		return
	}

	atendente, _ := input["atendente"].(string)

	updated, err := h.service.Edit(c.Request.Context(), c.Param("cpf"), atendente, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Document envia o documento anexado ao cadastro
func (h *CadastroHandler) Document(c *gin.Context) {
	name, content, err := h.service.Document(c.Request.Context(), c.Param("cpf"))
	if err != nil {
		if apperrors.StatusCode(err) == http.StatusNotFound {
			c.String(http.StatusNotFound, apperrors.Message(err))
			return
		}
		respondError(c, h.logger, err)
		return
	}
	sendInline(c, "application/pdf", name, content)
}

// Photo envia a foto do segurado
func (h *CadastroHandler) Photo(c *gin.Context) {
	photo, err := h.service.Photo(c.Request.Context(), c.Param("cpf"))
	if err != nil {
		if apperrors.StatusCode(err) == http.StatusNotFound {
			c.String(http.StatusNotFound, apperrors.Message(err))
			return
		}
		respondError(c, h.logger, err)
		return
	}
	sendInline(c, "image/jpeg", "", photo)
}

// Visits lista os cadastros pelo status da visita
func (h *CadastroHandler) Visits(c *gin.Context) {
	visitas, err := h.service.Visits(c.Request.Context(), c.Param("status"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, visitas)
}

// CompleteVisit marca a visita como realizada
func (h *CadastroHandler) CompleteVisit(c *gin.Context) {
	if err := h.service.CompleteVisit(c.Request.Context(), c.Param("cpf")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, "Visita marcada como realizada.")
}
