package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leandrowaltz/provavida/internal/app/export"
	"github.com/leandrowaltz/provavida/internal/infra/middleware"
	apperrors "github.com/leandrowaltz/provavida/pkg/errors"
	"go.uber.org/zap"
)

// respondError escreve a falha com o status do seu tipo. Exportações sem
// dados respondem em texto puro.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperrors.StatusCode(err)
	message := apperrors.Message(err)

	if status >= http.StatusInternalServerError {
		logger.Error("Falha ao processar requisição",
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err))
	}

	if errors.Is(err, apperrors.ErrNoData) {
		c.String(status, message)
		return
	}

	c.JSON(status, gin.H{"error": message})
}

// respondSuccess escreve o corpo padrão das operações sem retorno
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// sendDocument envia o arquivo gerado como anexo
func sendDocument(c *gin.Context, doc *export.Document) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment;filename=%s", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// sendInline envia um binário armazenado para exibição no navegador
func sendInline(c *gin.Context, contentType, filename string, data []byte) {
	if filename != "" {
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	}
	c.Data(http.StatusOK, contentType, data)
}
