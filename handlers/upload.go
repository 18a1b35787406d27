package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"covenant/services/upload"
	"covenant/services/wizard"
	"covenant/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxPhotoBytes = 10 << 20 // 10 MiB

// UploadPhotoHandler handles POST /api/wizard/photos. Multipart form fields:
// "file" (the image), "kind" ("public" or "private"), "slot" (index for
// public uploads).
func (h *HandlerBundle) UploadPhotoHandler(c *gin.Context) {
	logger := utils.GetLogger()

	s, ok := h.session(c)
	if !ok {
		return
	}
	userID := c.GetString("userID")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Arquivo de imagem ausente."})
		return
	}
	if fileHeader.Size > maxPhotoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Imagem muito grande."})
		return
	}

	kind := upload.SlotKind(c.PostForm("kind"))
	if kind != upload.SlotPublic && kind != upload.SlotPrivate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de foto inválido."})
		return
	}
	slot := 0
	if kind == upload.SlotPublic {
		slot, err = strconv.Atoi(c.PostForm("slot"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Posição da foto inválida."})
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Não foi possível ler a imagem."})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Não foi possível ler a imagem."})
		return
	}

	url, err := h.Uploader.Upload(c.Request.Context(), userID, fileHeader.Filename, data, kind, slot)
	if errors.Is(err, upload.ErrUploadInFlight) {
		c.JSON(http.StatusConflict, gin.H{"error": wizard.MsgUploadInFlight})
		return
	}
	if errors.Is(err, upload.ErrBadSlotIndex) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Posição da foto inválida."})
		return
	}
	if err != nil {
		fe := wizard.ClassifyUploadError(err)
		logger.Error("Photo upload failed", zap.String("userId", userID), zap.Error(err))
		c.JSON(flowStatus(fe), gin.H{"error": fe.Message})
		return
	}

	// The wizard alone folds upload results into the draft.
	if kind == upload.SlotPublic {
		if err := h.WizardService.ApplyPublicPhoto(s, slot, url); err != nil {
			c.JSON(flowStatus(err), viewOf(s))
			return
		}
	} else {
		h.WizardService.ApplyPrivatePhoto(s, url)
	}

	c.JSON(http.StatusOK, gin.H{
		"url":     url,
		"tickets": h.Uploader.Tickets(),
		"draft":   s.Snapshot(),
	})
}
