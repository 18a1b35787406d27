package handlers

import (
	"context"
	"io"
	"net/http"

	"covenant/services/verification"
	"covenant/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// uploadedFrameSource adapts a selfie captured client-side to the gate's
// MediaCaptureSource. The scripted liveness pacing already happened on the
// device; the server re-runs the analyze dwell only.
type uploadedFrameSource struct {
	frame []byte
}

type uploadedFrameStream struct {
	frame    []byte
	released bool
}

func (s *uploadedFrameSource) AcquireStream(ctx context.Context) (verification.Stream, error) {
	return &uploadedFrameStream{frame: s.frame}, nil
}

func (s *uploadedFrameStream) CaptureFrame() ([]byte, error) {
	return s.frame, nil
}

func (s *uploadedFrameStream) Release() {
	s.released = true
}

// VerifyHandler handles POST /api/wizard/verify. Multipart form field
// "selfie" carries the captured frame.
func (h *HandlerBundle) VerifyHandler(c *gin.Context) {
	logger := utils.GetLogger()

	s, ok := h.session(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("selfie")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Selfie ausente."})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Não foi possível ler a selfie."})
		return
	}
	defer file.Close()
	frame, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Não foi possível ler a selfie."})
		return
	}

	src := &uploadedFrameSource{frame: frame}
	status, err := h.WizardService.StartVerification(c.Request.Context(), s, src)
	if err != nil {
		logger.Warn("Verification attempt failed",
			zap.String("userId", c.GetString("userID")),
			zap.String("status", string(status)),
			zap.Error(err))
		c.JSON(flowStatus(err), gin.H{"status": status, "view": viewOf(s)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status, "view": viewOf(s)})
}
