package handlers

import (
	"context"
	"errors"
	"net/http"

	"covenant/models"
	"covenant/services/wizard"

	"github.com/gin-gonic/gin"
)

// sessionView is what the client renders after every wizard operation.
type sessionView struct {
	Mode    wizard.Mode         `json:"mode"`
	Step    int                 `json:"step"`
	Draft   models.ProfileDraft `json:"draft"`
	Banner  string              `json:"banner,omitempty"`
	IsDirty bool                `json:"isDirty"`
}

func viewOf(s *wizard.Session) sessionView {
	mode, step, banner := s.State()
	return sessionView{
		Mode:    mode,
		Step:    step,
		Draft:   s.Snapshot(),
		Banner:  banner,
		IsDirty: s.IsDirty(),
	}
}

func (h *HandlerBundle) session(c *gin.Context) (*wizard.Session, bool) {
	userID := c.GetString("userID")
	s, ok := h.WizardService.Get(userID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nenhuma sessão de perfil aberta."})
		return nil, false
	}
	return s, true
}

// flowStatus maps a wizard error to an HTTP status; validation problems are
// client errors, everything else is a gateway-side failure.
func flowStatus(err error) int {
	var fe *wizard.FlowError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case wizard.KindValidation:
			return http.StatusUnprocessableEntity
		case wizard.KindConflict:
			return http.StatusConflict
		case wizard.KindPermission:
			return http.StatusForbidden
		case wizard.KindConfiguration:
			return http.StatusInternalServerError
		}
	}
	return http.StatusBadGateway
}

// StartWizardHandler handles POST /api/wizard/start.
func (h *HandlerBundle) StartWizardHandler(c *gin.Context) {
	userID := c.GetString("userID")
	email := c.GetString("userEmail")

	s, err := h.WizardService.Open(c.Request.Context(), userID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, viewOf(s))
}

// WizardStateHandler handles GET /api/wizard.
func (h *HandlerBundle) WizardStateHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewOf(s))
}

// AdvanceHandler handles POST /api/wizard/advance.
func (h *HandlerBundle) AdvanceHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.WizardService.Advance(s); err != nil {
		c.JSON(flowStatus(err), viewOf(s))
		return
	}
	c.JSON(http.StatusOK, viewOf(s))
}

// RetreatHandler handles POST /api/wizard/retreat.
func (h *HandlerBundle) RetreatHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.WizardService.Retreat(s)
	c.JSON(http.StatusOK, viewOf(s))
}

// SetFieldHandler handles PATCH /api/wizard/field.
func (h *HandlerBundle) SetFieldHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Field string `json:"field" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.WizardService.SetField(s, req.Field, req.Value); err != nil {
		c.JSON(flowStatus(err), viewOf(s))
		return
	}
	c.JSON(http.StatusOK, viewOf(s))
}

// ToggleTagHandler handles POST /api/wizard/tag.
func (h *HandlerBundle) ToggleTagHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		List  string `json:"list" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.WizardService.ToggleTag(s, req.List, req.Value); err != nil {
		c.JSON(flowStatus(err), viewOf(s))
		return
	}
	c.JSON(http.StatusOK, viewOf(s))
}

// deviceLocator adapts the device's reported lookup outcome to the wizard's
// Locator interface. The device either grants a position, reports a denied
// permission, or grants without producing a fix. Presence of the position is
// explicit so a legitimate (0, 0) fix is not mistaken for a failure.
type deviceLocator struct {
	granted  bool
	position *models.GeoPoint
}

func (l deviceLocator) Resolve(ctx context.Context) (models.GeoPoint, error) {
	if !l.granted {
		return models.GeoPoint{}, wizard.ErrLocationDenied
	}
	if l.position == nil {
		return models.GeoPoint{}, errors.New("device returned no position")
	}
	return *l.position, nil
}

// LocationHandler handles POST /api/wizard/location.
func (h *HandlerBundle) LocationHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Granted  bool             `json:"granted"`
		Position *models.GeoPoint `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc := deviceLocator{granted: req.Granted, position: req.Position}
	if err := h.WizardService.RequestLocation(c.Request.Context(), s, loc); err != nil {
		c.JSON(flowStatus(err), viewOf(s))
		return
	}
	c.JSON(http.StatusOK, viewOf(s))
}

// SubmitHandler handles POST /api/wizard/submit.
func (h *HandlerBundle) SubmitHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	result, err := h.WizardService.Submit(c.Request.Context(), s)
	if err != nil {
		c.JSON(flowStatus(err), viewOf(s))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":    result.Profile,
		"wasEditing": result.WasEditing,
	})
}

// OptionsHandler handles GET /api/wizard/options. The client renders these
// lists as tag and select pickers.
func (h *HandlerBundle) OptionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"interests":     models.InterestOptions,
		"keyValues":     models.KeyValueOptions,
		"languages":     models.LanguageOptions,
		"denominations": models.DenominationOptions,
	})
}

// DismissBannerHandler handles POST /api/wizard/banner/dismiss.
func (h *HandlerBundle) DismissBannerHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.DismissBanner()
	c.JSON(http.StatusOK, viewOf(s))
}

// CloseWizardHandler handles POST /api/wizard/close.
func (h *HandlerBundle) CloseWizardHandler(c *gin.Context) {
	userID := c.GetString("userID")
	h.WizardService.Close(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Sessão descartada."})
}
