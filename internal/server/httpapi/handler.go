package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/ruedaverde/backend/internal/common"
	"github.com/ruedaverde/backend/internal/server/models"
	"github.com/ruedaverde/backend/internal/server/services"
)

type registerRequest struct {
	Nombre    string `json:"nombre" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Rol       string `json:"rol" binding:"required,oneof=generador recolector transformador admin"`
	Empresa   string `json:"empresa" binding:"required"`
	Telefono  string `json:"telefono" binding:"required"`
	Direccion string `json:"direccion" binding:"required"`
	Ciudad    string `json:"ciudad" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	PasswordActual string `json:"passwordActual" binding:"required"`
	NuevaPassword  string `json:"nuevaPassword" binding:"required,min=8"`
}

// validationFields lists every offending field of a binding error, not just
// the first, so clients can render all problems at once.
func validationFields(err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		return fields
	}
	return nil
}

func invalidData(c *gin.Context, err error) {
	body := gin.H{"error": "Datos inválidos"}
	if fields := validationFields(err); len(fields) > 0 {
		body["campos"] = fields
	}
	c.JSON(http.StatusBadRequest, body)
}

func (s *HTTPServer) registerHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidData(c, err)
		return
	}

	token, user, err := s.users.Register(c.Request.Context(), &services.RegisterInput{
		Nombre:    req.Nombre,
		Email:     req.Email,
		Password:  req.Password,
		Rol:       models.Role(req.Rol),
		Empresa:   req.Empresa,
		Telefono:  req.Telefono,
		Direccion: req.Direccion,
		Ciudad:    req.Ciudad,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorEmailExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Usuario ya existe"})
		case errors.Is(err, common.ErrorValidation):
			invalidData(c, err)
		default:
			s.logger.Error(c.Request.Context(), "registration failed", "error", err.Error())
			internalError(c)
		}
		return
	}

	s.logger.Info(c.Request.Context(), "user registered", "user_id", user.ID, "rol", user.Rol)
	c.JSON(http.StatusCreated, gin.H{"token": token, "usuario": user})
}

func (s *HTTPServer) loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidData(c, err)
		return
	}

	token, user, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
			return
		}
		s.logger.Error(c.Request.Context(), "login failed", "error", err.Error())
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "usuario": user})
}

func (s *HTTPServer) getProfileHandler(c *gin.Context) {
	userID, ok := UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}

	user, err := s.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
			return
		}
		s.logger.Error(c.Request.Context(), "profile lookup failed", "error", err.Error())
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"usuario": user})
}

func (s *HTTPServer) updateProfileHandler(c *gin.Context) {
	userID, ok := UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}

	// ProfileUpdate has no email field: a submitted email is dropped here,
	// silently, before the update ever reaches the store.
	var upd models.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		invalidData(c, err)
		return
	}

	user, err := s.users.UpdateProfile(c.Request.Context(), userID, &upd)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
			return
		}
		s.logger.Error(c.Request.Context(), "profile update failed", "error", err.Error())
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"usuario": user})
}

func (s *HTTPServer) changePasswordHandler(c *gin.Context) {
	userID, ok := UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidData(c, err)
		return
	}

	err := s.users.ChangePassword(c.Request.Context(), userID, req.PasswordActual, req.NuevaPassword)
	if err != nil {
		if errors.Is(err, common.ErrIncorrectPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Contraseña incorrecta"})
			return
		}
		s.logger.Error(c.Request.Context(), "password change failed", "error", err.Error())
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "Contraseña actualizada exitosamente"})
}

func (s *HTTPServer) presignUploadHandler(c *gin.Context) {
	if !s.storage.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Almacenamiento no disponible"})
		return
	}

	key, url, err := s.storage.GetPresignedPutUrl(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "presign failed", "error", err.Error())
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clave": key, "url": url})
}

func (s *HTTPServer) cmsWebsiteHandler(c *gin.Context) {
	if !s.cms.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Sincronización CMS no disponible"})
		return
	}

	website, err := s.cms.GetWebsiteInfo(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "cms website lookup failed", "error", err.Error())
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sitio": website})
}

func (s *HTTPServer) cmsPagesHandler(c *gin.Context) {
	if !s.cms.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Sincronización CMS no disponible"})
		return
	}

	pages, err := s.cms.GetPages(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "cms pages lookup failed", "error", err.Error())
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paginas": pages})
}

func (s *HTTPServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now(),
		"uptime":    time.Since(s.startedAt).Seconds(),
	})
}

func (s *HTTPServer) welcomeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Bienvenido a la API de Rueda Verde",
		"status":  "Servidor funcionando correctamente",
		"endpoints": gin.H{
			"health":  "/api/health",
			"auth":    "/api/auth",
			"uploads": "/api/uploads",
			"cms":     "/api/cms",
		},
	})
}

func notFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":   "Ruta no encontrada",
		"mensaje": "La ruta solicitada no existe",
	})
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Error del servidor"})
}
