package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/apricodi/builder/internal/middleware"
	"github.com/apricodi/builder/internal/models"
	"github.com/apricodi/builder/internal/services"
	"github.com/apricodi/builder/internal/validation"
)

// AuthHandler handles account registration and sessions.
type AuthHandler struct {
	authService  *services.AuthService
	auditService *services.AuditService
	pathPrefix   string
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService *services.AuthService, auditService *services.AuditService, pathPrefix string, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		auditService: auditService,
		pathPrefix:   pathPrefix,
		secureCookie: secureCookie,
	}
}

type loginForm struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type registerForm struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Name     string `json:"name" form:"name" binding:"required"`
	Company  string `json:"company" form:"company"`
}

// LoginPage renders the login page.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"PathPrefix": h.pathPrefix})
}

// RegisterPage renders the sign-up page.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"PathPrefix": h.pathPrefix})
}

func (h *AuthHandler) fail(c *gin.Context, page string, status int, msg string, data gin.H) {
	if wantsJSON(c) {
		c.JSON(status, gin.H{"error": msg})
		return
	}
	view := gin.H{"PathPrefix": h.pathPrefix, "Error": msg}
	for k, v := range data {
		view[k] = v
	}
	c.HTML(status, page, view)
}

func (h *AuthHandler) startSession(c *gin.Context, session *models.Session) {
	c.SetCookie(
		middleware.SessionCookieName,
		session.ID,
		int(session.ExpiresAt.Sub(session.CreatedAt).Seconds()),
		"/",
		"",
		h.secureCookie,
		true,
	)
}

// Register creates an account and logs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, "register.html", http.StatusBadRequest, "E-posta, şifre ve ad gerekli.", nil)
		return
	}

	req := &models.RegisterRequest{
		Email:    form.Email,
		Password: form.Password,
		Name:     form.Name,
		Company:  form.Company,
	}
	keep := gin.H{"Email": form.Email, "Name": form.Name, "Company": form.Company}
	if err := validation.ValidateRegistration(req); err != nil {
		if wantsJSON(c) {
			invalidInput(c, err)
			return
		}
		h.fail(c, "register.html", http.StatusBadRequest, err.Error(), keep)
		return
	}

	user, err := h.authService.Register(req)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			h.fail(c, "register.html", http.StatusConflict, "Bu e-posta ile kayıtlı bir hesap var.", keep)
			return
		}
		h.fail(c, "register.html", http.StatusInternalServerError, "Hesap oluşturulamadı.", keep)
		return
	}

	session, err := h.authService.CreateSession(user.ID)
	if err != nil {
		h.fail(c, "register.html", http.StatusInternalServerError, "Oturum açılamadı.", keep)
		return
	}
	h.auditService.LogAuth(user, "register", c.ClientIP(), c.GetHeader("User-Agent"))
	h.startSession(c, session)

	if wantsJSON(c) {
		c.JSON(http.StatusCreated, user)
		return
	}
	c.Redirect(http.StatusFound, h.pathPrefix+"/")
}

// Login checks credentials and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, "login.html", http.StatusBadRequest, "E-posta ve şifre gerekli.", nil)
		return
	}

	session, user, err := h.authService.Login(form.Email, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			_ = h.auditService.Log(services.AuditLog{
				Email:        form.Email,
				Action:       "login_failed",
				ResourceType: "auth",
				IPAddress:    c.ClientIP(),
				UserAgent:    c.GetHeader("User-Agent"),
			})
			h.fail(c, "login.html", http.StatusUnauthorized, "E-posta veya şifre hatalı.", gin.H{"Email": form.Email})
			return
		}
		h.fail(c, "login.html", http.StatusInternalServerError, "Oturum açılamadı.", gin.H{"Email": form.Email})
		return
	}

	h.auditService.LogAuth(user, "login_success", c.ClientIP(), c.GetHeader("User-Agent"))
	h.startSession(c, session)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{
			"message":    "login successful",
			"expires_at": session.ExpiresAt,
			"user":       user,
		})
		return
	}
	c.Redirect(http.StatusFound, h.pathPrefix+"/")
}

// Logout ends the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if user, ok := middleware.CurrentUser(c); ok {
		h.auditService.LogAuth(user, "logout", c.ClientIP(), c.GetHeader("User-Agent"))
	}

	sessionID, err := c.Cookie(middleware.SessionCookieName)
	if err == nil && sessionID != "" {
		_ = h.authService.Logout(sessionID)
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.secureCookie, true)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
		return
	}
	c.Redirect(http.StatusFound, h.pathPrefix+"/login")
}

// Me returns the current user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user)
}
