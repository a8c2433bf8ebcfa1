package handlers

import (
	"net/http"
	"strings"

	"github.com/LankyMoose/poller.pro/internal/models"
	"github.com/LankyMoose/poller.pro/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	parts := strings.Split(req.Email, "@")
	if len(parts) != 2 || parts[0] == "" {
		jsonError(c, http.StatusBadRequest, "invalid email")
		return
	}
	if len(req.Password) < 6 {
		jsonError(c, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := models.User{
		Name:     parts[0],
		Email:    req.Email,
		Password: hash,
	}
	if err := h.db.Create(&user).Error; err != nil {
		jsonError(c, http.StatusConflict, "email already registered")
		return
	}

	h.setSessionUser(c, user.ID)
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		jsonError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		jsonError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if user.Disabled {
		jsonError(c, http.StatusForbidden, "account disabled")
		return
	}

	h.setSessionUser(c, user.ID)
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Status(http.StatusOK)
}

func (h *AuthHandler) setSessionUser(c *gin.Context, userID uint) {
	session := sessions.Default(c)
	session.Set("user_id", userID)
	_ = session.Save()
}
