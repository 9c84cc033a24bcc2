package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sukryu/labsite/pkg/apis/auth/v1alpha1"
	"github.com/sukryu/labsite/pkg/auth"
	"github.com/sukryu/labsite/pkg/controllers"
	"github.com/sukryu/labsite/pkg/errors"
	"github.com/sukryu/labsite/pkg/middleware"
)

// AuthHandler serves token sign-in and account management for API clients.
type AuthHandler struct {
	authn    auth.Authenticator
	accounts controllers.AccountController
}

func NewAuthHandler(authn auth.Authenticator, accounts controllers.AccountController) *AuthHandler {
	return &AuthHandler{
		authn:    authn,
		accounts: accounts,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.ErrInvalidInput.WithReason(err.Error()))
		return
	}

	session, err := h.authn.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Email:     session.Email,
		Roles:     session.Roles,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session, err := middleware.SessionFrom(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.authn.SignOut(c.Request.Context(), session); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	session, err := middleware.SessionFrom(c)
	if err != nil {
		c.Error(err)
		return
	}

	account, err := h.accounts.GetAccount(c.Request.Context(), session.AccountName)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, account)
}

type createAccountRequest struct {
	Email    string   `json:"email" binding:"required"`
	Password string   `json:"password" binding:"required"`
	Roles    []string `json:"roles"`
}

func (h *AuthHandler) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.ErrInvalidInput.WithReason(err.Error()))
		return
	}
	if len(req.Roles) == 0 {
		req.Roles = []string{v1alpha1.RoleEditor}
	}

	account, err := h.accounts.CreateAccount(c.Request.Context(), req.Email, req.Password, req.Roles)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *AuthHandler) GetAccount(c *gin.Context) {
	account, err := h.accounts.GetAccount(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AuthHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accounts.ListAccounts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	name := c.Param("name")
	if session, err := middleware.SessionFrom(c); err == nil && session.AccountName == name {
		c.Error(errors.ErrInvalidRequest.WithReason("cannot delete the signed-in account"))
		return
	}

	if err := h.accounts.DeleteAccount(c.Request.Context(), name); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangePassword changes the password of the signed-in account.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	session, err := middleware.SessionFrom(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.ErrInvalidInput.WithReason(err.Error()))
		return
	}

	if err := h.accounts.ChangePassword(c.Request.Context(), session.AccountName, req.OldPassword, req.NewPassword); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

type assignRolesRequest struct {
	Roles []string `json:"roles" binding:"required"`
}

func (h *AuthHandler) AssignRoles(c *gin.Context) {
	var req assignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.ErrInvalidInput.WithReason(err.Error()))
		return
	}

	if err := h.accounts.AssignRoles(c.Request.Context(), c.Param("name"), req.Roles); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *AuthHandler) SetActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.ErrInvalidInput.WithReason(err.Error()))
		return
	}

	if err := h.accounts.SetActive(c.Request.Context(), c.Param("name"), *req.Active); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
