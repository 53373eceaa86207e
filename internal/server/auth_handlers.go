package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/halcyonlabs/punchlist/internal/users"
	"go.uber.org/zap"
)

type signupRequestPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequestPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authUserPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponsePayload struct {
	User  authUserPayload `json:"user"`
	Token string          `json:"token"`
}

func (h *httpHandler) handleSignup(c *gin.Context) {
	var request signupRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	credential, err := h.users.Register(c.Request.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response, err := h.authResponse(credential)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_issue_failed"})
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (h *httpHandler) handleLogin(c *gin.Context) {
	var request loginRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	credential, err := h.users.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response, err := h.authResponse(credential)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_issue_failed"})
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *httpHandler) authResponse(credential users.Credential) (authResponsePayload, error) {
	token, _, err := h.resolver.Issue(credential.ID)
	if err != nil {
		return authResponsePayload{}, err
	}
	return authResponsePayload{
		User: authUserPayload{
			ID:    credential.ID,
			Name:  credential.Name,
			Email: credential.Email,
		},
		Token: token,
	}, nil
}
