package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/halcyonlabs/punchlist/internal/apperr"
	"github.com/halcyonlabs/punchlist/internal/notes"
	"github.com/halcyonlabs/punchlist/internal/todos"
	"github.com/halcyonlabs/punchlist/internal/users"
	"go.uber.org/zap"
)

const principalContextKey = "punchlist_principal"

var (
	errMissingPrincipalResolver = errors.New("principal resolver dependency required")
	errMissingUsersService      = errors.New("users service dependency required")
	errMissingTodosService      = errors.New("todos service dependency required")
	errMissingNotesService      = errors.New("notes service dependency required")
	errInvalidAuthorization     = errors.New("authorization header missing or invalid")
)

// PrincipalResolver issues bearer tokens at login/registration and resolves
// them back to a principal on every authenticated request.
type PrincipalResolver interface {
	Issue(principal string) (string, int64, error)
	Resolve(token string) (string, error)
}

// Dependencies wires the HTTP adapter to the services behind it.
type Dependencies struct {
	Resolver PrincipalResolver
	Users    *users.Service
	Todos    *todos.Service
	Notes    *notes.Service
	Logger   *zap.Logger
}

// NewHTTPHandler builds the gin router mapping HTTP verbs and paths onto the
// CRUD services and service errors onto status codes.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Resolver == nil {
		return nil, errMissingPrincipalResolver
	}
	if deps.Users == nil {
		return nil, errMissingUsersService
	}
	if deps.Todos == nil {
		return nil, errMissingTodosService
	}
	if deps.Notes == nil {
		return nil, errMissingNotesService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		resolver: deps.Resolver,
		users:    deps.Users,
		todos:    deps.Todos,
		notes:    deps.Notes,
		logger:   logger,
	}

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Punchlist backend is running!")
	})
	router.POST("/auth/signup", handler.handleSignup)
	router.POST("/auth/login", handler.handleLogin)

	protected := router.Group("/")
	protected.Use(handler.authorizeRequest)
	protected.GET("/todos", handler.handleListTodos)
	protected.POST("/todos", handler.handleCreateTodo)
	protected.GET("/todos/:id", handler.handleGetTodo)
	protected.PUT("/todos/:id", handler.handleUpdateTodo)
	protected.PATCH("/todos/:id", handler.handlePatchTodo)
	protected.DELETE("/todos/:id", handler.handleDeleteTodo)
	protected.GET("/notes", handler.handleListNotes)
	protected.POST("/notes", handler.handleCreateNote)
	protected.GET("/notes/:id", handler.handleGetNote)
	protected.PUT("/notes/:id", handler.handleUpdateNote)
	protected.PATCH("/notes/:id", handler.handlePatchNote)
	protected.DELETE("/notes/:id", handler.handleDeleteNote)

	return router, nil
}

type httpHandler struct {
	resolver PrincipalResolver
	users    *users.Service
	todos    *todos.Service
	notes    *notes.Service
	logger   *zap.Logger
}

func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	principal, err := h.resolver.Resolve(token)
	if err != nil {
		h.logger.Warn("token resolution failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(principalContextKey, principal)
	c.Next()
}

func (h *httpHandler) principal(c *gin.Context) (string, bool) {
	principal := c.GetString(principalContextKey)
	if principal == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return principal, true
}

// renderError maps service failures onto response statuses 1:1. Storage and
// unexpected failures surface as an opaque 500 with the detail logged.
func (h *httpHandler) renderError(c *gin.Context, err error) {
	if validationErr, ok := apperr.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"field":   validationErr.Field,
			"message": validationErr.Message,
		})
		return
	}
	switch {
	case errors.Is(err, apperr.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "email_already_registered"})
	case errors.Is(err, apperr.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
