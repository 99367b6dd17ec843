package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"user_center/internal/apperr"
	"user_center/internal/metrics"
	"user_center/internal/middleware"
	"user_center/internal/model"
	"user_center/internal/service"
	"user_center/internal/session"

	"github.com/gin-gonic/gin"
)

// UserHandler handles HTTP requests for users
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register handles POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		writeError(c, apperr.Wrap(apperr.KindRequest, "invalid request body", err))
		return
	}

	userID, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		writeError(c, err)
		return
	}

	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusCreated, gin.H{"user_id": userID})
}

// Login handles POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		writeError(c, apperr.Wrap(apperr.KindRequest, "invalid request body", err))
		return
	}

	// Login happens before any token exists, so the session is created here
	// rather than by the auth middleware.
	sess := session.New()
	user, token, err := h.userService.Login(c.Request.Context(), req.Account, req.Password, sess)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		writeError(c, err)
		return
	}
	c.Set(middleware.AuthSessionKey, sess)

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Update handles PATCH /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, apperr.New(apperr.KindParam, "invalid user id"))
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Wrap(apperr.KindRequest, "invalid request body", err))
		return
	}
	req.ID = id

	user, err := h.userService.UpdateUser(c.Request.Context(), &req, sessionFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetByID handles GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, apperr.New(apperr.KindParam, "invalid user id"))
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Search handles GET /users/search
func (h *UserHandler) Search(c *gin.Context) {
	name := c.Query("name")
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil {
		writeError(c, apperr.New(apperr.KindParam, "invalid page parameter"))
		return
	}
	size, err := strconv.ParseInt(c.DefaultQuery("size", "10"), 10, 64)
	if err != nil {
		writeError(c, apperr.New(apperr.KindParam, "invalid size parameter"))
		return
	}

	result, err := h.userService.Search(c.Request.Context(), name, page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// sessionFromContext pulls the middleware-seeded session. Returning nil on
// a miss lets the service report the missing login state itself.
func sessionFromContext(c *gin.Context) *session.Session {
	val, exists := c.Get(middleware.AuthSessionKey)
	if !exists {
		return nil
	}
	sess, ok := val.(*session.Session)
	if !ok {
		return nil
	}
	return sess
}

// writeError translates a service error into an HTTP response carrying
// both the message and the machine-readable kind, so clients can tell
// kinds apart even when they share a status (auth vs invalid_state on
// 401). Internal details are logged, never returned to the caller.
func writeError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Printf("ERROR: unclassified error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": apperr.KindSystem})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindRequest, apperr.KindParam:
		status = http.StatusBadRequest
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindAuth, apperr.KindInvalidState:
		status = http.StatusUnauthorized
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindPermissionDenied:
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		log.Printf("ERROR: %v", err)
		c.JSON(status, gin.H{"error": "Internal server error", "code": apperr.KindSystem})
		return
	}
	c.JSON(status, gin.H{"error": appErr.Message, "code": appErr.Kind})
}

// RegisterUserRoutes sets up the routes for user operations
func RegisterUserRoutes(rg *gin.RouterGroup, h *UserHandler, authMW, adminMW gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.GET("/search", h.Search)
		users.PATCH("/:id", authMW, h.Update)
		users.GET("/:id", authMW, adminMW, h.GetByID)
	}
}
