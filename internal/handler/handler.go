package handler

import (
	"net/http"

	"github.com/calendargpt/calendargpt/internal/config"
	"github.com/calendargpt/calendargpt/internal/repository"
	"github.com/calendargpt/calendargpt/internal/service"
	"github.com/gin-gonic/gin"
)

// Handler holds all dependencies needed by the API handlers.
type Handler struct {
	cfg      *config.Config
	ai       *service.AIService
	executor *service.Executor
	calendar *service.CalendarService
	tasks    *service.TasksService
	extract  *service.ExtractService
	creds    *repository.CredentialRepo
	history  *repository.HistoryRepo
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Cfg      *config.Config
	AI       *service.AIService
	Executor *service.Executor
	Calendar *service.CalendarService
	Tasks    *service.TasksService
	Extract  *service.ExtractService
	Creds    *repository.CredentialRepo
	History  *repository.HistoryRepo
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		cfg:      deps.Cfg,
		ai:       deps.AI,
		executor: deps.Executor,
		calendar: deps.Calendar,
		tasks:    deps.Tasks,
		extract:  deps.Extract,
		creds:    deps.Creds,
		history:  deps.History,
	}
}

// Register wires all routes onto the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.Home)

	api := r.Group("/api")
	{
		api.GET("/auth/check-credentials", h.CheckCredentials)
		api.POST("/auth/credentials", h.StoreCredentials)
		api.POST("/auth/sign-out", h.SignOut)

		api.POST("/ai/init", h.InitAI)
		api.POST("/ai/process", h.ProcessText)

		api.POST("/file/extract", h.ExtractFile)

		api.POST("/calendar/events", h.CreateEvent)
		api.GET("/calendar/events", h.ListEvents)
		api.DELETE("/calendar/events/:id", h.DeleteEvent)

		api.POST("/tasks", h.CreateTask)
		api.GET("/tasks", h.ListTasks)
		api.DELETE("/tasks/:id", h.DeleteTask)
	}
}

// Home reports that the service is up.
func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "CalendarGPT API is running!"})
}
