package http

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/brickstock/internal/entities"
)

// Command is the closed set of actions the dispatcher understands.
type Command string

const (
	CommandImportSet                Command = "import-set"
	CommandCreateParameterTemplates Command = "create_part_parameter_templates"
	CommandClearMetadata            Command = "clear_metadata"
)

// ParseCommand maps a raw command string onto the closed enum.
func ParseCommand(raw string) (Command, bool) {
	switch Command(raw) {
	case CommandImportSet, CommandCreateParameterTemplates, CommandClearMetadata:
		return Command(raw), true
	default:
		return "", false
	}
}

// ImportSubmitter enqueues a deferred set import. *tasks.Client implements it.
type ImportSubmitter interface {
	SubmitSetImport(num string, categoryID *uint) error
}

// MaintenanceService runs the synchronous housekeeping commands.
type MaintenanceService interface {
	CreatePartParameterTemplates() (int, error)
	ClearMetadata() (int64, error)
}

// CategoryResolver looks up the configured default category.
type CategoryResolver interface {
	GetCategoryByID(id uint) (*entities.Category, error)
}

// DefaultCategorySource supplies the configured default category id.
// *settingsstore.SettingsStore implements it.
type DefaultCategorySource interface {
	GetDefaultCategoryID() *uint
}

// ActionController is the single external entry point for commands.
// The import itself runs out-of-band: the response to the caller
// precedes its completion, and its outcome is only observable through
// the imported records (or the task queue's own failure reporting).
type ActionController struct {
	submitter   ImportSubmitter
	maintenance MaintenanceService
	categories  CategoryResolver
	settings    DefaultCategorySource
	version     string

	mu     sync.RWMutex
	result gin.H
}

// NewActionController creates a new ActionController.
func NewActionController(submitter ImportSubmitter, maintenance MaintenanceService, categories CategoryResolver, settings DefaultCategorySource, version string) *ActionController {
	return &ActionController{
		submitter:   submitter,
		maintenance: maintenance,
		categories:  categories,
		settings:    settings,
		version:     version,
		result:      gin.H{},
	}
}

// ActionRequest is the request body for POST /api/action.
type ActionRequest struct {
	Command string `json:"command" binding:"required"`
	Num     string `json:"num"`
}

// PerformAction handles POST /api/action. Maintenance commands run
// synchronously; import-set is dispatched to the task queue and the
// response returns before the import starts.
func (ac *ActionController) PerformAction(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	command, ok := ParseCommand(req.Command)
	if !ok {
		ac.setResult(gin.H{"error": "unknown command: " + req.Command})
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown command: " + req.Command})
		return
	}

	switch command {
	case CommandImportSet:
		ac.importSet(c, req.Num)

	case CommandCreateParameterTemplates:
		created, err := ac.maintenance.CreatePartParameterTemplates()
		if err != nil {
			ac.setResult(gin.H{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ac.setResult(gin.H{"templates_created": created})
		c.JSON(http.StatusOK, gin.H{"templates_created": created})

	case CommandClearMetadata:
		cleared, err := ac.maintenance.ClearMetadata()
		if err != nil {
			ac.setResult(gin.H{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ac.setResult(gin.H{"metadata_cleared": cleared})
		c.JSON(http.StatusOK, gin.H{"metadata_cleared": cleared})
	}
}

func (ac *ActionController) importSet(c *gin.Context, num string) {
	if num == "" {
		ac.setResult(gin.H{"error": "num is required for import-set"})
		c.JSON(http.StatusBadRequest, gin.H{"error": "num is required for import-set"})
		return
	}

	categoryID := ac.resolveDefaultCategory()

	if err := ac.submitter.SubmitSetImport(num, categoryID); err != nil {
		log.Printf("Failed to enqueue set import: %v", err)
		ac.setResult(gin.H{"error": "failed to enqueue set import"})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue set import"})
		return
	}

	result := gin.H{
		"status":    "queued",
		"set":       num,
		"queued_at": time.Now().UTC().Format(time.RFC3339),
	}
	ac.setResult(result)
	c.JSON(http.StatusAccepted, result)
}

// resolveDefaultCategory maps the configured default category id to an
// existing record. Unset ids, and ids that no longer resolve, both fall
// back to no parent rather than failing the import.
func (ac *ActionController) resolveDefaultCategory() *uint {
	id := ac.settings.GetDefaultCategoryID()
	if id == nil {
		return nil
	}

	category, err := ac.categories.GetCategoryByID(*id)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("Failed to resolve default category %d: %v", *id, err)
		}
		return nil
	}
	return &category.ID
}

// GetInfo handles GET /api/action/info.
func (ac *ActionController) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "brickstock",
		"version": ac.version,
		"commands": []Command{
			CommandImportSet,
			CommandCreateParameterTemplates,
			CommandClearMetadata,
		},
	})
}

// GetResult handles GET /api/action/result. Returns the outcome of the
// last dispatched command; overwritten on every dispatch.
func (ac *ActionController) GetResult(c *gin.Context) {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	c.JSON(http.StatusOK, ac.result)
}

func (ac *ActionController) setResult(result gin.H) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.result = result
}

// LastResult returns a copy of the last command result. Used in tests.
func (ac *ActionController) LastResult() map[string]any {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	out := make(map[string]any, len(ac.result))
	for k, v := range ac.result {
		out[k] = v
	}
	return out
}
