// Package httpapi exposes the combat engine over REST. Mutating routes are
// GM commands; the read routes take a role query parameter and return the
// matching projection.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	rberr "github.com/rollbound/rollbound/internal/errors"
	"github.com/rollbound/rollbound/internal/services/engine"
	"github.com/rollbound/rollbound/internal/view"
)

// Handler serves the combat REST API
type Handler struct {
	engine engine.Service
}

// HandlerConfig holds configuration for the handler
type HandlerConfig struct {
	Engine engine.Service
}

// NewHandler creates a new REST handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg.Engine == nil {
		panic("engine service is required")
	}
	return &Handler{engine: cfg.Engine}
}

// RegisterRoutes mounts the API on the router
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	games := r.Group("/games/:gameID")
	games.POST("/combat", h.startCombat)
	games.GET("/combat", h.getActiveCombat)

	combats := r.Group("/combats/:combatID")
	combats.GET("", h.getCombat)
	combats.POST("/end", h.endCombat)
	combats.POST("/combatants", h.addCombatant)
	combats.DELETE("/combatants/:characterID", h.removeCombatant)
	combats.POST("/adversaries", h.addAdversary)
	combats.PATCH("/adversaries/:adversaryID", h.updateAdversary)
	combats.DELETE("/adversaries/:adversaryID", h.removeAdversary)
	combats.POST("/participants/:participantID/move", h.move)
	combats.POST("/participants/:participantID/initiative", h.rollInitiative)
	combats.POST("/attacks", h.attack)
	combats.POST("/turn", h.advanceTurn)
}

const idempotencyHeader = "Idempotency-Key"

// roleFromQuery parses the viewer role; players are the default so a
// missing parameter can never leak GM data
func roleFromQuery(c *gin.Context) (view.Role, bool) {
	switch c.DefaultQuery("role", string(view.RolePlayer)) {
	case string(view.RoleGM):
		return view.RoleGM, true
	case string(view.RolePlayer):
		return view.RolePlayer, true
	default:
		writeError(c, rberr.Validation("role must be 'gm' or 'player'"))
		return "", false
	}
}

// writeError maps coded errors onto HTTP statuses
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch rberr.GetCode(err) {
	case rberr.CodeValidation:
		status = http.StatusBadRequest
	case rberr.CodeNotFound:
		status = http.StatusNotFound
	case rberr.CodeStateConflict, rberr.CodeAlreadyExists:
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{
		"code":  string(rberr.GetCode(err)),
		"error": err.Error(),
	})
}
