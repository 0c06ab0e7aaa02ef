package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rollbound/rollbound/internal/domain/combat"
	rberr "github.com/rollbound/rollbound/internal/errors"
	"github.com/rollbound/rollbound/internal/services/engine"
)

type startCombatRequest struct {
	GMID     string        `json:"gm_id" binding:"required"`
	GridSize int           `json:"grid_size"`
	Rules    *combat.Rules `json:"rules"`
}

type addCombatantRequest struct {
	CharacterID string `json:"character_id" binding:"required"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
}

type addAdversaryRequest struct {
	Name        string `json:"name" binding:"required"`
	MaxLife     int    `json:"max_life" binding:"required"`
	Reflex      int    `json:"reflex" binding:"required"`
	Damage      string `json:"damage" binding:"required"`
	CloseCombat int    `json:"close_combat"`
	Dodge       int    `json:"dodge"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
}

type updateAdversaryRequest struct {
	Name        *string `json:"name"`
	MaxLife     *int    `json:"max_life"`
	CurrentLife *int    `json:"current_life"`
	Reflex      *int    `json:"reflex"`
	CloseCombat *int    `json:"close_combat"`
	Dodge       *int    `json:"dodge"`
	Damage      *string `json:"damage"`
}

type moveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type attackRequest struct {
	AttackerID string `json:"attacker_id" binding:"required"`
	DefenderID string `json:"defender_id" binding:"required"`
}

func (h *Handler) startCombat(c *gin.Context) {
	var req startCombatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, rberr.WrapWithCode(err, rberr.CodeValidation, "invalid request body"))
		return
	}

	cbt, err := h.engine.StartCombat(c.Request.Context(), &engine.StartCombatInput{
		GameID:         c.Param("gameID"),
		GMID:           req.GMID,
		GridSize:       req.GridSize,
		Rules:          req.Rules,
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cbt)
}

func (h *Handler) getActiveCombat(c *gin.Context) {
	role, ok := roleFromQuery(c)
	if !ok {
		return
	}

	v, err := h.engine.GetActiveCombat(c.Request.Context(), c.Param("gameID"), role)
	if err != nil {
		writeError(c, err)
		return
	}
	if v == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, v)
}

func (h *Handler) getCombat(c *gin.Context) {
	role, ok := roleFromQuery(c)
	if !ok {
		return
	}

	v, err := h.engine.GetCombat(c.Request.Context(), c.Param("combatID"), role)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, v)
}

func (h *Handler) endCombat(c *gin.Context) {
	err := h.engine.EndCombat(c.Request.Context(), &engine.EndCombatInput{
		CombatID:       c.Param("combatID"),
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) addCombatant(c *gin.Context) {
	var req addCombatantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, rberr.WrapWithCode(err, rberr.CodeValidation, "invalid request body"))
		return
	}

	combatant, err := h.engine.AddCombatant(c.Request.Context(), &engine.AddCombatantInput{
		CombatID:       c.Param("combatID"),
		CharacterID:    req.CharacterID,
		X:              req.X,
		Y:              req.Y,
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, combatant)
}

func (h *Handler) removeCombatant(c *gin.Context) {
	err := h.engine.RemoveCombatant(c.Request.Context(), &engine.RemoveCombatantInput{
		CombatID:       c.Param("combatID"),
		CharacterID:    c.Param("characterID"),
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) addAdversary(c *gin.Context) {
	var req addAdversaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, rberr.WrapWithCode(err, rberr.CodeValidation, "invalid request body"))
		return
	}

	adversary, err := h.engine.AddAdversary(c.Request.Context(), &engine.AddAdversaryInput{
		CombatID:       c.Param("combatID"),
		Name:           req.Name,
		MaxLife:        req.MaxLife,
		Reflex:         req.Reflex,
		Damage:         req.Damage,
		CloseCombat:    req.CloseCombat,
		Dodge:          req.Dodge,
		X:              req.X,
		Y:              req.Y,
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, adversary)
}

func (h *Handler) updateAdversary(c *gin.Context) {
	var req updateAdversaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, rberr.WrapWithCode(err, rberr.CodeValidation, "invalid request body"))
		return
	}

	adversary, err := h.engine.UpdateAdversary(c.Request.Context(), &engine.UpdateAdversaryInput{
		CombatID:       c.Param("combatID"),
		AdversaryID:    c.Param("adversaryID"),
		Name:           req.Name,
		MaxLife:        req.MaxLife,
		CurrentLife:    req.CurrentLife,
		Reflex:         req.Reflex,
		CloseCombat:    req.CloseCombat,
		Dodge:          req.Dodge,
		Damage:         req.Damage,
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, adversary)
}

func (h *Handler) removeAdversary(c *gin.Context) {
	err := h.engine.RemoveAdversary(c.Request.Context(), &engine.RemoveAdversaryInput{
		CombatID:       c.Param("combatID"),
		AdversaryID:    c.Param("adversaryID"),
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, rberr.WrapWithCode(err, rberr.CodeValidation, "invalid request body"))
		return
	}

	err := h.engine.Move(c.Request.Context(), &engine.MoveInput{
		CombatID:       c.Param("combatID"),
		ParticipantID:  c.Param("participantID"),
		X:              req.X,
		Y:              req.Y,
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) rollInitiative(c *gin.Context) {
	initiative, err := h.engine.RollInitiative(c.Request.Context(), &engine.RollInitiativeInput{
		CombatID:       c.Param("combatID"),
		ParticipantID:  c.Param("participantID"),
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, initiative)
}

func (h *Handler) attack(c *gin.Context) {
	var req attackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, rberr.WrapWithCode(err, rberr.CodeValidation, "invalid request body"))
		return
	}

	result, err := h.engine.Attack(c.Request.Context(), &engine.AttackInput{
		CombatID:       c.Param("combatID"),
		AttackerID:     req.AttackerID,
		DefenderID:     req.DefenderID,
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) advanceTurn(c *gin.Context) {
	state, err := h.engine.AdvanceTurn(c.Request.Context(), &engine.AdvanceTurnInput{
		CombatID:       c.Param("combatID"),
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}
