package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

type turnRequest struct {
	Cell *int `json:"cell" binding:"required"`
}

type boardRequest struct {
	Board      []string `json:"board" binding:"required"`
	DepthLimit *int     `json:"depth_limit"`
}

type outcomeResponse struct {
	Outcome  tictactoe.Outcome `json:"outcome"`
	Finished bool              `json:"finished"`
}

type bestMoveResponse struct {
	Cell       int `json:"cell"`
	DepthLimit int `json:"depth_limit"`
}

func (that *Server) createPlayer(c *gin.Context) {
	player, err := that.manager.GetOrCreatePlayer(c.Request.Context(), "")
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, player)
}

func (that *Server) getGame(c *gin.Context) {
	game, err := that.manager.GetGameByPlayerID(c.Request.Context(), c.Param("id"))
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (that *Server) newGame(c *gin.Context) {
	game, err := that.manager.GetOrCreateGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

// makeTurn - applies the human's turn. The bot answers later, so the returned
// game usually has the bot to move.
func (that *Server) makeTurn(c *gin.Context) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	game, err := that.manager.MakeTurn(c.Request.Context(), c.Param("id"), *req.Cell)
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (that *Server) restartGame(c *gin.Context) {
	game, err := that.manager.RestartGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (that *Server) evaluateOutcome(c *gin.Context) {
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	outcome, err := tictactoe.EvaluateOutcome(req.Board)
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcomeResponse{
		Outcome:  outcome,
		Finished: outcome != tictactoe.OutcomeNone,
	})
}

// bestMove - cell is -1 when the board is full.
func (that *Server) bestMove(c *gin.Context) {
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	depthLimit := that.depthLimit
	if req.DepthLimit != nil {
		depthLimit = *req.DepthLimit
	}

	cell, err := tictactoe.SelectBestMove(req.Board, depthLimit)
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, bestMoveResponse{Cell: cell, DepthLimit: depthLimit})
}

// endGame - deletes the player's game; the player may start a new one.
func (that *Server) endGame(c *gin.Context) {
	if err := that.manager.EndGame(c.Request.Context(), c.Param("id")); err != nil {
		that.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
