package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uslng/membergate/common"
	"github.com/uslng/membergate/config"
	"github.com/uslng/membergate/service"
	"github.com/uslng/membergate/verification"
)

var gate *verification.Engine

func Init(g *verification.Engine) {
	gate = g
}

// TokenAuth guards the admin API. An unset api-token rejects everything;
// the pending set must never leak to unauthorized callers.
func TokenAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := config.GetConfig().ApiToken
		if token == "" || ctx.GetHeader("X-Api-Token") != token {
			ctx.AbortWithStatus(http.StatusForbidden)
			return
		}
		ctx.Next()
	}
}

// GetPending lists the pending verifications of a group. Challenge codes
// are never exposed.
func GetPending(ctx *gin.Context) {
	identifier := ctx.Param("GroupIdentifier")
	var list []gin.H
	for _, p := range gate.PendingByGroupIdentifier(identifier) {
		remaining := gate.Timeout() - p.Age(time.Now())
		if remaining < 0 {
			remaining = 0
		}
		list = append(list, gin.H{
			"UserID":           p.UserID,
			"CreatedAt":        p.CreatedAt,
			"RemainingSeconds": int(remaining.Seconds()),
		})
	}
	common.ResponseSuccess(ctx, gin.H{
		"Pending": list,
	})
}

// GetJournal lists the most recent terminal outcomes of a group.
func GetJournal(ctx *gin.Context) {
	identifier := ctx.Param("GroupIdentifier")
	outcomes, err := service.ListOutcomesByIdentifier(identifier, 100)
	if err != nil {
		common.ResponseError(ctx, err)
		return
	}
	var list []gin.H
	for _, o := range outcomes {
		list = append(list, gin.H{
			"UserID":     o.UserID,
			"Kind":       o.Kind,
			"CreatedAt":  o.CreatedAt,
			"ResolvedAt": o.ResolvedAt,
		})
	}
	common.ResponseSuccess(ctx, gin.H{
		"Outcomes": list,
	})
}
