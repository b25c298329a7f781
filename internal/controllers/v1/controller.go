// Package v1 implements the v1 HTTP API.
package v1

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/mirrorbank/backend/internal/notify"
	"github.com/rs/zerolog/log"
)

// Controller holds the configuration of the budget and recurring engines
// and the notifier for budget alerts.
type Controller struct {
	DefaultOwner uuid.UUID               // Owner for requests without an X-Owner-ID header
	Policy       models.AlertPolicy      // Defaults to models.DefaultAlertPolicy
	Recurring    models.RecurringOptions // Defaults to models.DefaultRecurringOptions
	Notifier     notify.Notifier
	Now          func() time.Time // Defaults to time.Now
}

// RegisterRoutes registers all resource routes on the group. The group
// must resolve the owner of the request, see router.OwnerMiddleware.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	co.RegisterAccountRoutes(r.Group("/accounts"))
	co.RegisterTransactionRoutes(r.Group("/transactions"))
	co.RegisterBudgetRoutes(r.Group("/budgets"))
	co.RegisterGoalRoutes(r.Group("/goals"))
	co.RegisterAnalyticsRoutes(r.Group("/analytics"))
	co.RegisterRecommendationRoutes(r.Group("/recommendations"))
	co.RegisterCategoryRuleRoutes(r.Group("/category-rules"))
}

func (co Controller) now() time.Time {
	if co.Now == nil {
		return time.Now().UTC()
	}
	return co.Now().UTC()
}

func (co Controller) policy() models.AlertPolicy {
	if co.Policy.Warning.IsZero() && co.Policy.Exceeded.IsZero() {
		return models.DefaultAlertPolicy
	}
	return co.Policy
}

// owner returns the owner of the request.
func owner(c *gin.Context) uuid.UUID {
	return c.MustGet(string(models.DBContextOwner)).(uuid.UUID)
}

// evaluate runs the budget engine for each transaction state and notifies
// about emitted alerts.
//
// The write that triggered the evaluation has already succeeded, so
// failures are logged and not returned to the client.
func (co Controller) evaluate(c *gin.Context, transactions ...models.Transaction) {
	for _, t := range transactions {
		alerts, err := models.EvaluateTransaction(models.DB, co.policy(), t)
		if err != nil {
			log.Error().Str("request-id", requestid.Get(c)).Str("transaction", t.ID.String()).Msgf("budget evaluation failed: %v", err)
		}

		co.notify(c, alerts)
	}
}

// evaluateBudget runs the budget engine for a single budget.
func (co Controller) evaluateBudget(c *gin.Context, budget models.Budget) {
	alert, err := models.EvaluateBudget(models.DB, co.policy(), budget)
	if err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Str("budget", budget.ID.String()).Msgf("budget evaluation failed: %v", err)
		return
	}

	if alert != nil {
		co.notify(c, []models.BudgetAlert{*alert})
	}
}

// evaluateOwner runs the budget engine for all budgets of the owner.
func (co Controller) evaluateOwner(c *gin.Context) {
	alerts, err := models.EvaluateBudgets(models.DB, co.policy(), owner(c))
	if err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Str("owner", owner(c).String()).Msgf("budget evaluation failed: %v", err)
	}

	co.notify(c, alerts)
}

func (co Controller) notify(c *gin.Context, alerts []models.BudgetAlert) {
	for _, alert := range alerts {
		alertsEmitted.WithLabelValues(string(alert.Level)).Inc()

		if co.Notifier == nil {
			continue
		}

		if err := co.Notifier.Notify(c.Request.Context(), alert); err != nil {
			notificationFailures.Inc()
			log.Error().Str("request-id", requestid.Get(c)).Str("alert", alert.ID.String()).Msgf("alert notification failed: %v", err)
		}
	}
}
