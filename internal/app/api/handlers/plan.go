package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	mw "github.com/suniorfit/backend/internal/app/api/middleware"
	"github.com/suniorfit/backend/internal/app/service/plan"
	"github.com/suniorfit/backend/pkg/response"
)

func planIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid plan id"))
		return 0, false
	}
	return id, true
}

func writePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, plan.ErrPurchaseNotFound), errors.Is(err, plan.ErrPlanNotFound):
		c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
	case errors.Is(err, plan.ErrNotPurchaseOwner), errors.Is(err, plan.ErrNotPlanOwner):
		c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
	case errors.Is(err, plan.ErrPurchaseNotPending):
		c.JSON(http.StatusConflict, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
	default:
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
	}
}

// @Summary      Create plan from purchase
// @Description  Materializes a pending purchase into a concrete plan and assigns it to the trainee atomically.
// @Tags         Plan
// @Accept       json
// @Produce      json
// @Param        request body plan.CreatePlanRequest true "Purchase id, plan content and workout/meal selections"
// @Success      200  {object}  handlers.RespPlan
// @Router       /api/v1/plans [post]
func ApiCreatePlan(svc *plan.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		coachID, ok := mw.CoachProfileID(c)
		if !ok {
			c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeError, "coach profile required"))
			return
		}

		var req plan.CreatePlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if !req.Type.Valid() {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid plan type"))
			return
		}

		p, err := svc.CreateFromPurchase(c.Request.Context(), coachID, &req)
		if err != nil {
			writePlanError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      Get plan
// @Description  Returns one plan with its workouts and meals.
// @Tags         Plan
// @Produce      json
// @Param        id path int true "Plan id"
// @Success      200  {object}  handlers.RespPlan
// @Router       /api/v1/plans/{id} [get]
func ApiGetPlan(svc *plan.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := planIDParam(c)
		if !ok {
			return
		}
		p, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			writePlanError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      List plans
// @Description  Returns all plans owned by the authenticated coach.
// @Tags         Plan
// @Produce      json
// @Success      200  {object}  handlers.RespPlanList
// @Router       /api/v1/plans [get]
func ApiListPlans(svc *plan.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		coachID, ok := mw.CoachProfileID(c)
		if !ok {
			c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeError, "coach profile required"))
			return
		}
		rows, err := svc.ListForCoach(c.Request.Context(), coachID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

// @Summary      Update plan
// @Description  Edits a plan the coach owns; absent fields stay untouched, present id lists replace the workout/meal sets.
// @Tags         Plan
// @Accept       json
// @Produce      json
// @Param        id path int true "Plan id"
// @Param        request body plan.UpdatePlanRequest true "Fields to update"
// @Success      200  {object}  handlers.RespPlan
// @Router       /api/v1/plans/{id} [put]
func ApiUpdatePlan(svc *plan.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		coachID, ok := mw.CoachProfileID(c)
		if !ok {
			c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeError, "coach profile required"))
			return
		}
		id, ok := planIDParam(c)
		if !ok {
			return
		}

		var req plan.UpdatePlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.Type != nil && !req.Type.Valid() {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid plan type"))
			return
		}

		p, err := svc.Update(c.Request.Context(), coachID, id, &req)
		if err != nil {
			writePlanError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      Delete plan
// @Description  Removes a plan the coach owns.
// @Tags         Plan
// @Produce      json
// @Param        id path int true "Plan id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/plans/{id} [delete]
func ApiDeletePlan(svc *plan.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		coachID, ok := mw.CoachProfileID(c)
		if !ok {
			c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeError, "coach profile required"))
			return
		}
		id, ok := planIDParam(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), coachID, id); err != nil {
			writePlanError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}
