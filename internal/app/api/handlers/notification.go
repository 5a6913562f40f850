package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/suniorfit/backend/internal/app/api/middleware"
	"github.com/suniorfit/backend/internal/app/service/notification"
	"github.com/suniorfit/backend/pkg/response"
)

// @Summary      List notifications
// @Description  Returns the authenticated user's notifications, newest first. Pass unread=true to filter.
// @Tags         Notification
// @Produce      json
// @Param        unread query bool false "Only unread notifications"
// @Success      200  {object}  handlers.RespNotificationList
// @Router       /api/v1/notifications [get]
func ApiListNotifications(svc *notification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := mw.AuthUserID(c)
		if !ok {
			c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeError, "authentication required"))
			return
		}
		unreadOnly := c.Query("unread") == "true"
		rows, err := svc.ListForUser(c.Request.Context(), userID, unreadOnly)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

// @Summary      Mark notification read
// @Description  Marks one of the authenticated user's notifications as read. Already-read notifications are a no-op.
// @Tags         Notification
// @Produce      json
// @Param        id path string true "Notification id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/notifications/{id}/read [post]
func ApiMarkNotificationRead(svc *notification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := mw.AuthUserID(c)
		if !ok {
			c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeError, "authentication required"))
			return
		}
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing notification id"))
			return
		}
		if err := svc.MarkRead(c.Request.Context(), userID, id); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}
