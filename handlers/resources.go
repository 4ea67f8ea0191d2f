package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"churchcms/access"
	"churchcms/middleware"
)

// crudService is the operation set shared by every collection service.
type crudService[T any] interface {
	List(ctx context.Context, p *access.Principal, params url.Values) ([]T, error)
	Get(ctx context.Context, p *access.Principal, id string) (*T, error)
	Create(ctx context.Context, p *access.Principal, body []byte) (*T, error)
	Update(ctx context.Context, p *access.Principal, id string, body []byte) (*T, error)
	Delete(ctx context.Context, p *access.Principal, id string) error
}

// mountResource registers list/get/create/update/delete for svc under g.
// Updates take the id from the path or from the body ("_id" or "id"); deletes
// from the path or the "id" query parameter. onCreate runs before the create handler.
func mountResource[T any](h *Handler, g gin.IRouter, svc crudService[T], onCreate ...gin.HandlerFunc) {
	g.GET("", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()
		list, err := svc.List(ctx, middleware.Principal(c), c.Request.URL.Query())
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.GET("/:id", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()
		v, err := svc.Get(ctx, middleware.Principal(c), c.Param("id"))
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	})

	create := func(c *gin.Context) {
		body, ok := h.readBody(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		v, err := svc.Create(ctx, middleware.Principal(c), body)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, v)
	}
	g.POST("", append(onCreate, create)...)

	update := func(c *gin.Context) {
		body, ok := h.readBody(c)
		if !ok {
			return
		}
		id := c.Param("id")
		if id == "" {
			id = idFromBody(body)
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		v, err := svc.Update(ctx, middleware.Principal(c), id, body)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
	g.PUT("", update)
	g.PUT("/:id", update)

	remove := func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			id = c.Query("id")
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		if err := svc.Delete(ctx, middleware.Principal(c), id); err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
	}
	g.DELETE("", remove)
	g.DELETE("/:id", remove)
}

func (h *Handler) readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		h.badRequest(c, "unreadable request body", err.Error())
		return nil, false
	}
	return body, true
}

// idFromBody returns the "_id" or "id" field of a JSON object body, or "".
func idFromBody(body []byte) string {
	var ids struct {
		ID    string `json:"_id"`
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(body, &ids); err != nil {
		return ""
	}
	if ids.ID != "" {
		return ids.ID
	}
	return ids.AltID
}
