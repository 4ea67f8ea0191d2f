package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"churchcms/middleware"
	"churchcms/siteconfig"
)

func (h *Handler) readConfig(kind siteconfig.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()
		v, err := h.services.Config.Read(ctx, kind)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func (h *Handler) writeConfig(kind siteconfig.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := h.readBody(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		v, err := h.services.Config.Write(ctx, kind, body, middleware.Principal(c))
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func (h *Handler) writeConfigSection(kind siteconfig.Kind, section siteconfig.Section) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := h.readBody(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		v, err := h.services.Config.WriteSection(ctx, kind, section, body, middleware.Principal(c))
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// configKind resolves the :kind path parameter.
func (h *Handler) configKind(c *gin.Context) (siteconfig.Kind, bool) {
	kind, err := siteconfig.ParseKind(c.Param("kind"))
	if err != nil {
		h.writeError(c, err)
		return "", false
	}
	return kind, true
}

func (h *Handler) mountConfig(api *gin.RouterGroup) {
	g := api.Group("/config")
	g.GET("/:kind", func(c *gin.Context) {
		if kind, ok := h.configKind(c); ok {
			h.readConfig(kind)(c)
		}
	})
	g.PUT("/:kind", func(c *gin.Context) {
		if kind, ok := h.configKind(c); ok {
			h.writeConfig(kind)(c)
		}
	})
	g.PUT("/:kind/:section", func(c *gin.Context) {
		if kind, ok := h.configKind(c); ok {
			h.writeConfigSection(kind, siteconfig.Section(c.Param("section")))(c)
		}
	})

	// paths used by the existing site frontend
	api.GET("/settings", h.readConfig(siteconfig.Settings))
	api.PUT("/settings", h.writeConfig(siteconfig.Settings))
	api.GET("/settings/homepage", h.readConfig(siteconfig.Homepage))
	api.PUT("/settings/homepage", h.writeConfig(siteconfig.Homepage))
	api.GET("/navbar", h.readConfig(siteconfig.Navbar))
	api.PUT("/navbar", h.writeConfig(siteconfig.Navbar))
	api.GET("/footer", h.readConfig(siteconfig.Footer))
	api.PUT("/footer", h.writeConfig(siteconfig.Footer))
	// homepage display toggles, stored on settings
	api.GET("/home-settings", h.readConfig(siteconfig.Settings))
	api.PUT("/home-settings", h.writeConfigSection(siteconfig.Settings, siteconfig.Display))
}
