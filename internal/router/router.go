package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/admin-panel-api/internal/handler"
	"github.com/iliyamo/admin-panel-api/internal/middleware"
	"github.com/iliyamo/admin-panel-api/internal/service"
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Roles      *handler.RoleHandler
	Menus      *handler.MenuHandler
	Dicts      *handler.DictHandler
	News       *handler.NewsHandler
	Orders     *handler.OrderHandler
	Products   *handler.ProductHandler
	Categories *handler.CategoryHandler
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the credential-handling endpoints under /v1/auth and
// the authenticated session endpoints under /v1.  The rateLimit middleware is
// applied only to the unauthenticated group; it guards login and refresh
// against brute forcing while leaving authenticated traffic unthrottled.
func RegisterAuth(e *echo.Echo, h *Handlers, authed echo.MiddlewareFunc, rateLimit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", rateLimit)
	g.POST("/login", h.Auth.Login)
	// Refresh rotates the presented refresh token: the old one is marked used
	// and a fresh pair comes back.  Presenting an already-used token is
	// treated as theft and revokes the whole session family.
	g.POST("/refresh", h.Auth.Refresh)
	// Logout takes the refresh token in the body rather than a JWT so that a
	// client with an expired access token can still terminate its session.
	g.POST("/logout", h.Auth.Logout)

	auth := e.Group("/v1", authed)
	auth.GET("/me", h.Auth.Me)
}

// RegisterSystem registers the administrative endpoints for users, roles,
// menus and dictionaries under /v1/system.  Every route is permission-gated
// with an exact "system:<entity>:<action>" string; superusers bypass the
// check inside the middleware.
func RegisterSystem(e *echo.Echo, h *Handlers, authed echo.MiddlewareFunc, perms *service.PermissionService) {
	guard := func(p string) echo.MiddlewareFunc {
		return middleware.RequirePermission(perms, p)
	}

	sys := e.Group("/v1/system", authed)

	users := sys.Group("/users")
	users.GET("", h.Users.List, guard("system:user:list"))
	users.GET("/:id", h.Users.Get, guard("system:user:query"))
	users.POST("", h.Users.Create, guard("system:user:add"))
	users.PUT("/:id", h.Users.Update, guard("system:user:edit"))
	users.DELETE("/:id", h.Users.Delete, guard("system:user:delete"))
	users.PUT("/:id/roles", h.Users.AssignRoles, guard("system:user:role"))

	roles := sys.Group("/roles")
	roles.GET("", h.Roles.List, guard("system:role:list"))
	roles.GET("/:id", h.Roles.Get, guard("system:role:query"))
	roles.POST("", h.Roles.Create, guard("system:role:add"))
	roles.PUT("/:id", h.Roles.Update, guard("system:role:edit"))
	roles.DELETE("/:id", h.Roles.Delete, guard("system:role:delete"))
	roles.GET("/:id/menus", h.Roles.Menus, guard("system:role:query"))
	roles.PUT("/:id/menus", h.Roles.AssignMenus, guard("system:role:menu"))

	menus := sys.Group("/menus")
	// GetTree serves the caller's own navigation tree, so it needs no
	// permission beyond a valid session.
	menus.GET("/tree", h.Menus.GetTree)
	menus.GET("", h.Menus.List, guard("system:menu:list"))
	menus.GET("/:id", h.Menus.Get, guard("system:menu:query"))
	menus.POST("", h.Menus.Create, guard("system:menu:add"))
	menus.PUT("/:id", h.Menus.Update, guard("system:menu:edit"))
	menus.DELETE("/:id", h.Menus.Delete, guard("system:menu:delete"))

	dicts := sys.Group("/dicts")
	dicts.GET("", h.Dicts.List, guard("system:dict:list"))
	dicts.GET("/:id", h.Dicts.Get, guard("system:dict:query"))
	dicts.POST("", h.Dicts.Create, guard("system:dict:add"))
	dicts.PUT("/:id", h.Dicts.Update, guard("system:dict:edit"))
	dicts.DELETE("/:id", h.Dicts.Delete, guard("system:dict:delete"))
	dicts.POST("/:id/data", h.Dicts.CreateData, guard("system:dict:edit"))
	sys.DELETE("/dict-data/:id", h.Dicts.DeleteData, guard("system:dict:edit"))
}

// RegisterBusiness registers the content and commerce endpoints under /v1.
// They follow the same guard pattern as the system routes but carry their own
// permission namespaces.
func RegisterBusiness(e *echo.Echo, h *Handlers, authed echo.MiddlewareFunc, perms *service.PermissionService) {
	guard := func(p string) echo.MiddlewareFunc {
		return middleware.RequirePermission(perms, p)
	}

	v1 := e.Group("/v1", authed)

	news := v1.Group("/news")
	news.GET("", h.News.List, guard("content:news:list"))
	news.GET("/:id", h.News.Get, guard("content:news:query"))
	news.POST("", h.News.Create, guard("content:news:add"))
	news.PUT("/:id", h.News.Update, guard("content:news:edit"))
	news.PUT("/:id/publish", h.News.Publish, guard("content:news:publish"))
	news.DELETE("/:id", h.News.Delete, guard("content:news:delete"))

	orders := v1.Group("/orders")
	orders.GET("", h.Orders.List, guard("biz:order:list"))
	orders.GET("/:id", h.Orders.Get, guard("biz:order:query"))
	orders.POST("", h.Orders.Create, guard("biz:order:add"))
	orders.PUT("/:id/status", h.Orders.UpdateStatus, guard("biz:order:edit"))
	orders.DELETE("/:id", h.Orders.Delete, guard("biz:order:delete"))

	products := v1.Group("/products")
	products.GET("", h.Products.List, guard("biz:product:list"))
	products.GET("/:id", h.Products.Get, guard("biz:product:query"))
	products.POST("", h.Products.Create, guard("biz:product:add"))
	products.PUT("/:id", h.Products.Update, guard("biz:product:edit"))
	products.DELETE("/:id", h.Products.Delete, guard("biz:product:delete"))

	categories := v1.Group("/categories")
	categories.GET("", h.Categories.List, guard("biz:category:list"))
	categories.GET("/:id", h.Categories.Get, guard("biz:category:query"))
	categories.POST("", h.Categories.Create, guard("biz:category:add"))
	categories.PUT("/:id", h.Categories.Update, guard("biz:category:edit"))
	categories.DELETE("/:id", h.Categories.Delete, guard("biz:category:delete"))
}
