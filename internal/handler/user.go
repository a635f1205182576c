package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/admin-panel-api/internal/cache"
	"github.com/iliyamo/admin-panel-api/internal/middleware"
	"github.com/iliyamo/admin-panel-api/internal/model"
	"github.com/iliyamo/admin-panel-api/internal/repository"
	"github.com/iliyamo/admin-panel-api/internal/utils"
)

// UserHandler implements CRUD over system users.  Role assignment lives here
// too because it is a property of the user row's links, not of the role.
type UserHandler struct {
	Users      *repository.UserRepo
	Roles      *repository.RoleRepo
	PermCache  *cache.PermissionCache
	BcryptCost int
}

func NewUserHandler(users *repository.UserRepo, roles *repository.RoleRepo, permCache *cache.PermissionCache, bcryptCost int) *UserHandler {
	return &UserHandler{Users: users, Roles: roles, PermCache: permCache, BcryptCost: bcryptCost}
}

type userResp struct {
	ID          uint64     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	IsActive    bool       `json:"is_active"`
	IsSuperuser bool       `json:"is_superuser"`
	LastLoginAt *time.Time `json:"last_login_at"`
	Remark      string     `json:"remark,omitempty"`
	RoleIDs     []uint64   `json:"role_ids,omitempty"`
}

func toUserResp(u model.User) userResp {
	return userResp{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		LastLoginAt: u.LastLoginAt,
		Remark:      u.Remark,
	}
}

// List handles GET /v1/system/users.  Restricted to superusers: the user
// list exposes every operator account.
func (h *UserHandler) List(c echo.Context) error {
	current, ok := middleware.CurrentUser(c)
	if !ok || !current.IsSuperuser {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}
	page, size := pageParams(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	users, total, err := h.Users.List(ctx, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]userResp, 0, len(users))
	for _, u := range users {
		resp := toUserResp(u)
		if ids, err := h.Roles.RoleIDsForUser(ctx, u.ID); err == nil {
			resp.RoleIDs = ids
		}
		items = append(items, resp)
	}
	return c.JSON(http.StatusOK, newPageResp(items, total, page, size))
}

// Get handles GET /v1/system/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "user not found", "")
	}
	resp := toUserResp(u)
	if ids, err := h.Roles.RoleIDsForUser(ctx, u.ID); err == nil {
		resp.RoleIDs = ids
	}
	return c.JSON(http.StatusOK, resp)
}

type createUserReq struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
	Remark      string `json:"remark"`
}

// Create handles POST /v1/system/users.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id, err := h.Users.Create(ctx, model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     active,
		IsSuperuser:  req.IsSuperuser,
		Remark:       req.Remark,
	})
	if err != nil {
		return repoError(c, err, "", "username or email already exists")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

type updateUserReq struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
	Remark      *string `json:"remark"`
}

// Update handles PUT /v1/system/users/:id.  Absent fields keep their value.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "user not found", "")
	}
	if req.Email != nil {
		u.Email = strings.TrimSpace(*req.Email)
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.IsSuperuser != nil {
		u.IsSuperuser = *req.IsSuperuser
	}
	if req.Remark != nil {
		u.Remark = *req.Remark
	}
	if err := h.Users.Update(ctx, u); err != nil {
		return repoError(c, err, "user not found", "email already exists")
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := utils.HashPassword(*req.Password, h.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
		}
		if err := h.Users.UpdatePassword(ctx, id, hash); err != nil {
			return repoError(c, err, "user not found", "")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// Delete handles DELETE /v1/system/users/:id.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return repoError(c, err, "user not found", "")
	}
	h.PermCache.InvalidateUser(ctx, id)
	return c.NoContent(http.StatusNoContent)
}

type assignRolesReq struct {
	RoleIDs []uint64 `json:"role_ids"`
}

// AssignRoles handles PUT /v1/system/users/:id/roles, replacing the user's
// role set.  The cached permission set is dropped so the change takes effect
// on the next guarded request.
func (h *UserHandler) AssignRoles(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req assignRolesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, id); err != nil {
		return repoError(c, err, "user not found", "")
	}
	if err := h.Users.ReplaceRoles(ctx, id, req.RoleIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign roles failed"})
	}
	h.PermCache.InvalidateUser(ctx, id)
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}
