package newtablinks

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// The authoring workflow. Every handler here is the authorization
// boundary for the store's mutators: the session check plus the CSRF
// middleware must both pass before any write runs.

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminLink(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := pathID(c)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	link, err := a.Store.GetLink(id)
	if err != nil {
		if err == ErrNotFound {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return Render(c, a.Views.AdminLinkForm(link, CsrfToken(c)))
}

// handleAdminSave creates a link (no id submitted) or updates an existing
// one. A missing URL aborts before anything is written; there is never a
// partial write.
func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	title := strings.TrimSpace(c.FormValue("title"))
	url := strings.TrimSpace(c.FormValue("url"))
	if url == "" {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=URL+is+required.")
	}

	if raw := c.FormValue("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Redirect(http.StatusSeeOther, "/admin/?msg=Invalid+link+id.")
		}
		if err := a.Store.UpdateLink(id, title, url); err != nil {
			if err == ErrNotFound {
				return c.Redirect(http.StatusSeeOther, "/admin/?msg=Link+not+found.")
			}
			return err
		}
		return a.renderAdminDashboard(c, "saved")
	}

	if _, err := a.Store.CreateLink(title, url); err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminPublish(c echo.Context) error {
	return a.handleTransition(c, a.Store.Publish, "published")
}

func (a *App) handleAdminTrash(c echo.Context) error {
	return a.handleTransition(c, a.Store.Trash, "trashed")
}

func (a *App) handleTransition(c echo.Context, op func(int64) error, msg string) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := pathID(c)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	if err := op(id); err != nil {
		if err == ErrNotFound {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return a.renderAdminDashboard(c, msg)
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := pathID(c)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	if err := a.Store.DeleteLink(id); err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) handleAdminSettings(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	name := strings.TrimSpace(c.FormValue("name"))
	logo := strings.TrimSpace(c.FormValue("logo"))
	if err := a.Store.SetInfo(name, logo); err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "settings saved")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	links, err := a.Store.ListLinks()
	if err != nil {
		return err
	}
	info, err := a.Store.GetInfo()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(links, info, msg, CsrfToken(c)))
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
