package newtablinks

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// The read API: two GET routes consumed by the browser extension. Both
// are pure reads against the store; neither touches a cache or mutates
// anything.

// APIError is the JSON error object the read API returns on failure,
// e.g. {"code":"no_links","message":"No links found"}.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type screenshotPayload struct {
	Full      string `json:"full"`
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Thumbnail string `json:"thumbnail"`
}

type linkPayload struct {
	ID         int64             `json:"id"`
	Title      string            `json:"title"`
	URL        string            `json:"url"`
	Screenshot screenshotPayload `json:"screenshot"`
}

type infoPayload struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// handleLinks serves GET /links: all published links, or a single one
// when the numeric id parameter is present. Link ids are the native store
// ids; they are stable across polls.
func (a *App) handleLinks(c echo.Context) error {
	if raw := c.QueryParam("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "id must be numeric")
		}
		link, err := a.Store.GetPublished(id)
		if err == ErrNotFound {
			return noLinks(c)
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, []linkPayload{serializeLink(link)})
	}

	links, err := a.Store.ListPublished()
	if err != nil {
		return err
	}
	if len(links) == 0 {
		return noLinks(c)
	}
	payload := make([]linkPayload, 0, len(links))
	for _, l := range links {
		payload = append(payload, serializeLink(l))
	}
	return c.JSON(http.StatusOK, payload)
}

// handleInfo serves GET /info. The singleton always exists (defaults are
// materialized on first read), so this route never fails.
func (a *App) handleInfo(c echo.Context) error {
	info, err := a.Store.GetInfo()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, infoPayload{
		Name: EscapeText(info.Name),
		Logo: CleanURL(info.Logo),
	})
}

func noLinks(c echo.Context) error {
	return c.JSON(http.StatusNotFound, APIError{Code: "no_links", Message: "No links found"})
}

func serializeLink(l Link) linkPayload {
	return linkPayload{
		ID:    l.ID,
		Title: EscapeText(l.Title),
		URL:   CleanURL(l.URL),
		Screenshot: screenshotPayload{
			Full:      CleanURL(l.Screenshot.Full),
			Large:     CleanURL(l.Screenshot.Large),
			Medium:    CleanURL(l.Screenshot.Medium),
			Thumbnail: CleanURL(l.Screenshot.Thumbnail),
		},
	}
}
