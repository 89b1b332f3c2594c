package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/modela/identity-gateway/internal/core/domain"
)

// PageHandler serves placeholder page descriptors for the site routes. Page
// content itself is out of scope; the descriptors show which guard let the
// request through and for whom.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

type pageResponse struct {
	Page string           `json:"page"`
	Path string           `json:"path"`
	User *domain.Identity `json:"user,omitempty"`
}

// Page renders a page descriptor. Protected paths reach it only after the
// edge guard accepted the token.
func (h *PageHandler) Page(title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, pageResponse{Page: title, Path: c.Request().URL.Path})
	}
}

// SessionPage renders a page behind the session guard, including the
// signed-in identity.
func (h *PageHandler) SessionPage(title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := CurrentIdentity(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, pageResponse{Page: title, Path: c.Request().URL.Path, User: id})
	}
}
