package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentstack/pmp/lib/responses"
	"github.com/rentstack/pmp/lib/service"
	"github.com/rentstack/pmp/storage"
)

// UploadController : UploadController struct
type UploadController struct {
	svc     *service.PmpService
	storage storage.Storage
}

func NewUploadController(svc *service.PmpService, store storage.Storage) *UploadController {
	return &UploadController{svc: svc, storage: store}
}

type UploadResponseBody struct {
	Url      string `json:"url"`
	Filename string `json:"filename"`
}

// Upload stores one multipart file and returns the URL it is served
// from. Property pictures and other attachments reference these URLs.
func (controller *UploadController) Upload(c echo.Context) error {
	if _, err := currentUser(c, controller.svc); err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	if controller.storage == nil {
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	defer src.Close()

	url, err := controller.storage.Save(c.Request().Context(),
		file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		c.Logger().Errorf("Failed to store upload %s: %v", file.Filename, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, &UploadResponseBody{Url: url, Filename: file.Filename})
}
