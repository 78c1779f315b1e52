package web

import (
	"errors"
	"fmt"
	"mime"

	"github.com/JonMunkholm/examsheet/internal/spreadsheet"
	"github.com/go-playground/validator/v10"
)

var (
	errBadRequest      = errors.New("invalid request")
	errNoFile          = errors.New("no file attached")
	errUnsupportedType = errors.New("unsupported content type")
)

// Multipart framing allowance on top of the workbook size limit, and the
// part of a form kept in memory before spilling to temp files.
const (
	multipartOverhead = 1 << 20
	multipartMemory   = 8 << 20
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("workbook", validWorkbookType); err != nil {
		panic(fmt.Sprintf("register workbook validation: %v", err))
	}
	return v
}

func validWorkbookType(fl validator.FieldLevel) bool {
	return spreadsheet.AcceptedContentType(fl.Field().String())
}

// uploadRequest describes the file part of an upload form.
type uploadRequest struct {
	FileName    string `validate:"required,max=255"`
	ContentType string `validate:"workbook"`
}

func newUploadRequest(fileName, contentType string) uploadRequest {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}
	return uploadRequest{FileName: fileName, ContentType: contentType}
}

func (u uploadRequest) validate() error {
	err := validate.Struct(u)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.Tag() == "workbook" {
			return fmt.Errorf("%w %q", errUnsupportedType, u.ContentType)
		}
	}
	return fmt.Errorf("%w: %s", errBadRequest, verrs.Error())
}
