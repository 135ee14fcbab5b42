package admin

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"

	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/modules/imageintake"
	"lafelle.com/app/internal/shared/apperr"
)

// maxFormBytes bounds a multipart request: one image plus text fields.
const maxFormBytes = imageintake.MaxUploadBytes + 1<<20

// maxJSONBytes leaves room for an inline base64 image in a JSON body.
const maxJSONBytes = imageintake.MaxUploadBytes*4/3 + 1<<20

func upstream(msg string, err error) *apperr.AppError {
	return apperr.FromUpstream(catalogapi.StatusOf(err), msg, err)
}

// textOrNumber accepts "12.5" and 12.5 alike.
type textOrNumber string

func (t *textOrNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = textOrNumber(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = textOrNumber(n.String())
	return nil
}

// imageError maps pipeline failures to a field error on "image".
func imageError(err error) *apperr.AppError {
	msg := imageintake.Message(err)
	if errors.Is(err, imageintake.ErrNoFile) {
		msg = "Please select an image file."
	}
	return apperr.InvalidErr(msg, map[string]string{"image": msg})
}

func openSource(fh *multipart.FileHeader) (imageintake.Source, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return imageintake.Source{}, nil, err
	}
	return imageintake.Source{Filename: fh.Filename, Size: fh.Size, Body: f}, func() { _ = f.Close() }, nil
}
