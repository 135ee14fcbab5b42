package admin

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"lafelle.com/app/internal/http/middleware"
	"lafelle.com/app/internal/modules/imageintake"
	"lafelle.com/app/pkg/view"
)

// ImagesHandler compresses an uploaded image and returns its preview, so
// the admin UI can show the result before the product is saved.
type ImagesHandler struct {
	Log *slog.Logger
}

func NewImagesHandler(l *slog.Logger) *ImagesHandler {
	return &ImagesHandler{Log: l}
}

func (h *ImagesHandler) Upload(c *gin.Context) {
	fh, err := formFile(c, "image")
	if err != nil {
		middleware.Fail(c, imageError(err))
		return
	}
	src, done, err := openSource(fh)
	if err != nil {
		middleware.Fail(c, imageError(err))
		return
	}
	defer done()

	ctx := c.Request.Context()
	var in imageintake.Intake
	err = in.Accept(src)
	if err == nil {
		h.Log.DebugContext(ctx, "image_accepted",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("phase", string(in.Phase)),
			slog.Int64("size", fh.Size),
		)
		err = in.Process(ctx)
	}
	if err != nil {
		h.Log.WarnContext(ctx, "image_rejected",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("filename", fh.Filename),
			slog.Int64("size", fh.Size),
			slog.Any("err", err),
		)
		middleware.Fail(c, imageError(err))
		return
	}
	c.JSON(http.StatusOK, view.NewImagePreview(&in, false))
}

// formFile reads one multipart file with the request body capped. A body
// over the cap reports ErrTooLarge; a missing part reports ErrNoFile.
func formFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBytes)
	fh, err := c.FormFile(field)
	if err == nil {
		return fh, nil
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return nil, imageintake.ErrTooLarge
	}
	return nil, imageintake.ErrNoFile
}
