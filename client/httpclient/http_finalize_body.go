package httpclient

import (
	"fmt"

	"github.com/joy-dx/noncenet/utils"
)

// FinalizeBody prepares BodyBytes and ContentType once per call so every
// retry of the request re-sends identical bytes.
// Rules:
// - If BodyBytes is already set, it is sent as is.
// - Otherwise BodyBytes is built from Body+BodyType.
func (r *HTTPRequest) FinalizeBody() error {
	if r.BodyBytes != nil {
		return nil
	}

	bodyBuf, ct, err := utils.PrepareBody(r.Body, r.BodyType)
	if err != nil {
		return fmt.Errorf("prepare body: %w", err)
	}

	r.BodyBytes = bodyBuf
	// Prefer explicit ContentType if some middleware set it.
	if r.ContentType == "" {
		r.ContentType = ct
	}
	return nil
}
