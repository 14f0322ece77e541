package validator

import (
	"mime"
	"strings"

	"upload-url-api/internal/interface/api/rest/dto/upload"
)

// ValidateUploadRequest checks the shape of the request. Object key rules
// live in the service.
func ValidateUploadRequest(r upload.Request) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.FileName) == "" {
		errs["fileName"] = "fileName is required"
	}

	// fileType (required + type/subtype)
	ft := strings.TrimSpace(r.FileType)
	if ft == "" {
		errs["fileType"] = "fileType is required"
	} else if mt, _, err := mime.ParseMediaType(ft); err != nil || !strings.Contains(mt, "/") {
		errs["fileType"] = "fileType must be a MIME type (e.g., image/png)"
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}
