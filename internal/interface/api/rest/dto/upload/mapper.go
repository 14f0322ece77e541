package upload

import (
	"upload-url-api/internal/domain/upload"
)

func ToDomainRequest(r Request) upload.Request {
	return upload.Request{
		FileName: r.FileName,
		FileType: r.FileType,
	}
}

func ToResponse(s upload.SignedURL) Response {
	return Response{URL: s.URL}
}
