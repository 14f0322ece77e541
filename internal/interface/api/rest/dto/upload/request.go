package upload

type Request struct {
	FileName string `json:"fileName" form:"fileName"`
	FileType string `json:"fileType" form:"fileType"`
}
