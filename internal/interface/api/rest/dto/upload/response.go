package upload

type Response struct {
	URL string `json:"url"`
}
