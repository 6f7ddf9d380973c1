package github

var (
	ExpandUploadURL  = expandUploadURL
	ValidationErrors = validationErrors
)
