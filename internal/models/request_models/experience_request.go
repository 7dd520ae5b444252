package request_models

// CreateExperienceRequest is bound from the multipart form; the image comes
// in the "image" file field.
type CreateExperienceRequest struct {
	Title       string   `form:"title" binding:"required,min=3,max=120"`
	Description string   `form:"description" binding:"max=2000"`
	Location    string   `form:"location" binding:"required"`
	Categories  []string `form:"categories"`
}
