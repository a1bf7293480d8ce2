package ports

// Services is the set of store-backed capabilities handed to the API layer
// once the database connection is established.
type Services struct {
	Auth    AuthService
	Images  ImageService
	Uploads UploadService
}
