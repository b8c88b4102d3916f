package handler

// hoverRequest - наведение курсора. Пустой objectId снимает наведение.
type hoverRequest struct {
	ObjectID string `json:"objectId" validate:"omitempty,max=128"`
}

type interactRequest struct {
	ObjectID string `json:"objectId" validate:"omitempty,max=128"`
}

// photographRequest - снимок объекта. Image приходит в base64.
type photographRequest struct {
	ObjectID    string `json:"objectId" validate:"omitempty,max=128"`
	Image       []byte `json:"image" validate:"omitempty,max=5242880"`
	ContentType string `json:"contentType" validate:"omitempty,oneof=image/jpeg image/png image/webp"`
}

type cameraPositionRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

type lookRequest struct {
	DX float64 `json:"dx" validate:"gte=-10000,lte=10000"`
	DY float64 `json:"dy" validate:"gte=-10000,lte=10000"`
}

type selectOptionRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

type photoURLResponse struct {
	URL string `json:"url"`
}
