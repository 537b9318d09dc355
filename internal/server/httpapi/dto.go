package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/learnbatch/learnbatch/internal/errs"
	"github.com/learnbatch/learnbatch/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeValid decodes a JSON body into dst and runs struct validation.
// Both failure modes come back as ErrValidation.
func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", errs.ErrValidation)
	}
	if err := validate.Struct(dst); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", errs.ErrValidation, verrs[0])
		}
		return err
	}
	return nil
}

type saveUserRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=student teacher"`
	ImageURL  string `json:"imageUrl"`
}

func (q saveUserRequest) toModel() model.NewUser {
	return model.NewUser{
		FirstName: q.FirstName,
		LastName:  q.LastName,
		Email:     q.Email,
		Password:  q.Password,
		ImageURL:  q.ImageURL,
		Role:      model.Role(q.Role),
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	ImageURL  *string `json:"imageUrl"`
}

func (q updateUserRequest) toModel() model.ProfilePatch {
	return model.ProfilePatch{FirstName: q.FirstName, LastName: q.LastName, ImageURL: q.ImageURL}
}

type videoRequest struct {
	Title    string `json:"title" validate:"required"`
	Duration *int64 `json:"duration"`
	VideoURL string `json:"videoUrl" validate:"required"`
	IsFree   bool   `json:"isFree"`
}

func toNewVideos(vs []videoRequest) []model.NewVideo {
	out := make([]model.NewVideo, 0, len(vs))
	for _, v := range vs {
		out = append(out, model.NewVideo{Title: v.Title, Duration: v.Duration, VideoURL: v.VideoURL, IsFree: v.IsFree})
	}
	return out
}

type createBatchRequest struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Thumbnail   string         `json:"thumbnail"`
	Price       *int64         `json:"price" validate:"required"`
	Domain      string         `json:"domain" validate:"required"`
	IsPublished bool           `json:"isPublished"`
	PublishedBy string         `json:"publishedBy" validate:"required,email"`
	Videos      []videoRequest `json:"videos" validate:"required,min=1,dive"`
}

func (q createBatchRequest) toModel() model.NewBatch {
	return model.NewBatch{
		Name:        q.Name,
		Description: q.Description,
		Thumbnail:   q.Thumbnail,
		Price:       q.Price,
		Domain:      q.Domain,
		IsPublished: q.IsPublished,
		PublishedBy: q.PublishedBy,
		Videos:      toNewVideos(q.Videos),
	}
}

type updateBatchRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Thumbnail   string         `json:"thumbnail"`
	Price       int64          `json:"price"`
	Domain      string         `json:"domain"`
	IsPublished bool           `json:"isPublished"`
	NewVideos   []videoRequest `json:"newVideos" validate:"dive"`
}

func (q updateBatchRequest) toModel() model.BatchUpdate {
	return model.BatchUpdate{
		Name:        q.Name,
		Description: q.Description,
		Thumbnail:   q.Thumbnail,
		Price:       q.Price,
		Domain:      q.Domain,
		IsPublished: q.IsPublished,
		NewVideos:   toNewVideos(q.NewVideos),
	}
}
