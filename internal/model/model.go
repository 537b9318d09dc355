// Package model defines domain entities used by services and repositories.
package model

import (
	"strconv"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Role restricts an account to one of the two platform roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool { return r == RoleStudent || r == RoleTeacher }

// Lecture is a single video unit. It is created together with its batch and
// never edited afterwards; there is no standalone lecture endpoint.
type Lecture struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Length    string    `json:"length"` // duration in seconds, stored as text
	Link      string    `json:"link"`
	IsFree    bool      `json:"isFree"`
	CreatedAt time.Time `json:"createdAt"`
}

// Batch is a published course: metadata plus the ordered lecture sequence.
// The canonical copy lives in the batches store; every user holding the batch
// carries a denormalized snapshot of this struct in User.Batches.
type Batch struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	Price       int64     `json:"price"`
	Domain      string    `json:"domain"`
	Lectures    []Lecture `json:"lectures"`
	IsPublic    bool      `json:"isPublic"`
	PublishedBy string    `json:"publishedBy"` // publisher's display name, not a reference
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// User is a platform account. Batches is a denormalized cache of full batch
// snapshots, not references; the batch service keeps it in sync on updates.
type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	PwdHash   string    `json:"-"`
	ImageURL  string    `json:"imageUrl"`
	Role      Role      `json:"role"`
	Batches   []Batch   `json:"batches"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser carries signup input. Password is plaintext here and hashed by the
// auth service before anything is stored.
type NewUser struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	ImageURL  string
	Role      Role
}

// ProfilePatch is a sparse profile update; nil fields are left unchanged.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	ImageURL  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.ImageURL == nil
}

// NewVideo is one lecture-to-be inside a batch create or update request.
type NewVideo struct {
	Title    string
	Duration *int64 // seconds; nil means unknown
	VideoURL string
	IsFree   bool
}

// LengthText renders the duration the way it is persisted: seconds as text,
// "0" when the client sent none.
func (v NewVideo) LengthText() string {
	if v.Duration == nil {
		return "0"
	}
	return strconv.FormatInt(*v.Duration, 10)
}

// NewBatch carries batch creation input. Price is a pointer so that a free
// batch (price 0) is distinguishable from a missing price.
type NewBatch struct {
	Name        string
	Description string
	Thumbnail   string
	Price       *int64
	Domain      string
	IsPublished bool
	PublishedBy string // publisher email
	Videos      []NewVideo
}

// BatchUpdate carries batch update input. Every scalar field overwrites the
// stored value unconditionally; omitted fields overwrite with their zero
// value. NewVideos are appended after the existing lectures, never merged.
type BatchUpdate struct {
	Name        string
	Description string
	Thumbnail   string
	Price       int64
	Domain      string
	IsPublished bool
	NewVideos   []NewVideo
}

// Tokens collects an issued access token and its expiry.
type Tokens struct {
	AccessToken string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
