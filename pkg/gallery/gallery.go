// Package gallery stores saved compositions for the showcase.
//
// An [Entry] keeps what is needed to regenerate a composition (sketch, seed,
// config patch) plus its showcase metadata: title, description, an optional
// PNG thumbnail and a display order. The composition itself is not stored;
// it is regenerated on demand, which is cheap and always reproducible.
//
// Two backends implement [Store]:
//
//   - [SQLiteStore]: a single file, the default for the CLI
//   - [MongoStore]: shared storage for the HTTP server
package gallery

import (
	"context"
	"errors"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	skerrors "github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// ErrNotFound is returned when no entry has the requested ID.
var ErrNotFound = errors.New("gallery entry not found")

// DefaultLimit caps List when no limit is given.
const DefaultLimit = 100

// Entry is one saved composition.
type Entry struct {
	ID          string            `json:"id" bson:"_id"`
	Sketch      string            `json:"sketch" bson:"sketch"`
	Seed        int64             `json:"seed" bson:"seed"`
	Patch       map[string]string `json:"patch,omitempty" bson:"patch,omitempty"`
	Title       string            `json:"title" bson:"title"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	// Thumbnail is a PNG, see [Thumbnail].
	Thumbnail []byte    `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	Order     int       `json:"order" bson:"order"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// FromComposition builds an entry that regenerates c with patch.
func FromComposition(c *sketch.Composition, patch map[string]string, title string) *Entry {
	return &Entry{
		Sketch: c.Sketch,
		Seed:   c.Seed,
		Patch:  maps.Clone(patch),
		Title:  title,
	}
}

// Prepare validates e and fills in the ID, title and creation time.
func (e *Entry) Prepare() error {
	if err := skerrors.ValidateSketchName(e.Sketch); err != nil {
		return err
	}
	if e.Seed == 0 {
		return skerrors.New(skerrors.ErrCodeInvalidInput, "entry seed is required")
	}
	for k := range e.Patch {
		if err := skerrors.ValidateParamKey(k); err != nil {
			return err
		}
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	} else if _, err := uuid.Parse(e.ID); err != nil {
		return skerrors.Wrap(skerrors.ErrCodeInvalidInput, err, "entry id")
	}
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		e.Title = e.Sketch
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.CreatedAt = e.CreatedAt.Truncate(time.Millisecond)
	return nil
}

// ListOptions filters List.
type ListOptions struct {
	// Sketch restricts results to one sketch.
	Sketch string
	Limit  int
}

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

// Store persists gallery entries.
//
// List returns entries in showcase order: ascending Order, then newest
// first.
type Store interface {
	Add(ctx context.Context, e *Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	List(ctx context.Context, opts ListOptions) ([]*Entry, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
