package post

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// ErrInput marks a blog post that could not be loaded; the pipeline must not run.
var ErrInput = errors.New("invalid input")

var validate = validator.New(validator.WithRequiredStructEnabled())

// BlogPost is the pipeline input. It is never mutated after loading.
// Empty strings are valid values for both fields.
type BlogPost struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Payload is the wire form of a BlogPost. Pointer fields let validation tell a
// missing key apart from an empty string.
type Payload struct {
	Title   *string `json:"title" validate:"required"`
	Content *string `json:"content" validate:"required"`
}

// Validate checks that title and content were both present.
func (p Payload) Validate() error {
	return validate.Struct(p)
}

// BlogPost converts a validated payload.
func (p Payload) BlogPost() BlogPost {
	var bp BlogPost
	if p.Title != nil {
		bp.Title = *p.Title
	}
	if p.Content != nil {
		bp.Content = *p.Content
	}
	return bp
}

// Decode parses a JSON object with string title and content fields.
func Decode(data []byte) (BlogPost, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return BlogPost{}, fmt.Errorf("%w: invalid JSON format: %v", ErrInput, err)
	}
	if err := p.Validate(); err != nil {
		return BlogPost{}, fmt.Errorf("%w: %v", ErrInput, err)
	}
	return p.BlogPost(), nil
}

// Load reads a blog post JSON document from path.
func Load(path string) (BlogPost, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return BlogPost{}, fmt.Errorf("%w: %s file not found", ErrInput, path)
		}
		return BlogPost{}, fmt.Errorf("%w: read %s: %v", ErrInput, path, err)
	}
	p, err := Decode(data)
	if err != nil {
		return BlogPost{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
