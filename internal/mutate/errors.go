package mutate

import (
	"fmt"

	"shoplist-cli/internal/model"
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func requireCategory(c model.CategoryID) error {
	if !model.IsCategory(c) {
		return NotFoundError{Kind: "category", ID: string(c)}
	}
	return nil
}
