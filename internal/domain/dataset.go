package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and id uniqueness within each mapping.
// Policy consistency (min <= optimal <= max, reorderPoint <= min) is left to
// the data owner.
func (d *Dataset) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: dataset is nil", ErrInvalidDataset)
	}

	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidDataset, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}

	seen := make(map[string]struct{}, len(d.Current))
	for _, rec := range d.Current {
		if _, dup := seen[rec.ID]; dup {
			return fmt.Errorf("%w: duplicate current stock id %q", ErrInvalidDataset, rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(d.Optimal))
	for _, rec := range d.Optimal {
		if _, dup := seen[rec.ID]; dup {
			return fmt.Errorf("%w: duplicate optimal policy id %q", ErrInvalidDataset, rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}

	return nil
}
