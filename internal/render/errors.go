package render

import (
	"errors"
	"fmt"
	"strings"
)

// ForbiddenError signals a resolved but unpublished node requested
// without the view-unpublished capability. Callers map it to 403.
type ForbiddenError struct {
	NodeID int64
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("render: node %d is unpublished", e.NodeID)
}

// RedirectError signals that the canonical location differs from the
// requested one. Callers map it to a permanent redirect.
type RedirectError struct {
	Location string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("render: redirect to %s", e.Location)
}

// MissingTemplateError reports an exhausted template suggestion chain.
// The base template is expected to always exist, so this is a fatal
// configuration error rather than a degradable block failure.
type MissingTemplateError struct {
	Suggestions []string
}

func (e *MissingTemplateError) Error() string {
	return fmt.Sprintf("render: no template found among %s", strings.Join(e.Suggestions, ", "))
}

// IsMissingTemplate reports whether err wraps a MissingTemplateError.
func IsMissingTemplate(err error) bool {
	var missing *MissingTemplateError
	return errors.As(err, &missing)
}
