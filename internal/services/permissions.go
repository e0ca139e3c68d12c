package services

import "github.com/gofiber/fiber/v2"

// Capability names consulted before upload and result reads. Issuing and
// validating the tokens that grant them belongs to the auth service, not
// here.
const (
	PermissionDocumentEdit = "document.edit"
	PermissionDocumentView = "document.view"
)

// PermissionChecker is the boundary to the authorization system: a yes/no
// capability check consulted before any work begins.
type PermissionChecker interface {
	HasPermission(c *fiber.Ctx, permission string) bool
}

type staticPermissionChecker struct {
	granted map[string]bool
}

// NewStaticPermissionChecker grants a fixed set of capabilities to every
// request. Used for single-tenant deployments and tests; real deployments
// inject a checker backed by the auth service.
func NewStaticPermissionChecker(permissions ...string) PermissionChecker {
	granted := make(map[string]bool, len(permissions))
	for _, permission := range permissions {
		granted[permission] = true
	}

	return &staticPermissionChecker{granted: granted}
}

func (s *staticPermissionChecker) HasPermission(_ *fiber.Ctx, permission string) bool {
	return s.granted[permission]
}
