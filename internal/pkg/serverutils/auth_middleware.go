package serverutils

import (
	"insight-copilot-be/internal/entity"

	"github.com/gofiber/fiber/v2"
)

const principalLocalKey = "principal"

// AuthMiddleware authenticates the Authorization header through the
// injected verifier and stores the Principal in the request locals. A null
// verification result never reaches the pipeline.
func AuthMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		principal, err := verifier.Verify(ctx.Get("Authorization"))
		if err != nil || principal == nil {
			return NewUnauthorizedError("Missing or invalid token")
		}

		ctx.Locals(principalLocalKey, principal)
		return ctx.Next()
	}
}

// PrincipalFromCtx returns the Principal stored by AuthMiddleware.
func PrincipalFromCtx(ctx *fiber.Ctx) *entity.Principal {
	principal, _ := ctx.Locals(principalLocalKey).(*entity.Principal)
	return principal
}
