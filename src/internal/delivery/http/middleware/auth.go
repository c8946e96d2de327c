package middleware

import (
	"strings"

	"delivery-service/src/internal/model"
	httpError "delivery-service/src/pkg/http-error"
	"delivery-service/src/pkg/token"
	"delivery-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

const authKey = "auth"

// VerifyBearer checks the HS256 bearer token and stores the caller as
// *model.Auth in the request locals.
func VerifyBearer(cfg *viper.Viper) fiber.Handler {
	secret := cfg.GetString("jwt.secret")
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "missing bearer token"
			return utils.ResponseError(errObj, ctx)
		}

		claim, err := token.Parse(raw, secret)
		if err != nil {
			errObj := httpError.NewUnauthorized()
			errObj.Message = err.Error()
			return utils.ResponseError(errObj, ctx)
		}

		role := model.Role(claim.Metadata.Role)
		if role == "" {
			role = model.RoleUser
		}
		ctx.Locals(authKey, &model.Auth{
			UserID:   claim.Metadata.UserID,
			FullName: claim.Metadata.FullName,
			Role:     role,
		})
		return ctx.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		auth := GetUser(ctx)
		if auth != nil {
			for _, role := range roles {
				if auth.Role == role {
					return ctx.Next()
				}
			}
		}
		errObj := httpError.NewForbidden()
		errObj.Message = "role not allowed for this endpoint"
		return utils.ResponseError(errObj, ctx)
	}
}

func GetUser(ctx *fiber.Ctx) *model.Auth {
	auth, _ := ctx.Locals(authKey).(*model.Auth)
	return auth
}
