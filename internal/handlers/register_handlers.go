package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	portssvc "github.com/utilikit/gl_posting_app/internal/core/ports/services"
	"github.com/utilikit/gl_posting_app/internal/middleware"
	"github.com/utilikit/gl_posting_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Health check route stays outside the identified group
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	// Caller identity comes from the gateway in front of us; every v1 route
	// requires it.
	v1 := r.Group("/api/v1", middleware.IdentityMiddleware())

	registerBatchRoutes(v1, services.Batch, services.Ledger)
	registerLedgerRoutes(v1, services.Ledger)
	registerAccountRoutes(v1, services.Accounts)
	registerPeriodRoutes(v1, services.Period)
	registerRecurringRoutes(v1, services.Recurring)
}

// registerCustomValidators wires binding-tag validators that the stock
// validator does not know, currently only non-negative decimals.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("decimalgte0", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		return !d.IsNegative()
	})
}
