package middleware

import (
	"context"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

// LicenseStatusProvider is the slice of the license workflow the gate needs.
// license.Manager satisfies it.
type LicenseStatusProvider interface {
	GetStatus(ctx context.Context) domain.LicenseStatus
}
