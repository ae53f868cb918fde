package catalog_repo

import (
	"cuentas/internal/domain/catalogs/payment_method"
	"cuentas/internal/infrastructure/storage/postgres"
)

const paymentMethodTable = "cat_payment_methods"

// Compile-time check that PaymentMethodRepo implements payment_method.Repository.
var _ payment_method.Repository = (*PaymentMethodRepo)(nil)

// PaymentMethodRepo implements payment_method.Repository.
type PaymentMethodRepo struct {
	*BaseCatalogRepo[*payment_method.PaymentMethod]
}

// NewPaymentMethodRepo creates a new payment method repository.
func NewPaymentMethodRepo(txManager *postgres.TxManager) *PaymentMethodRepo {
	return &PaymentMethodRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			paymentMethodTable,
			postgres.ExtractDBColumns[payment_method.PaymentMethod](),
			func() *payment_method.PaymentMethod { return &payment_method.PaymentMethod{} },
		),
	}
}
