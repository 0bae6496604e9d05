package apitests

import (
	"context"

	"github.com/erp-core/e2e-api-tests/apiclient"
	"github.com/erp-core/e2e-api-tests/framework"
)

// RunTestSuite runs every scenario against the service that client points to.
func RunTestSuite(
	ctx context.Context,
	client *apiclient.Client,
	opts framework.RunOptions,
) framework.Results {
	return framework.Run(ctx, opts, func(c *framework.Context) {
		t := newTestScope(c, client)

		t.Run("index", DoIndexTests)
		t.Run("stock movement", DoStockMovementTests)
	})
}
