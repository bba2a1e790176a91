package core_test

import (
	"testing"

	"primenest/testutil"
)

func TestCoreHasNoTransportImports(t *testing.T) {
	testutil.AssertNoImports(t, ".", testutil.Any(
		testutil.Prefix("github.com/labstack/"),
		testutil.Prefix("primenest/internal/adapters/"),
		testutil.Prefix("primenest/internal/query"),
	), "the service is transport independent")
}
