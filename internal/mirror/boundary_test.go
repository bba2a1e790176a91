package mirror_test

import (
	"testing"

	"primenest/testutil"
)

func TestMirrorIsDriverAgnostic(t *testing.T) {
	testutil.AssertNoImports(t, ".", testutil.StorageDriver, "the mirror talks to kv.Store only")
}
