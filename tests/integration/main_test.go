//go:build integration

package integration

import (
	"fmt"
	"os"
	"testing"

	"github.com/warroomhq/incident-command/internal/testutil"
)

const openAPISpecPath = "../../api/openapi/openapi.yaml"

var apiValidator *testutil.OpenAPIValidator

func TestMain(m *testing.M) {
	v, err := testutil.LoadOpenAPIValidator(openAPISpecPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load openapi validator: %v\n", err)
		os.Exit(1)
	}
	apiValidator = v

	os.Exit(m.Run())
}