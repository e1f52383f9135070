package e2e

import (
	"fmt"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

// BaseSuite loads the environment configuration shared by every
// end-to-end scenario and skips the run when no service is reachable.
type BaseSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.ExtractionServiceURL == "" {
		s.T().Skip("EXTRACTION_SERVICE_URL not set, skipping e2e scenarios")
	}
}

// Header prints a colorized section marker so interleaved service logs
// stay readable.
func (s *BaseSuite) Header(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}
