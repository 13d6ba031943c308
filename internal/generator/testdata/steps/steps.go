package steps

import (
	"github.com/denizgursoy/stepreport/pkg/feature"
	"github.com/denizgursoy/stepreport/pkg/stepreport"
)

func Register(r *feature.Runner) *feature.Runner {
	return r.RegisterStep(`^the browser is open$`, func(c *stepreport.Case) error {
		return c.ReportEvent("browser ready")
	})
}
