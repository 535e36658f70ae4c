package progress

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/product-identification/pid-deploy/internal/cli/render"
	"github.com/product-identification/pid-deploy/internal/usecase"
)

// DeployProgress prints the deployer line to stdout and drives the spinner on stderr
type DeployProgress struct {
	renderer    *render.DeployRenderer
	spinner     *SpinnerProgressReporter
	interactive bool
}

// NewDeployProgress creates a progress sink for the deploy command. The
// spinner is only animated when interactive is set.
func NewDeployProgress(renderer *render.DeployRenderer, spinner *SpinnerProgressReporter, interactive bool) *DeployProgress {
	return &DeployProgress{
		renderer:    renderer,
		spinner:     spinner,
		interactive: interactive,
	}
}

// OnProgress handles progress events
func (p *DeployProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage == usecase.StageSignerSelected {
		if address, ok := event.Metadata.(common.Address); ok {
			p.spinner.Stop()
			p.renderer.PrintDeployer(address)
		} else {
			p.spinner.Warn("signer event without an address")
		}
	}

	if !p.interactive {
		return
	}
	p.spinner.OnProgress(ctx, event)
}

// Info forwards info messages to the spinner
func (p *DeployProgress) Info(message string) {
	p.spinner.Info(message)
}

// Error forwards error messages to the spinner
func (p *DeployProgress) Error(message string) {
	p.spinner.Error(message)
}

// Ensure DeployProgress implements ProgressSink
var _ usecase.ProgressSink = (*DeployProgress)(nil)
