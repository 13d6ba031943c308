//go:generate mockgen -source=interfaces.go -destination=interfaces_mock.go -package=stepreport
package stepreport

import "context"

type (
	// Capturer writes a PNG screenshot of target to outputPath, creating
	// parent directories as needed.
	Capturer interface {
		Capture(ctx context.Context, target Target, outputPath string) error
	}

	// Observer is notified once per executed case, after classification.
	Observer interface {
		CaseFinished(result CaseResult)
	}

	// Publisher uploads a produced artifact and returns its remote location.
	Publisher interface {
		Publish(ctx context.Context, localPath string) (string, error)
	}
)
