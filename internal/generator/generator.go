// Package generator scaffolds step definitions for the steps of feature
// files that no RegisterStep call in the target package matches yet.
package generator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	messages "github.com/cucumber/messages/go/v21"
	"github.com/denizgursoy/stepreport/pkg/feature"
	"go.uber.org/zap"
)

// DefaultOutputFile is the file written into the target directory.
const DefaultOutputFile = "steps_scaffold.go"

// ErrOutputExists is returned when the output file exists and Force is not
// set.
var ErrOutputExists = errors.New("output file already exists")

// Options configures a scaffold run.
type Options struct {
	FeatureDirectories []string
	OutputDir          string
	OutputFile         string
	PackageName        string
	Force              bool
	Logger             *zap.Logger
}

func (o Options) withDefaults() Options {
	if len(o.FeatureDirectories) == 0 {
		o.FeatureDirectories = []string{"."}
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.OutputFile == "" {
		o.OutputFile = DefaultOutputFile
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Build collects a stub for every distinct step of the feature files that
// is not yet defined in the output directory.
func Build(opts Options) (*Output, error) {
	opts = opts.withDefaults()

	pkgName := opts.PackageName
	if pkgName == "" {
		pkg, err := DetectPackage(opts.OutputDir, opts.OutputFile)
		if err != nil {
			return nil, err
		}
		pkgName = pkg.Name
	}

	existing, err := ExistingPatterns(opts.OutputDir, opts.OutputFile)
	if err != nil {
		return nil, err
	}

	files, err := feature.SearchFeatureFilesIn(opts.FeatureDirectories)
	if err != nil {
		return nil, err
	}

	output := &Output{PackageName: pkgName, Steps: make([]*StepStub, 0)}
	names := make(map[string]int)
	for _, file := range files {
		compiled, err := feature.CompileFile(file)
		if err != nil {
			return nil, err
		}
		if compiled.Document.Feature == nil {
			continue
		}
		for _, step := range featureSteps(compiled.Document.Feature) {
			if definedBy(step.Text, existing) || output.covers(step.Text) {
				continue
			}
			stub := NewStepStub(step.Text)
			stub.HasTable = step.DataTable != nil
			stub.HasDocString = step.DocString != nil
			names[stub.FunctionName]++
			if n := names[stub.FunctionName]; n > 1 {
				stub.FunctionName = fmt.Sprintf("%s%d", stub.FunctionName, n)
			}
			output.Steps = append(output.Steps, stub)
		}
	}

	opts.Logger.Info("scaffold built",
		zap.Int("files", len(files)),
		zap.Int("existing", len(existing)),
		zap.Int("steps", len(output.Steps)))
	return output, nil
}

// Write builds the scaffold and writes it to the output file, returning its
// path. Nothing is written when every step is already defined.
func Write(opts Options) (string, int, error) {
	opts = opts.withDefaults()

	path := filepath.Join(opts.OutputDir, opts.OutputFile)
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return "", 0, fmt.Errorf("%w: %s", ErrOutputExists, path)
	}

	output, err := Build(opts)
	if err != nil {
		return "", 0, err
	}
	if len(output.Steps) == 0 {
		return "", 0, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("cannot create %s: %w", path, err)
	}
	if err := writeOutput(file, output); err != nil {
		return "", 0, fmt.Errorf("cannot write %s: %w", path, err)
	}
	return path, len(output.Steps), nil
}

// writeOutput renders output into w and closes it, returning the close
// error when rendering succeeded.
func writeOutput(w io.WriteCloser, output *Output) error {
	if err := output.Generate(w); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (o *Output) covers(text string) bool {
	for _, stub := range o.Steps {
		if stub.Matches(text) {
			return true
		}
	}
	return false
}

func definedBy(text string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// featureSteps returns the background and scenario steps of a feature,
// including those nested in rules, in document order.
func featureSteps(f *messages.Feature) []*messages.Step {
	steps := make([]*messages.Step, 0)
	for _, child := range f.Children {
		switch {
		case child.Background != nil:
			steps = append(steps, child.Background.Steps...)
		case child.Scenario != nil:
			steps = append(steps, child.Scenario.Steps...)
		case child.Rule != nil:
			for _, ruleChild := range child.Rule.Children {
				if ruleChild.Background != nil {
					steps = append(steps, ruleChild.Background.Steps...)
				}
				if ruleChild.Scenario != nil {
					steps = append(steps, ruleChild.Scenario.Steps...)
				}
			}
		}
	}
	return steps
}
