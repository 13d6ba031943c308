package feature

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	messages "github.com/cucumber/messages/go/v21"
	tagexpressions "github.com/cucumber/tag-expressions/go/v6"
	"github.com/denizgursoy/stepreport/pkg/stepreport"
	"go.uber.org/zap"
)

// IDTagPrefix marks the tag carrying a case id, as in @id:TC001.
const IDTagPrefix = "@id:"

// Runner turns feature files into stepreport cases. Each pickle (a
// scenario, or one Examples row of an outline) becomes one case whose body
// runs the pickle steps through the step registry.
type Runner struct {
	featureDirectories []string
	tags               string
	registry           *Registry
	stepEvents         bool
	logger             *zap.Logger
	errs               []error
}

// NewRunner creates a Runner searching the working directory by default.
func NewRunner() *Runner {
	return &Runner{
		registry: NewRegistry(),
		logger:   zap.NewNop(),
	}
}

// WithFeaturesDirectories sets the directories searched for feature files.
func (r *Runner) WithFeaturesDirectories(directories ...string) *Runner {
	r.featureDirectories = directories

	return r
}

// WithTags keeps only pickles matching the tag expression, for example
// "@smoke and not @slow".
func (r *Runner) WithTags(expression string) *Runner {
	r.tags = strings.TrimSpace(expression)

	return r
}

// WithStepEvents records every gherkin step as an event before running it.
func (r *Runner) WithStepEvents(enabled bool) *Runner {
	r.stepEvents = enabled

	return r
}

// WithLogger sets the logger.
func (r *Runner) WithLogger(logger *zap.Logger) *Runner {
	if logger != nil {
		r.logger = logger
	}

	return r
}

// RegisterStep registers a step definition. Registration errors are
// reported by Cases.
func (r *Runner) RegisterStep(pattern string, fn any) *Runner {
	if err := r.registry.RegisterStep(pattern, fn); err != nil {
		r.errs = append(r.errs, err)
	}

	return r
}

// Registry returns the step registry.
func (r *Runner) Registry() *Registry {
	return r.registry
}

// Cases compiles every feature file into cases, in file and pickle order.
func (r *Runner) Cases() ([]*stepreport.Case, error) {
	if len(r.errs) > 0 {
		return nil, errors.Join(r.errs...)
	}

	var evaluator tagexpressions.Evaluatable
	if r.tags != "" {
		parsed, err := tagexpressions.Parse(r.tags)
		if err != nil {
			return nil, fmt.Errorf("invalid tag expression %q: %w", r.tags, err)
		}
		evaluator = parsed
	}

	directories := r.featureDirectories
	if len(directories) == 0 {
		directories = []string{"."}
	}
	featureFiles, err := SearchFeatureFilesIn(directories)
	if err != nil {
		return nil, err
	}

	cases := make([]*stepreport.Case, 0)
	for _, file := range featureFiles {
		compiled, err := CompileFile(file)
		if err != nil {
			return nil, err
		}

		for i, pickle := range compiled.Pickles {
			if evaluator != nil && !evaluator.Evaluate(tagNames(pickle.Tags)) {
				continue
			}
			cases = append(cases, r.newCase(compiled, pickle, i))
		}
	}

	r.logger.Info("features compiled",
		zap.Int("files", len(featureFiles)),
		zap.Int("cases", len(cases)),
		zap.String("tags", r.tags))
	return cases, nil
}

// AddTo registers every compiled case with the suite.
func (r *Runner) AddTo(suite *stepreport.Suite) error {
	cases, err := r.Cases()
	if err != nil {
		return err
	}
	for _, c := range cases {
		if err := suite.AddCase(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) newCase(compiled *Compiled, pickle *messages.Pickle, index int) *stepreport.Case {
	header, values, outline := compiled.examplesRow(pickle)

	var opts []stepreport.CaseOption
	for i, name := range header {
		if i < len(values) {
			opts = append(opts, stepreport.WithField(name, values[i]))
		}
	}

	id := caseID(compiled.Path, pickle, index, header, values, outline)
	return stepreport.NewCase(id, pickle.Name, r.body(pickle), opts...)
}

// body runs the pickle steps in order and stops at the first error.
func (r *Runner) body(pickle *messages.Pickle) stepreport.CaseFunc {
	return func(c *stepreport.Case) error {
		for _, step := range pickle.Steps {
			if r.stepEvents {
				if err := c.ReportEvent(step.Text); err != nil {
					return err
				}
			}

			var table *Table
			var docString *string
			if step.Argument != nil {
				table = newTableFromPickle(step.Argument.DataTable)
				if step.Argument.DocString != nil {
					docString = &step.Argument.DocString.Content
				}
			}

			if err := r.registry.Invoke(c, step.Text, table, docString); err != nil {
				return err
			}
		}
		return nil
	}
}

// caseID picks the id of a pickle: an Examples column named "id", then an
// @id: tag (suffixed with the pickle position for outlines), then the feature
// file name and the pickle position.
func caseID(path string, pickle *messages.Pickle, index int, header, values []string, outline bool) string {
	for i, name := range header {
		if strings.EqualFold(name, "id") && i < len(values) && values[i] != "" {
			return values[i]
		}
	}

	for _, tag := range pickle.Tags {
		if strings.HasPrefix(tag.Name, IDTagPrefix) {
			id := strings.TrimPrefix(tag.Name, IDTagPrefix)
			if outline {
				return fmt.Sprintf("%s-%02d", id, index+1)
			}
			return id
		}
	}

	base := strings.TrimSuffix(filepath.Base(path), FeatureExtension)
	return fmt.Sprintf("%s-%03d", base, index+1)
}

func tagNames(tags []*messages.PickleTag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}
