package feature

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/google/uuid"
)

// FeatureExtension is the file extension of feature files.
const FeatureExtension = ".feature"

// SearchFeatureFilesIn returns every feature file under the directories, in
// walk order.
func SearchFeatureFilesIn(directories []string) ([]string, error) {
	featureFiles := make([]string, 0)

	for _, directory := range directories {
		err := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), FeatureExtension) {
				featureFiles = append(featureFiles, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("could not search feature files in %s: %w", directory, err)
		}
	}
	return featureFiles, nil
}

// ParseGherkinFile parses one feature document.
func ParseGherkinFile(reader io.Reader) (*messages.GherkinDocument, error) {
	id := (&messages.Incrementing{}).NewId
	return gherkin.ParseGherkinDocument(reader, id)
}

// Compiled holds a parsed document and its pickles.
type Compiled struct {
	Path     string
	Document *messages.GherkinDocument
	Pickles  []*messages.Pickle
}

// CompileFile reads, parses and compiles the feature file at path.
func CompileFile(path string) (*Compiled, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file %s: %w", path, err)
	}

	document, err := ParseGherkinFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gherkin parse error in file %s: %w", path, err)
	}
	document.Uri = filepath.ToSlash(path)

	return &Compiled{
		Path:     path,
		Document: document,
		Pickles:  gherkin.Pickles(*document, document.Uri, uuid.NewString),
	}, nil
}

// examplesRow returns the header and values of the Examples row a pickle was
// expanded from, or false for plain scenarios.
func (c *Compiled) examplesRow(p *messages.Pickle) ([]string, []string, bool) {
	if len(p.AstNodeIds) < 2 || c.Document.Feature == nil {
		return nil, nil, false
	}
	rowID := p.AstNodeIds[len(p.AstNodeIds)-1]

	for _, scenario := range scenarios(c.Document.Feature) {
		for _, examples := range scenario.Examples {
			if examples.TableHeader == nil {
				continue
			}
			for _, row := range examples.TableBody {
				if row.Id == rowID {
					return cellValues(examples.TableHeader), cellValues(row), true
				}
			}
		}
	}
	return nil, nil, false
}

func scenarios(feature *messages.Feature) []*messages.Scenario {
	out := make([]*messages.Scenario, 0)
	for _, child := range feature.Children {
		if child.Scenario != nil {
			out = append(out, child.Scenario)
		}
		if child.Rule != nil {
			for _, rc := range child.Rule.Children {
				if rc.Scenario != nil {
					out = append(out, rc.Scenario)
				}
			}
		}
	}
	return out
}

func cellValues(row *messages.TableRow) []string {
	values := make([]string, 0, len(row.Cells))
	for _, cell := range row.Cells {
		values = append(values, cell.Value)
	}
	return values
}
