package generator

import (
	"io"

	"github.com/dave/jennifer/jen"
)

const (
	featurePackage    = "github.com/denizgursoy/stepreport/pkg/feature"
	stepreportPackage = "github.com/denizgursoy/stepreport/pkg/stepreport"
)

// Output is a scaffold ready to be rendered as Go source.
type Output struct {
	PackageName string
	Steps       []*StepStub
}

// Generate writes a file declaring RegisterSteps and one pending function
// per stub. Pending functions record a warning event with the step text.
func (o *Output) Generate(writer io.Writer) error {
	pkgName := o.PackageName
	if pkgName == "" {
		pkgName = "main"
	}
	file := jen.NewFile(pkgName)
	file.HeaderComment("Scaffolded by stepreport from feature files.")

	chain := jen.Id("r")
	for _, step := range o.Steps {
		chain = chain.Id(".").Line().Id("RegisterStep").Call(jen.Lit(step.Pattern), jen.Id(step.FunctionName))
	}

	file.Comment("RegisterSteps registers the scaffolded step definitions with r.")
	file.Func().Id("RegisterSteps").Params(
		jen.Id("r").Op("*").Qual(featurePackage, "Runner"),
	).Op("*").Qual(featurePackage, "Runner").Block(
		jen.Return(chain),
	)

	for _, step := range o.Steps {
		file.Line()
		file.Func().Id(step.FunctionName).Params(stepParams(step)...).Error().Block(
			jen.Return(jen.Id("c").Dot("ReportEvent").Call(
				jen.Lit("pending: "+step.Text),
				jen.Qual(stepreportPackage, "Warning").Call(),
			)),
		)
	}

	_, err := writer.Write([]byte(file.GoString()))

	return err
}

func stepParams(step *StepStub) []jen.Code {
	params := []jen.Code{jen.Id("c").Op("*").Qual(stepreportPackage, "Case")}
	if step.HasTable {
		params = append(params, jen.Id("table").Op("*").Qual(featurePackage, "Table"))
	}
	for _, p := range step.Params {
		params = append(params, jen.Id(p.Name).Id(p.Type))
	}
	if step.HasDocString {
		params = append(params, jen.Id("docString").String())
	}
	return params
}
