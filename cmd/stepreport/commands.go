package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/denizgursoy/stepreport/internal/generator"
	"github.com/denizgursoy/stepreport/pkg/logging"
	"github.com/denizgursoy/stepreport/pkg/objectstore"
	"github.com/denizgursoy/stepreport/pkg/stepreport"
)

// Separator splits list flag values.
const Separator = ","

type scaffoldParams struct {
	features    string
	outputDir   string
	outputFile  string
	packageName string
	force       bool
	configFile  string
}

func (p *scaffoldParams) Read(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("scaffold", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&p.features, "features", ".", "directories to search for feature files separated by comma")
	fs.StringVar(&p.outputDir, "out", ".", "directory of the package receiving the step definitions")
	fs.StringVar(&p.outputFile, "file", generator.DefaultOutputFile, "name of the generated file")
	fs.StringVar(&p.packageName, "package", "", "package name of the generated file, detected when empty")
	fs.BoolVar(&p.force, "force", false, "overwrite an existing generated file")
	fs.StringVar(&p.configFile, "config", "", "YAML config file")
	return fs.Parse(args)
}

func runScaffold(args []string, stdout, stderr io.Writer) error {
	var params scaffoldParams
	if err := params.Read(args, stderr); err != nil {
		return err
	}

	cfg, err := loadConfig(params.configFile)
	if err != nil {
		return err
	}
	logger, err := logging.FromConfig(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	path, count, err := generator.Write(generator.Options{
		FeatureDirectories: splitList(params.features),
		OutputDir:          params.outputDir,
		OutputFile:         params.outputFile,
		PackageName:        params.packageName,
		Force:              params.force,
		Logger:             logger,
	})
	if err != nil {
		return err
	}

	if count == 0 {
		fmt.Fprintln(stdout, "every step is already defined")
		return nil
	}
	fmt.Fprintf(stdout, "wrote %d step definition(s) to %s\n", count, path)
	return nil
}

type publishParams struct {
	objectstore.Config
	configFile string
	paths      []string
}

func (p *publishParams) Read(args []string, stderr io.Writer) error {
	env := objectstore.ConfigFromEnv()

	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&p.Endpoint, "endpoint", env.Endpoint, "storage endpoint, http:// or https://")
	fs.StringVar(&p.Bucket, "bucket", env.Bucket, "target bucket")
	fs.StringVar(&p.Prefix, "prefix", env.Prefix, "object key prefix")
	fs.StringVar(&p.Provider, "provider", env.Provider, "storage provider: minio, aws or gcs")
	fs.StringVar(&p.configFile, "config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p.AccessKey = env.AccessKey
	p.SecretKey = env.SecretKey
	p.Provider = objectstore.NormalizeProvider(p.Provider)
	p.paths = fs.Args()
	if len(p.paths) == 0 {
		return errors.New("at least one file to publish is required")
	}
	return nil
}

func runPublish(args []string, stdout, stderr io.Writer) error {
	var params publishParams
	if err := params.Read(args, stderr); err != nil {
		return err
	}

	cfg, err := loadConfig(params.configFile)
	if err != nil {
		return err
	}
	logger, err := logging.FromConfig(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	publisher, err := objectstore.NewPublisher(params.Config, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, path := range params.paths {
		location, err := publisher.Publish(ctx, path)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, location)
	}
	return nil
}

// loadConfig merges the environment with the optional config file, the file
// taking precedence.
func loadConfig(path string) (*stepreport.Config, error) {
	envCfg, err := stepreport.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return stepreport.MergeConfigs(envCfg), nil
	}

	fileCfg, err := stepreport.LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	return stepreport.MergeConfigs(envCfg, fileCfg), nil
}

func splitList(value string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(value, Separator) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
